package handlers

// BookRequest represents the JSON body for creating or updating a book.
// Title, author, description and stock must all be present.
// swagger:model BookRequest
type BookRequest struct {
	// Title
	// required: true
	Title *string `json:"title"`

	// Author
	// required: true
	Author *string `json:"author"`

	// Description
	// required: true
	Description *string `json:"description"`

	// Copies in stock
	// required: true
	Stock *int `json:"stock"`

	// Optional cover image reference
	CoverImageURL *string `json:"cover_image_url"`

	// Price, defaults to 0
	Price *float64 `json:"price"`
}

// missingField returns the name of the first absent required field, or "".
func (req *BookRequest) missingField() string {
	switch {
	case req.Title == nil:
		return "title"
	case req.Author == nil:
		return "author"
	case req.Description == nil:
		return "description"
	case req.Stock == nil:
		return "stock"
	}
	return ""
}

func (req *BookRequest) price() float64 {
	if req.Price == nil {
		return 0
	}
	return *req.Price
}
