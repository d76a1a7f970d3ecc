package models

import "time"

// Borrow statuses. Transitions only move forward:
// requested -> borrowed -> returned.
const (
	BorrowStatusRequested = "requested"
	BorrowStatusBorrowed  = "borrowed"
	BorrowStatusReturned  = "returned"
)

// BorrowDB represents a borrow record in the database
type BorrowDB struct {
	ID           int64      `json:"id" db:"id"`                       // Primary key
	UserID       int64      `json:"user_id" db:"user_id"`             // Borrowing user
	BookID       int64      `json:"book_id" db:"book_id"`             // Borrowed book
	BorrowDate   time.Time  `json:"borrow_date" db:"borrow_date"`     // When the request was created
	ReturnDate   *time.Time `json:"return_date" db:"return_date"`     // Set on transition to returned
	BorrowStatus string     `json:"borrow_status" db:"borrow_status"` // requested, borrowed or returned
	Notes        *string    `json:"notes" db:"notes"`                 // Optional free-text notes
}

// BorrowWithBook is a borrow record joined with book display fields,
// returned by the per-user history listing.
type BorrowWithBook struct {
	BorrowDB
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
}

// BorrowDetail is a borrow record joined with both book and user
// display fields, returned by the administrative listing.
type BorrowDetail struct {
	BorrowDB
	Title    string `json:"title" db:"title"`
	Author   string `json:"author" db:"author"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
}
