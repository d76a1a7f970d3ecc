package services

import (
	"context"
	"errors"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
)

var (
	// ErrBookNotFound is returned when a catalog or ledger operation
	// targets a book id that does not exist.
	ErrBookNotFound = errors.New("book not found")
)

// BookReader defines read operations over the catalog.
type BookReader interface {
	List(ctx context.Context, title, author *string) ([]models.BookDB, error)
	GetByID(ctx context.Context, id int64) (*models.BookDB, error)
}

// BookWriter defines write operations over the catalog.
type BookWriter interface {
	Save(ctx context.Context, title, author, description string, stock int, coverImageURL *string, price float64) (int64, error)
	Update(ctx context.Context, id int64, title, author, description string, stock int, coverImageURL *string, price float64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// BookCache caches single-book lookups.
type BookCache interface {
	Get(ctx context.Context, id int64) (*models.BookDB, error)
	Set(ctx context.Context, book *models.BookDB) error
	Delete(ctx context.Context, id int64) error
}

// CatalogService handles book CRUD and filtered listing.
type CatalogService struct {
	reader BookReader
	writer BookWriter
	cache  BookCache
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(reader BookReader, writer BookWriter, cache BookCache) *CatalogService {
	return &CatalogService{
		reader: reader,
		writer: writer,
		cache:  cache,
	}
}

// invalidate drops a cached book; failures are logged only.
func (s *CatalogService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		logger.Log.Errorw("failed to invalidate book cache", "bookID", id, "error", err)
	}
}

// List returns books matching the optional title and author filters.
func (s *CatalogService) List(ctx context.Context, title, author *string) ([]models.BookDB, error) {
	books, err := s.reader.List(ctx, title, author)
	if err != nil {
		logger.Log.Errorw("failed to list books", "error", err)
		return nil, err
	}
	return books, nil
}

// Get returns a single book, consulting the cache first.
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.BookDB, error) {
	if s.cache != nil {
		if book, err := s.cache.Get(ctx, id); err == nil {
			return book, nil
		}
	}

	book, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get book", "bookID", id, "error", err)
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, book); err != nil {
			logger.Log.Errorw("failed to cache book", "bookID", id, "error", err)
		}
	}

	return book, nil
}

// Create adds a new book to the catalog and returns its id.
func (s *CatalogService) Create(ctx context.Context, title, author, description string, stock int, coverImageURL *string, price float64) (int64, error) {
	id, err := s.writer.Save(ctx, title, author, description, stock, coverImageURL, price)
	if err != nil {
		logger.Log.Errorw("failed to create book", "title", title, "error", err)
		return 0, err
	}
	return id, nil
}

// Update replaces the mutable fields of a book.
func (s *CatalogService) Update(ctx context.Context, id int64, title, author, description string, stock int, coverImageURL *string, price float64) error {
	found, err := s.writer.Update(ctx, id, title, author, description, stock, coverImageURL, price)
	if err != nil {
		logger.Log.Errorw("failed to update book", "bookID", id, "error", err)
		return err
	}
	if !found {
		return ErrBookNotFound
	}

	s.invalidate(ctx, id)
	return nil
}

// Delete removes a book from the catalog.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	found, err := s.writer.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete book", "bookID", id, "error", err)
		return err
	}
	if !found {
		return ErrBookNotFound
	}

	s.invalidate(ctx, id)
	return nil
}
