package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
)

const bookColumns = `id, title, author, description, stock, cover_image_url, price, created_at, updated_at`

// BookReadRepository handles catalog read operations
type BookReadRepository struct {
	db *sqlx.DB
}

func NewBookReadRepository(db *sqlx.DB) *BookReadRepository {
	return &BookReadRepository{db: db}
}

// List returns books matching the optional case-insensitive title and
// author substring filters, newest first.
func (r *BookReadRepository) List(ctx context.Context, title, author *string) ([]models.BookDB, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE ($1::VARCHAR IS NULL OR title ILIKE '%' || $1 || '%')
		  AND ($2::VARCHAR IS NULL OR author ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
	`

	var books []models.BookDB
	err := r.db.SelectContext(ctx, &books, query, title, author)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{title, author},
		"result_count", len(books),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return books, nil
}

// GetByID returns the book with the given id, or nil if absent.
func (r *BookReadRepository) GetByID(ctx context.Context, id int64) (*models.BookDB, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1
	`

	var book models.BookDB
	err := r.db.GetContext(ctx, &book, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// BookWriteRepository handles catalog write operations
type BookWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewBookWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *BookWriteRepository {
	return &BookWriteRepository{db: db, txGetter: txGetter}
}

func (r *BookWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new book and returns its id.
func (r *BookWriteRepository) Save(ctx context.Context, title, author, description string, stock int, coverImageURL *string, price float64) (int64, error) {
	const query = `
		INSERT INTO books (title, author, description, stock, cover_image_url, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`
	args := []any{title, author, description, stock, coverImageURL, price}

	var id int64
	err := sqlx.GetContext(ctx, r.executor(ctx), &id, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", id,
		"error", err,
	)

	if err != nil {
		return 0, err
	}

	return id, nil
}

// Update replaces the mutable fields of a book. Returns false if no
// row with the given id exists.
func (r *BookWriteRepository) Update(ctx context.Context, id int64, title, author, description string, stock int, coverImageURL *string, price float64) (bool, error) {
	const query = `
		UPDATE books
		SET title = $1, author = $2, description = $3, stock = $4,
		    cover_image_url = $5, price = $6, updated_at = NOW()
		WHERE id = $7
	`
	args := []any{title, author, description, stock, coverImageURL, price, id}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// Delete removes a book. Returns false if no row with the given id exists.
func (r *BookWriteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM books WHERE id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// ReserveStock decrements the stock of a book by one, conditionally on
// stock still being positive. Returns false when no copy was available,
// so stock can never go negative regardless of interleaving.
func (r *BookWriteRepository) ReserveStock(ctx context.Context, id int64) (bool, error) {
	const query = `
		UPDATE books
		SET stock = stock - 1, updated_at = NOW()
		WHERE id = $1 AND stock > 0
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// ReleaseStock increments the stock of a book by one.
func (r *BookWriteRepository) ReleaseStock(ctx context.Context, id int64) error {
	const query = `
		UPDATE books
		SET stock = stock + 1, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	return err
}
