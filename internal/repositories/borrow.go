package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
)

// BorrowReadRepository handles borrow ledger read operations. Reads
// participate in the request transaction when one is present so the
// duplicate-borrow check and the insert observe the same snapshot.
type BorrowReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewBorrowReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *BorrowReadRepository {
	return &BorrowReadRepository{db: db, txGetter: txGetter}
}

func (r *BorrowReadRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

func (r *BorrowReadRepository) inTx(ctx context.Context) bool {
	return r.txGetter != nil && r.txGetter(ctx) != nil
}

// GetByID returns the borrow record with the given id, or nil if absent.
// Inside a request transaction the row is locked, so two concurrent
// status transitions on the same record serialize: the second reads the
// state the first committed instead of a stale one.
func (r *BorrowReadRepository) GetByID(ctx context.Context, id int64) (*models.BorrowDB, error) {
	query := `
		SELECT id, user_id, book_id, borrow_date, return_date, borrow_status, notes
		FROM borrows
		WHERE id = $1
	`
	if r.inTx(ctx) {
		query += " FOR UPDATE"
	}

	var record models.BorrowDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &record, query, id)

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

	return &record, nil
}

// HasActiveBorrow reports whether the user already has a requested or
// borrowed record for the book.
func (r *BorrowReadRepository) HasActiveBorrow(ctx context.Context, userID, bookID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM borrows
			WHERE user_id = $1
			  AND book_id = $2
			  AND borrow_status IN ($3, $4)
		)
	`
	args := []any{userID, bookID, models.BorrowStatusRequested, models.BorrowStatusBorrowed}

	var exists bool
	err := sqlx.GetContext(ctx, r.executor(ctx), &exists, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", exists,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return exists, nil
}

// ListByUser returns a user's borrow records joined with book display
// fields, most recent first.
func (r *BorrowReadRepository) ListByUser(ctx context.Context, userID int64) ([]models.BorrowWithBook, error) {
	const query = `
		SELECT br.id, br.user_id, br.book_id, br.borrow_date, br.return_date, br.borrow_status, br.notes,
		       b.title, b.author
		FROM borrows br
		JOIN books b ON br.book_id = b.id
		WHERE br.user_id = $1
		ORDER BY br.borrow_date DESC
	`

	var records []models.BorrowWithBook
	err := r.db.SelectContext(ctx, &records, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result_count", len(records),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return records, nil
}

// ListAll returns all borrow records joined with book and user display
// fields, optionally filtered by status, most recent first.
func (r *BorrowReadRepository) ListAll(ctx context.Context, status *string) ([]models.BorrowDetail, error) {
	const query = `
		SELECT br.id, br.user_id, br.book_id, br.borrow_date, br.return_date, br.borrow_status, br.notes,
		       b.title, b.author, u.username, u.email
		FROM borrows br
		JOIN books b ON br.book_id = b.id
		JOIN users u ON br.user_id = u.id
		WHERE ($1::VARCHAR IS NULL OR br.borrow_status = $1)
		ORDER BY br.borrow_date DESC
	`

	var records []models.BorrowDetail
	err := r.db.SelectContext(ctx, &records, query, status)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{status},
		"result_count", len(records),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return records, nil
}

// BorrowWriteRepository handles borrow ledger write operations
type BorrowWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewBorrowWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *BorrowWriteRepository {
	return &BorrowWriteRepository{db: db, txGetter: txGetter}
}

func (r *BorrowWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new borrow record and returns its id.
func (r *BorrowWriteRepository) Save(ctx context.Context, userID, bookID int64, status string, notes *string) (int64, error) {
	const query = `
		INSERT INTO borrows (user_id, book_id, borrow_date, borrow_status, notes)
		VALUES ($1, $2, NOW(), $3, $4)
		RETURNING id
	`
	args := []any{userID, bookID, status, notes}

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

// UpdateStatus writes a new status. Return date and notes are only
// touched when non-nil. Returns false if no row with the given id exists.
func (r *BorrowWriteRepository) UpdateStatus(ctx context.Context, id int64, status string, returnDate *time.Time, notes *string) (bool, error) {
	const query = `
		UPDATE borrows
		SET borrow_status = $1,
		    return_date = COALESCE($2, return_date),
		    notes = COALESCE($3, notes)
		WHERE id = $4
	`
	args := []any{status, returnDate, notes, id}

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
