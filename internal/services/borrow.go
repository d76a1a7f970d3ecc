package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/segmentio/kafka-go"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
)

// Error variables
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyBorrowed   = errors.New("already borrowed")
	ErrRecordNotFound    = errors.New("borrow record not found")
	ErrNotRecordOwner    = errors.New("not the owner of the borrow record")
	ErrNotBorrowed       = errors.New("book is not currently borrowed")
	ErrInvalidStatus     = errors.New("invalid borrow status")
	ErrUserNotFound      = errors.New("user does not exist")
)

// BorrowReader defines read operations over the borrow ledger.
type BorrowReader interface {
	GetByID(ctx context.Context, id int64) (*models.BorrowDB, error)
	HasActiveBorrow(ctx context.Context, userID, bookID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]models.BorrowWithBook, error)
	ListAll(ctx context.Context, status *string) ([]models.BorrowDetail, error)
}

// BorrowWriter defines write operations over the borrow ledger.
type BorrowWriter interface {
	Save(ctx context.Context, userID, bookID int64, status string, notes *string) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string, returnDate *time.Time, notes *string) (bool, error)
}

// BookStockWriter adjusts catalog stock for ledger transitions.
type BookStockWriter interface {
	ReserveStock(ctx context.Context, id int64) (bool, error)
	ReleaseStock(ctx context.Context, id int64) error
}

// UserGetter looks up users for the per-user history listing.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BorrowService implements the borrow-request lifecycle:
// requested -> borrowed -> returned, with stock side effects.
type BorrowService struct {
	books       BookReader
	stock       BookStockWriter
	reader      BorrowReader
	writer      BorrowWriter
	users       UserGetter
	cache       BookCache
	kafkaWriter KafkaWriter
}

// NewBorrowService creates a new BorrowService.
func NewBorrowService(
	books BookReader,
	stock BookStockWriter,
	reader BorrowReader,
	writer BorrowWriter,
	users UserGetter,
	cache BookCache,
	kafkaWriter KafkaWriter,
) *BorrowService {
	return &BorrowService{
		books:       books,
		stock:       stock,
		reader:      reader,
		writer:      writer,
		users:       users,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func validBorrowStatus(status string) bool {
	switch status {
	case models.BorrowStatusRequested, models.BorrowStatusBorrowed, models.BorrowStatusReturned:
		return true
	}
	return false
}

// publishEvent publishes a borrow lifecycle event to Kafka.
func (s *BorrowService) publishEvent(ctx context.Context, recordID, userID, bookID int64, status string) {
	if s.kafkaWriter == nil {
		return
	}

	event := models.BorrowEvent{
		EventID:      uuid.NewString(),
		RecordID:     recordID,
		UserID:       userID,
		BookID:       bookID,
		BorrowStatus: status,
		Timestamp:    time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal borrow event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish borrow event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("borrow event published", "event_id", event.EventID, "status", status)
	}
}

// invalidateBook drops the cached book after a stock adjustment.
func (s *BorrowService) invalidateBook(ctx context.Context, bookID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, bookID); err != nil {
		logger.Log.Errorw("failed to invalidate book cache", "bookID", bookID, "error", err)
	}
}

// CreateRequest opens a new borrow record in requested state. Stock is
// only checked here; it is reserved at the transition to borrowed.
func (s *BorrowService) CreateRequest(ctx context.Context, userID, bookID int64, notes *string) (int64, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		logger.Log.Errorw("failed to get book for borrow request", "bookID", bookID, "error", err)
		return 0, err
	}
	if book == nil {
		return 0, ErrBookNotFound
	}
	if book.Stock <= 0 {
		return 0, ErrInsufficientStock
	}

	active, err := s.reader.HasActiveBorrow(ctx, userID, bookID)
	if err != nil {
		logger.Log.Errorw("failed to check active borrow", "userID", userID, "bookID", bookID, "error", err)
		return 0, err
	}
	if active {
		return 0, ErrAlreadyBorrowed
	}

	id, err := s.writer.Save(ctx, userID, bookID, models.BorrowStatusRequested, notes)
	if err != nil {
		// A concurrent request for the same pair can slip past the
		// pre-check; the partial unique index on active records
		// rejects the second insert.
		if isUniqueViolation(err) {
			return 0, ErrAlreadyBorrowed
		}
		logger.Log.Errorw("failed to save borrow request", "userID", userID, "bookID", bookID, "error", err)
		return 0, err
	}

	s.publishEvent(ctx, id, userID, bookID, models.BorrowStatusRequested)
	return id, nil
}

// SetStatus performs the administrative status transition. Only the
// requested->borrowed and borrowed->returned transitions carry stock
// side effects; any other recognized status is written as-is.
func (s *BorrowService) SetStatus(ctx context.Context, recordID int64, status string, notes *string) error {
	if !validBorrowStatus(status) {
		return ErrInvalidStatus
	}

	record, err := s.reader.GetByID(ctx, recordID)
	if err != nil {
		logger.Log.Errorw("failed to get borrow record", "recordID", recordID, "error", err)
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}

	var returnDate *time.Time

	switch {
	case status == models.BorrowStatusBorrowed && record.BorrowStatus == models.BorrowStatusRequested:
		reserved, err := s.stock.ReserveStock(ctx, record.BookID)
		if err != nil {
			logger.Log.Errorw("failed to reserve stock", "bookID", record.BookID, "error", err)
			return err
		}
		if !reserved {
			return ErrInsufficientStock
		}
		s.invalidateBook(ctx, record.BookID)

	case status == models.BorrowStatusReturned && record.BorrowStatus == models.BorrowStatusBorrowed:
		if err := s.stock.ReleaseStock(ctx, record.BookID); err != nil {
			logger.Log.Errorw("failed to release stock", "bookID", record.BookID, "error", err)
			return err
		}
		now := time.Now()
		returnDate = &now
		s.invalidateBook(ctx, record.BookID)
	}

	found, err := s.writer.UpdateStatus(ctx, recordID, status, returnDate, notes)
	if err != nil {
		logger.Log.Errorw("failed to update borrow status", "recordID", recordID, "error", err)
		return err
	}
	if !found {
		return ErrRecordNotFound
	}

	s.publishEvent(ctx, recordID, record.UserID, record.BookID, status)
	return nil
}

// Return performs a self-service return by the record's owner.
func (s *BorrowService) Return(ctx context.Context, recordID, callerID int64) error {
	record, err := s.reader.GetByID(ctx, recordID)
	if err != nil {
		logger.Log.Errorw("failed to get borrow record", "recordID", recordID, "error", err)
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}
	if record.UserID != callerID {
		return ErrNotRecordOwner
	}
	if record.BorrowStatus != models.BorrowStatusBorrowed {
		return ErrNotBorrowed
	}

	now := time.Now()
	found, err := s.writer.UpdateStatus(ctx, recordID, models.BorrowStatusReturned, &now, nil)
	if err != nil {
		logger.Log.Errorw("failed to mark record returned", "recordID", recordID, "error", err)
		return err
	}
	if !found {
		return ErrRecordNotFound
	}

	if err := s.stock.ReleaseStock(ctx, record.BookID); err != nil {
		logger.Log.Errorw("failed to release stock on return", "bookID", record.BookID, "error", err)
		return err
	}
	s.invalidateBook(ctx, record.BookID)

	s.publishEvent(ctx, recordID, record.UserID, record.BookID, models.BorrowStatusReturned)
	return nil
}

// Get returns a single borrow record.
func (s *BorrowService) Get(ctx context.Context, recordID int64) (*models.BorrowDB, error) {
	record, err := s.reader.GetByID(ctx, recordID)
	if err != nil {
		logger.Log.Errorw("failed to get borrow record", "recordID", recordID, "error", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

// ListByUser returns a user's borrow history. The user must exist.
func (s *BorrowService) ListByUser(ctx context.Context, userID int64) ([]models.BorrowWithBook, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "userID", userID, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	records, err := s.reader.ListByUser(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list borrows by user", "userID", userID, "error", err)
		return nil, err
	}
	return records, nil
}

// ListAll returns all borrow records, optionally filtered by status.
func (s *BorrowService) ListAll(ctx context.Context, status *string) ([]models.BorrowDetail, error) {
	records, err := s.reader.ListAll(ctx, status)
	if err != nil {
		logger.Log.Errorw("failed to list borrows", "error", err)
		return nil, err
	}
	return records, nil
}
