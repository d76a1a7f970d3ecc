package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Odorikoma/booknest/internal/models"
)

func setupBorrowPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		create_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS books (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		author VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		cover_image_url VARCHAR(512),
		price NUMERIC(10, 2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS borrows (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		book_id BIGINT NOT NULL REFERENCES books(id),
		borrow_date TIMESTAMP NOT NULL DEFAULT NOW(),
		return_date TIMESTAMP,
		borrow_status VARCHAR(20) NOT NULL DEFAULT 'requested',
		notes TEXT
	);

	CREATE UNIQUE INDEX IF NOT EXISTS uq_borrows_active
		ON borrows (user_id, book_id)
		WHERE borrow_status IN ('requested', 'borrowed');
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func seedUserAndBook(t *testing.T, db *sqlx.DB, email string, stock int) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	userID, err := NewUserWriteRepository(db).Save(ctx, "reader", email, "hash", "user")
	assert.NoError(t, err)

	bookID, err := NewBookWriteRepository(db, nil).Save(ctx, "Some Book", "Some Author", "desc", stock, nil, 10)
	assert.NoError(t, err)

	return userID, bookID
}

func TestBorrowWriteRepository_SaveAndGet(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	writeRepo := NewBorrowWriteRepository(db, nil)
	readRepo := NewBorrowReadRepository(db, nil)
	ctx := context.Background()

	userID, bookID := seedUserAndBook(t, db, "reader@example.com", 2)

	notes := "please hold until friday"
	id, err := writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, &notes)
	assert.NoError(t, err)
	assert.Greater(t, id, int64(0))

	record, err := readRepo.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, bookID, record.BookID)
	assert.Equal(t, models.BorrowStatusRequested, record.BorrowStatus)
	assert.Nil(t, record.ReturnDate)
	assert.NotNil(t, record.Notes)
	assert.Equal(t, notes, *record.Notes)
}

func TestBorrowReadRepository_GetByID_Missing(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	readRepo := NewBorrowReadRepository(db, nil)

	record, err := readRepo.GetByID(context.Background(), 424242)
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestBorrowReadRepository_HasActiveBorrow(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	writeRepo := NewBorrowWriteRepository(db, nil)
	readRepo := NewBorrowReadRepository(db, nil)
	ctx := context.Background()

	userID, bookID := seedUserAndBook(t, db, "active@example.com", 2)

	// No record yet
	active, err := readRepo.HasActiveBorrow(ctx, userID, bookID)
	assert.NoError(t, err)
	assert.False(t, active)

	id, err := writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)

	// Requested counts as active
	active, err = readRepo.HasActiveBorrow(ctx, userID, bookID)
	assert.NoError(t, err)
	assert.True(t, active)

	// Borrowed still counts as active
	found, err := writeRepo.UpdateStatus(ctx, id, models.BorrowStatusBorrowed, nil, nil)
	assert.NoError(t, err)
	assert.True(t, found)

	active, err = readRepo.HasActiveBorrow(ctx, userID, bookID)
	assert.NoError(t, err)
	assert.True(t, active)

	// A returned record no longer blocks new requests
	now := time.Now()
	found, err = writeRepo.UpdateStatus(ctx, id, models.BorrowStatusReturned, &now, nil)
	assert.NoError(t, err)
	assert.True(t, found)

	active, err = readRepo.HasActiveBorrow(ctx, userID, bookID)
	assert.NoError(t, err)
	assert.False(t, active)
}

func TestBorrowWriteRepository_UpdateStatus(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	writeRepo := NewBorrowWriteRepository(db, nil)
	readRepo := NewBorrowReadRepository(db, nil)
	ctx := context.Background()

	userID, bookID := seedUserAndBook(t, db, "status@example.com", 1)

	notes := "initial"
	id, err := writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, &notes)
	assert.NoError(t, err)

	t.Run("NilFieldsAreKept", func(t *testing.T) {
		found, err := writeRepo.UpdateStatus(ctx, id, models.BorrowStatusBorrowed, nil, nil)
		assert.NoError(t, err)
		assert.True(t, found)

		record, err := readRepo.GetByID(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, models.BorrowStatusBorrowed, record.BorrowStatus)
		assert.Nil(t, record.ReturnDate)
		assert.NotNil(t, record.Notes)
		assert.Equal(t, "initial", *record.Notes)
	})

	t.Run("ReturnDateAndNotesWritten", func(t *testing.T) {
		now := time.Now()
		newNotes := "returned in good shape"
		found, err := writeRepo.UpdateStatus(ctx, id, models.BorrowStatusReturned, &now, &newNotes)
		assert.NoError(t, err)
		assert.True(t, found)

		record, err := readRepo.GetByID(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, models.BorrowStatusReturned, record.BorrowStatus)
		assert.NotNil(t, record.ReturnDate)
		assert.Equal(t, newNotes, *record.Notes)
	})

	t.Run("UnknownRecord", func(t *testing.T) {
		found, err := writeRepo.UpdateStatus(ctx, 999999, models.BorrowStatusBorrowed, nil, nil)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestBorrowReadRepository_ListByUser(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	writeRepo := NewBorrowWriteRepository(db, nil)
	readRepo := NewBorrowReadRepository(db, nil)
	ctx := context.Background()

	userID, bookID := seedUserAndBook(t, db, "history@example.com", 3)

	otherID, err := NewUserWriteRepository(db).Save(ctx, "other", "other@example.com", "hash", "user")
	assert.NoError(t, err)

	_, err = writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)
	_, err = writeRepo.Save(ctx, otherID, bookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)

	records, err := readRepo.ListByUser(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, userID, records[0].UserID)
	assert.Equal(t, "Some Book", records[0].Title)
	assert.Equal(t, "Some Author", records[0].Author)

	// User with no history gets an empty list, not an error
	records, err = readRepo.ListByUser(ctx, 777777)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestBorrowReadRepository_ListAll(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	writeRepo := NewBorrowWriteRepository(db, nil)
	readRepo := NewBorrowReadRepository(db, nil)
	ctx := context.Background()

	userID, bookID := seedUserAndBook(t, db, "listall@example.com", 3)

	otherBookID, err := NewBookWriteRepository(db, nil).Save(ctx, "Another Book", "Another Author", "desc", 2, nil, 12)
	assert.NoError(t, err)

	id1, err := writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)
	_, err = writeRepo.Save(ctx, userID, otherBookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)

	found, err := writeRepo.UpdateStatus(ctx, id1, models.BorrowStatusBorrowed, nil, nil)
	assert.NoError(t, err)
	assert.True(t, found)

	t.Run("NoFilter", func(t *testing.T) {
		records, err := readRepo.ListAll(ctx, nil)
		assert.NoError(t, err)
		assert.Len(t, records, 2)
		// Joined display fields are populated
		assert.Equal(t, "reader", records[0].Username)
		assert.Equal(t, "listall@example.com", records[0].Email)
		assert.ElementsMatch(t,
			[]string{"Some Book", "Another Book"},
			[]string{records[0].Title, records[1].Title},
		)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		status := models.BorrowStatusBorrowed
		records, err := readRepo.ListAll(ctx, &status)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, id1, records[0].ID)
	})

	t.Run("FilterWithNoMatches", func(t *testing.T) {
		status := models.BorrowStatusReturned
		records, err := readRepo.ListAll(ctx, &status)
		assert.NoError(t, err)
		assert.Empty(t, records)
	})
}

// TestBorrowRepositories_TxParticipation verifies that reads and writes
// go through the request transaction when one is present, so a rolled
// back transaction leaves no trace.
func TestBorrowRepositories_TxParticipation(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	ctx := context.Background()
	userID, bookID := seedUserAndBook(t, db, "txuser@example.com", 1)

	tx, err := db.Beginx()
	assert.NoError(t, err)

	txGetter := func(context.Context) *sqlx.Tx { return tx }
	writeRepo := NewBorrowWriteRepository(db, txGetter)
	readRepo := NewBorrowReadRepository(db, txGetter)

	id, err := writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)

	// Visible inside the transaction
	record, err := readRepo.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.NotNil(t, record)

	assert.NoError(t, tx.Rollback())

	// Gone after rollback
	record, err = NewBorrowReadRepository(db, nil).GetByID(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, record)
}

// TestBorrowWriteRepository_Save_DuplicateActive verifies that the
// partial unique index rejects a second active record for the same
// (user, book) pair, so two racing requests cannot both insert.
func TestBorrowWriteRepository_Save_DuplicateActive(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	writeRepo := NewBorrowWriteRepository(db, nil)
	ctx := context.Background()

	userID, bookID := seedUserAndBook(t, db, "dup@example.com", 2)

	id, err := writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)

	_, err = writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23505", pgErr.Code)

	// A borrowed record still blocks a new request
	found, err := writeRepo.UpdateStatus(ctx, id, models.BorrowStatusBorrowed, nil, nil)
	assert.NoError(t, err)
	assert.True(t, found)

	_, err = writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	assert.Error(t, err)

	// Once returned, the pair is free again
	now := time.Now()
	found, err = writeRepo.UpdateStatus(ctx, id, models.BorrowStatusReturned, &now, nil)
	assert.NoError(t, err)
	assert.True(t, found)

	_, err = writeRepo.Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)
}

// TestBorrowReadRepository_GetByID_LocksRowInTx verifies that the
// record read inside a request transaction takes a row lock, so
// concurrent status transitions on the same record serialize.
func TestBorrowReadRepository_GetByID_LocksRowInTx(t *testing.T) {
	db, teardown := setupBorrowPostgresContainer(t)
	defer teardown()

	ctx := context.Background()
	userID, bookID := seedUserAndBook(t, db, "lock@example.com", 1)

	id, err := NewBorrowWriteRepository(db, nil).Save(ctx, userID, bookID, models.BorrowStatusRequested, nil)
	assert.NoError(t, err)

	tx, err := db.Beginx()
	assert.NoError(t, err)

	txGetter := func(context.Context) *sqlx.Tx { return tx }
	readRepo := NewBorrowReadRepository(db, txGetter)

	record, err := readRepo.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.NotNil(t, record)

	// Another session cannot take the lock while the tx holds it
	_, err = db.ExecContext(ctx, "SELECT id FROM borrows WHERE id = $1 FOR UPDATE NOWAIT", id)
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "55P03", pgErr.Code)

	assert.NoError(t, tx.Rollback())

	// Released after rollback
	_, err = db.ExecContext(ctx, "SELECT id FROM borrows WHERE id = $1 FOR UPDATE NOWAIT", id)
	assert.NoError(t, err)
}
