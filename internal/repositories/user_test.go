package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupUserPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
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
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestUserWriteRepository_Save(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	id, err := repo.Save(ctx, "alice", "alice@example.com", "hashed-secret", "user")
	assert.NoError(t, err)
	assert.Greater(t, id, int64(0))

	var user struct {
		Username     string `db:"username"`
		Email        string `db:"email"`
		PasswordHash string `db:"password_hash"`
		Role         string `db:"role"`
	}
	err = db.Get(&user, "SELECT username, email, password_hash, role FROM users WHERE id=$1", id)
	assert.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "hashed-secret", user.PasswordHash)
	assert.Equal(t, "user", user.Role)
}

func TestUserWriteRepository_Save_DuplicateEmail(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, "bob", "bob@example.com", "hash1", "user")
	assert.NoError(t, err)

	// Same email again violates the unique constraint
	_, err = repo.Save(ctx, "bobby", "bob@example.com", "hash2", "user")
	assert.Error(t, err)
}

func TestUserReadRepository(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	charlieID, err := writeRepo.Save(ctx, "charlie", "charlie@example.com", "secret", "user")
	assert.NoError(t, err)
	_, err = writeRepo.Save(ctx, "dave", "dave@example.com", "secret2", "admin")
	assert.NoError(t, err)

	t.Run("GetByEmail", func(t *testing.T) {
		user, err := readRepo.GetByEmail(ctx, "charlie@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "charlie", user.Username)
		assert.Equal(t, charlieID, user.ID)
	})

	t.Run("GetByEmail_Missing", func(t *testing.T) {
		user, err := readRepo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("GetByID", func(t *testing.T) {
		user, err := readRepo.GetByID(ctx, charlieID)
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "charlie@example.com", user.Email)
	})

	t.Run("GetByID_Missing", func(t *testing.T) {
		user, err := readRepo.GetByID(ctx, 999999)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("Search_ByUsernameSubstring", func(t *testing.T) {
		users, err := readRepo.Search(ctx, "char")
		assert.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, "charlie", users[0].Username)
	})

	t.Run("Search_CaseInsensitive", func(t *testing.T) {
		users, err := readRepo.Search(ctx, "DAVE")
		assert.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, "dave", users[0].Username)
	})

	t.Run("Search_ByEmailSubstring", func(t *testing.T) {
		users, err := readRepo.Search(ctx, "example.com")
		assert.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("Search_NoMatch", func(t *testing.T) {
		users, err := readRepo.Search(ctx, "zzz-nobody")
		assert.NoError(t, err)
		assert.Empty(t, users)
	})
}
