package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Odorikoma/booknest/internal/models"
)

func TestBookCacheRepository(t *testing.T) {
	ctx := context.Background()

	// Start Redis container
	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewBookCacheRepository(rdb, 2*time.Second)

	book := &models.BookDB{
		ID:     7,
		Title:  "Cached Book",
		Author: "Cache Author",
		Stock:  5,
		Price:  14.5,
	}

	t.Run("Set and Get book", func(t *testing.T) {
		err := repo.Set(ctx, book)
		assert.NoError(t, err)

		got, err := repo.Get(ctx, book.ID)
		assert.NoError(t, err)
		assert.Equal(t, book.ID, got.ID)
		assert.Equal(t, book.Title, got.Title)
		assert.Equal(t, book.Stock, got.Stock)
	})

	t.Run("Get missing key returns error", func(t *testing.T) {
		_, err := repo.Get(ctx, 999)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found in cache")
	})

	t.Run("Delete invalidates entry", func(t *testing.T) {
		err := repo.Set(ctx, book)
		assert.NoError(t, err)

		err = repo.Delete(ctx, book.ID)
		assert.NoError(t, err)

		_, err = repo.Get(ctx, book.ID)
		assert.Error(t, err)
	})

	t.Run("Cached value expires", func(t *testing.T) {
		err := repo.Set(ctx, book)
		assert.NoError(t, err)

		// Wait for expiration (2s)
		time.Sleep(3 * time.Second)

		_, err = repo.Get(ctx, book.ID)
		assert.Error(t, err)
	})
}
