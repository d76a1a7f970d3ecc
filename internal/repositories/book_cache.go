package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
)

// BookCacheRepository provides cached single-book lookups using Redis.
// Entries are invalidated by every catalog write and stock adjustment,
// so the cache never changes observable API semantics.
type BookCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration for cached books
}

// NewBookCacheRepository creates a new repository instance with the given TTL.
func NewBookCacheRepository(client *redis.Client, expiration time.Duration) *BookCacheRepository {
	return &BookCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func bookKey(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

// Get fetches a cached book. Returns an error on a cache miss.
func (r *BookCacheRepository) Get(ctx context.Context, id int64) (*models.BookDB, error) {
	key := bookKey(id)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, fmt.Errorf("book %d not found in cache", id)
		}
		return nil, err
	}

	var book models.BookDB
	if err := json.Unmarshal([]byte(val), &book); err != nil {
		logger.Log.Infow(
			"key", key,
			"value", val,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow(
		"key", key,
		"result", book.ID,
		"error", nil,
	)

	return &book, nil
}

// Set caches a book with expiration.
func (r *BookCacheRepository) Set(ctx context.Context, book *models.BookDB) error {
	key := bookKey(book.ID)

	data, err := json.Marshal(book)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"result", "ok",
		"error", err,
	)

	return err
}

// Delete drops a cached book after a write to the underlying row.
func (r *BookCacheRepository) Delete(ctx context.Context, id int64) error {
	key := bookKey(id)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow(
		"key", key,
		"result", "deleted",
		"error", err,
	)

	return err
}
