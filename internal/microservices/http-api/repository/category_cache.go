package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"leafhub/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

// CategoryCache keeps hot category aggregate snapshots in Redis so reads
// don't hit postgres for every dashboard refresh. It is a cache only: a
// miss or a Redis outage just falls through to the database.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache connects a Redis-backed snapshot cache
func NewCategoryCache(redisURL, password string, ttl time.Duration) (*CategoryCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CategoryCache{client: rdb, ttl: ttl}, nil
}

func categoryKey(categoryID int64) string {
	return fmt.Sprintf("category:%d", categoryID)
}

// Get returns the cached snapshot, or (nil, nil) on a miss
func (c *CategoryCache) Get(ctx context.Context, categoryID int64) (*models.Category, error) {
	if c == nil || c.client == nil {
		// No-op for testing/mock mode - always miss
		return nil, nil
	}

	fields, err := c.client.HGetAll(ctx, categoryKey(categoryID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil // Not found
	}

	category := &models.Category{
		ID:           categoryID,
		UserID:       fields["user_id"],
		CategoryName: fields["category_name"],
		PlantType:    fields["plant_type"],
	}

	if v, ok := fields["diagnosis_count"]; ok {
		category.DiagnosisCount, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := fields["last_saved"]; ok {
		category.LastSaved, _ = time.Parse(time.RFC3339Nano, v)
	}
	if v, ok := fields["created_at"]; ok {
		category.CreatedAt, _ = time.Parse(time.RFC3339Nano, v)
	}

	return category, nil
}

// Set stores a snapshot with the configured TTL
func (c *CategoryCache) Set(ctx context.Context, category *models.Category) error {
	if c == nil || c.client == nil {
		// No-op for testing/mock mode
		return nil
	}

	key := categoryKey(category.ID)
	fields := map[string]any{
		"user_id":         category.UserID,
		"category_name":   category.CategoryName,
		"plant_type":      category.PlantType,
		"diagnosis_count": category.DiagnosisCount,
		"last_saved":      category.LastSaved.Format(time.RFC3339Nano),
		"created_at":      category.CreatedAt.Format(time.RFC3339Nano),
	}

	if err := c.client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

// Invalidate drops the snapshot after an aggregate write so the next read
// repopulates from postgres
func (c *CategoryCache) Invalidate(ctx context.Context, categoryID int64) error {
	if c == nil || c.client == nil {
		// No-op for testing/mock mode
		return nil
	}
	return c.client.Del(ctx, categoryKey(categoryID)).Err()
}

func (c *CategoryCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
