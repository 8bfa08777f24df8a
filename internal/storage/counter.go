package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SeedFunc returns the last sequence already used for year. Counters call it
// once per year to continue numbering after existing complaints.
type SeedFunc func(ctx context.Context, year int) (int64, error)

// RedisCounter issues sequences with INCR on complaint_seq:<year>.
type RedisCounter struct {
	Redis *redis.Client
	Seed  SeedFunc
}

func NewRedisCounter(rdb *redis.Client, seed SeedFunc) *RedisCounter {
	return &RedisCounter{Redis: rdb, Seed: seed}
}

// SequenceKey is the Redis key holding the counter for year.
func SequenceKey(year int) string {
	return fmt.Sprintf("complaint_seq:%d", year)
}

func (c *RedisCounter) Next(ctx context.Context, year int) (int64, error) {
	key := SequenceKey(year)

	exists, err := c.Redis.Exists(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 && c.Seed != nil {
		last, err := c.Seed(ctx, year)
		if err != nil {
			return 0, err
		}
		// SETNX keeps whichever seed landed first.
		if err := c.Redis.SetNX(ctx, key, last, 0).Err(); err != nil {
			return 0, err
		}
	}

	return c.Redis.Incr(ctx, key).Result()
}

// SQLCounter issues sequences with an upsert on complaint_sequences.
type SQLCounter struct {
	DB   *gorm.DB
	Seed SeedFunc
}

func NewSQLCounter(db *gorm.DB, seed SeedFunc) *SQLCounter {
	return &SQLCounter{DB: db, Seed: seed}
}

const upsertSequence = `
INSERT INTO complaint_sequences (year, value) VALUES (?, ?)
ON CONFLICT (year) DO UPDATE SET value = complaint_sequences.value + 1
RETURNING value`

func (c *SQLCounter) Next(ctx context.Context, year int) (int64, error) {
	db := c.DB.WithContext(ctx)

	var existing int64
	err := db.Raw("SELECT value FROM complaint_sequences WHERE year = ?", year).Row().Scan(&existing)
	start := int64(1)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if c.Seed != nil {
			last, err := c.Seed(ctx, year)
			if err != nil {
				return 0, err
			}
			start = last + 1
		}
	case err != nil:
		return 0, err
	}

	var value int64
	if err := db.Raw(upsertSequence, year, start).Scan(&value).Error; err != nil {
		return 0, err
	}
	return value, nil
}
