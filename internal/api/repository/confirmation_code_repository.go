package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound means no confirmation code is pending for the user, either
// because signup never happened or because the TTL expired.
var ErrCodeNotFound = errors.New("confirmation code not found")

type ConfirmationCodeRepository interface {
	Save(ctx context.Context, userID, codeHash string) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type confirmationCodeRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConfirmationCodeRepository connects to Redis and verifies the
// connection before returning.
func NewConfirmationCodeRepository(redisURL, password string, ttl time.Duration) (ConfirmationCodeRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &confirmationCodeRepository{client: rdb, ttl: ttl}, nil
}

func codeKey(userID string) string {
	return fmt.Sprintf("confirmation:user:%s", userID)
}

// Save stores the bcrypt hash of a confirmation code, replacing any pending
// one. The TTL bounds how long a signup can stay unconfirmed.
func (r *confirmationCodeRepository) Save(ctx context.Context, userID, codeHash string) error {
	return r.client.Set(ctx, codeKey(userID), codeHash, r.ttl).Err()
}

func (r *confirmationCodeRepository) Get(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, codeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *confirmationCodeRepository) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, codeKey(userID)).Err()
}
