package storage

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerStorage wraps another BlobStorage with a circuit breaker so a
// struggling backing store sheds load fast instead of stalling every
// upload behind its timeouts.
type BreakerStorage struct {
	inner   BlobStorage
	breaker *gobreaker.CircuitBreaker[string]
}

func NewBreakerStorage(inner BlobStorage) *BreakerStorage {
	settings := gobreaker.Settings{
		Name:    "blob-storage",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	}
	return &BreakerStorage{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (s *BreakerStorage) Upload(ctx context.Context, path string, r io.Reader) (string, error) {
	url, err := s.breaker.Execute(func() (string, error) {
		return s.inner.Upload(ctx, path, r)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrStorageBlocked
	}
	return url, err
}

func (s *BreakerStorage) Delete(ctx context.Context, path string) error {
	_, err := s.breaker.Execute(func() (string, error) {
		return "", s.inner.Delete(ctx, path)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrStorageBlocked
	}
	return err
}
