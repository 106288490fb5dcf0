package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"outreach-server/internal/clients/redis"
	"outreach-server/internal/observability"

	"github.com/google/uuid"
)

// ErrRunInProgress is returned when another run of the same campaign holds the lock.
var ErrRunInProgress = errors.New("campaign dispatch already in progress")

// RunLock guarantees at most one run per campaign. Acquire returns a context that is
// cancelled if the lock is lost, and a release func that must be called when the run ends.
type RunLock interface {
	Acquire(ctx context.Context, campaignID uuid.UUID) (context.Context, func(), error)
}

// MemoryRunLock is a RunLock for a single process.
type MemoryRunLock struct {
	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

func NewMemoryRunLock() *MemoryRunLock {
	return &MemoryRunLock{running: make(map[uuid.UUID]struct{})}
}

func (l *MemoryRunLock) Acquire(ctx context.Context, campaignID uuid.UUID) (context.Context, func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.running[campaignID]; held {
		return nil, nil, ErrRunInProgress
	}
	l.running[campaignID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.running, campaignID)
			l.mu.Unlock()
		})
	}
	return ctx, release, nil
}

// LeaseClient is the part of the redis client used by RedisRunLock.
type LeaseClient interface {
	AcquireLease(ctx context.Context, key string, ttl time.Duration) (string, error)
	RenewLease(ctx context.Context, key, token string, ttl time.Duration) error
	ReleaseLease(ctx context.Context, key, token string) error
}

// RedisRunLock holds a Redis lease for the duration of a run, renewing it in the
// background so that several worker processes can share the dispatch queue.
type RedisRunLock struct {
	client LeaseClient
	ttl    time.Duration
	logger *observability.Logger
}

func NewRedisRunLock(client LeaseClient, ttl time.Duration, logger *observability.Logger) *RedisRunLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisRunLock{client: client, ttl: ttl, logger: logger}
}

func leaseKey(campaignID uuid.UUID) string {
	return "campaign:dispatch:lock:" + campaignID.String()
}

func (l *RedisRunLock) Acquire(ctx context.Context, campaignID uuid.UUID) (context.Context, func(), error) {
	key := leaseKey(campaignID)
	token, err := l.client.AcquireLease(ctx, key, l.ttl)
	if errors.Is(err, redis.ErrLeaseHeld) {
		return nil, nil, ErrRunInProgress
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go l.renew(runCtx, cancel, key, token, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			cancel()
			<-done
			// The run context is gone; release with a fresh one.
			releaseCtx, releaseCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer releaseCancel()
			if err := l.client.ReleaseLease(releaseCtx, key, token); err != nil && !errors.Is(err, redis.ErrLeaseLost) {
				l.logger.Error(releaseCtx, "failed to release run lock", err)
			}
		})
	}
	return runCtx, release, nil
}

func (l *RedisRunLock) renew(ctx context.Context, cancel context.CancelFunc, key, token string, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := l.client.RenewLease(ctx, key, token, l.ttl)
			if err == nil {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, redis.ErrLeaseLost) {
				l.logger.Error(ctx, "run lock lost, stopping run", err)
				cancel()
				return
			}
			l.logger.WarnWithError(ctx, "failed to renew run lock", err)
		}
	}
}
