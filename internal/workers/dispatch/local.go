package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"outreach-server/internal/observability"

	"github.com/google/uuid"
)

const (
	localMaxAttempts = 5
	localRetryDelay  = time.Minute
)

// ErrEnqueuerClosed is returned when a run is requested after Shutdown.
var ErrEnqueuerClosed = errors.New("dispatch enqueuer is shut down")

// CampaignRunner runs the dispatch loop of one campaign
type CampaignRunner interface {
	Run(ctx context.Context, campaignID uuid.UUID) error
}

// ActiveCampaignLister lists campaigns that should have a run
type ActiveCampaignLister interface {
	ListActiveCampaignIDs(ctx context.Context) ([]uuid.UUID, error)
}

// LocalEnqueuer runs dispatch in goroutines of the current process. It stands in for the
// job queue when Redis is disabled; runs do not survive a restart, so Recover is called on boot.
type LocalEnqueuer struct {
	runner CampaignRunner
	logger *observability.Logger
	clock  Clock

	mu     sync.Mutex
	closed bool
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLocalEnqueuer(runner CampaignRunner, logger *observability.Logger) *LocalEnqueuer {
	base, cancel := context.WithCancel(context.Background())
	return &LocalEnqueuer{
		runner: runner,
		logger: logger,
		clock:  RealClock(),
		base:   base,
		cancel: cancel,
	}
}

// EnqueueCampaignDispatch starts a run in the background. The run outlives the caller's
// context but keeps its log fields.
func (e *LocalEnqueuer) EnqueueCampaignDispatch(ctx context.Context, campaignID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEnqueuerClosed
	}

	runCtx := observability.WithFields(e.base, observability.FieldsFromContext(ctx)...)
	e.wg.Add(1)
	go e.run(runCtx, campaignID)
	return nil
}

func (e *LocalEnqueuer) run(ctx context.Context, campaignID uuid.UUID) {
	defer e.wg.Done()

	for attempt := 1; ; attempt++ {
		err := e.runner.Run(ctx, campaignID)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if attempt >= localMaxAttempts {
			e.logger.Error(ctx, fmt.Sprintf("dispatch run failed after %d attempts", attempt), err)
			return
		}
		e.logger.WarnWithError(ctx, fmt.Sprintf("dispatch run failed, retrying in %v", localRetryDelay), err)
		if e.clock.Sleep(ctx, localRetryDelay) != nil {
			return
		}
	}
}

// Recover starts a run for every active campaign and returns how many were started
func (e *LocalEnqueuer) Recover(ctx context.Context, lister ActiveCampaignLister) (int, error) {
	ids, err := lister.ListActiveCampaignIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active campaigns: %w", err)
	}
	for i, id := range ids {
		if err := e.EnqueueCampaignDispatch(ctx, id); err != nil {
			return i, err
		}
	}
	return len(ids), nil
}

// Shutdown cancels in-flight runs and waits for them to return
func (e *LocalEnqueuer) Shutdown() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
}
