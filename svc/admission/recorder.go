package admission

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/entitlement"
	"github.com/mentorly/entitlement/svc/quota"
)

// recorder pushes consumed-usage increments to the remote authority from a
// background worker, so the hot path never blocks on the network. The buffer
// is bounded: when it fills, increments are dropped with a log line and the
// next reconciliation squares the ledgers. Remote increments are fail-open by
// contract, local counters remain the session's source of truth.
type recorder struct {
	limiter   quota.Limiter
	queue     chan increment
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	log       *slog.Logger
	attempts  int
	timeout   time.Duration
}

type increment struct {
	userID  uuid.UUID
	feature entitlement.Feature
}

func newRecorder(limiter quota.Limiter, bufferSize int, log *slog.Logger) *recorder {
	r := &recorder{
		limiter:  limiter,
		queue:    make(chan increment, bufferSize),
		done:     make(chan struct{}),
		log:      log,
		attempts: 3,
		timeout:  5 * time.Second,
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

// enqueue hands an increment to the worker. Never blocks: a full buffer
// drops the increment.
func (r *recorder) enqueue(userID uuid.UUID, feature entitlement.Feature) error {
	select {
	case <-r.done:
		return ErrRecorderClosed
	default:
	}

	select {
	case r.queue <- increment{userID: userID, feature: feature}:
		return nil
	default:
		r.log.Warn("remote usage increment dropped, buffer full",
			"user_id", userID, "feature", feature)
		return nil
	}
}

func (r *recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case inc := <-r.queue:
			r.flush(inc)
		case <-r.done:
			// Drain what is already queued before exiting.
			for {
				select {
				case inc := <-r.queue:
					r.flush(inc)
				default:
					return
				}
			}
		}
	}
}

func (r *recorder) flush(inc increment) {
	var err error
	for attempt := range r.attempts {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err = r.limiter.Increment(ctx, inc.userID, inc.feature)
		cancel()
		if err == nil {
			return
		}
	}

	r.log.Error("remote usage increment failed",
		"error", err, "user_id", inc.userID, "feature", inc.feature)
}

// close stops the worker after draining queued increments. The context caps
// how long the drain may take.
func (r *recorder) close(ctx context.Context) error {
	r.closeOnce.Do(func() { close(r.done) })

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
