package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// asyncStorage decouples audit writes from the caller. Events queue into a
// bounded buffer drained by one background worker; a full buffer drops the
// event with a log line rather than blocking the audited action.
type asyncStorage struct {
	inner     Storage
	queue     chan Event
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	log       *slog.Logger
	timeout   time.Duration
}

// NewAsyncStorage wraps inner so Store never blocks on I/O. Returns the
// storage and a close function that drains the queue; call it on shutdown.
func NewAsyncStorage(inner Storage, bufferSize int, log *slog.Logger) (Storage, func(context.Context) error) {
	if inner == nil {
		panic("audit: storage cannot be nil")
	}
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if log == nil {
		log = slog.Default()
	}

	s := &asyncStorage{
		inner:   inner,
		queue:   make(chan Event, bufferSize),
		done:    make(chan struct{}),
		log:     log,
		timeout: 5 * time.Second,
	}
	s.wg.Add(1)
	go s.worker()

	return s, s.close
}

func (s *asyncStorage) Store(ctx context.Context, event Event) error {
	select {
	case <-s.done:
		return ErrStorageNotAvailable
	default:
	}

	select {
	case s.queue <- event:
		return nil
	default:
		s.log.Warn("security event dropped, buffer full",
			"user_id", event.UserID, "event_type", event.Type)
		return nil
	}
}

func (s *asyncStorage) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Event, error) {
	return s.inner.ListByUser(ctx, userID, limit)
}

func (s *asyncStorage) worker() {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.queue:
			s.flush(event)
		case <-s.done:
			for {
				select {
				case event := <-s.queue:
					s.flush(event)
				default:
					return
				}
			}
		}
	}
}

func (s *asyncStorage) flush(event Event) {
	// Detached from the caller's context so a cancelled request does not
	// lose its trail entry.
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.inner.Store(ctx, event); err != nil {
		s.log.Error("security event write failed",
			"error", err, "user_id", event.UserID, "event_type", event.Type)
	}
}

func (s *asyncStorage) close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
