// Package scheduler runs the retention sweeper: a periodic purge of
// cancelled bookings that outlived the retention window. It runs outside
// the request path and shuts down with the server context.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type bookingPurger interface {
	PurgeCancelled(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Sweeper periodically deletes stale cancelled bookings.
type Sweeper struct {
	bookings  bookingPurger
	interval  time.Duration
	retention time.Duration
	log       zerolog.Logger
}

// New creates a Sweeper that fires every interval and purges cancelled
// bookings older than retention.
func New(bookings bookingPurger, interval, retention time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		bookings:  bookings,
		interval:  interval,
		retention: retention,
		log:       log,
	}
}

// Start blocks until the context is cancelled, purging on every tick.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().
		Dur("interval", s.interval).
		Dur("retention", s.retention).
		Msg("retention sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("retention sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	count, err := s.bookings.PurgeCancelled(ctx, s.retention)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to purge cancelled bookings")
		return
	}
	if count > 0 {
		s.log.Info().Int64("count", count).Msg("stale cancelled bookings removed")
	}
}
