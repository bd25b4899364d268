package pending

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Sweeper periodically removes expired pending orders. Capture re-checks
// expiry on its own, so a missed sweep only delays housekeeping.
type Sweeper struct {
	DB       *sqlx.DB
	Interval time.Duration
	Log      logrus.FieldLogger
	Now      func() time.Time
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s Sweeper) Run(ctx context.Context) {
	now := s.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	interval := s.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx, now())

		select {
		case <-ctx.Done():
			s.Log.Debug("pending order sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s Sweeper) sweep(ctx context.Context, now time.Time) {
	n, err := DeleteExpired(ctx, s.DB, now)
	if err != nil {
		if ctx.Err() == nil {
			s.Log.WithError(err).Error("sweeping pending orders")
		}
		return
	}

	if n > 0 {
		s.Log.WithField("deleted", n).Info("expired pending orders removed")
	}
}
