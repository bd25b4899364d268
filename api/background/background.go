package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// Background runs tasks outside of the request that triggered them and lets
// the server wait for them on shutdown.
type Background struct {
	wg  sync.WaitGroup
	log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Background {
	return &Background{log: log}
}

// Go runs fn in its own goroutine. A panic in fn is logged, not propagated.
func (b *Background) Go(fn func()) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				b.log.WithFields(logrus.Fields{
					"trace": string(debug.Stack()),
				}).Error(fmt.Sprintf("background task panic: %v", rec))
			}
		}()

		fn()
	}()
}

// Shutdown waits for running tasks or for ctx to be done, whichever is first.
func (b *Background) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
