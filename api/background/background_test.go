package background

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestBackground() *Background {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log)
}

func TestShutdownWaitsForTasks(t *testing.T) {
	bg := newTestBackground()

	var n int32
	for i := 0; i < 5; i++ {
		bg.Go(func() {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&n, 1)
		})
	}
	bg.Go(func() { panic("boom") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := bg.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if got := atomic.LoadInt32(&n); got != 5 {
		t.Fatalf("expected 5 finished tasks, got %d", got)
	}
}

func TestShutdownDeadline(t *testing.T) {
	bg := newTestBackground()

	release := make(chan struct{})
	defer close(release)
	bg.Go(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := bg.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
