// Package watchloop implements the polling loop that repeats a tick at a
// fixed interval until the thread is dead or the caller cancels.
package watchloop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelin/threadkeeper/internal/downloader"
	"github.com/avelin/threadkeeper/internal/project"
	"github.com/avelin/threadkeeper/internal/uievents"
	"github.com/avelin/threadkeeper/internal/update"
)

// TransportFailureError is returned by Run when maxConsecutiveFailures
// transport/HTTP errors against the thread itself occur back to back with
// no intervening success, and the caller asked to fail fast instead of
// retrying forever (maxConsecutiveFailures > 0).
type TransportFailureError struct {
	Attempts int
	Last     error
}

func (e *TransportFailureError) Error() string {
	return fmt.Sprintf("watchloop: %d consecutive transport failures, last: %s", e.Attempts, e.Last)
}

func (e *TransportFailureError) Unwrap() error {
	return e.Last
}

// Run polls update.Tick every interval seconds until the thread is marked
// dead, the handler reports cancellation, or a non-transport error occurs.
// maxConsecutiveFailures bounds how many transport/HTTP errors against the
// thread itself Run tolerates back to back before giving up with a
// *TransportFailureError instead of retrying forever; 0 means never give up.
func Run(ctx context.Context, d *downloader.Downloader, p *project.Project, interval time.Duration, handler uievents.Handler, maxConsecutiveFailures int) error {
	failures := 0
	for {
		_, err := update.Tick(ctx, d, p, handler)
		if err != nil {
			var de *update.DownloadError
			if errors.As(err, &de) {
				failures++
				if maxConsecutiveFailures > 0 && failures >= maxConsecutiveFailures {
					return &TransportFailureError{Attempts: failures, Last: err}
				}
				if !waitWithProgress(ctx, "until retry", interval, handler) {
					return nil
				}
				continue
			}
			return err
		}
		failures = 0

		if err := p.Save(); err != nil {
			return err
		}

		if p.State.IsDead {
			return nil
		}

		if !waitWithProgress(ctx, "until update", interval, handler) {
			return nil
		}
	}
}

// tickUnit is the real duration of one wait_with_progress tick. Tests
// shrink it so the one-second-per-tick contract doesn't make the suite
// slow; production always leaves it at time.Second.
var tickUnit = time.Second

// waitWithProgress sleeps out interval in tickUnit-sized steps, emitting a
// WaitTick after each, and returns false as soon as the handler reports
// cancellation (or the context is done).
func waitWithProgress(ctx context.Context, label string, interval time.Duration, handler uievents.Handler) bool {
	total := int(interval / time.Second)
	if total < 1 {
		total = 1
	}

	for elapsed := 1; elapsed <= total; elapsed++ {
		if handler.IsCancelled() {
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(tickUnit):
		}

		handler.WaitTick(uievents.WaitTick{Label: label, SecondsElapsed: elapsed, SecondsTotal: total})
	}

	return !handler.IsCancelled()
}
