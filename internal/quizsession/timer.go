package quizsession

import (
	"context"
	"fmt"
	"time"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// FormatRemaining renders the countdown as m:ss.
func (s *Session) FormatRemaining() string {
	return FormatDuration(s.Remaining())
}

func FormatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Tick advances the exam countdown by one interval and force-finishes the
// session when it runs out. It reports whether the session is finished.
func (s *Session) Tick(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return true, nil
	}
	if s.opts.Mode != curriculum.ModeExam {
		s.mu.Unlock()
		return false, nil
	}

	s.remaining -= s.opts.TickInterval
	if s.remaining > 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.remaining = 0
	s.mu.Unlock()

	return true, s.Finish(ctx)
}

// Start runs the exam countdown in the background until the session
// finishes, Stop is called or ctx is cancelled. Practice sessions ignore it.
func (s *Session) Start(ctx context.Context) {
	if s.opts.Mode != curriculum.ModeExam {
		return
	}

	s.mu.Lock()
	if s.stopTimer != nil || s.finished {
		s.mu.Unlock()
		return
	}
	timerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.stopTimer = cancel
	s.timerDone = done
	interval := s.opts.TickInterval
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-timerCtx.Done():
				return
			case <-ticker.C:
				// The save runs on the parent ctx so stopping the ticker
				// does not cancel it.
				if finished, _ := s.Tick(context.WithoutCancel(timerCtx)); finished {
					return
				}
			}
		}
	}()
}

// Stop halts the countdown and waits for the timer goroutine to exit.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.stopTimer, s.timerDone
	s.stopTimer, s.timerDone = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
