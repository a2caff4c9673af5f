package monitor

import (
	"context"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

const countdownStep = 100 * time.Millisecond

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Countdown returns a Waiter that draws a progress bar on out while waiting.
func Countdown(out io.Writer) Waiter {
	return func(ctx context.Context, d time.Duration) error {
		steps := int(d / countdownStep)
		if steps < 1 {
			return Sleep(ctx, d)
		}

		bar := progressbar.NewOptions(steps,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("next request"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)

		ticker := time.NewTicker(countdownStep)
		defer ticker.Stop()

		deadline := time.Now().Add(d)
		for {
			select {
			case <-ctx.Done():
				_ = bar.Clear()
				return ctx.Err()
			case now := <-ticker.C:
				if !now.Before(deadline) {
					_ = bar.Finish()
					return nil
				}
				_ = bar.Add(1)
			}
		}
	}
}
