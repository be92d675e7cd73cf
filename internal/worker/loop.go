package worker

import (
	"context"
	"log/slog"
	"time"
)

// runEvery calls job immediately and then on every tick until ctx is cancelled.
func runEvery(ctx context.Context, name string, interval time.Duration, job func(context.Context) error) {
	slog.Info(name + ": starting")

	run := func(phase string) {
		if err := job(ctx); err != nil {
			slog.Error(name+": "+phase+" failed", "error", err)
			return
		}
		slog.Info(name + ": " + phase + " completed")
	}

	run("initial run")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info(name + ": shutting down")
			return
		case <-ticker.C:
			run("run")
		}
	}
}
