package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("Rasterizing...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Computing field...")
	s.Start()
	cancel()

	// Give the goroutine time to notice the cancellation
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Placing label...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithOutcome(t *testing.T) {
	s := newSpinner("Comparing...")
	s.Start()
	s.StopWithSuccess("Done")

	s = newSpinner("Comparing...")
	s.Start()
	s.StopWithError("Failed")
}
