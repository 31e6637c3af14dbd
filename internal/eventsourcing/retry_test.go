package eventsourcing

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impierce/ssi-agent-sub000/internal/eventsourcing/metrics"
)

func Test_RetryWorker_RetriesUntilSuccess(t *testing.T) {
	worker := NewRetryWorker(5*time.Millisecond, 5, slog.Default(), metrics.NewWith(nil))
	worker.Start()
	defer worker.Stop()

	projector := &failingProjector{failures: 2}
	envelopes := []Envelope{testEnvelope(t, "a", 1)}
	worker.Enqueue(projector, "a", envelopes)

	require.Eventually(t, func() bool {
		projector.mu.Lock()
		defer projector.mu.Unlock()
		return len(projector.seen) == 1
	}, 2*time.Second, 10*time.Millisecond, "projection must eventually land")
}

func Test_RetryWorker_AbandonsAfterMaxAttempts(t *testing.T) {
	worker := NewRetryWorker(5*time.Millisecond, 2, slog.Default(), metrics.NewWith(nil))
	worker.Start()
	defer worker.Stop()

	projector := &failingProjector{failures: 100}
	worker.Enqueue(projector, "a", []Envelope{testEnvelope(t, "a", 1)})

	require.Eventually(t, func() bool {
		projector.mu.Lock()
		defer projector.mu.Unlock()
		return projector.calls >= 2
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	projector.mu.Lock()
	calls := projector.calls
	projector.mu.Unlock()
	assert.LessOrEqual(t, calls, 2, "worker must stop retrying after max attempts")
}

func Test_RetryWorker_EnqueueNeverBlocks(t *testing.T) {
	// Not started, so nothing drains the queue.
	worker := NewRetryWorker(time.Second, 5, slog.Default(), metrics.NewWith(nil))

	projector := &failingProjector{failures: 100}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			worker.Enqueue(projector, "a", []Envelope{testEnvelope(t, "a", i+1)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func Test_RetryWorker_StopTerminates(t *testing.T) {
	worker := NewRetryWorker(time.Millisecond, 5, slog.Default(), metrics.NewWith(nil))
	worker.Start()

	done := make(chan struct{})
	go func() {
		worker.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func Test_RetryWorker_ContextCancelStopsJob(t *testing.T) {
	worker := NewRetryWorker(time.Hour, 5, slog.Default(), metrics.NewWith(nil))
	worker.Start()

	projector := &failingProjector{}
	worker.Enqueue(projector, "a", []Envelope{testEnvelope(t, "a", 1)})
	worker.Stop()

	projector.mu.Lock()
	defer projector.mu.Unlock()
	assert.Empty(t, projector.seen, "job waiting on its interval is dropped at shutdown")
}
