package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockQuoteFetcher struct {
	callCount atomic.Int32
	err       error
}

func (m *mockQuoteFetcher) FetchAndStoreQuotes(_ context.Context) error {
	m.callCount.Add(1)
	return m.err
}

func TestQuoteWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockQuoteFetcher{}
	w := NewQuoteWorker(mock, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	// Should have run at least the initial fetch + some ticks
	if got := mock.callCount.Load(); got < 2 {
		t.Errorf("call count = %d, want >= 2", got)
	}
}

func TestQuoteWorkerKeepsRunningAfterFailure(t *testing.T) {
	mock := &mockQuoteFetcher{err: errors.New("feed down")}
	w := NewQuoteWorker(mock, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 2 {
		t.Errorf("call count = %d, want >= 2 despite failures", got)
	}
}

func TestQuoteWorkerReadyAfterFailedInitialFetch(t *testing.T) {
	w := NewQuoteWorker(&mockQuoteFetcher{err: errors.New("feed down")}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	select {
	case <-w.Ready():
	case <-time.After(time.Second):
		t.Fatal("not ready after a failed initial fetch")
	}
}
