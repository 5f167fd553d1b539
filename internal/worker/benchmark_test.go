package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type mockRefresher struct {
	callCount atomic.Int32
}

func (m *mockRefresher) Refresh(_ context.Context) int {
	m.callCount.Add(1)
	return 2
}

func TestBenchmarkWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockRefresher{}
	w := NewBenchmarkWorker(mock, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	// Should have run at least the initial refresh + some ticks
	if got := mock.callCount.Load(); got < 2 {
		t.Errorf("call count = %d, want >= 2", got)
	}
}

func TestBenchmarkWorkerReadyAfterInitialRefresh(t *testing.T) {
	mock := &mockRefresher{}
	w := NewBenchmarkWorker(mock, time.Hour)

	select {
	case <-w.Ready():
		t.Fatal("ready before Run")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	select {
	case <-w.Ready():
	case <-time.After(time.Second):
		t.Fatal("not ready after initial refresh")
	}
	if got := mock.callCount.Load(); got != 1 {
		t.Errorf("call count = %d, want 1 when ready", got)
	}
}
