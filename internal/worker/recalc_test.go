package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockRecalculator struct {
	callCount atomic.Int32
	err       error
}

func (m *mockRecalculator) Recalculate(_ context.Context) error {
	m.callCount.Add(1)
	return m.err
}

func TestRecalcWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockRecalculator{}
	w := NewRecalcWorker(mock, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	// Should have run at least the initial pass + some ticks
	if got := mock.callCount.Load(); got < 1 {
		t.Errorf("call count = %d, want >= 1", got)
	}
}

func TestRecalcWorkerSurvivesErrors(t *testing.T) {
	mock := &mockRecalculator{err: errors.New("bad ledger")}
	w := NewRecalcWorker(mock, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	// Errors are logged, not fatal: the loop keeps ticking.
	if got := mock.callCount.Load(); got < 2 {
		t.Errorf("call count = %d, want >= 2", got)
	}
}
