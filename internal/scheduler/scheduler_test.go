package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/medyatra/credsvc/internal/service"
)

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) IssueForAllUsers(ctx context.Context) (service.BatchSummary, error) {
	r.calls.Add(1)
	return service.BatchSummary{Processed: 3, Successful: 3, EmailsSent: 3}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNextMidnight(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "mid-afternoon rolls to next day",
			in:   time.Date(2024, 3, 10, 15, 30, 0, 0, loc),
			want: time.Date(2024, 3, 11, 0, 0, 0, 0, loc),
		},
		{
			name: "exactly midnight rolls to next day",
			in:   time.Date(2024, 3, 10, 0, 0, 0, 0, loc),
			want: time.Date(2024, 3, 11, 0, 0, 0, 0, loc),
		},
		{
			name: "one second before midnight",
			in:   time.Date(2024, 3, 10, 23, 59, 59, 0, loc),
			want: time.Date(2024, 3, 11, 0, 0, 0, 0, loc),
		},
		{
			name: "month boundary",
			in:   time.Date(2024, 1, 31, 12, 0, 0, 0, loc),
			want: time.Date(2024, 2, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := nextMidnight(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("nextMidnight(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRejectsBadTimezone(t *testing.T) {
	t.Parallel()

	_, err := New(&countingRunner{}, discardLogger(), "Not/AZone")
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestSchedulerFiresBatch(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{}
	s, err := New(runner, discardLogger(), "UTC")
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	// Pin the clock just before midnight so the first timer fires quickly.
	base := time.Date(2024, 6, 1, 23, 59, 59, int(time.Second-50*time.Millisecond), time.UTC)
	start := time.Now()
	s.now = func() time.Time { return base.Add(time.Since(start)) }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for runner.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("batch never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	<-errCh
}
