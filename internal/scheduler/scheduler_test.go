package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_InvalidSpec(t *testing.T) {
	if _, err := New("every tuesday", &countingRefresher{}, nil, quietLogger()); err == nil {
		t.Fatal("New() accepted an invalid spec")
	}
}

func TestRunOnce(t *testing.T) {
	r := &countingRefresher{}
	s, err := New("@every 1h", r, nil, quietLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	r.err = errors.New("upstream down")
	if err := s.RunOnce(context.Background()); err == nil {
		t.Error("RunOnce() swallowed the refresh error")
	}

	if got := s.Runs(); got != 2 {
		t.Errorf("Runs() = %d, want 2", got)
	}
}

func TestStartStop(t *testing.T) {
	r := &countingRefresher{}
	s, err := New("@every 1s", r, time.UTC, quietLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Start()

	deadline := time.Now().Add(5 * time.Second)
	for r.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Stop(ctx)

	if r.calls.Load() == 0 {
		t.Fatal("scheduled refresh never ran")
	}
}
