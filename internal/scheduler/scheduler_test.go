package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Broker-Statement-Importer/internal/logging"
)

type fakePurger struct {
	calls    int
	removed  int64
	err      error
	deadline bool
}

func (f *fakePurger) PurgeExpired(ctx context.Context) (int64, error) {
	f.calls++
	_, f.deadline = ctx.Deadline()
	return f.removed, f.err
}

func TestSchedulePurge(t *testing.T) {
	t.Run("valid schedules are registered", func(t *testing.T) {
		s := New(logging.Discard())

		if err := s.SchedulePurge("@every 1h", &fakePurger{}, time.Minute); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := s.SchedulePurge("0 3 * * *", &fakePurger{}, time.Minute); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if s.Jobs() != 2 {
			t.Errorf("Expected 2 jobs, got %d", s.Jobs())
		}
	})

	t.Run("invalid schedule is rejected", func(t *testing.T) {
		s := New(logging.Discard())

		err := s.SchedulePurge("every hour", &fakePurger{}, time.Minute)
		if err == nil {
			t.Fatal("Expected error for invalid schedule")
		}
		if !strings.Contains(err.Error(), "invalid purge schedule") {
			t.Errorf("Expected invalid schedule message, got %v", err)
		}
		if s.Jobs() != 0 {
			t.Errorf("Expected no jobs, got %d", s.Jobs())
		}
	})

	t.Run("start and stop", func(t *testing.T) {
		s := New(logging.Discard())
		if err := s.SchedulePurge("@every 1h", &fakePurger{}, time.Minute); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		s.Start()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	})
}

func TestPurgeJob(t *testing.T) {
	t.Run("runs purger with a deadline", func(t *testing.T) {
		purger := &fakePurger{removed: 3}

		PurgeJob(purger, time.Minute, logging.Discard())()

		if purger.calls != 1 {
			t.Errorf("Expected 1 call, got %d", purger.calls)
		}
		if !purger.deadline {
			t.Error("Expected purge context to carry a deadline")
		}
	})

	t.Run("logs failures", func(t *testing.T) {
		var buf bytes.Buffer
		purger := &fakePurger{err: errors.New("database is locked")}

		PurgeJob(purger, time.Minute, logging.NewWithWriter(&buf, "info"))()

		if !strings.Contains(buf.String(), "database is locked") {
			t.Errorf("Expected failure to be logged, got %q", buf.String())
		}
	})
}
