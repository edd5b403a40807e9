package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/repository"
)

func TestSelectionTracker(t *testing.T) {
	t.Run("new generation cancels and supersedes the previous one", func(t *testing.T) {
		tracker := newSelectionTracker()

		ctx1, gen1, release1 := tracker.begin(context.Background(), "s")
		ctx2, gen2, release2 := tracker.begin(context.Background(), "s")
		defer release2()

		if !errors.Is(ctx1.Err(), context.Canceled) {
			t.Errorf("Expected first context to be cancelled, got %v", ctx1.Err())
		}
		if ctx2.Err() != nil {
			t.Errorf("Expected second context to be live, got %v", ctx2.Err())
		}
		if tracker.current("s", gen1) {
			t.Error("Expected first generation to be stale")
		}
		if !tracker.current("s", gen2) {
			t.Error("Expected second generation to be current")
		}

		release1()
		if !tracker.current("s", gen2) {
			t.Error("Expected releasing a stale generation to keep the current one")
		}
	})

	t.Run("sessions are independent", func(t *testing.T) {
		tracker := newSelectionTracker()

		ctxA, genA, releaseA := tracker.begin(context.Background(), "a")
		defer releaseA()
		_, _, releaseB := tracker.begin(context.Background(), "b")
		defer releaseB()

		if ctxA.Err() != nil || !tracker.current("a", genA) {
			t.Error("Expected session a to be unaffected by session b")
		}
	})

	t.Run("release forgets the session", func(t *testing.T) {
		tracker := newSelectionTracker()

		_, _, release := tracker.begin(context.Background(), "s")
		release()

		if len(tracker.sessions) != 0 {
			t.Errorf("Expected no tracked sessions, got %d", len(tracker.sessions))
		}
	})

	t.Run("untracked session is always current", func(t *testing.T) {
		tracker := newSelectionTracker()

		_, gen, release := tracker.begin(context.Background(), "")
		defer release()

		if !tracker.current("", gen) {
			t.Error("Expected untracked import to be current")
		}
	})
}

func TestImportService_SaveResult(t *testing.T) {
	// No key configured, so every save fails.
	svc := &ImportService{
		importRepo: repository.NewImportCacheRepository(nil, time.Hour),
		logger:     log.New(io.Discard),
		selections: newSelectionTracker(),
	}
	result := &model.ImportResult{ID: "import-1", FileName: "kuvera.csv"}

	t.Run("failed save of a superseded import is stale", func(t *testing.T) {
		ctx1, gen1, release1 := svc.selections.begin(context.Background(), "s")
		defer release1()
		_, _, release2 := svc.selections.begin(context.Background(), "s")
		defer release2()

		if err := svc.saveResult(ctx1, "s", gen1, result); !errors.Is(err, apperrors.ErrStaleSelection) {
			t.Errorf("Expected ErrStaleSelection, got %v", err)
		}
	})

	t.Run("failed save of the current import is returned", func(t *testing.T) {
		ctx, gen, release := svc.selections.begin(context.Background(), "s")
		defer release()

		err := svc.saveResult(ctx, "s", gen, result)
		if err == nil || errors.Is(err, apperrors.ErrStaleSelection) {
			t.Errorf("Expected a cache error, got %v", err)
		}
	})
}
