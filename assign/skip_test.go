package assign

import (
	"context"
	"errors"
	"testing"

	"studioerp/models"
)

func TestSkipTask(t *testing.T) {
	s := newFakeStore()
	s.tasks = []models.Task{
		{ID: "p", Status: models.StatusPending},
		{ID: "done", Status: models.StatusCompleted},
		{ID: "gone", Status: models.StatusCancelled},
		{ID: "sk", Status: models.StatusSkipped, SkipReason: "first"},
	}
	n := &recordingNotifier{}
	e := newTestEngine(s, WithNotifier(n))
	ctx := context.Background()

	res, err := e.SkipTask(ctx, "p", "client postponed", "manager-7")
	if err != nil || !res.Success {
		t.Fatalf("skip pending: %+v, %v", res, err)
	}
	got, _ := s.GetTask(ctx, "p")
	if got.Status != models.StatusSkipped || got.SkipReason != "client postponed" ||
		got.SkippedBy != "manager-7" || got.SkippedAt == nil {
		t.Fatalf("skipped task = %+v", got)
	}
	if len(n.skipped) != 1 || n.skipped[0] != "p" {
		t.Fatalf("notifications = %v", n.skipped)
	}

	for _, id := range []string{"done", "gone"} {
		res, err := e.SkipTask(ctx, id, "x", "y")
		if err != nil || res.Success {
			t.Fatalf("skip %s: %+v, %v", id, res, err)
		}
	}

	res, err = e.SkipTask(ctx, "sk", "second", "y")
	if err != nil || !res.Success {
		t.Fatalf("skip twice: %+v, %v", res, err)
	}
	if got, _ := s.GetTask(ctx, "sk"); got.SkipReason != "first" {
		t.Fatalf("second skip overwrote reason: %q", got.SkipReason)
	}
	if len(n.skipped) != 1 {
		t.Fatalf("no-op skips should not notify, got %v", n.skipped)
	}

	if _, err := e.SkipTask(ctx, "nope", "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing task err = %v", err)
	}
}

func TestSkipTaskNotifierFailure(t *testing.T) {
	s := newFakeStore()
	s.tasks = []models.Task{{ID: "p", Status: models.StatusAssigned}}
	e := newTestEngine(s, WithNotifier(&recordingNotifier{err: errors.New("down")}))
	res, err := e.SkipTask(context.Background(), "p", "weather", "u")
	if err != nil || !res.Success {
		t.Fatalf("skip with failing notifier: %+v, %v", res, err)
	}
}
