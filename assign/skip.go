package assign

import (
	"context"
	"fmt"
	"log"

	"studioerp/models"
)

type SkipResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SkipTask marks a task as skipped and tells the client why. Finished or
// cancelled tasks cannot be skipped; skipping twice is a no-op.
func (e *Engine) SkipTask(ctx context.Context, taskID, reason, skippedBy string) (SkipResult, error) {
	t, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return SkipResult{}, fmt.Errorf("loading task %s: %w", taskID, err)
	}

	switch t.Status {
	case models.StatusSkipped:
		return SkipResult{Success: true, Message: "task already skipped"}, nil
	case models.StatusCompleted, models.StatusCancelled:
		return SkipResult{Success: false, Message: fmt.Sprintf("task is %s and cannot be skipped", t.Status)}, nil
	}

	now := e.now()
	t.Status = models.StatusSkipped
	t.SkipReason = reason
	t.SkippedBy = skippedBy
	t.SkippedAt = &now
	t.UpdatedAt = now
	if err := e.store.SaveTask(ctx, t); err != nil {
		return SkipResult{}, fmt.Errorf("saving skipped task %s: %w", taskID, err)
	}
	log.Printf("[SkipTask] task %s (%s) skipped by %q: %s", t.ID, t.Type, skippedBy, reason)

	if err := e.notifier.NotifySkipped(ctx, t, reason); err != nil {
		log.Printf("[Notify] skip notification for task %s failed: %v", t.ID, err)
	}
	return SkipResult{Success: true, Message: "task skipped"}, nil
}
