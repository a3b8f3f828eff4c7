// Package assign derives a booking's tasks and staffs them with free,
// best-matching people and equipment without double-booking anyone across
// overlapping entries.
package assign

import (
	"context"
	"fmt"
	"log"
	"time"

	"studioerp/availability"
	"studioerp/models"
	"studioerp/tasks"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Engine struct {
	store    Store
	notifier Notifier
	locker   Locker
	scope    Scope
	now      func() time.Time
	newID    func() string
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }
func WithLocker(l Locker) Option     { return func(e *Engine) { e.locker = l } }
func WithScope(s Scope) Option       { return func(e *Engine) { e.scope = s } }
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		notifier: Notifiers{},
		locker:   NewKeyedMutex(),
		scope:    ScopeBooking,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Call carries the caller context explicitly. Branch, when set, must match
// the booking's branch.
type Call struct {
	BookingID string
	Branch    string
	Actor     string
}

type TaskResult struct {
	Task        models.Task                  `json:"task"`
	Assignments []models.Assignment          `json:"assignments"`
	Staff       *availability.StaffPool      `json:"staff,omitempty"`
	Equipment   []availability.EquipmentPool `json:"equipment,omitempty"`
}

type Result struct {
	BookingID   string              `json:"bookingId"`
	Tasks       []TaskResult        `json:"tasks"`
	Assignments []models.Assignment `json:"assignments"`
}

// Unstaffed lists tasks left pending after the run.
func (r *Result) Unstaffed() []models.Task {
	var out []models.Task
	for _, tr := range r.Tasks {
		if tr.Task.Status == models.StatusPending {
			out = append(out, tr.Task)
		}
	}
	return out
}

type directory struct {
	staff     []models.StaffCandidate
	equipment []models.EquipmentCandidate
}

// AutoAssignTasks derives the booking's tasks, upserts them and assigns every
// pending one. Rerunning with unchanged inputs changes nothing: assigned
// tasks keep their crew. A task with no free candidate stays pending.
func (e *Engine) AutoAssignTasks(ctx context.Context, call Call) (*Result, error) {
	booking, err := e.booking(ctx, call)
	if err != nil {
		return nil, err
	}
	derived := tasks.Derive(booking, e.now())

	existing, err := e.store.ListTasks(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks of booking %s: %w", booking.ID, err)
	}

	unlock, err := lockAll(ctx, e.locker, lockKeys(booking.Branch, derived, existing))
	if err != nil {
		return nil, fmt.Errorf("locking schedule of booking %s: %w", booking.ID, err)
	}
	defer unlock()

	// another run may have committed while we waited
	existing, err = e.store.ListTasks(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks of booking %s: %w", booking.ID, err)
	}

	dir, err := e.directory(ctx, booking.Branch)
	if err != nil {
		return nil, err
	}

	stored, err := e.reconcile(ctx, call.Actor, derived, existing)
	if err != nil {
		return nil, err
	}

	res := &Result{BookingID: booking.ID, Assignments: []models.Assignment{}}
	var fresh []models.Assignment
	for _, t := range stored {
		tr := TaskResult{Assignments: []models.Assignment{}}
		switch t.Status {
		case models.StatusPending:
			tr, err = e.resolve(ctx, booking, t, dir)
			if err != nil {
				return nil, err
			}
			if len(tr.Assignments) == 0 {
				log.Printf("⚠️ [AutoAssign] no available resource for task %s (%s %s) of booking %s",
					t.ID, t.Type, t.Window(), booking.ID)
				break
			}
			t.Assignments = tr.Assignments
			t.Status = models.StatusAssigned
			t.UpdatedAt = e.now()
			if err := e.store.SaveTask(ctx, t); err != nil {
				return nil, fmt.Errorf("saving assignments of task %s: %w", t.ID, err)
			}
			fresh = append(fresh, tr.Assignments...)
		case models.StatusAssigned:
			tr.Assignments = append(tr.Assignments, t.Assignments...)
		}
		tr.Task = *t
		res.Tasks = append(res.Tasks, tr)
		res.Assignments = append(res.Assignments, tr.Assignments...)
	}

	log.Printf("[AutoAssign] booking %s by %q: %d tasks, %d new assignments, %d unstaffed",
		booking.ID, call.Actor, len(res.Tasks), len(fresh), len(res.Unstaffed()))

	if len(fresh) > 0 {
		if err := e.notifier.NotifyAssignments(ctx, fresh, booking); err != nil {
			log.Printf("[Notify] assignment notification for booking %s failed: %v", booking.ID, err)
		}
	}
	return res, nil
}

// Preview computes annotated candidate pools for the booking's tasks without
// writing anything.
func (e *Engine) Preview(ctx context.Context, call Call) (*Result, error) {
	booking, err := e.booking(ctx, call)
	if err != nil {
		return nil, err
	}
	existing, err := e.store.ListTasks(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks of booking %s: %w", booking.ID, err)
	}
	dir, err := e.directory(ctx, booking.Branch)
	if err != nil {
		return nil, err
	}
	byKey := make(map[models.TaskKey]models.Task, len(existing))
	for _, t := range existing {
		byKey[t.Key] = t
	}

	res := &Result{BookingID: booking.ID, Assignments: []models.Assignment{}}
	for _, t := range tasks.Derive(booking, e.now()) {
		if prev, ok := byKey[t.Key]; ok {
			t.ID = prev.ID
			t.Status = prev.Status
			t.Assignments = prev.Assignments
			if t.Type == models.TaskEquipmentPrep {
				t.ScheduledDate = prev.ScheduledDate
			}
		}
		tr, err := e.resolve(ctx, booking, &t, dir)
		if err != nil {
			return nil, err
		}
		tr.Task = t
		res.Tasks = append(res.Tasks, tr)
		res.Assignments = append(res.Assignments, tr.Assignments...)
	}
	return res, nil
}

func (e *Engine) booking(ctx context.Context, call Call) (*models.Booking, error) {
	booking, err := e.store.GetBooking(ctx, call.BookingID)
	if err != nil {
		return nil, fmt.Errorf("loading booking %s: %w", call.BookingID, err)
	}
	if call.Branch != "" && booking.Branch != call.Branch {
		return nil, fmt.Errorf("booking %s: %w", booking.ID, ErrBranchMismatch)
	}
	if len(booking.Entries()) == 0 {
		log.Printf("⚠️ [AutoAssign] booking %s has no service entries", booking.ID)
	}
	return booking, nil
}

func (e *Engine) directory(ctx context.Context, branch string) (*directory, error) {
	dir := &directory{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		staff, err := e.store.ListStaff(gctx, branch)
		if err != nil {
			return fmt.Errorf("listing staff of branch %s: %w", branch, err)
		}
		dir.staff = staff
		return nil
	})
	g.Go(func() error {
		items, err := e.store.ListEquipment(gctx, branch)
		if err != nil {
			return fmt.Errorf("listing equipment of branch %s: %w", branch, err)
		}
		dir.equipment = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dir, nil
}

// reconcile upserts the derived tasks by key and returns the stored copies in
// derivation order. A stored task whose window or requirements moved goes
// back to pending; a stored task no longer derived is cancelled. Skipped,
// completed and cancelled tasks are never touched. Equipment prep keeps the
// date it was first scheduled on.
func (e *Engine) reconcile(ctx context.Context, actor string, derived, existing []models.Task) ([]*models.Task, error) {
	byKey := make(map[models.TaskKey]models.Task, len(existing))
	for _, t := range existing {
		byKey[t.Key] = t
	}
	now := e.now()

	out := make([]*models.Task, 0, len(derived))
	for _, d := range derived {
		prev, ok := byKey[d.Key]
		delete(byKey, d.Key)
		if !ok {
			d.ID = e.newID()
			d.CreatedAt = now
			d.UpdatedAt = now
			if d.CreatedBy == "" {
				d.CreatedBy = actor
			}
			stored, err := e.store.UpsertTask(ctx, &d)
			if err != nil {
				return nil, fmt.Errorf("upserting %s task of booking %s: %w", d.Type, d.BookingID, err)
			}
			out = append(out, stored)
			continue
		}

		t := prev
		if !reconcilable(t.Status) {
			out = append(out, &t)
			continue
		}
		if d.Type == models.TaskEquipmentPrep {
			d.ScheduledDate = prev.ScheduledDate
		}
		moved := !tasks.SameSchedule(prev, d)
		if moved || !tasks.SameRequirements(prev, d) {
			t.ScheduledDate = d.ScheduledDate
			t.ScheduledTime = d.ScheduledTime
			t.EstimatedDurationMinutes = d.EstimatedDurationMinutes
			t.Requirements = d.Requirements
			t.Status = models.StatusPending
			t.Assignments = []models.Assignment{}
			t.UpdatedAt = now
			if err := e.store.SaveTask(ctx, &t); err != nil {
				return nil, fmt.Errorf("updating task %s: %w", t.ID, err)
			}
			if moved {
				log.Printf("[AutoAssign] task %s rescheduled to %s", t.ID, t.Window())
			} else {
				log.Printf("[AutoAssign] task %s requirements changed to %v", t.ID, t.Requirements)
			}
		}
		out = append(out, &t)
	}

	for _, stale := range byKey {
		if !reconcilable(stale.Status) {
			continue
		}
		stale.Status = models.StatusCancelled
		stale.UpdatedAt = now
		if err := e.store.SaveTask(ctx, &stale); err != nil {
			return nil, fmt.Errorf("cancelling task %s: %w", stale.ID, err)
		}
		log.Printf("[AutoAssign] task %s cancelled, its service entry is gone", stale.ID)
	}
	return out, nil
}

// resolve computes the candidate pools for t and picks its crew. Nothing is
// written.
func (e *Engine) resolve(ctx context.Context, booking *models.Booking, t *models.Task, dir *directory) (TaskResult, error) {
	q := TaskQuery{BookingID: booking.ID, Branch: booking.Branch, Date: t.ScheduledDate}
	if e.scope == ScopeBranch {
		q.BookingID = ""
	}
	committed, err := e.store.TasksOn(ctx, q)
	if err != nil {
		return TaskResult{}, fmt.Errorf("loading commitments on %s: %w", t.ScheduledDate, err)
	}
	claims := availability.ClaimsFrom(committed)

	req := availability.Request{
		TaskID:     t.ID,
		Branch:     booking.Branch,
		Window:     t.Window(),
		Skills:     t.Requirements.Skills,
		RequireAny: requiredSkills(t.Type),
	}
	pool := availability.Staff(req, dir.staff, claims)
	tr := TaskResult{Staff: &pool, Assignments: []models.Assignment{}}

	assignedAt := e.now()
	for _, pick := range pickStaff(t.Type, pool.Available()) {
		tr.Assignments = append(tr.Assignments, models.Assignment{
			TaskID:       t.ID,
			ResourceID:   pick.ID,
			ResourceKind: models.ResourceStaff,
			Role:         roleFor(pick, t.Type),
			AssignedAt:   assignedAt,
		})
	}

	if t.Type == models.TaskMainFunction {
		items, pools := pickEquipment(req, booking.EquipmentAssignment, dir.equipment, claims)
		tr.Equipment = pools
		for _, it := range items {
			tr.Assignments = append(tr.Assignments, models.Assignment{
				TaskID:       t.ID,
				ResourceID:   it.ID,
				ResourceKind: models.ResourceEquipment,
				Role:         it.Category,
				AssignedAt:   assignedAt,
			})
		}
	}
	return tr, nil
}

// reconcilable reports whether reconciliation may still change a task.
func reconcilable(s models.TaskStatus) bool {
	return s == models.StatusPending || s == models.StatusAssigned
}

func lockKeys(branch string, derived, existing []models.Task) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, group := range [][]models.Task{derived, existing} {
		for _, t := range group {
			k := lockKey(branch, t.ScheduledDate)
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
