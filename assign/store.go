package assign

import (
	"context"
	"errors"

	"studioerp/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrBranchMismatch = errors.New("booking belongs to another branch")
)

// Scope selects which tasks count as commitments when checking conflicts.
type Scope string

const (
	// ScopeBooking only guards a booking against its own tasks.
	ScopeBooking Scope = "booking"
	// ScopeBranch guards against every booking of the branch on the same date.
	ScopeBranch Scope = "branch"
)

func ParseScope(s string) Scope {
	if Scope(s) == ScopeBranch {
		return ScopeBranch
	}
	return ScopeBooking
}

// TaskQuery selects tasks on one date. An empty BookingID means branch-wide.
type TaskQuery struct {
	BookingID string
	Branch    string
	Date      string
}

// Store is the document store the engine reads and writes. Lookups of
// missing records return an error wrapping ErrNotFound.
type Store interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	// ListStaff returns active, not deleted staff of the branch.
	ListStaff(ctx context.Context, branch string) ([]models.StaffCandidate, error)
	ListEquipment(ctx context.Context, branch string) ([]models.EquipmentCandidate, error)

	ListTasks(ctx context.Context, bookingID string) ([]models.Task, error)
	TasksOn(ctx context.Context, q TaskQuery) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	// UpsertTask inserts t unless a task with the same key exists, and
	// returns the stored document either way.
	UpsertTask(ctx context.Context, t *models.Task) (*models.Task, error)
	SaveTask(ctx context.Context, t *models.Task) error
}

// Notifier receives assignment outcomes. Delivery is best effort.
type Notifier interface {
	NotifyAssignments(ctx context.Context, assignments []models.Assignment, booking *models.Booking) error
	NotifySkipped(ctx context.Context, task *models.Task, reason string) error
}

// Notifiers fans out to every notifier and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) NotifyAssignments(ctx context.Context, assignments []models.Assignment, booking *models.Booking) error {
	var errs []error
	for _, n := range ns {
		if err := n.NotifyAssignments(ctx, assignments, booking); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ns Notifiers) NotifySkipped(ctx context.Context, task *models.Task, reason string) error {
	var errs []error
	for _, n := range ns {
		if err := n.NotifySkipped(ctx, task, reason); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
