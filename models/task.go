package models

import (
	"time"

	"studioerp/timewin"
)

type TaskType string

const (
	TaskEquipmentPrep TaskType = "equipment_prep"
	TaskTravel        TaskType = "travel"
	TaskMainFunction  TaskType = "main_function"
	TaskDataBackup    TaskType = "data_backup"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusAssigned  TaskStatus = "assigned"
	StatusSkipped   TaskStatus = "skipped"
	StatusCompleted TaskStatus = "completed"
	StatusCancelled TaskStatus = "cancelled"
)

// Claims reports whether a task in this status still holds its resources.
func (s TaskStatus) Claims() bool {
	return s != StatusCompleted && s != StatusCancelled
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// BookingLevel is the entry index of tasks that belong to the booking as a whole.
const BookingLevel = -1

// TaskKey identifies a derived task so re-derivation upserts instead of inserting.
type TaskKey struct {
	BookingID  string   `json:"bookingId" bson:"bookingId"`
	EntryIndex int      `json:"entryIndex" bson:"entryIndex"`
	Type       TaskType `json:"type" bson:"type"`
}

type Requirements struct {
	Skills    []string `json:"skills,omitempty" bson:"skills,omitempty"`
	Equipment []string `json:"equipment,omitempty" bson:"equipment,omitempty"`
}

type Task struct {
	ID                       string       `json:"id" bson:"id"`
	Key                      TaskKey      `json:"key" bson:"key"`
	BookingID                string       `json:"bookingId" bson:"bookingId"`
	Company                  string       `json:"company" bson:"company"`
	Branch                   string       `json:"branch" bson:"branch"`
	CreatedBy                string       `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	Type                     TaskType     `json:"type" bson:"type"`
	ScheduledDate            string       `json:"scheduledDate" bson:"scheduledDate"`
	ScheduledTime            TimeRange    `json:"scheduledTime" bson:"scheduledTime"`
	Priority                 Priority     `json:"priority" bson:"priority"`
	EstimatedDurationMinutes int          `json:"estimatedDurationMinutes" bson:"estimatedDurationMinutes"`
	Requirements             Requirements `json:"requirements" bson:"requirements"`
	Status                   TaskStatus   `json:"status" bson:"status"`
	Assignments              []Assignment `json:"assignments" bson:"assignments"`
	SkipReason               string       `json:"skipReason,omitempty" bson:"skipReason,omitempty"`
	SkippedBy                string       `json:"skippedBy,omitempty" bson:"skippedBy,omitempty"`
	SkippedAt                *time.Time   `json:"skippedAt,omitempty" bson:"skippedAt,omitempty"`
	CreatedAt                time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt                time.Time    `json:"updatedAt" bson:"updatedAt"`
}

func (t *Task) Window() timewin.Window {
	return timewin.New(t.ScheduledDate, t.ScheduledTime.Start, t.ScheduledTime.End)
}

// HasResource reports whether id is already assigned to the task.
func (t *Task) HasResource(id string) bool {
	for _, a := range t.Assignments {
		if a.ResourceID == id {
			return true
		}
	}
	return false
}

type ResourceKind string

const (
	ResourceStaff     ResourceKind = "staff"
	ResourceEquipment ResourceKind = "equipment"
)

// Assignment binds one staff member or equipment item to one task.
type Assignment struct {
	TaskID       string       `json:"taskId" bson:"taskId"`
	ResourceID   string       `json:"resourceId" bson:"resourceId"`
	ResourceKind ResourceKind `json:"resourceKind" bson:"resourceKind"`
	Role         string       `json:"role" bson:"role"`
	AssignedAt   time.Time    `json:"assignedAt" bson:"assignedAt"`
}
