// Package tasks expands a booking into the operational tasks its service
// entries need.
package tasks

import (
	"strings"
	"time"

	"studioerp/models"
	"studioerp/skills"
	"studioerp/timewin"
)

const (
	dayMinutes           = 24 * 60
	travelLeadMinutes    = 120
	defaultMainMinutes   = 240
	minMainMinutes       = 60
	backupMinutes        = 240
	equipmentPrepStart   = "09:00"
	equipmentPrepEnd     = "11:00"
	equipmentPrepMinutes = 120
	backupStart          = "10:00"
	backupEnd            = "14:00"
)

// Derive returns the tasks for booking b in processing order: equipment prep,
// then travel, main function and data backup per entry. now fixes "today" for
// the equipment prep task. Returned tasks carry no ID and are pending.
func Derive(b *models.Booking, now time.Time) []models.Task {
	entries := b.Entries()
	categories := b.EquipmentCategories()
	var out []models.Task

	if len(b.EquipmentAssignment) > 0 {
		t := newTask(b, models.BookingLevel, models.TaskEquipmentPrep)
		t.ScheduledDate = now.Format(timewin.DateLayout)
		t.ScheduledTime = models.TimeRange{Start: equipmentPrepStart, End: equipmentPrepEnd}
		t.Priority = models.PriorityHigh
		t.EstimatedDurationMinutes = equipmentPrepMinutes
		t.Requirements = models.Requirements{
			Skills:    []string{skills.EquipmentHandling},
			Equipment: categories,
		}
		out = append(out, t)
	}

	for i, e := range entries {
		if !e.HasVenueAddress() {
			continue
		}
		t := newTask(b, i, models.TaskTravel)
		t.ScheduledDate, t.ScheduledTime = travelWindow(e)
		t.Priority = models.PriorityHigh
		t.EstimatedDurationMinutes = travelLeadMinutes
		out = append(out, t)
	}

	for i, e := range entries {
		t := newTask(b, i, models.TaskMainFunction)
		t.ScheduledDate = e.Date
		if e.Time != nil {
			t.ScheduledTime = *e.Time
		}
		t.Priority = models.PriorityUrgent
		t.EstimatedDurationMinutes = mainDuration(e)
		t.Requirements = models.Requirements{
			Skills:    append([]string(nil), e.RequiredSkills...),
			Equipment: categories,
		}
		out = append(out, t)
	}

	for i, e := range entries {
		t := newTask(b, i, models.TaskDataBackup)
		t.ScheduledDate = timewin.ShiftDate(e.Date, 1)
		t.ScheduledTime = models.TimeRange{Start: backupStart, End: backupEnd}
		t.Priority = models.PriorityHigh
		t.EstimatedDurationMinutes = backupMinutes
		t.Requirements = models.Requirements{
			Skills: []string{skills.DataManagement, skills.BasicEditing},
		}
		out = append(out, t)
	}
	return out
}

func newTask(b *models.Booking, entryIndex int, typ models.TaskType) models.Task {
	return models.Task{
		Key:         models.TaskKey{BookingID: b.ID, EntryIndex: entryIndex, Type: typ},
		BookingID:   b.ID,
		Company:     b.Company,
		Branch:      b.Branch,
		CreatedBy:   b.CreatedBy,
		Type:        typ,
		Status:      models.StatusPending,
		Assignments: []models.Assignment{},
	}
}

// travelWindow ends where the service starts and begins two hours earlier.
// A lead that reaches past midnight runs on the previous day up to 24:00.
// Without a start time the service is taken to start at midnight.
func travelWindow(e models.ServiceEntry) (string, models.TimeRange) {
	if e.Time == nil || e.Time.Start == "" {
		return timewin.ShiftDate(e.Date, -1), models.TimeRange{
			Start: timewin.FormatClock(dayMinutes - travelLeadMinutes),
			End:   timewin.FormatClock(dayMinutes),
		}
	}
	start := timewin.ParseClock(e.Time.Start)
	if start < travelLeadMinutes {
		return timewin.ShiftDate(e.Date, -1), models.TimeRange{
			Start: timewin.FormatClock(dayMinutes + start - travelLeadMinutes),
			End:   timewin.FormatClock(dayMinutes),
		}
	}
	return e.Date, models.TimeRange{
		Start: timewin.FormatClock(start - travelLeadMinutes),
		End:   e.Time.Start,
	}
}

func mainDuration(e models.ServiceEntry) int {
	w := e.Window()
	if !w.HasTimes() {
		return defaultMainMinutes
	}
	return max(w.DurationMinutes(), minMainMinutes)
}

// SameSchedule reports whether two tasks occupy the same window.
func SameSchedule(a, b models.Task) bool {
	return a.ScheduledDate == b.ScheduledDate &&
		a.ScheduledTime.Start == b.ScheduledTime.Start &&
		a.ScheduledTime.End == b.ScheduledTime.End
}

// SameRequirements reports whether two tasks ask for the same skills and
// equipment categories, ignoring order and case.
func SameRequirements(a, b models.Task) bool {
	return sameSet(a.Requirements.Skills, b.Requirements.Skills) &&
		sameSet(a.Requirements.Equipment, b.Requirements.Equipment)
}

func sameSet(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[strings.ToLower(s)] = true
	}
	other := make(map[string]bool, len(b))
	for _, s := range b {
		k := strings.ToLower(s)
		if !seen[k] {
			return false
		}
		other[k] = true
	}
	return len(other) == len(seen)
}
