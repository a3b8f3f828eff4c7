package tasks

import (
	"testing"
	"time"

	"studioerp/models"
	"studioerp/timewin"
)

var today = time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)

func find(ts []models.Task, typ models.TaskType, entry int) *models.Task {
	for i := range ts {
		if ts[i].Type == typ && ts[i].Key.EntryIndex == entry {
			return &ts[i]
		}
	}
	return nil
}

func TestDeriveFullBooking(t *testing.T) {
	b := &models.Booking{
		ID: "bk1", Company: "co", Branch: "b1", CreatedBy: "u1",
		EquipmentAssignment: []models.EquipmentRequest{{Category: "camera"}, {Category: "lens"}, {Category: "camera"}},
		FunctionDetailsList: []models.ServiceEntry{
			{Date: "2025-06-01", Time: &models.TimeRange{Start: "14:00", End: "18:00"},
				Venue: &models.Venue{Address: "1 Main St"}, RequiredSkills: []string{"portrait"}},
			{Date: "2025-06-02"},
		},
	}
	ts := Derive(b, today)

	wantOrder := []models.TaskType{
		models.TaskEquipmentPrep, models.TaskTravel,
		models.TaskMainFunction, models.TaskMainFunction,
		models.TaskDataBackup, models.TaskDataBackup,
	}
	if len(ts) != len(wantOrder) {
		t.Fatalf("got %d tasks, want %d", len(ts), len(wantOrder))
	}
	for i, typ := range wantOrder {
		if ts[i].Type != typ {
			t.Fatalf("task %d type %s, want %s", i, ts[i].Type, typ)
		}
		if ts[i].Status != models.StatusPending || len(ts[i].Assignments) != 0 {
			t.Fatalf("task %d not fresh: %+v", i, ts[i])
		}
		if ts[i].Company != "co" || ts[i].Branch != "b1" || ts[i].CreatedBy != "u1" || ts[i].BookingID != "bk1" {
			t.Fatalf("task %d did not inherit booking fields: %+v", i, ts[i])
		}
	}

	prep := ts[0]
	if prep.Key.EntryIndex != models.BookingLevel || prep.ScheduledDate != "2025-05-20" ||
		prep.ScheduledTime.Start != "09:00" || prep.ScheduledTime.End != "11:00" || prep.Priority != models.PriorityHigh {
		t.Fatalf("unexpected prep task %+v", prep)
	}
	if len(prep.Requirements.Equipment) != 2 {
		t.Fatalf("prep categories = %v", prep.Requirements.Equipment)
	}

	main := find(ts, models.TaskMainFunction, 0)
	if main.Priority != models.PriorityUrgent || main.EstimatedDurationMinutes != 240 ||
		main.Requirements.Skills[0] != "portrait" {
		t.Fatalf("unexpected main task %+v", main)
	}

	backup := find(ts, models.TaskDataBackup, 1)
	if backup.ScheduledDate != "2025-06-03" || backup.ScheduledTime.Start != "10:00" ||
		backup.ScheduledTime.End != "14:00" || backup.EstimatedDurationMinutes != 240 {
		t.Fatalf("unexpected backup task %+v", backup)
	}
}

func TestDeriveTravelWindow(t *testing.T) {
	b := &models.Booking{ID: "bk", FunctionDetails: &models.ServiceEntry{
		Date: "2025-06-01", Time: &models.TimeRange{Start: "14:00", End: "16:00"},
		Venue: &models.Venue{Address: "Harbour Hall"},
	}}
	travel := find(Derive(b, today), models.TaskTravel, 0)
	if travel == nil {
		t.Fatal("expected travel task")
	}
	if travel.ScheduledTime.Start != "12:00" || travel.ScheduledTime.End != "14:00" {
		t.Fatalf("travel window = %+v", travel.ScheduledTime)
	}
	if travel.Priority != models.PriorityHigh || travel.ScheduledDate != "2025-06-01" {
		t.Fatalf("unexpected travel task %+v", travel)
	}
}

func TestDeriveTravelEdgeCases(t *testing.T) {
	cases := []struct {
		name  string
		time  *models.TimeRange
		date  string
		start string
		end   string
	}{
		{"early start moves to previous day", &models.TimeRange{Start: "01:00", End: "03:00"}, "2025-05-31", "23:00", "24:00"},
		{"start at lead boundary", &models.TimeRange{Start: "02:00", End: "03:00"}, "2025-06-01", "00:00", "02:00"},
		{"no time object", nil, "2025-05-31", "22:00", "24:00"},
		{"end only", &models.TimeRange{End: "18:00"}, "2025-05-31", "22:00", "24:00"},
	}
	for _, tc := range cases {
		b := &models.Booking{ID: "bk", FunctionDetails: &models.ServiceEntry{
			Date: "2025-06-01", Time: tc.time, Venue: &models.Venue{Address: "x"},
		}}
		tr := find(Derive(b, today), models.TaskTravel, 0)
		if tr == nil {
			t.Fatalf("%s: expected travel task", tc.name)
		}
		if tr.ScheduledDate != tc.date || tr.ScheduledTime.Start != tc.start || tr.ScheduledTime.End != tc.end {
			t.Errorf("%s: travel = %s %+v", tc.name, tr.ScheduledDate, tr.ScheduledTime)
		}
		main := find(Derive(b, today), models.TaskMainFunction, 0)
		if timewin.Overlaps(tr.Window(), main.Window()) {
			t.Errorf("%s: travel %s overlaps main %s", tc.name, tr.Window(), main.Window())
		}
	}

	noVenue := &models.Booking{ID: "bk", FunctionDetails: &models.ServiceEntry{
		Date: "2025-06-01", Venue: &models.Venue{Name: "no address"},
	}}
	if tr := find(Derive(noVenue, today), models.TaskTravel, 0); tr != nil {
		t.Fatal("venue without address should not produce travel")
	}
}

func TestSameRequirements(t *testing.T) {
	task := func(skills, equipment []string) models.Task {
		return models.Task{Requirements: models.Requirements{Skills: skills, Equipment: equipment}}
	}
	cases := []struct {
		name string
		a, b models.Task
		want bool
	}{
		{"equal", task([]string{"portrait"}, []string{"camera"}), task([]string{"portrait"}, []string{"camera"}), true},
		{"order and case", task([]string{"Drone", "portrait"}, nil), task([]string{"portrait", "drone"}, nil), true},
		{"both empty", task(nil, nil), task([]string{}, nil), true},
		{"skill changed", task([]string{"portrait"}, nil), task([]string{"drone"}, nil), false},
		{"skill added", task([]string{"portrait"}, nil), task([]string{"portrait", "drone"}, nil), false},
		{"category removed", task(nil, []string{"camera", "lens"}), task(nil, []string{"camera"}), false},
	}
	for _, tc := range cases {
		if got := SameRequirements(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: SameRequirements = %v, want %v", tc.name, got, tc.want)
		}
		if got := SameRequirements(tc.b, tc.a); got != tc.want {
			t.Errorf("%s: SameRequirements(b, a) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDeriveMainDuration(t *testing.T) {
	cases := []struct {
		time *models.TimeRange
		want int
	}{
		{nil, 240},
		{&models.TimeRange{Start: "10:00", End: "10:30"}, 60},
		{&models.TimeRange{Start: "10:00", End: "13:15"}, 195},
		{&models.TimeRange{Start: "10:00"}, 240},
	}
	for _, tc := range cases {
		b := &models.Booking{ID: "bk", FunctionDetails: &models.ServiceEntry{Date: "2025-06-01", Time: tc.time}}
		main := find(Derive(b, today), models.TaskMainFunction, 0)
		if main.EstimatedDurationMinutes != tc.want {
			t.Errorf("time %+v: duration %d, want %d", tc.time, main.EstimatedDurationMinutes, tc.want)
		}
	}
}

func TestDeriveWithoutEquipmentSkipsPrep(t *testing.T) {
	b := &models.Booking{ID: "bk", FunctionDetails: &models.ServiceEntry{Date: "2025-06-01"}}
	ts := Derive(b, today)
	if find(ts, models.TaskEquipmentPrep, models.BookingLevel) != nil {
		t.Fatal("unexpected equipment prep task")
	}
	if len(ts) != 2 {
		t.Fatalf("got %d tasks, want main + backup", len(ts))
	}
}

func TestDeriveKeysUnique(t *testing.T) {
	b := &models.Booking{
		ID:                  "bk",
		EquipmentAssignment: []models.EquipmentRequest{{Category: "camera"}},
		FunctionDetailsList: []models.ServiceEntry{
			{Date: "2025-06-01", Venue: &models.Venue{Address: "a"}},
			{Date: "2025-06-01", Venue: &models.Venue{Address: "b"}},
			{Date: "2025-06-04"},
		},
	}
	seen := map[models.TaskKey]bool{}
	for _, tk := range Derive(b, today) {
		if seen[tk.Key] {
			t.Fatalf("duplicate key %+v", tk.Key)
		}
		seen[tk.Key] = true
	}
}
