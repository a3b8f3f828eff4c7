// Package conflict checks an unsaved booking draft for staff or equipment
// picked on two overlapping service entries. The booking editor calls it
// while the user edits, so it uses timewin.Overlaps exactly like the
// assignment engine does.
package conflict

import (
	"sort"

	"studioerp/models"
	"studioerp/timewin"
)

// DraftEntry is one service entry of the form being edited, with the
// resources the user has selected on it so far.
type DraftEntry struct {
	models.ServiceEntry
	Staff     []string `json:"staff,omitempty"`
	Equipment []string `json:"equipment,omitempty"`
}

type Draft struct {
	Branch  string       `json:"branch,omitempty"`
	Entries []DraftEntry `json:"entries"`
}

// Blocker is another entry that already holds a resource.
type Blocker struct {
	EntryIndex int                 `json:"entryIndex"`
	Kind       models.ResourceKind `json:"kind"`
	Window     timewin.Window      `json:"window"`
}

// Conflict is a resource selected on two overlapping entries.
type Conflict struct {
	ResourceID string              `json:"resourceId"`
	Kind       models.ResourceKind `json:"kind"`
	First      int                 `json:"first"`
	Second     int                 `json:"second"`
}

// DisabledResources returns, for the entry at editing, every resource id
// selected on another overlapping entry together with the entries holding it.
func DisabledResources(d Draft, editing int) map[string][]Blocker {
	out := make(map[string][]Blocker)
	if editing < 0 || editing >= len(d.Entries) {
		return out
	}
	target := d.Entries[editing].Window()
	for i, e := range d.Entries {
		if i == editing {
			continue
		}
		w := e.Window()
		if !timewin.Overlaps(target, w) {
			continue
		}
		for _, id := range e.Staff {
			out[id] = append(out[id], Blocker{EntryIndex: i, Kind: models.ResourceStaff, Window: w})
		}
		for _, id := range e.Equipment {
			out[id] = append(out[id], Blocker{EntryIndex: i, Kind: models.ResourceEquipment, Window: w})
		}
	}
	return out
}

// FindConflicts lists every double selection in the draft, ordered by entry
// pair and then resource id.
func FindConflicts(d Draft) []Conflict {
	var out []Conflict
	for i := range d.Entries {
		for j := i + 1; j < len(d.Entries); j++ {
			if !timewin.Overlaps(d.Entries[i].Window(), d.Entries[j].Window()) {
				continue
			}
			out = append(out, shared(d.Entries[i].Staff, d.Entries[j].Staff, models.ResourceStaff, i, j)...)
			out = append(out, shared(d.Entries[i].Equipment, d.Entries[j].Equipment, models.ResourceEquipment, i, j)...)
		}
	}
	return out
}

func shared(a, b []string, kind models.ResourceKind, i, j int) []Conflict {
	inB := make(map[string]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	seen := make(map[string]bool)
	var ids []string
	for _, id := range a {
		if inB[id] && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]Conflict, 0, len(ids))
	for _, id := range ids {
		out = append(out, Conflict{ResourceID: id, Kind: kind, First: i, Second: j})
	}
	return out
}
