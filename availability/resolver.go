// Package availability decides which staff members and equipment items are
// free for a task window, and records why every other candidate is not.
package availability

import (
	"cmp"
	"slices"
	"strings"

	"studioerp/models"
	"studioerp/skills"
	"studioerp/timewin"
)

type ReasonCode string

const (
	Available        ReasonCode = "available"
	Conflict         ReasonCode = "conflict"
	SkillMismatch    ReasonCode = "skill_mismatch"
	Inactive         ReasonCode = "inactive"
	OtherBranch      ReasonCode = "other_branch"
	Unavailable      ReasonCode = "unavailable"
	CategoryMismatch ReasonCode = "category_mismatch"
)

// Reason explains the availability verdict for one candidate.
type Reason struct {
	Code    ReasonCode      `json:"code"`
	TaskID  string          `json:"taskId,omitempty"`
	Window  *timewin.Window `json:"window,omitempty"`
	Missing []string        `json:"missing,omitempty"`
}

func (r Reason) IsAvailable() bool { return r.Code == Available }

// Claim is a resource held by a task over a window.
type Claim struct {
	TaskID     string
	ResourceID string
	Window     timewin.Window
}

// ClaimsFrom collects the claims of tasks that still hold their resources.
func ClaimsFrom(tasks []models.Task) []Claim {
	var out []Claim
	for _, t := range tasks {
		if !t.Status.Claims() {
			continue
		}
		w := t.Window()
		for _, a := range t.Assignments {
			out = append(out, Claim{TaskID: t.ID, ResourceID: a.ResourceID, Window: w})
		}
	}
	return out
}

// Request describes the slot being filled.
type Request struct {
	TaskID string
	Branch string
	Window timewin.Window
	// Skills are scored, never required.
	Skills []string
	// RequireAny excludes candidates holding none of these skills.
	RequireAny []string
}

type StaffOption struct {
	Candidate models.StaffCandidate `json:"candidate"`
	Score     float64               `json:"score"`
	Reason    Reason                `json:"reason"`
}

type EquipmentOption struct {
	Candidate models.EquipmentCandidate `json:"candidate"`
	Reason    Reason                    `json:"reason"`
}

// StaffPool is the annotated staff pool for one request. Available options
// come first, sorted by score descending; ties keep input order.
type StaffPool struct {
	Options []StaffOption `json:"options"`
}

func (p StaffPool) Available() []StaffOption {
	var out []StaffOption
	for _, o := range p.Options {
		if o.Reason.IsAvailable() {
			out = append(out, o)
		}
	}
	return out
}

type EquipmentPool struct {
	Options []EquipmentOption `json:"options"`
}

func (p EquipmentPool) Available() []EquipmentOption {
	var out []EquipmentOption
	for _, o := range p.Options {
		if o.Reason.IsAvailable() {
			out = append(out, o)
		}
	}
	return out
}

// Staff annotates every candidate in pool against req and claims.
func Staff(req Request, pool []models.StaffCandidate, claims []Claim) StaffPool {
	options := make([]StaffOption, 0, len(pool))
	for _, c := range pool {
		opt := StaffOption{Candidate: c, Reason: Reason{Code: Available}}
		switch {
		case !c.Active || c.Deleted:
			opt.Reason = Reason{Code: Inactive}
		case req.Branch != "" && c.Branch != req.Branch:
			opt.Reason = Reason{Code: OtherBranch}
		case len(req.RequireAny) > 0 && !skills.HasAny(c.Skills, req.RequireAny...):
			opt.Reason = Reason{Code: SkillMismatch, Missing: req.RequireAny}
		default:
			if r, busy := conflictFor(c.ID, req, claims); busy {
				opt.Reason = r
			} else {
				opt.Score = skills.Score(req.Skills, c.Skills)
			}
		}
		options = append(options, opt)
	}
	slices.SortStableFunc(options, func(a, b StaffOption) int {
		if a.Reason.IsAvailable() != b.Reason.IsAvailable() {
			if a.Reason.IsAvailable() {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Score, a.Score)
	})
	return StaffPool{Options: options}
}

// Equipment annotates every item in pool. An empty category accepts any item.
func Equipment(req Request, category string, pool []models.EquipmentCandidate, claims []Claim) EquipmentPool {
	options := make([]EquipmentOption, 0, len(pool))
	for _, c := range pool {
		opt := EquipmentOption{Candidate: c, Reason: Reason{Code: Available}}
		switch {
		case c.Deleted || !c.BranchAvailability:
			opt.Reason = Reason{Code: Unavailable}
		case req.Branch != "" && c.Branch != req.Branch:
			opt.Reason = Reason{Code: OtherBranch}
		case category != "" && !strings.EqualFold(c.Category, category):
			opt.Reason = Reason{Code: CategoryMismatch}
		default:
			if r, busy := conflictFor(c.ID, req, claims); busy {
				opt.Reason = r
			}
		}
		options = append(options, opt)
	}
	slices.SortStableFunc(options, func(a, b EquipmentOption) int {
		switch {
		case a.Reason.IsAvailable() == b.Reason.IsAvailable():
			return 0
		case a.Reason.IsAvailable():
			return -1
		default:
			return 1
		}
	})
	return EquipmentPool{Options: options}
}

// conflictFor finds the first claim on id overlapping the requested window.
// The task being resolved never conflicts with itself.
func conflictFor(id string, req Request, claims []Claim) (Reason, bool) {
	for _, cl := range claims {
		if cl.ResourceID != id || cl.TaskID == req.TaskID {
			continue
		}
		if timewin.Overlaps(cl.Window, req.Window) {
			w := cl.Window
			return Reason{Code: Conflict, TaskID: cl.TaskID, Window: &w}, true
		}
	}
	return Reason{}, false
}
