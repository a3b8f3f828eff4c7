package assign

import (
	"strings"

	"studioerp/availability"
	"studioerp/models"
	"studioerp/skills"
)

const (
	prepCrewSize   = 2
	mainCrewSize   = 2
	backupCrewSize = 1
)

// requiredSkills is the hard skill filter of each task type.
func requiredSkills(typ models.TaskType) []string {
	switch typ {
	case models.TaskEquipmentPrep:
		return []string{skills.EquipmentHandling}
	case models.TaskDataBackup:
		return []string{skills.DataManagement, skills.BasicEditing}
	default:
		return nil
	}
}

// pickStaff applies the selection policy of the task type to an available
// pool already sorted best first.
func pickStaff(typ models.TaskType, pool []availability.StaffOption) []models.StaffCandidate {
	switch typ {
	case models.TaskEquipmentPrep:
		return takeBest(pool, prepCrewSize, nil)
	case models.TaskDataBackup:
		return takeBest(pool, backupCrewSize, nil)
	case models.TaskMainFunction:
		return pickMainCrew(pool)
	default:
		return takeBest(pool, 1, nil)
	}
}

// pickMainCrew takes the best photographer, videographer and assistant, each
// a different person, then backfills by score up to the minimum crew.
func pickMainCrew(pool []availability.StaffOption) []models.StaffCandidate {
	picked := make(map[string]bool)
	var crew []models.StaffCandidate
	for _, role := range []models.Role{models.RolePhotographer, models.RoleVideographer, models.RoleAssistant} {
		for _, o := range pool {
			if picked[o.Candidate.ID] || o.Candidate.Role != role {
				continue
			}
			picked[o.Candidate.ID] = true
			crew = append(crew, o.Candidate)
			break
		}
	}
	if len(crew) < mainCrewSize {
		crew = append(crew, takeBest(pool, mainCrewSize-len(crew), picked)...)
	}
	return crew
}

func takeBest(pool []availability.StaffOption, n int, skip map[string]bool) []models.StaffCandidate {
	var out []models.StaffCandidate
	for _, o := range pool {
		if len(out) == n {
			break
		}
		if skip[o.Candidate.ID] {
			continue
		}
		out = append(out, o.Candidate)
	}
	return out
}

func roleFor(c models.StaffCandidate, typ models.TaskType) string {
	return skills.RoleLabel(c.Role, typ)
}

// pickEquipment chooses one item per requested category. A request naming an
// item gets that item when it is free, otherwise the first free item of the
// category if one was given. No item is chosen twice.
func pickEquipment(req availability.Request, requests []models.EquipmentRequest, pool []models.EquipmentCandidate, claims []availability.Claim) ([]models.EquipmentCandidate, []availability.EquipmentPool) {
	picked := make(map[string]bool)
	var items []models.EquipmentCandidate
	var pools []availability.EquipmentPool
	for _, r := range requests {
		if r.Category == "" && r.ItemID == "" {
			continue
		}
		p := availability.Equipment(req, r.Category, pool, claims)
		pools = append(pools, p)

		var choice *models.EquipmentCandidate
		for _, o := range p.Available() {
			if picked[o.Candidate.ID] {
				continue
			}
			if r.ItemID != "" && strings.EqualFold(o.Candidate.ID, r.ItemID) {
				c := o.Candidate
				choice = &c
				break
			}
			if choice == nil && r.Category != "" {
				c := o.Candidate
				choice = &c
				if r.ItemID == "" {
					break
				}
			}
		}
		if choice == nil {
			continue
		}
		picked[choice.ID] = true
		items = append(items, *choice)
	}
	return items, pools
}
