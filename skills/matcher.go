// Package skills scores staff against task requirements and labels the
// role a chosen staff member plays on a task.
package skills

import (
	"strings"

	"studioerp/models"
)

const (
	EquipmentHandling = "equipment_handling"
	DataManagement    = "data_management"
	BasicEditing      = "basic_editing"
)

// Score is the fraction of required skills present in have, in [0,1].
// No requirements means no preference, so every candidate scores 1.
func Score(required, have []string) float64 {
	if len(required) == 0 {
		return 1
	}
	owned := make(map[string]bool, len(have))
	for _, s := range have {
		owned[normalize(s)] = true
	}
	matched := 0
	for _, s := range required {
		if owned[normalize(s)] {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// Missing lists the required skills not present in have.
func Missing(required, have []string) []string {
	owned := make(map[string]bool, len(have))
	for _, s := range have {
		owned[normalize(s)] = true
	}
	var out []string
	for _, s := range required {
		if !owned[normalize(s)] {
			out = append(out, s)
		}
	}
	return out
}

// HasAny reports whether have contains at least one of wanted.
func HasAny(have []string, wanted ...string) bool {
	for _, h := range have {
		for _, w := range wanted {
			if normalize(h) == normalize(w) {
				return true
			}
		}
	}
	return false
}

// designation substrings in match priority order
var designationRoles = []struct {
	needle string
	role   models.Role
}{
	{"photographer", models.RolePhotographer},
	{"videographer", models.RoleVideographer},
	{"assistant", models.RoleAssistant},
	{"drone operator", models.RoleDroneOperator},
	{"editor", models.RoleEditor},
}

// InferRole derives a role tag from a free-text designation. It exists for
// the directory migration; runtime code reads StaffCandidate.Role.
func InferRole(designation string) models.Role {
	d := strings.ToLower(designation)
	for _, dr := range designationRoles {
		if strings.Contains(d, dr.needle) {
			return dr.role
		}
	}
	return ""
}

// RoleLabel is the role recorded on an assignment.
func RoleLabel(role models.Role, taskType models.TaskType) string {
	if role != "" {
		return string(role)
	}
	switch taskType {
	case models.TaskEquipmentPrep:
		return "equipment_handler"
	case models.TaskTravel, models.TaskMainFunction:
		return "crew_member"
	case models.TaskDataBackup:
		return "data_manager"
	default:
		return "staff"
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
