package models

type Role string

const (
	RolePhotographer  Role = "photographer"
	RoleVideographer  Role = "videographer"
	RoleAssistant     Role = "assistant"
	RoleDroneOperator Role = "drone_operator"
	RoleEditor        Role = "editor"
)

// StaffCandidate is a read-only staff directory record.
type StaffCandidate struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name,omitempty" bson:"name,omitempty"`
	Skills      []string `json:"skills" bson:"skills"`
	Designation string   `json:"designation" bson:"designation"`
	Role        Role     `json:"role,omitempty" bson:"role,omitempty"`
	Branch      string   `json:"branch" bson:"branch"`
	Active      bool     `json:"active" bson:"active"`
	Deleted     bool     `json:"deleted,omitempty" bson:"deleted,omitempty"`
}

type EquipmentCandidate struct {
	ID                 string `json:"id" bson:"id"`
	Name               string `json:"name,omitempty" bson:"name,omitempty"`
	Category           string `json:"category" bson:"category"`
	Branch             string `json:"branch" bson:"branch"`
	BranchAvailability bool   `json:"branchAvailability" bson:"branchAvailability"`
	Deleted            bool   `json:"deleted,omitempty" bson:"deleted,omitempty"`
}
