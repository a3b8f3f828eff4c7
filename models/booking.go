package models

import "studioerp/timewin"

type Venue struct {
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
}

type TimeRange struct {
	Start string `json:"start,omitempty" bson:"start,omitempty"`
	End   string `json:"end,omitempty" bson:"end,omitempty"`
}

// ServiceEntry is one dated unit of requested service within a booking.
type ServiceEntry struct {
	Date           string     `json:"date" bson:"date"`
	Time           *TimeRange `json:"time,omitempty" bson:"time,omitempty"`
	Venue          *Venue     `json:"venue,omitempty" bson:"venue,omitempty"`
	ServiceType    string     `json:"serviceType,omitempty" bson:"serviceType,omitempty"`
	RequiredSkills []string   `json:"requiredSkills,omitempty" bson:"requiredSkills,omitempty"`
}

func (e ServiceEntry) Window() timewin.Window {
	if e.Time == nil {
		return timewin.New(e.Date, "", "")
	}
	return timewin.New(e.Date, e.Time.Start, e.Time.End)
}

func (e ServiceEntry) HasVenueAddress() bool {
	return e.Venue != nil && e.Venue.Address != ""
}

// EquipmentRequest asks for one item of a category, optionally a specific one.
type EquipmentRequest struct {
	Category string `json:"category" bson:"category"`
	ItemID   string `json:"itemId,omitempty" bson:"itemId,omitempty"`
}

type Booking struct {
	ID                  string             `json:"id" bson:"id"`
	Company             string             `json:"company" bson:"company"`
	Branch              string             `json:"branch" bson:"branch"`
	Client              string             `json:"client" bson:"client"`
	CreatedBy           string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	EquipmentAssignment []EquipmentRequest `json:"equipmentAssignment,omitempty" bson:"equipmentAssignment,omitempty"`
	FunctionDetails     *ServiceEntry      `json:"functionDetails,omitempty" bson:"functionDetails,omitempty"`
	FunctionDetailsList []ServiceEntry     `json:"functionDetailsList,omitempty" bson:"functionDetailsList,omitempty"`
	Deleted             bool               `json:"deleted,omitempty" bson:"deleted,omitempty"`
}

// Entries returns the booking's service entries. The legacy single-entry
// form comes back as a one-element list.
func (b *Booking) Entries() []ServiceEntry {
	if len(b.FunctionDetailsList) > 0 {
		return b.FunctionDetailsList
	}
	if b.FunctionDetails != nil {
		return []ServiceEntry{*b.FunctionDetails}
	}
	return nil
}

func (b *Booking) EquipmentCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, req := range b.EquipmentAssignment {
		if req.Category == "" || seen[req.Category] {
			continue
		}
		seen[req.Category] = true
		out = append(out, req.Category)
	}
	return out
}
