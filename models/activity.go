package models

import "time"

// ActivityLog is one server-generated audit entry for an entity. Mutations
// create these server-side, which is why the coordinator always invalidates
// activity views after a write: the client cannot predict their shape.
type ActivityLog struct {
	ID        string    `json:"id" validate:"required"`
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entity_id"`
	Actor     string    `json:"actor,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactHistory is one recorded touch with a lead.
type ContactHistory struct {
	ID          string    `json:"id" validate:"required"`
	LeadID      string    `json:"lead_id"`
	Channel     string    `json:"channel"` // call, email, visit
	Summary     string    `json:"summary,omitempty"`
	ContactedBy string    `json:"contacted_by,omitempty"`
	ContactedAt time.Time `json:"contacted_at"`
}
