package models

import (
	"net/url"
	"time"
)

// LeadStatus is the sales pipeline stage of a lead. Legal transitions are
// enforced server-side; the client only validates that a value is one of
// the known stages before sending it.
type LeadStatus string

const (
	LeadNew       LeadStatus = "New"
	LeadContacted LeadStatus = "Contacted"
	LeadQualified LeadStatus = "Qualified"
	LeadQuoted    LeadStatus = "Quoted"
	LeadWon       LeadStatus = "Won"
	LeadLost      LeadStatus = "Lost"
)

// Valid reports whether s is a known pipeline stage.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadQuoted, LeadWon, LeadLost:
		return true
	}
	return false
}

// Lead is a prospective buyer of construction materials.
type Lead struct {
	ID               string     `json:"id" validate:"required"`
	Name             string     `json:"name"`
	Company          string     `json:"company,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Source           string     `json:"source,omitempty"`
	Status           LeadStatus `json:"status"`
	AssigneeID       string     `json:"assignee_id,omitempty"`
	SiteLocation     string     `json:"site_location,omitempty"`
	MaterialInterest string     `json:"material_interest,omitempty"`
	Quantity         float64    `json:"quantity,omitempty"`
	QuantityUnit     string     `json:"quantity_unit,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (l Lead) EntityID() string { return l.ID }

// LeadFilter narrows a lead list view.
type LeadFilter struct {
	Status     LeadStatus
	AssigneeID string
	Source     string
	Search     string
}

// CacheFilter renders the filter as cache key components.
func (f LeadFilter) CacheFilter() map[string]string {
	m := map[string]string{}
	if f.Status != "" {
		m["status"] = string(f.Status)
	}
	if f.AssigneeID != "" {
		m["assignee"] = f.AssigneeID
	}
	if f.Source != "" {
		m["source"] = f.Source
	}
	if f.Search != "" {
		m["q"] = f.Search
	}
	return m
}

// Query renders the filter as request query parameters.
func (f LeadFilter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.AssigneeID != "" {
		q.Set("assignee_id", f.AssigneeID)
	}
	if f.Source != "" {
		q.Set("source", f.Source)
	}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	return q
}

// CreateLeadParams is the payload for creating a lead. Validated client-side
// before any request is attempted.
type CreateLeadParams struct {
	Name             string  `json:"name" validate:"required"`
	Company          string  `json:"company,omitempty"`
	Email            string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone            string  `json:"phone,omitempty"`
	Source           string  `json:"source,omitempty"`
	SiteLocation     string  `json:"site_location,omitempty"`
	MaterialInterest string  `json:"material_interest,omitempty"`
	Quantity         float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	QuantityUnit     string  `json:"quantity_unit,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// UpdateLeadParams is the payload for updating lead business fields.
// Status changes go through TransitionStatus, assignment through Assign.
type UpdateLeadParams struct {
	Name             string  `json:"name,omitempty"`
	Company          string  `json:"company,omitempty"`
	Email            string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone            string  `json:"phone,omitempty"`
	Source           string  `json:"source,omitempty"`
	SiteLocation     string  `json:"site_location,omitempty"`
	MaterialInterest string  `json:"material_interest,omitempty"`
	Quantity         float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	QuantityUnit     string  `json:"quantity_unit,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}
