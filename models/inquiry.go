package models

import (
	"net/url"
	"time"
)

// InquiryStatus is the lifecycle stage of a product inquiry.
type InquiryStatus string

const (
	InquiryOpen      InquiryStatus = "Open"
	InquiryQuoted    InquiryStatus = "Quoted"
	InquiryConverted InquiryStatus = "Converted"
	InquiryClosed    InquiryStatus = "Closed"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryOpen, InquiryQuoted, InquiryConverted, InquiryClosed:
		return true
	}
	return false
}

// Inquiry is a concrete request for materials, usually raised from a lead
// or an existing client.
type Inquiry struct {
	ID         string        `json:"id" validate:"required"`
	LeadID     string        `json:"lead_id,omitempty"`
	ClientID   string        `json:"client_id,omitempty"`
	Subject    string        `json:"subject"`
	Details    string        `json:"details,omitempty"`
	ProductID  string        `json:"product_id,omitempty"`
	Quantity   float64       `json:"quantity,omitempty"`
	Unit       string        `json:"unit,omitempty"`
	Status     InquiryStatus `json:"status"`
	AssigneeID string        `json:"assignee_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (i Inquiry) EntityID() string { return i.ID }

type InquiryFilter struct {
	Status     InquiryStatus
	ClientID   string
	AssigneeID string
}

func (f InquiryFilter) CacheFilter() map[string]string {
	m := map[string]string{}
	if f.Status != "" {
		m["status"] = string(f.Status)
	}
	if f.ClientID != "" {
		m["client"] = f.ClientID
	}
	if f.AssigneeID != "" {
		m["assignee"] = f.AssigneeID
	}
	return m
}

func (f InquiryFilter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.ClientID != "" {
		q.Set("client_id", f.ClientID)
	}
	if f.AssigneeID != "" {
		q.Set("assignee_id", f.AssigneeID)
	}
	return q
}

type CreateInquiryParams struct {
	LeadID    string  `json:"lead_id,omitempty"`
	ClientID  string  `json:"client_id,omitempty"`
	Subject   string  `json:"subject" validate:"required"`
	Details   string  `json:"details,omitempty"`
	ProductID string  `json:"product_id,omitempty"`
	Quantity  float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit      string  `json:"unit,omitempty"`
}

type UpdateInquiryParams struct {
	Subject   string  `json:"subject,omitempty"`
	Details   string  `json:"details,omitempty"`
	ProductID string  `json:"product_id,omitempty"`
	Quantity  float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit      string  `json:"unit,omitempty"`
}
