package models

import (
	"net/url"
	"time"
)

// AttendanceStatus is the recorded state of one person-day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceHalfDay AttendanceStatus = "HalfDay"
	AttendanceLeave   AttendanceStatus = "Leave"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceLeave:
		return true
	}
	return false
}

// AttendanceRecord is one user's attendance for one day.
type AttendanceRecord struct {
	ID       string           `json:"id" validate:"required"`
	UserID   string           `json:"user_id"`
	Date     string           `json:"date"` // YYYY-MM-DD, server-local
	Status   AttendanceStatus `json:"status"`
	CheckIn  *time.Time       `json:"check_in,omitempty"`
	CheckOut *time.Time       `json:"check_out,omitempty"`
	Note     string           `json:"note,omitempty"`
}

func (a AttendanceRecord) EntityID() string { return a.ID }

type AttendanceFilter struct {
	UserID string
	From   string // YYYY-MM-DD
	To     string // YYYY-MM-DD
}

func (f AttendanceFilter) CacheFilter() map[string]string {
	m := map[string]string{}
	if f.UserID != "" {
		m["user"] = f.UserID
	}
	if f.From != "" {
		m["from"] = f.From
	}
	if f.To != "" {
		m["to"] = f.To
	}
	return m
}

func (f AttendanceFilter) Query() url.Values {
	q := url.Values{}
	if f.UserID != "" {
		q.Set("user_id", f.UserID)
	}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	return q
}

// MarkAttendanceParams records one user-day.
type MarkAttendanceParams struct {
	UserID string           `json:"user_id" validate:"required"`
	Date   string           `json:"date" validate:"required,datetime=2006-01-02"`
	Status AttendanceStatus `json:"status" validate:"required"`
	Note   string           `json:"note,omitempty"`
}
