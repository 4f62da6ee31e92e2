package models

import (
	"net/url"
	"time"
)

// Report is a generated business report. Rows are typed rather than a loose
// JSON blob so malformed report payloads are caught at the transport
// boundary.
type Report struct {
	ID          string      `json:"id" validate:"required"`
	Title       string      `json:"title"`
	Type        string      `json:"type"`
	PeriodStart time.Time   `json:"period_start"`
	PeriodEnd   time.Time   `json:"period_end"`
	Rows        []ReportRow `json:"rows,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
	GeneratedBy string      `json:"generated_by,omitempty"`
}

// ReportRow is one labelled figure in a report.
type ReportRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count,omitempty"`
}

func (r Report) EntityID() string { return r.ID }

type ReportFilter struct {
	Type string
}

func (f ReportFilter) CacheFilter() map[string]string {
	if f.Type == "" {
		return nil
	}
	return map[string]string{"type": f.Type}
}

func (f ReportFilter) Query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	return q
}

// GenerateReportParams asks the server to build a report over a period.
type GenerateReportParams struct {
	Title       string    `json:"title" validate:"required"`
	Type        string    `json:"type" validate:"required"`
	PeriodStart time.Time `json:"period_start" validate:"required"`
	PeriodEnd   time.Time `json:"period_end" validate:"required,gtefield=PeriodStart"`
}
