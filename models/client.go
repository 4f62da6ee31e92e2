package models

import (
	"net/url"
	"time"
)

// ClientAccount is a converted, billing-ready customer.
type ClientAccount struct {
	ID             string    `json:"id" validate:"required"`
	CompanyName    string    `json:"company_name"`
	ContactName    string    `json:"contact_name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	BillingAddress string    `json:"billing_address,omitempty"`
	TaxID          string    `json:"tax_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c ClientAccount) EntityID() string { return c.ID }

type ClientFilter struct {
	Search string
}

func (f ClientFilter) CacheFilter() map[string]string {
	if f.Search == "" {
		return nil
	}
	return map[string]string{"q": f.Search}
}

func (f ClientFilter) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	return q
}

type CreateClientParams struct {
	CompanyName    string `json:"company_name" validate:"required"`
	ContactName    string `json:"contact_name,omitempty"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty"`
	BillingAddress string `json:"billing_address,omitempty"`
	TaxID          string `json:"tax_id,omitempty"`
}

type UpdateClientParams struct {
	CompanyName    string `json:"company_name,omitempty"`
	ContactName    string `json:"contact_name,omitempty"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty"`
	BillingAddress string `json:"billing_address,omitempty"`
	TaxID          string `json:"tax_id,omitempty"`
}
