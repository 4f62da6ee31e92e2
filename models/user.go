package models

import (
	"net/url"
	"time"
)

// User is a dashboard operator. Permissions is the raw capability token
// list attached to the user's role; see the permissions package for
// matching semantics.
type User struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u User) EntityID() string { return u.ID }

type UserFilter struct {
	Role   string
	Active *bool
}

func (f UserFilter) CacheFilter() map[string]string {
	m := map[string]string{}
	if f.Role != "" {
		m["role"] = f.Role
	}
	if f.Active != nil {
		if *f.Active {
			m["active"] = "true"
		} else {
			m["active"] = "false"
		}
	}
	return m
}

func (f UserFilter) Query() url.Values {
	q := url.Values{}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.Active != nil {
		if *f.Active {
			q.Set("active", "true")
		} else {
			q.Set("active", "false")
		}
	}
	return q
}

type CreateUserParams struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type UpdateUserParams struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Role  string `json:"role,omitempty"`
}
