package users

import (
	"strings"
	"time"
)

// RoleType is the marketplace role of a user
type RoleType string

const (
	RoleUser  RoleType = "USER"
	RoleAdmin RoleType = "ADMIN"
)

// User is the marketplace account returned by the backend API.
// Optional profile fields are nil when the backend sends null.
type User struct {
	ID          string     `json:"id"`
	PhoneNumber string     `json:"phoneNumber"`
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	Email       *string    `json:"email"`
	Role        RoleType   `json:"role"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ProfileUpdate carries the editable profile fields (PATCH /users/{id}).
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// IsAdmin reports whether the user may use the admin dashboard
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefers the first name, then the phone number, then "Admin".
func (u *User) DisplayName() string {
	if u == nil {
		return "Admin"
	}
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) != "" {
		return strings.TrimSpace(*u.FirstName)
	}
	if u.PhoneNumber != "" {
		return u.PhoneNumber
	}
	return "Admin"
}

// Initial is the avatar letter shown in the sidebar
func (u *User) Initial() string {
	name := u.DisplayName()
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "A"
}

// FullName joins first and last name, trimming missing parts
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	return strings.Join(parts, " ")
}

// WithProfile returns a copy of u with the non-nil fields of p applied
func (u User) WithProfile(p ProfileUpdate) User {
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	if p.Email != nil {
		u.Email = p.Email
	}
	return u
}
