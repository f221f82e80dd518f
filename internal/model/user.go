// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// User represents a patient account record.
// Password is nil until credentials have been issued; issuance is a one-way
// transition from nil to set.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCredentials reports whether a password has been issued for the user.
func (u *User) HasCredentials() bool {
	return u.Password != nil && *u.Password != ""
}

// FullName joins the name parts, tolerating either being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
