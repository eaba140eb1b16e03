// Package models holds the typed records exchanged between the gateway,
// the services and the CLI.
package models

import (
	"strings"
	"time"
)

// User is a full account row. PasswordHash never leaves the gateway
// client except for verification.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	UserName     string
	FirstName    string
	LastName     string
	PhoneNumber  string
	ProfileURL   *string
	CreatedAt    time.Time
}

// Summary is the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		UserName:   u.UserName,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		ProfileURL: u.ProfileURL,
	}
}

// UserSummary is what search results and feed authors carry.
type UserSummary struct {
	ID         int64
	UserName   string
	FirstName  string
	LastName   string
	ProfileURL *string
}

// DisplayName is "First Last", falling back to the username.
func (s UserSummary) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name == "" {
		return s.UserName
	}
	return name
}
