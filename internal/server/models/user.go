// Package models holds the records persisted by the server.
package models

import (
	"strings"
	"time"
)

// User is a registered account. JSON tags follow the document shape clients
// already consume (`_id`, `password`, camelCase timestamps).
//
// ResetPasswordExpires and Token are kept for data-shape compatibility only;
// nothing in the server reads or writes them.
type User struct {
	ID                   string     `json:"_id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"password"`
	Prompts              []string   `json:"prompts"`
	ResetPasswordExpires *time.Time `json:"resetPasswordExpires,omitempty"`
	Token                *string    `json:"token,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Prompts = append(make([]string, 0, len(u.Prompts)), u.Prompts...)
	if u.ResetPasswordExpires != nil {
		t := *u.ResetPasswordExpires
		c.ResetPasswordExpires = &t
	}
	if u.Token != nil {
		s := *u.Token
		c.Token = &s
	}
	return &c
}

// NormalizeEmail performs case-insensitive canonicalization.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(s string) string {
	return strings.TrimSpace(s)
}
