package domain

import "strings"

// User models a registered account. Email is the login identifier.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

// NormalizeEmail lower-cases and trims an email so that uniqueness is
// enforced case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
