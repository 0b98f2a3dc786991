// Package models holds the data shapes exchanged with the threads API.
package models

import "time"

type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName,omitempty"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"isActive"`
	DateJoined  time.Time `json:"dateJoined"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	IsDeleted   bool      `json:"isDeleted"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TokenPair is the access/refresh credential pair issued by /auth/login,
// /auth/register and /auth/refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether neither token is set.
func (p TokenPair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

type AuthResponse struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// LoginCredentials carries a username or an email in Identifier.
type LoginCredentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password,omitempty"`
}

type RegisterCredentials struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
