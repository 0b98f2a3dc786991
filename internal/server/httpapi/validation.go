package httpapi

import (
	"net/mail"
	"unicode/utf8"

	"github.com/dmitrijs2005/pulse/internal/server/users"
)

type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) { f[field] = append(f[field], msg) }

func minLen(s string, n int) bool { return utf8.RuneCountInString(s) >= n }
func maxLen(s string, n int) bool { return utf8.RuneCountInString(s) <= n }

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (in loginRequest) validate() fieldErrors {
	errs := fieldErrors{}
	if !minLen(in.Identifier, 1) {
		errs.add("identifier", "Username or Email is required")
	}
	if !minLen(in.Password, 1) {
		errs.add("password", "Password is required")
	}
	return errs
}

func validateRegister(in users.RegisterInput) fieldErrors {
	errs := fieldErrors{}
	if !minLen(in.Username, 3) {
		errs.add("username", "Username must be at least 3 characters")
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		errs.add("email", "Please provide a valid email")
	}
	if !minLen(in.Password, 8) {
		errs.add("password", "Password must be at least 8 characters")
	}
	if !minLen(in.FirstName, 1) {
		errs.add("firstName", "First name is required")
	}
	return errs
}

type createThreadRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in createThreadRequest) validate() fieldErrors {
	errs := fieldErrors{}
	switch {
	case !minLen(in.Title, 1):
		errs.add("title", "Title is required")
	case !maxLen(in.Title, 100):
		errs.add("title", "Title is too long")
	}
	switch {
	case !minLen(in.Content, 1):
		errs.add("content", "Content is required")
	case !maxLen(in.Content, 1000):
		errs.add("content", "Content is too long")
	}
	return errs
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
