package utils

import (
	"strings"
)

// FieldError marks a single invalid input field. Returned to clients as
// a structured negative result, never as a server fault.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	TitleMinLen = 3
	TitleMaxLen = 50
	TextMinLen  = 20
	TextMaxLen  = 2000
)

func ValidateRegister(username, email, password string) []FieldError {
	var errs []FieldError
	if !strings.Contains(email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email"})
	}
	if len(username) <= 2 {
		errs = append(errs, FieldError{Field: "username", Message: "username too short"})
	}
	if strings.Contains(username, "@") {
		errs = append(errs, FieldError{Field: "username", Message: "username cannot contain @"})
	}
	if len(password) <= 3 {
		errs = append(errs, FieldError{Field: "password", Message: "password too weak"})
	}
	return errs
}

func ValidatePost(title, text string) []FieldError {
	var errs []FieldError
	if len(title) < TitleMinLen {
		errs = append(errs, FieldError{Field: "title", Message: "title too short"})
	}
	if len(title) > TitleMaxLen {
		errs = append(errs, FieldError{Field: "title", Message: "title too long"})
	}
	if len(text) < TextMinLen {
		errs = append(errs, FieldError{Field: "text", Message: "text too short"})
	}
	if len(text) > TextMaxLen {
		errs = append(errs, FieldError{Field: "text", Message: "text too long"})
	}
	return errs
}
