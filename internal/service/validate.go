package service

import (
	"net/mail"
	"strings"

	"projekthub/internal/entity"
)

const minPasswordLength = 6

// Validation messages mirror the registration and login form copy.
const (
	msgInvalidEmail  = "Ange en giltig e-postadress"
	msgShortPassword = "Lösenordet måste vara minst 6 tecken"
	msgMissingName   = "Namn är obligatoriskt"
)

// Validation lives here rather than in HTTP binding tags so the same rules
// hold for every entry point. Only the first violation is reported.

func validEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" || trimmed != email {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts display names and local addresses without a
	// dot in the domain; the forms only ever submit a bare address.
	return addr.Address == trimmed && strings.Contains(trimmed, "@")
}

func validateLogin(in entity.AuthLoginRequest) error {
	if !validEmail(in.Email) {
		return validationErr(msgInvalidEmail)
	}
	if len(in.Password) < minPasswordLength {
		return validationErr(msgShortPassword)
	}
	return nil
}

func validateRegister(in entity.AuthRegisterRequest) error {
	if !validEmail(in.Email) {
		return validationErr(msgInvalidEmail)
	}
	if len(in.Password) < minPasswordLength {
		return validationErr(msgShortPassword)
	}
	if strings.TrimSpace(in.Name) == "" {
		return validationErr(msgMissingName)
	}
	return nil
}
