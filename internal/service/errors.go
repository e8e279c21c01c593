package service

import "errors"

// Sentinel errors returned by the account service. Messages are the Swedish
// strings shown to users; the API layer maps each sentinel to an error code
// and HTTP status.
var (
	// ErrInvalidCredentials deliberately merges "no such user" and "wrong
	// password" so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("Felaktig e-post eller lösenord")
	ErrDuplicateEmail     = errors.New("E-postadressen används redan")
	ErrAccountUnverified  = errors.New("Konto ej verifierat. Kontrollera din e-post för att verifiera.")
	ErrNoSession          = errors.New("Ingen giltig token")
	// ErrInvalidSession covers both tampered and expired tokens with one
	// message to avoid an oracle.
	ErrInvalidSession  = errors.New("Ogiltig eller utgången token")
	ErrUserNotFound    = errors.New("Användaren finns inte längre")
	ErrForbidden       = errors.New("Endast admin har behörighet")
	ErrNotFound        = errors.New("Resursen hittades inte")
	ErrFeatureDisabled = errors.New("Skapande av administratörer är inaktiverat")
)

// ValidationError reports the first input violation with a user-facing
// message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}
