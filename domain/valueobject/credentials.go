package valueobject

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Credentials is a validated email/password pair used for login and
// registration requests.
type Credentials struct {
	email    string
	password string
}

func NewCredentials(email, password string) (*Credentials, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	return &Credentials{
		email:    email,
		password: password,
	}, nil
}

func (c *Credentials) Email() string {
	return c.email
}

func (c *Credentials) Password() string {
	return c.password
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateDisplayName covers individual full names and organization names.
func ValidateDisplayName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return ErrNameTooShort
	}
	return nil
}
