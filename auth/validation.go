package auth

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	minPasswordLength = 8
	minNameLength     = 2
)

// LoginCredentials is the payload of a login attempt
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credentials client-side before any request is made
func (c LoginCredentials) Validate() error {
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	return validatePassword(c.Password)
}

// RegisterCredentials is the payload of a registration attempt. The confirm
// password is checked locally and never sent over the wire.
type RegisterCredentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	ConfirmPassword string `json:"-"`
}

// Validate checks the registration fields client-side
func (c RegisterCredentials) Validate() error {
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	if err := validatePassword(c.Password); err != nil {
		return err
	}
	if len(strings.TrimSpace(c.Name)) < minNameLength {
		return fmt.Errorf("name must be at least %d characters", minNameLength)
	}
	if c.Password != c.ConfirmPassword {
		return fmt.Errorf("passwords don't match")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
