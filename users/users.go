package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the identity record attached to an authenticated session
type User struct {
	ID        string    `json:"id"`               // Unique identifier for the user
	Email     string    `json:"email"`            // User's email address
	Name      string    `json:"name"`             // Display name
	Avatar    string    `json:"avatar,omitempty"` // Avatar image URL
	CreatedAt time.Time `json:"createdAt"`        // When the account was created
	UpdatedAt time.Time `json:"updatedAt"`        // Last profile update
}

// UserProfile extends User with the public profile fields
type UserProfile struct {
	User
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
