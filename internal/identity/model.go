package identity

import "time"

// User represents a registered wallet owner. The email doubles as the login
// username and as the public identifier recipients are addressed by.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
