package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string     // E.164, used for the PHONE delivery channel
	PasswordHash string     // argon2 encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
	Phone *string
}
