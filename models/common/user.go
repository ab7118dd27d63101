package common

import "time"

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Account is a registered user. PasswordHash is a bcrypt hash.
type Account struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// NewAccount holds the columns written on signup.
type NewAccount struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}
