// Package store declares the persistence contracts for student rows and user
// accounts. Backends live in the postgres, sqlite and memory subpackages.
package store

import (
	"context"
	"errors"

	"github.com/Alarion239/studentrecords/models/common"
	"github.com/Alarion239/studentrecords/models/records"
)

var (
	// ErrNotFound is returned when no row matches the lookup key.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("record already exists")
)

type StudentStore interface {
	ListStudents(ctx context.Context) ([]records.Student, error)
	CreateStudent(ctx context.Context, fields records.StudentFields) (records.Student, error)
	GetStudent(ctx context.Context, id int64) (records.Student, error)
	// SaveStudent overwrites every column of the row with s.ID.
	SaveStudent(ctx context.Context, s records.Student) (records.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type AccountStore interface {
	CreateAccount(ctx context.Context, a common.NewAccount) (common.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (common.Account, error)
}
