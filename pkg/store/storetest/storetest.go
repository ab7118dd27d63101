// Package storetest holds behaviour tests shared by every store backend.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alarion239/studentrecords/models/common"
	"github.com/Alarion239/studentrecords/models/records"
	"github.com/Alarion239/studentrecords/pkg/store"
)

// Backend is a store implementing both contracts.
type Backend interface {
	store.StudentStore
	store.AccountStore
}

// Run exercises newBackend. Each subtest gets a fresh, empty backend.
func Run(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("CreateThenList", func(t *testing.T) { testCreateThenList(t, newBackend(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newBackend(t)) })
	t.Run("SaveOverwrites", func(t *testing.T) { testSaveOverwrites(t, newBackend(t)) })
	t.Run("SaveMissing", func(t *testing.T) { testSaveMissing(t, newBackend(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newBackend(t)) })
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, newBackend(t)) })
	t.Run("CancelledContext", func(t *testing.T) { testCancelledContext(t, newBackend(t)) })
}

func testCreateThenList(t *testing.T, b Backend) {
	ctx := context.Background()

	empty, err := b.ListStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := b.CreateStudent(ctx, records.StudentFields{RollNo: "12345", Name: "John Doe", ClassSection: "10A", Mark: "85"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "12345", first.RollNo)
	assert.Equal(t, "John Doe", first.Name)
	assert.Equal(t, "10A", first.ClassSection)
	assert.Equal(t, "85", first.Mark)

	second, err := b.CreateStudent(ctx, records.StudentFields{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := b.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0])
	assert.Equal(t, second, all[1])
}

func testGetMissing(t *testing.T, b Backend) {
	_, err := b.GetStudent(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testSaveOverwrites(t *testing.T, b Backend) {
	ctx := context.Background()

	created, err := b.CreateStudent(ctx, records.StudentFields{RollNo: "1", Name: "Jane", ClassSection: "9B", Mark: "70"})
	require.NoError(t, err)

	created.Mark = "95"
	created.Name = ""
	saved, err := b.SaveStudent(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created, saved)

	got, err := b.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func testSaveMissing(t *testing.T, b Backend) {
	_, err := b.SaveStudent(context.Background(), records.Student{ID: 999, Name: "ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDelete(t *testing.T, b Backend) {
	ctx := context.Background()

	created, err := b.CreateStudent(ctx, records.StudentFields{RollNo: "1"})
	require.NoError(t, err)

	require.NoError(t, b.DeleteStudent(ctx, created.ID))

	_, err = b.GetStudent(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, b.DeleteStudent(ctx, created.ID), store.ErrNotFound)
}

func testAccounts(t *testing.T, b Backend) {
	ctx := context.Background()

	_, err := b.GetAccountByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	acc, err := b.CreateAccount(ctx, common.NewAccount{
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         common.RoleTeacher,
	})
	require.NoError(t, err)
	assert.NotZero(t, acc.ID)
	assert.Equal(t, common.RoleTeacher, acc.Role)

	got, err := b.GetAccountByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	assert.Equal(t, common.RoleTeacher, got.Role)

	_, err = b.CreateAccount(ctx, common.NewAccount{Name: "Other", Email: "ada@example.com", PasswordHash: "x", Role: common.RoleStudent})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func testCancelledContext(t *testing.T, b Backend) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.ListStudents(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
