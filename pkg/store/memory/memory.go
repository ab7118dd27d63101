// Package memory is an in-process store backend. Data is lost on exit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Alarion239/studentrecords/models/common"
	"github.com/Alarion239/studentrecords/models/records"
	"github.com/Alarion239/studentrecords/pkg/store"
)

type Store struct {
	mu sync.RWMutex

	students      map[int64]records.Student
	nextStudentID int64

	accounts      map[int64]common.Account
	byEmail       map[string]int64
	nextAccountID int64
}

func New() *Store {
	return &Store{
		students: make(map[int64]records.Student),
		accounts: make(map[int64]common.Account),
		byEmail:  make(map[string]int64),
	}
}

func (s *Store) ListStudents(ctx context.Context) ([]records.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]records.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateStudent(ctx context.Context, fields records.StudentFields) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextStudentID++
	st := fields.Student()
	st.ID = s.nextStudentID
	s.students[st.ID] = st
	return st, nil
}

func (s *Store) GetStudent(ctx context.Context, id int64) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return records.Student{}, store.ErrNotFound
	}
	return st, nil
}

func (s *Store) SaveStudent(ctx context.Context, st records.Student) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[st.ID]; !ok {
		return records.Student{}, store.ErrNotFound
	}
	s.students[st.ID] = st
	return st, nil
}

func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.students, id)
	return nil
}

func (s *Store) CreateAccount(ctx context.Context, a common.NewAccount) (common.Account, error) {
	if err := ctx.Err(); err != nil {
		return common.Account{}, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[a.Email]; taken {
		return common.Account{}, store.ErrConflict
	}

	s.nextAccountID++
	acc := common.Account{
		ID:           s.nextAccountID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		CreatedAt:    time.Now().UTC(),
	}
	s.accounts[acc.ID] = acc
	s.byEmail[acc.Email] = acc.ID
	return acc, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (common.Account, error) {
	if err := ctx.Err(); err != nil {
		return common.Account{}, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return common.Account{}, store.ErrNotFound
	}
	return s.accounts[id], nil
}
