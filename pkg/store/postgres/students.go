// Package postgres is the PostgreSQL store backend. The schema is created by
// the migrations in the migrations directory.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Alarion239/studentrecords/models/records"
	"github.com/Alarion239/studentrecords/pkg/db"
	"github.com/Alarion239/studentrecords/pkg/store"
)

type Store struct {
	db *db.DB
}

func New(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) ListStudents(ctx context.Context) ([]records.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	rows, err := s.db.Pool().Query(ctx, "SELECT id, roll_no, name, class_section, mark FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	students, err := pgx.CollectRows(rows, pgx.RowToStructByName[records.Student])
	if err != nil {
		return nil, fmt.Errorf("failed to scan students: %w", err)
	}
	if students == nil {
		students = []records.Student{}
	}
	return students, nil
}

func (s *Store) CreateStudent(ctx context.Context, fields records.StudentFields) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	student := fields.Student()
	err := s.db.Pool().QueryRow(ctx,
		"INSERT INTO students (roll_no, name, class_section, mark) VALUES ($1, $2, $3, $4) RETURNING id",
		student.RollNo, student.Name, student.ClassSection, student.Mark,
	).Scan(&student.ID)
	if err != nil {
		return records.Student{}, fmt.Errorf("failed to create student: %w", err)
	}
	return student, nil
}

func (s *Store) GetStudent(ctx context.Context, id int64) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	student := records.Student{}
	err := s.db.Pool().QueryRow(ctx,
		"SELECT id, roll_no, name, class_section, mark FROM students WHERE id = $1", id,
	).Scan(&student.ID, &student.RollNo, &student.Name, &student.ClassSection, &student.Mark)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return records.Student{}, store.ErrNotFound
	case err != nil:
		return records.Student{}, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *Store) SaveStudent(ctx context.Context, student records.Student) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	tag, err := s.db.Pool().Exec(ctx,
		"UPDATE students SET roll_no = $2, name = $3, class_section = $4, mark = $5 WHERE id = $1",
		student.ID, student.RollNo, student.Name, student.ClassSection, student.Mark,
	)
	if err != nil {
		return records.Student{}, fmt.Errorf("failed to save student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.Student{}, store.ErrNotFound
	}
	return student, nil
}

func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	tag, err := s.db.Pool().Exec(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
