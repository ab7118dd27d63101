// Package sqlite is an embedded store backend on GORM and SQLite.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Alarion239/studentrecords/internal/logger"
	"github.com/Alarion239/studentrecords/models/common"
	"github.com/Alarion239/studentrecords/models/records"
	"github.com/Alarion239/studentrecords/pkg/store"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = "file::memory:"

type studentRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	RollNo       string `gorm:"column:roll_no;type:varchar(255);not null;default:''"`
	Name         string `gorm:"type:varchar(255);not null;default:''"`
	ClassSection string `gorm:"column:class_section;type:varchar(255);not null;default:''"`
	Mark         string `gorm:"type:varchar(255);not null;default:''"`
}

func (studentRow) TableName() string { return "students" }

func (r studentRow) model() records.Student {
	return records.Student{ID: r.ID, RollNo: r.RollNo, Name: r.Name, ClassSection: r.ClassSection, Mark: r.Mark}
}

type userRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(255);not null;default:''"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         string `gorm:"type:varchar(16);not null;default:STUDENT"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) model() common.Account {
	return common.Account{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         common.Role(r.Role),
		CreatedAt:    r.CreatedAt,
	}
}

type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.LogError("Failed to open sqlite database", err, "dsn", dsn)
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps in-memory databases alive and serialises writers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&studentRow{}, &userRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schemas: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping reports whether the database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) ListStudents(ctx context.Context) ([]records.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var rows []studentRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	out := make([]records.Student, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (s *Store) CreateStudent(ctx context.Context, fields records.StudentFields) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	row := studentRow{RollNo: fields.RollNo, Name: fields.Name, ClassSection: fields.ClassSection, Mark: fields.Mark}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return records.Student{}, fmt.Errorf("failed to create student: %w", err)
	}
	return row.model(), nil
}

func (s *Store) GetStudent(ctx context.Context, id int64) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	var row studentRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return records.Student{}, store.ErrNotFound
	case err != nil:
		return records.Student{}, fmt.Errorf("failed to get student: %w", err)
	}
	return row.model(), nil
}

func (s *Store) SaveStudent(ctx context.Context, st records.Student) (records.Student, error) {
	if err := ctx.Err(); err != nil {
		return records.Student{}, fmt.Errorf("context cancelled: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&studentRow{}).Where("id = ?", st.ID).Updates(map[string]interface{}{
		"roll_no":       st.RollNo,
		"name":          st.Name,
		"class_section": st.ClassSection,
		"mark":          st.Mark,
	})
	if res.Error != nil {
		return records.Student{}, fmt.Errorf("failed to save student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return records.Student{}, store.ErrNotFound
	}
	return st, nil
}

func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	res := s.db.WithContext(ctx).Delete(&studentRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateAccount(ctx context.Context, a common.NewAccount) (common.Account, error) {
	if err := ctx.Err(); err != nil {
		return common.Account{}, fmt.Errorf("context cancelled: %w", err)
	}

	row := userRow{Name: a.Name, Email: a.Email, PasswordHash: a.PasswordHash, Role: string(a.Role)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return common.Account{}, store.ErrConflict
		}
		return common.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return row.model(), nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (common.Account, error) {
	if err := ctx.Err(); err != nil {
		return common.Account{}, fmt.Errorf("context cancelled: %w", err)
	}

	var row userRow
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.Account{}, store.ErrNotFound
	case err != nil:
		return common.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return row.model(), nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
