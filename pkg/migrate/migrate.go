// Package migrate provides database migration functionality for PostgreSQL databases.
// It supports applying, rolling back, and stepping through migrations with transaction safety.
//
// Migrations are read from an fs.FS as pairs of NNNNNN_name.up.sql and
// NNNNNN_name.down.sql files. Version 0 must create the migrations table.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/Alarion239/studentrecords/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// NoVersion is reported when no migration has been applied yet.
const NoVersion = -1

const undefinedTable = "42P01"

type Migration struct {
	Version int
	UpSQL   string
	DownSQL string
}

type Migrator struct {
	conn       *pgx.Conn
	migrations []Migration
}

func NewMigrator(ctx context.Context, connectionString string, fsys fs.FS) (*Migrator, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	migrations, err := Load(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	conn, err := pgx.Connect(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Migrator{
		conn:       conn,
		migrations: migrations,
	}, nil
}

func (m *Migrator) Close(ctx context.Context) error {
	return m.conn.Close(ctx)
}

// Load reads migrations from the root of fsys. Versions must be contiguous
// from 0 and every version needs an up file.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		baseName := entry.Name()
		if len(baseName) < 6 {
			continue
		}

		version, err := strconv.Atoi(baseName[:6])
		if err != nil {
			continue
		}

		var isUp bool
		switch {
		case strings.HasSuffix(baseName, ".up.sql"):
			isUp = true
		case strings.HasSuffix(baseName, ".down.sql"):
			isUp = false
		default:
			continue
		}

		data, err := fs.ReadFile(fsys, baseName)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", baseName, err)
		}

		migration, ok := byVersion[version]
		if !ok {
			migration = &Migration{Version: version}
			byVersion[version] = migration
		}
		if isUp {
			migration.UpSQL = string(data)
		} else {
			migration.DownSQL = string(data)
		}
	}

	if len(byVersion) == 0 {
		return nil, errors.New("no valid migration files found")
	}

	versions := make([]int, 0, len(byVersion))
	for v := range byVersion {
		versions = append(versions, v)
	}
	sort.Ints(versions)

	migrations := make([]Migration, 0, len(versions))
	for i, v := range versions {
		if v != i {
			return nil, fmt.Errorf("migration %d is missing", i)
		}
		if strings.TrimSpace(byVersion[v].UpSQL) == "" {
			return nil, fmt.Errorf("migration %d is missing up.sql file", v)
		}
		migrations = append(migrations, *byVersion[v])
	}
	return migrations, nil
}

// GetCurrentVersion returns the highest applied version, or NoVersion.
func (m *Migrator) GetCurrentVersion(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled: %w", err)
	}

	var version sql.NullInt64 // Use NullInt64 to handle NULL from MAX()
	err := m.conn.QueryRow(ctx, "SELECT MAX(version) FROM migrations").Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NoVersion, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return NoVersion, nil
		}
		return 0, fmt.Errorf("failed to get current migration version: %w", err)
	}

	if !version.Valid {
		return NoVersion, nil
	}

	return int(version.Int64), nil
}

// Up applies all pending migrations in order starting from currentVersion + 1.
func (m *Migrator) Up(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version before applying migrations: %w", err)
	}

	for version := currentVersion + 1; version < len(m.migrations); version++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled while applying migration %d: %w", version, err)
		}

		logger.LogInfo("Applying migration", "version", version)
		if err := m.applyMigration(ctx, m.migrations[version], true); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}
	}

	return nil
}

// Down rolls back the last migration. Version 0 holds the bookkeeping table
// and is never rolled back.
func (m *Migrator) Down(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version before rolling back: %w", err)
	}

	return m.rollback(ctx, currentVersion)
}

func (m *Migrator) rollback(ctx context.Context, currentVersion int) error {
	if currentVersion <= 0 {
		return errors.New("no migrations to rollback")
	}
	if currentVersion >= len(m.migrations) {
		return fmt.Errorf("migration %d not found in loaded migrations", currentVersion)
	}

	migration := m.migrations[currentVersion]
	if strings.TrimSpace(migration.DownSQL) == "" {
		return fmt.Errorf("migration %d does not have a down.sql file or it is empty", currentVersion)
	}

	logger.LogInfo("Rolling back migration", "version", currentVersion)
	return m.applyMigration(ctx, migration, false)
}

// applyMigration applies a single migration (up or down) within a transaction.
func (m *Migrator) applyMigration(ctx context.Context, migration Migration, up bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	sql := migration.DownSQL
	if up {
		sql = migration.UpSQL
	}

	tx, err := m.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, stmt := range Statements(sql) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration SQL for version %d (statement %d): %w\nStatement: %s", migration.Version, i+1, err, stmt)
		}
	}

	if up {
		if _, err := tx.Exec(ctx,
			"INSERT INTO migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING",
			migration.Version,
		); err != nil {
			return fmt.Errorf("failed to record migration version %d: %w", migration.Version, err)
		}
	} else {
		if _, err := tx.Exec(ctx,
			"DELETE FROM migrations WHERE version = $1",
			migration.Version,
		); err != nil {
			return fmt.Errorf("failed to remove migration version %d: %w", migration.Version, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Steps applies or rolls back a specific number of migrations.
// Positive steps apply migrations forward, negative steps roll back migrations.
func (m *Migrator) Steps(ctx context.Context, steps int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version before executing steps: %w", err)
	}

	for ; steps > 0 && currentVersion+1 < len(m.migrations); steps-- {
		version := currentVersion + 1
		if err := m.applyMigration(ctx, m.migrations[version], true); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}
		currentVersion = version
	}

	for ; steps < 0; steps++ {
		if err := m.rollback(ctx, currentVersion); err != nil {
			return fmt.Errorf("failed to rollback migration %d: %w", currentVersion, err)
		}
		currentVersion--
	}

	return nil
}

// Statements splits a migration file on semicolons, dropping empty statements.
func Statements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
