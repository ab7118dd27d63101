package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Alarion239/studentrecords/models/common"
	"github.com/Alarion239/studentrecords/pkg/store"
)

const uniqueViolation = "23505"

func (s *Store) CreateAccount(ctx context.Context, a common.NewAccount) (common.Account, error) {
	if err := ctx.Err(); err != nil {
		return common.Account{}, fmt.Errorf("context cancelled: %w", err)
	}

	account := common.Account{
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
	}
	err := s.db.Pool().QueryRow(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		a.Name, a.Email, a.PasswordHash, string(a.Role),
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.Account{}, store.ErrConflict
		}
		return common.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (common.Account, error) {
	if err := ctx.Err(); err != nil {
		return common.Account{}, fmt.Errorf("context cancelled: %w", err)
	}

	account := common.Account{}
	var role string
	err := s.db.Pool().QueryRow(ctx,
		"SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = $1", email,
	).Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &role, &account.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return common.Account{}, store.ErrNotFound
	case err != nil:
		return common.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	account.Role = common.Role(role)
	return account, nil
}
