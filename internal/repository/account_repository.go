package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-complaints/internal/models"
)

// ErrDuplicateAccount is returned when the account id is already taken.
var ErrDuplicateAccount = errors.New("account already exists")

const uniqueViolation = "23505"

// AccountRepository stores student and administrator logins.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByID returns the account with the given id and role.
func (r *AccountRepository) FindByID(ctx context.Context, id string, role models.Role) (*models.Account, error) {
	const query = `SELECT id, name, password_hash, role, created_at FROM accounts WHERE id = $1 AND role = $2 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	const query = `INSERT INTO accounts (id, name, password_hash, role, created_at) VALUES (:id, :name, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// Upsert creates the account or refreshes its name, hash and role.
func (r *AccountRepository) Upsert(ctx context.Context, account *models.Account) error {
	const query = `INSERT INTO accounts (id, name, password_hash, role, created_at) VALUES (:id, :name, :password_hash, :role, :created_at)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}
