package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biat-it/testmanager/pkg/accounts"
)

const accountColumns = `id, matricule, first_name, last_name, email, password_hash,
	role, department, is_staff, is_superuser, created_at, updated_at`

// AccountRepository implements accounts.Repository backed by PostgreSQL (pgx).
// The matricule and email unique constraints live in the database schema;
// violations are mapped back to domain errors here.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts_user (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.ID, a.Matricule, a.FirstName, a.LastName, strings.ToLower(a.Email), a.PasswordHash,
		a.Role, a.Department, a.IsStaff, a.IsSuperuser, a.CreatedAt, a.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *AccountRepository) GetByMatricule(ctx context.Context, matricule string) (accounts.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts_user WHERE matricule = $1
	`, matricule)
	return scanAccount(row)
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (accounts.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts_user WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]accounts.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts_user
		ORDER BY matricule
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []accounts.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepository) Update(ctx context.Context, a accounts.Account) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts_user
		SET first_name = $2, last_name = $3, email = $4, password_hash = $5,
			role = $6, department = $7, is_staff = $8, is_superuser = $9, updated_at = $10
		WHERE matricule = $1
	`, a.Matricule, a.FirstName, a.LastName, strings.ToLower(a.Email), a.PasswordHash,
		a.Role, a.Department, a.IsStaff, a.IsSuperuser, a.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (accounts.Account, error) {
	var a accounts.Account
	err := row.Scan(&a.ID, &a.Matricule, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash,
		&a.Role, &a.Department, &a.IsStaff, &a.IsSuperuser, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accounts.Account{}, accounts.ErrNotFound
		}
		return accounts.Account{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		switch pgErr.ConstraintName {
		case "accounts_user_matricule_key":
			return accounts.ErrDuplicateMatricule
		case "accounts_user_email_key":
			return accounts.ErrDuplicateEmail
		}
		return accounts.ErrDuplicateMatricule
	}
	return err
}
