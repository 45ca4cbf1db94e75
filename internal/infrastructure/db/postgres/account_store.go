package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/identity-service/internal/domain"
	"github.com/baechuer/identity-service/internal/ids"
)

const pgUniqueViolation = "23505"

type AccountStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db, now: time.Now}
}

// ---------- identity.AccountStore ----------

func (s *AccountStore) FindByID(ctx context.Context, id string) (domain.Account, error) {
	const q = `
SELECT id, email, password_hash, created_at, updated_at
FROM accounts
WHERE id = $1
LIMIT 1;
`
	ar, err := scanAccountRow(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return domain.Account{}, mapReadErr(err)
	}
	return ar.toDomain(), nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	const q = `
SELECT id, email, password_hash, created_at, updated_at
FROM accounts
WHERE email = $1
LIMIT 1;
`
	ar, err := scanAccountRow(s.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return domain.Account{}, mapReadErr(err)
	}
	return ar.toDomain(), nil
}

func (s *AccountStore) Insert(ctx context.Context, email, passwordHash string) (string, error) {
	if email == "" {
		return "", domain.ErrMissingField("email")
	}
	if passwordHash == "" {
		return "", domain.ErrMissingField("password_hash")
	}

	id, err := ids.NewULID(s.now())
	if err != nil {
		return "", domain.ErrInternal(err)
	}

	const q = `
INSERT INTO accounts (id, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id;
`
	var got string
	if err := s.db.QueryRowContext(ctx, q, id, email, passwordHash).Scan(&got); err != nil {
		return "", mapWriteErr(err)
	}
	return got, nil
}

// UpdateFields writes all targeted columns in one statement so a failed
// email change never leaves a new password behind.
func (s *AccountStore) UpdateFields(ctx context.Context, id string, ch domain.AccountChanges) error {
	if id == "" {
		return domain.ErrMissingField("id")
	}
	if ch.Empty() {
		return nil
	}

	sets := make([]string, 0, 3)
	args := []any{id}
	if ch.Email != nil {
		args = append(args, *ch.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if ch.PasswordHash != nil {
		args = append(args, *ch.PasswordHash)
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	q := "UPDATE accounts SET " + strings.Join(sets, ", ") + " WHERE id = $1;"

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return mapWriteErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrAccountNotFound()
	}
	return nil
}

// ---------- error mapping ----------

func mapReadErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAccountNotFound()
	}
	return domain.ErrStoreUnavailable(err)
}

func mapWriteErr(err error) error {
	if field, ok := uniqueViolationField(err); ok {
		return domain.ErrConflict(field, err)
	}
	return domain.ErrStoreUnavailable(err)
}

func uniqueViolationField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return "", false
	}
	c := strings.ToLower(pgErr.ConstraintName)
	switch {
	case c == "uq_accounts_email", strings.Contains(c, "email"):
		return "email", true
	case c == "accounts_pkey":
		return "id", true
	default:
		return c, true
	}
}
