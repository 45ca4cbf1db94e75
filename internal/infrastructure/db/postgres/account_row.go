package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/identity-service/internal/domain"
)

type accountRow struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func scanAccountRow(row *sql.Row) (accountRow, error) {
	var ar accountRow
	err := row.Scan(
		&ar.ID,
		&ar.Email,
		&ar.PasswordHash,
		&ar.CreatedAt,
		&ar.UpdatedAt,
	)
	return ar, err
}

func (ar accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:           ar.ID,
		Email:        ar.Email,
		PasswordHash: ar.PasswordHash,
		CreatedAt:    ar.CreatedAt.UTC(),
		UpdatedAt:    ar.UpdatedAt.UTC(),
	}
}
