package association

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"aikifed/internal/platform/postgres"
	"aikifed/pkg/platform/sentinel"
)

const associationColumns = `id, name, address, city, province, postal_code, country, phone, email, cif, is_active, created_at, updated_at`

// PostgresStore persists associations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindAll(ctx context.Context, limit int) ([]*Association, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+associationColumns+` FROM associations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	defer rows.Close()
	return scanAssociations(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Association, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+associationColumns+` FROM associations WHERE id = $1`, id)
	return scanAssociation(row, "find association by id")
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Association, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+associationColumns+` FROM associations WHERE lower(email) = lower($1)`, email)
	return scanAssociation(row, "find association by email")
}

func (s *PostgresStore) Create(ctx context.Context, a *Association) (*Association, error) {
	copied := *a
	copied.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO associations (`+associationColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		copied.ID, copied.Name, copied.Address, copied.City, copied.Province,
		copied.PostalCode, copied.Country, copied.Phone, copied.Email, copied.CIF,
		copied.IsActive, copied.CreatedAt, copied.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("create association: %w", err)
	}
	return &copied, nil
}

func (s *PostgresStore) Update(ctx context.Context, a *Association) (*Association, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE associations SET name=$2, address=$3, city=$4, province=$5, postal_code=$6,
		 country=$7, phone=$8, email=$9, cif=$10, is_active=$11, updated_at=$12 WHERE id=$1`,
		a.ID, a.Name, a.Address, a.City, a.Province, a.PostalCode,
		a.Country, a.Phone, a.Email, a.CIF, a.IsActive, a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update association: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sentinel.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM associations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete association: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM associations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("association exists: %w", err)
	}
	return exists, nil
}

func scanAssociation(row *sql.Row, op string) (*Association, error) {
	var a Association
	err := row.Scan(&a.ID, &a.Name, &a.Address, &a.City, &a.Province, &a.PostalCode,
		&a.Country, &a.Phone, &a.Email, &a.CIF, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}

func scanAssociations(rows *sql.Rows) ([]*Association, error) {
	var out []*Association
	for rows.Next() {
		var a Association
		if err := rows.Scan(&a.ID, &a.Name, &a.Address, &a.City, &a.Province, &a.PostalCode,
			&a.Country, &a.Phone, &a.Email, &a.CIF, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
