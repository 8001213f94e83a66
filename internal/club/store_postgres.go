package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"aikifed/internal/platform/postgres"
	"aikifed/pkg/platform/sentinel"
)

const clubColumns = `id, name, address, city, province, postal_code, country, phone, email, federation_number, association_id, is_active, created_at, updated_at`

// PostgresStore persists clubs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindAll(ctx context.Context, limit int) ([]*Club, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clubColumns+` FROM clubs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()
	return scanClubs(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Club, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id)
	return scanClub(row, "find club by id")
}

func (s *PostgresStore) FindByFederationNumber(ctx context.Context, federationNumber string) (*Club, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE lower(federation_number) = lower($1)`, federationNumber)
	return scanClub(row, "find club by federation number")
}

func (s *PostgresStore) FindByAssociationID(ctx context.Context, associationID string, limit int) ([]*Club, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE association_id = $1 ORDER BY created_at DESC LIMIT $2`,
		associationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list clubs by association: %w", err)
	}
	defer rows.Close()
	return scanClubs(rows)
}

func (s *PostgresStore) Create(ctx context.Context, c *Club) (*Club, error) {
	copied := *c
	copied.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clubs (`+clubColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		copied.ID, copied.Name, copied.Address, copied.City, copied.Province,
		copied.PostalCode, copied.Country, copied.Phone, copied.Email,
		copied.FederationNumber, nullable(copied.AssociationID), copied.IsActive,
		copied.CreatedAt, copied.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("create club: %w", err)
	}
	return &copied, nil
}

func (s *PostgresStore) Update(ctx context.Context, c *Club) (*Club, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE clubs SET name=$2, address=$3, city=$4, province=$5, postal_code=$6, country=$7,
		 phone=$8, email=$9, federation_number=$10, association_id=$11, is_active=$12, updated_at=$13
		 WHERE id=$1`,
		c.ID, c.Name, c.Address, c.City, c.Province, c.PostalCode, c.Country,
		c.Phone, c.Email, c.FederationNumber, nullable(c.AssociationID), c.IsActive, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update club: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sentinel.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete club: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM clubs WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("club exists: %w", err)
	}
	return exists, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanClub(row *sql.Row, op string) (*Club, error) {
	var c Club
	var associationID sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.Province, &c.PostalCode,
		&c.Country, &c.Phone, &c.Email, &c.FederationNumber, &associationID,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.AssociationID = associationID.String
	return &c, nil
}

func scanClubs(rows *sql.Rows) ([]*Club, error) {
	var out []*Club
	for rows.Next() {
		var c Club
		var associationID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.Province, &c.PostalCode,
			&c.Country, &c.Phone, &c.Email, &c.FederationNumber, &associationID,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		c.AssociationID = associationID.String
		out = append(out, &c)
	}
	return out, rows.Err()
}
