package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"aikifed/internal/platform/postgres"
	"aikifed/pkg/platform/sentinel"
)

const memberColumns = `id, first_name, last_name, dni, email, phone, address, city, province, postal_code, country, birth_date, federation_number, club_id, status, registration_date, created_at, updated_at`

// PostgresStore persists members in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindAll(ctx context.Context, limit int) ([]*Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	return scanMember(row, "find member by id")
}

func (s *PostgresStore) FindByDNI(ctx context.Context, dni string) (*Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE lower(dni) = lower($1)`, dni)
	return scanMember(row, "find member by dni")
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE lower(email) = lower($1)`, email)
	return scanMember(row, "find member by email")
}

func (s *PostgresStore) FindByClubID(ctx context.Context, clubID string, limit int) ([]*Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE club_id = $1 ORDER BY created_at DESC LIMIT $2`,
		clubID, limit)
	if err != nil {
		return nil, fmt.Errorf("list members by club: %w", err)
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (s *PostgresStore) FindByStatus(ctx context.Context, status Status, limit int) ([]*Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE status = $1 ORDER BY created_at DESC LIMIT $2`,
		status, limit)
	if err != nil {
		return nil, fmt.Errorf("list members by status: %w", err)
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (s *PostgresStore) Search(ctx context.Context, query string, limit int) ([]*Member, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members
		 WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR dni ILIKE $1
		 ORDER BY created_at DESC LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (s *PostgresStore) Create(ctx context.Context, m *Member) (*Member, error) {
	copied := *m
	copied.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (`+memberColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		copied.ID, copied.FirstName, copied.LastName, copied.DNI, copied.Email,
		copied.Phone, copied.Address, copied.City, copied.Province, copied.PostalCode,
		copied.Country, copied.BirthDate, copied.FederationNumber, nullable(copied.ClubID),
		copied.Status, copied.RegistrationDate, copied.CreatedAt, copied.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("create member: %w", err)
	}
	return &copied, nil
}

func (s *PostgresStore) Update(ctx context.Context, m *Member) (*Member, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET first_name=$2, last_name=$3, dni=$4, email=$5, phone=$6, address=$7,
		 city=$8, province=$9, postal_code=$10, country=$11, birth_date=$12, federation_number=$13,
		 club_id=$14, status=$15, updated_at=$16
		 WHERE id=$1`,
		m.ID, m.FirstName, m.LastName, m.DNI, m.Email, m.Phone, m.Address,
		m.City, m.Province, m.PostalCode, m.Country, m.BirthDate, m.FederationNumber,
		nullable(m.ClubID), m.Status, m.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sentinel.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("member exists: %w", err)
	}
	return exists, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanMember(row *sql.Row, op string) (*Member, error) {
	var m Member
	var clubID sql.NullString
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.DNI, &m.Email, &m.Phone,
		&m.Address, &m.City, &m.Province, &m.PostalCode, &m.Country, &m.BirthDate,
		&m.FederationNumber, &clubID, &m.Status, &m.RegistrationDate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.ClubID = clubID.String
	return &m, nil
}

func scanMembers(rows *sql.Rows) ([]*Member, error) {
	var out []*Member
	for rows.Next() {
		var m Member
		var clubID sql.NullString
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.DNI, &m.Email, &m.Phone,
			&m.Address, &m.City, &m.Province, &m.PostalCode, &m.Country, &m.BirthDate,
			&m.FederationNumber, &clubID, &m.Status, &m.RegistrationDate, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.ClubID = clubID.String
		out = append(out, &m)
	}
	return out, rows.Err()
}
