package license

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aikifed/internal/platform/postgres"
	"aikifed/pkg/platform/sentinel"
)

const licenseColumns = `id, license_number, member_id, club_id, association_id, type, grade, status, issue_date, expiration_date, is_renewed, renewal_date, created_at, updated_at`

// PostgresStore persists licenses in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindAll(ctx context.Context, limit int) ([]*License, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()
	return scanLicenses(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*License, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE id = $1`, id)
	return scanLicense(row, "find license by id")
}

func (s *PostgresStore) FindByLicenseNumber(ctx context.Context, licenseNumber string) (*License, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE lower(license_number) = lower($1)`, licenseNumber)
	return scanLicense(row, "find license by number")
}

func (s *PostgresStore) FindByMemberID(ctx context.Context, memberID string, limit int) ([]*License, error) {
	return s.list(ctx, `member_id = $1`, memberID, limit)
}

func (s *PostgresStore) FindByClubID(ctx context.Context, clubID string, limit int) ([]*License, error) {
	return s.list(ctx, `club_id = $1`, clubID, limit)
}

func (s *PostgresStore) FindByStatus(ctx context.Context, status Status, limit int) ([]*License, error) {
	return s.list(ctx, `status = $1`, string(status), limit)
}

func (s *PostgresStore) FindByType(ctx context.Context, licenseType Type, limit int) ([]*License, error) {
	return s.list(ctx, `type = $1`, string(licenseType), limit)
}

func (s *PostgresStore) FindExpiringSoon(ctx context.Context, now, deadline time.Time, limit int) ([]*License, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses
		 WHERE status = 'active' AND expiration_date > $1 AND expiration_date <= $2
		 ORDER BY expiration_date ASC LIMIT $3`, now, deadline, limit)
	if err != nil {
		return nil, fmt.Errorf("list expiring licenses: %w", err)
	}
	defer rows.Close()
	return scanLicenses(rows)
}

func (s *PostgresStore) list(ctx context.Context, where string, arg any, limit int) ([]*License, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE `+where+` ORDER BY created_at DESC LIMIT $2`,
		arg, limit)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()
	return scanLicenses(rows)
}

func (s *PostgresStore) Create(ctx context.Context, l *License) (*License, error) {
	copied := *l
	copied.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO licenses (`+licenseColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		copied.ID, copied.LicenseNumber, copied.MemberID, nullable(copied.ClubID),
		nullable(copied.AssociationID), copied.Type, copied.Grade, copied.Status,
		copied.IssueDate, copied.ExpirationDate, copied.IsRenewed, copied.RenewalDate,
		copied.CreatedAt, copied.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("create license: %w", err)
	}
	return &copied, nil
}

func (s *PostgresStore) Update(ctx context.Context, l *License) (*License, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE licenses SET license_number=$2, member_id=$3, club_id=$4, association_id=$5,
		 type=$6, grade=$7, status=$8, issue_date=$9, expiration_date=$10, is_renewed=$11,
		 renewal_date=$12, updated_at=$13
		 WHERE id=$1`,
		l.ID, l.LicenseNumber, l.MemberID, nullable(l.ClubID), nullable(l.AssociationID),
		l.Type, l.Grade, l.Status, l.IssueDate, l.ExpirationDate, l.IsRenewed,
		l.RenewalDate, l.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update license: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sentinel.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM licenses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete license: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM licenses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("license exists: %w", err)
	}
	return exists, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanLicense(row *sql.Row, op string) (*License, error) {
	var l License
	var clubID, associationID sql.NullString
	err := row.Scan(&l.ID, &l.LicenseNumber, &l.MemberID, &clubID, &associationID,
		&l.Type, &l.Grade, &l.Status, &l.IssueDate, &l.ExpirationDate,
		&l.IsRenewed, &l.RenewalDate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	l.ClubID = clubID.String
	l.AssociationID = associationID.String
	return &l, nil
}

func scanLicenses(rows *sql.Rows) ([]*License, error) {
	var out []*License
	for rows.Next() {
		var l License
		var clubID, associationID sql.NullString
		if err := rows.Scan(&l.ID, &l.LicenseNumber, &l.MemberID, &clubID, &associationID,
			&l.Type, &l.Grade, &l.Status, &l.IssueDate, &l.ExpirationDate,
			&l.IsRenewed, &l.RenewalDate, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		l.ClubID = clubID.String
		l.AssociationID = associationID.String
		out = append(out, &l)
	}
	return out, rows.Err()
}
