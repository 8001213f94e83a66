package insurance

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

const insuranceColumns = `id, policy_number, member_id, type, company, coverage_amount, premium, start_date, end_date, status, created_at, updated_at`

// PostgresStore persists insurance policies in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindAll(ctx context.Context, limit int) ([]*Insurance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+insuranceColumns+` FROM insurances ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list insurances: %w", err)
	}
	defer rows.Close()
	return scanInsurances(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Insurance, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+insuranceColumns+` FROM insurances WHERE id = $1`, id)
	return scanInsurance(row, "find insurance by id")
}

func (s *PostgresStore) FindByPolicyNumber(ctx context.Context, policyNumber string) (*Insurance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+insuranceColumns+` FROM insurances WHERE lower(policy_number) = lower($1)`, policyNumber)
	return scanInsurance(row, "find insurance by policy number")
}

func (s *PostgresStore) FindByMemberID(ctx context.Context, memberID string, limit int) ([]*Insurance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+insuranceColumns+` FROM insurances WHERE member_id = $1 ORDER BY created_at DESC LIMIT $2`,
		memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("list insurances by member: %w", err)
	}
	defer rows.Close()
	return scanInsurances(rows)
}

func (s *PostgresStore) FindByStatus(ctx context.Context, status Status, limit int) ([]*Insurance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+insuranceColumns+` FROM insurances WHERE status = $1 ORDER BY created_at DESC LIMIT $2`,
		status, limit)
	if err != nil {
		return nil, fmt.Errorf("list insurances by status: %w", err)
	}
	defer rows.Close()
	return scanInsurances(rows)
}

func (s *PostgresStore) FindExpiringSoon(ctx context.Context, now, deadline time.Time, limit int) ([]*Insurance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+insuranceColumns+` FROM insurances
		 WHERE status = 'active' AND end_date > $1 AND end_date <= $2
		 ORDER BY end_date ASC LIMIT $3`, now, deadline, limit)
	if err != nil {
		return nil, fmt.Errorf("list expiring insurances: %w", err)
	}
	defer rows.Close()
	return scanInsurances(rows)
}

func (s *PostgresStore) Create(ctx context.Context, i *Insurance) (*Insurance, error) {
	copied := *i
	copied.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO insurances (`+insuranceColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		copied.ID, copied.PolicyNumber, copied.MemberID, copied.Type, copied.Company,
		copied.CoverageAmount, copied.Premium, copied.StartDate, copied.EndDate,
		copied.Status, copied.CreatedAt, copied.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("create insurance: %w", err)
	}
	return &copied, nil
}

func (s *PostgresStore) Update(ctx context.Context, i *Insurance) (*Insurance, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE insurances SET policy_number=$2, member_id=$3, type=$4, company=$5,
		 coverage_amount=$6, premium=$7, start_date=$8, end_date=$9, status=$10, updated_at=$11
		 WHERE id=$1`,
		i.ID, i.PolicyNumber, i.MemberID, i.Type, i.Company, i.CoverageAmount,
		i.Premium, i.StartDate, i.EndDate, i.Status, i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update insurance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sentinel.ErrNotFound
	}
	copied := *i
	return &copied, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM insurances WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete insurance: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM insurances WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("insurance exists: %w", err)
	}
	return exists, nil
}

func scanInsurance(row *sql.Row, op string) (*Insurance, error) {
	var i Insurance
	err := row.Scan(&i.ID, &i.PolicyNumber, &i.MemberID, &i.Type, &i.Company,
		&i.CoverageAmount, &i.Premium, &i.StartDate, &i.EndDate, &i.Status,
		&i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &i, nil
}

func scanInsurances(rows *sql.Rows) ([]*Insurance, error) {
	var out []*Insurance
	for rows.Next() {
		var i Insurance
		if err := rows.Scan(&i.ID, &i.PolicyNumber, &i.MemberID, &i.Type, &i.Company,
			&i.CoverageAmount, &i.Premium, &i.StartDate, &i.EndDate, &i.Status,
			&i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan insurance: %w", err)
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}
