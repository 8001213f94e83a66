package seminar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

const seminarColumns = `id, title, description, instructor, location, address, city, province, start_date, end_date, price, max_participants, current_participants, organizer_club_id, association_id, status, created_at, updated_at`

// PostgresStore persists seminars in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindAll(ctx context.Context, limit int) ([]*Seminar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seminarColumns+` FROM seminars ORDER BY start_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}
	defer rows.Close()
	return scanSeminars(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Seminar, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+seminarColumns+` FROM seminars WHERE id = $1`, id)
	return scanSeminar(row, "find seminar by id")
}

func (s *PostgresStore) FindByOrganizerClubID(ctx context.Context, clubID string, limit int) ([]*Seminar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seminarColumns+` FROM seminars WHERE organizer_club_id = $1 ORDER BY start_date DESC LIMIT $2`,
		clubID, limit)
	if err != nil {
		return nil, fmt.Errorf("list seminars by club: %w", err)
	}
	defer rows.Close()
	return scanSeminars(rows)
}

func (s *PostgresStore) FindByStatus(ctx context.Context, status Status, limit int) ([]*Seminar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seminarColumns+` FROM seminars WHERE status = $1 ORDER BY start_date DESC LIMIT $2`,
		status, limit)
	if err != nil {
		return nil, fmt.Errorf("list seminars by status: %w", err)
	}
	defer rows.Close()
	return scanSeminars(rows)
}

func (s *PostgresStore) FindUpcoming(ctx context.Context, now time.Time, limit int) ([]*Seminar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seminarColumns+` FROM seminars
		 WHERE status = 'upcoming' AND start_date > $1
		 ORDER BY start_date ASC LIMIT $2`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming seminars: %w", err)
	}
	defer rows.Close()
	return scanSeminars(rows)
}

func (s *PostgresStore) Create(ctx context.Context, sem *Seminar) (*Seminar, error) {
	copied := *sem
	copied.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seminars (`+seminarColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		copied.ID, copied.Title, copied.Description, copied.Instructor, copied.Location,
		copied.Address, copied.City, copied.Province, copied.StartDate, copied.EndDate,
		copied.Price, copied.MaxParticipants, copied.CurrentParticipants,
		nullable(copied.OrganizerClubID), nullable(copied.AssociationID), copied.Status,
		copied.CreatedAt, copied.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create seminar: %w", err)
	}
	return &copied, nil
}

func (s *PostgresStore) Update(ctx context.Context, sem *Seminar) (*Seminar, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE seminars SET title=$2, description=$3, instructor=$4, location=$5, address=$6,
		 city=$7, province=$8, start_date=$9, end_date=$10, price=$11, max_participants=$12,
		 current_participants=$13, organizer_club_id=$14, association_id=$15, status=$16, updated_at=$17
		 WHERE id=$1`,
		sem.ID, sem.Title, sem.Description, sem.Instructor, sem.Location, sem.Address,
		sem.City, sem.Province, sem.StartDate, sem.EndDate, sem.Price, sem.MaxParticipants,
		sem.CurrentParticipants, nullable(sem.OrganizerClubID), nullable(sem.AssociationID),
		sem.Status, sem.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update seminar: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sentinel.ErrNotFound
	}
	copied := *sem
	return &copied, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM seminars WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete seminar: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM seminars WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("seminar exists: %w", err)
	}
	return exists, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanSeminar(row *sql.Row, op string) (*Seminar, error) {
	var sem Seminar
	var clubID, associationID sql.NullString
	err := row.Scan(&sem.ID, &sem.Title, &sem.Description, &sem.Instructor, &sem.Location,
		&sem.Address, &sem.City, &sem.Province, &sem.StartDate, &sem.EndDate, &sem.Price,
		&sem.MaxParticipants, &sem.CurrentParticipants, &clubID, &associationID,
		&sem.Status, &sem.CreatedAt, &sem.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sem.OrganizerClubID = clubID.String
	sem.AssociationID = associationID.String
	return &sem, nil
}

func scanSeminars(rows *sql.Rows) ([]*Seminar, error) {
	var out []*Seminar
	for rows.Next() {
		var sem Seminar
		var clubID, associationID sql.NullString
		if err := rows.Scan(&sem.ID, &sem.Title, &sem.Description, &sem.Instructor, &sem.Location,
			&sem.Address, &sem.City, &sem.Province, &sem.StartDate, &sem.EndDate, &sem.Price,
			&sem.MaxParticipants, &sem.CurrentParticipants, &clubID, &associationID,
			&sem.Status, &sem.CreatedAt, &sem.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan seminar: %w", err)
		}
		sem.OrganizerClubID = clubID.String
		sem.AssociationID = associationID.String
		out = append(out, &sem)
	}
	return out, rows.Err()
}
