package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"aikifed/pkg/platform/sentinel"
)

const paymentColumns = `id, type, amount, currency, description, member_id, related_entity_id, status, transaction_id, gateway_response, error_message, refund_amount, payment_date, refund_date, created_at, updated_at`

// PostgresStore persists payments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindAll(ctx context.Context, limit int) ([]*Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Payment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return scanPayment(row, "find payment by id")
}

func (s *PostgresStore) FindByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, transactionID)
	return scanPayment(row, "find payment by transaction id")
}

func (s *PostgresStore) FindByMemberID(ctx context.Context, memberID string, limit int) ([]*Payment, error) {
	return s.list(ctx, `member_id = $1`, memberID, limit)
}

func (s *PostgresStore) FindByStatus(ctx context.Context, status Status, limit int) ([]*Payment, error) {
	return s.list(ctx, `status = $1`, string(status), limit)
}

func (s *PostgresStore) FindByType(ctx context.Context, paymentType Type, limit int) ([]*Payment, error) {
	return s.list(ctx, `type = $1`, string(paymentType), limit)
}

func (s *PostgresStore) list(ctx context.Context, where string, arg any, limit int) ([]*Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE `+where+` ORDER BY created_at DESC LIMIT $2`,
		arg, limit)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (s *PostgresStore) Create(ctx context.Context, p *Payment) (*Payment, error) {
	copied := *p
	copied.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		copied.ID, copied.Type, copied.Amount, copied.Currency, copied.Description,
		nullable(copied.MemberID), nullable(copied.RelatedEntityID), copied.Status,
		nullable(copied.TransactionID), copied.GatewayResponse, copied.ErrorMessage,
		copied.RefundAmount, copied.PaymentDate, copied.RefundDate,
		copied.CreatedAt, copied.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return &copied, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *Payment) (*Payment, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET type=$2, amount=$3, currency=$4, description=$5, member_id=$6,
		 related_entity_id=$7, status=$8, transaction_id=$9, gateway_response=$10,
		 error_message=$11, refund_amount=$12, payment_date=$13, refund_date=$14, updated_at=$15
		 WHERE id=$1`,
		p.ID, p.Type, p.Amount, p.Currency, p.Description, nullable(p.MemberID),
		nullable(p.RelatedEntityID), p.Status, nullable(p.TransactionID), p.GatewayResponse,
		p.ErrorMessage, p.RefundAmount, p.PaymentDate, p.RefundDate, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete payment: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("payment exists: %w", err)
	}
	return exists, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanPayment(row *sql.Row, op string) (*Payment, error) {
	var p Payment
	var memberID, relatedID, transactionID sql.NullString
	err := row.Scan(&p.ID, &p.Type, &p.Amount, &p.Currency, &p.Description, &memberID,
		&relatedID, &p.Status, &transactionID, &p.GatewayResponse, &p.ErrorMessage,
		&p.RefundAmount, &p.PaymentDate, &p.RefundDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.MemberID = memberID.String
	p.RelatedEntityID = relatedID.String
	p.TransactionID = transactionID.String
	return &p, nil
}

func scanPayments(rows *sql.Rows) ([]*Payment, error) {
	var out []*Payment
	for rows.Next() {
		var p Payment
		var memberID, relatedID, transactionID sql.NullString
		if err := rows.Scan(&p.ID, &p.Type, &p.Amount, &p.Currency, &p.Description, &memberID,
			&relatedID, &p.Status, &transactionID, &p.GatewayResponse, &p.ErrorMessage,
			&p.RefundAmount, &p.PaymentDate, &p.RefundDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.MemberID = memberID.String
		p.RelatedEntityID = relatedID.String
		p.TransactionID = transactionID.String
		out = append(out, &p)
	}
	return out, rows.Err()
}
