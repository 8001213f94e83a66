package payment

import "context"

// Store is the persistence port for payments.
type Store interface {
	FindAll(ctx context.Context, limit int) ([]*Payment, error)
	FindByID(ctx context.Context, id string) (*Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	FindByMemberID(ctx context.Context, memberID string, limit int) ([]*Payment, error)
	FindByStatus(ctx context.Context, status Status, limit int) ([]*Payment, error)
	FindByType(ctx context.Context, paymentType Type, limit int) ([]*Payment, error)
	Create(ctx context.Context, p *Payment) (*Payment, error)
	Update(ctx context.Context, p *Payment) (*Payment, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}
