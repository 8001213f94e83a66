package insurance

import (
	"context"
	"time"
)

// Store is the persistence port for insurance policies.
type Store interface {
	FindAll(ctx context.Context, limit int) ([]*Insurance, error)
	FindByID(ctx context.Context, id string) (*Insurance, error)
	FindByPolicyNumber(ctx context.Context, policyNumber string) (*Insurance, error)
	FindByMemberID(ctx context.Context, memberID string, limit int) ([]*Insurance, error)
	FindByStatus(ctx context.Context, status Status, limit int) ([]*Insurance, error)
	// FindExpiringSoon returns active policies whose end date falls within
	// the window (now, deadline].
	FindExpiringSoon(ctx context.Context, now, deadline time.Time, limit int) ([]*Insurance, error)
	Create(ctx context.Context, i *Insurance) (*Insurance, error)
	Update(ctx context.Context, i *Insurance) (*Insurance, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}
