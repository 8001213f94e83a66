package club

import "context"

// Store is the persistence port for clubs.
type Store interface {
	FindAll(ctx context.Context, limit int) ([]*Club, error)
	FindByID(ctx context.Context, id string) (*Club, error)
	FindByFederationNumber(ctx context.Context, federationNumber string) (*Club, error)
	FindByAssociationID(ctx context.Context, associationID string, limit int) ([]*Club, error)
	Create(ctx context.Context, c *Club) (*Club, error)
	Update(ctx context.Context, c *Club) (*Club, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}
