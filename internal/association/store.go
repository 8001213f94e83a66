package association

import "context"

// Store is the persistence port for associations. Implementations return
// sentinel errors; the service translates them into domain errors.
type Store interface {
	FindAll(ctx context.Context, limit int) ([]*Association, error)
	FindByID(ctx context.Context, id string) (*Association, error)
	FindByEmail(ctx context.Context, email string) (*Association, error)
	Create(ctx context.Context, a *Association) (*Association, error)
	Update(ctx context.Context, a *Association) (*Association, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}
