package member

import "context"

// Store is the persistence port for members.
type Store interface {
	FindAll(ctx context.Context, limit int) ([]*Member, error)
	FindByID(ctx context.Context, id string) (*Member, error)
	FindByDNI(ctx context.Context, dni string) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindByClubID(ctx context.Context, clubID string, limit int) ([]*Member, error)
	FindByStatus(ctx context.Context, status Status, limit int) ([]*Member, error)
	// Search matches a case-insensitive fragment against name and DNI.
	Search(ctx context.Context, query string, limit int) ([]*Member, error)
	Create(ctx context.Context, m *Member) (*Member, error)
	Update(ctx context.Context, m *Member) (*Member, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}
