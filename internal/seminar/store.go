package seminar

import (
	"context"
	"time"
)

// Store is the persistence port for seminars.
type Store interface {
	FindAll(ctx context.Context, limit int) ([]*Seminar, error)
	FindByID(ctx context.Context, id string) (*Seminar, error)
	FindByOrganizerClubID(ctx context.Context, clubID string, limit int) ([]*Seminar, error)
	FindByStatus(ctx context.Context, status Status, limit int) ([]*Seminar, error)
	// FindUpcoming returns seminars in status upcoming starting after now,
	// soonest first.
	FindUpcoming(ctx context.Context, now time.Time, limit int) ([]*Seminar, error)
	Create(ctx context.Context, sem *Seminar) (*Seminar, error)
	Update(ctx context.Context, sem *Seminar) (*Seminar, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}
