package license

import (
	"context"
	"time"
)

// Store is the persistence port for licenses.
type Store interface {
	FindAll(ctx context.Context, limit int) ([]*License, error)
	FindByID(ctx context.Context, id string) (*License, error)
	FindByLicenseNumber(ctx context.Context, licenseNumber string) (*License, error)
	FindByMemberID(ctx context.Context, memberID string, limit int) ([]*License, error)
	FindByClubID(ctx context.Context, clubID string, limit int) ([]*License, error)
	FindByStatus(ctx context.Context, status Status, limit int) ([]*License, error)
	FindByType(ctx context.Context, licenseType Type, limit int) ([]*License, error)
	// FindExpiringSoon returns active licenses whose expiration date falls
	// within the window (now, deadline].
	FindExpiringSoon(ctx context.Context, now, deadline time.Time, limit int) ([]*License, error)
	Create(ctx context.Context, l *License) (*License, error)
	Update(ctx context.Context, l *License) (*License, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}
