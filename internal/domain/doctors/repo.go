package doctors

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("doctor profile not found")

// Repo persists doctor profiles and their practice locations.
type Repo interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	ListBySpecialty(ctx context.Context, specialty string, verifiedOnly bool, limit, offset int) ([]*Profile, int, error)
	ListByVerified(ctx context.Context, verified bool, limit, offset int) ([]*Profile, int, error)
	SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error
	ApplyAdminUpdate(ctx context.Context, userID uuid.UUID, upd AdminUpdate) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
