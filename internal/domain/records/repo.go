package records

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("health record not found")

// Repo persists health record metadata.
type Repo interface {
	Create(ctx context.Context, r *HealthRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthRecord, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
