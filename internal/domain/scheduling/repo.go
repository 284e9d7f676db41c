package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotTaken marks a booking conflict: another non-rejected
	// appointment already holds the slot. Retryable by picking a
	// different slot.
	ErrSlotTaken = errors.New("slot already booked")

	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repo persists appointments.
type Repo interface {
	// Create inserts a pending appointment. Returns ErrSlotTaken when a
	// non-rejected appointment already holds the same slot key.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// IsSlotTaken reports whether a non-rejected appointment holds the key.
	IsSlotTaken(ctx context.Context, slotID string) (bool, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, statuses []string, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, statuses []string, limit, offset int) ([]*Appointment, int, error)
	SearchCompletedByCNIC(ctx context.Context, cnic string, limit, offset int) ([]*Appointment, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Complete(ctx context.Context, id uuid.UUID, diagnosis, notes string, prescription []Medicine, completedAt time.Time) error
}
