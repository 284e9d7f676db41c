package doctors

import (
	"time"

	"github.com/google/uuid"
)

// PracticeLocation is one of a doctor's (hospital, fee, hours) tuples.
// Position preserves the order locations were registered in.
type PracticeLocation struct {
	ID         uuid.UUID `json:"id"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	Position   int       `json:"position"`
	Hospital   string    `json:"hospital"`
	Fee        float64   `json:"fee"`
	TimeWindow string    `json:"time_window"`
}

// Profile is a doctor's public listing, joined with the owning account.
type Profile struct {
	UserID      uuid.UUID          `json:"user_id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Gender      string             `json:"gender"`
	About       string             `json:"about"`
	Experience  int                `json:"experience"`
	Services    []string           `json:"services"`
	Specialties []string           `json:"specialties"`
	Verified    bool               `json:"verified"`
	Rating      float64            `json:"rating"`
	ReviewCount int                `json:"review_count"`
	CreatedAt   time.Time          `json:"created_at"`
	Locations   []PracticeLocation `json:"locations"`
}

// AdminUpdate carries the fields an admin may edit on a profile. Nil fields
// are left unchanged.
type AdminUpdate struct {
	Hospital *string  `json:"hospital"`
	Phone    *string  `json:"phone"`
	Fee      *float64 `json:"fee"`
	About    *string  `json:"about"`
}
