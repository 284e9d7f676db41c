package records

import (
	"time"

	"github.com/google/uuid"
)

// HealthRecord is a patient-uploaded document: a lab report, an old
// prescription, a scan. Only the URL is stored here; the file itself lives
// in the blob store.
type HealthRecord struct {
	ID         uuid.UUID `json:"id"`
	PatientID  uuid.UUID `json:"patient_id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	RecordDate string    `json:"record_date"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at"`
}
