package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Pending and accepted are the mutable states;
// completed and rejected are terminal.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusAccepted:  true,
	StatusRejected:  true,
	StatusCompleted: true,
}

// Medicine is one prescription row. Rows may be partially filled; data
// entry is deliberately loose.
type Medicine struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration"`
}

// Appointment is a patient's booking with a doctor at a specific slot.
// Doctor name and hospital are denormalized at booking time so history
// views survive later profile edits.
type Appointment struct {
	ID             uuid.UUID  `json:"id"`
	DoctorID       uuid.UUID  `json:"doctor_id"`
	DoctorName     string     `json:"doctor_name"`
	DoctorHospital string     `json:"doctor_hospital"`
	PatientID      uuid.UUID  `json:"patient_id"`
	PatientName    string     `json:"patient_name"`
	PatientCNIC    string     `json:"patient_cnic"`
	Date           string     `json:"date"` // YYYY-MM-DD
	Time           string     `json:"time"` // slot label, e.g. "10:20 AM"
	Reason         string     `json:"reason"`
	ReportURL      string     `json:"report_url,omitempty"`
	SlotID         string     `json:"-"`
	Status         string     `json:"status"`
	Diagnosis      string     `json:"diagnosis,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Prescription   []Medicine `json:"prescription,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// SlotKey derives the uniqueness key for a (doctor, date, time, hospital)
// tuple. Two non-rejected appointments may never share a key.
func SlotKey(doctorID uuid.UUID, date, timeLabel, hospital string) string {
	return fmt.Sprintf("%s_%s_%s_%s", doctorID, date, timeLabel, hospital)
}

// Upcoming reports whether the appointment belongs in the patient's
// upcoming view (as opposed to history).
func (a *Appointment) Upcoming() bool {
	return a.Status == StatusPending || a.Status == StatusAccepted
}

// Terminal reports whether the appointment can no longer change state.
func (a *Appointment) Terminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusRejected
}
