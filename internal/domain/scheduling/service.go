package scheduling

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var cnicPattern = regexp.MustCompile(`^[0-9]{13}$`)

// DoctorInfo is the booking-relevant summary of a doctor.
type DoctorInfo struct {
	ID       uuid.UUID
	Name     string
	Verified bool
}

// LocationInfo is a practice location as the booking flow needs it.
type LocationInfo struct {
	Hospital   string
	Fee        float64
	TimeWindow string
}

// DoctorDirectory resolves doctors and their practice locations. Implemented
// by the doctors service.
type DoctorDirectory interface {
	Doctor(ctx context.Context, id uuid.UUID) (*DoctorInfo, error)
	Location(ctx context.Context, id uuid.UUID, hospital string) (*LocationInfo, error)
}

// BookingInput is a patient's booking request.
type BookingInput struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // slot label
	Hospital  string    `json:"hospital"`
	CNIC      string    `json:"cnic"`
	Reason    string    `json:"reason"`
	ReportURL string    `json:"report_url"`
}

// ConsultationInput closes out an accepted appointment.
type ConsultationInput struct {
	Diagnosis string     `json:"diagnosis"`
	Notes     string     `json:"notes"`
	Medicines []Medicine `json:"medicines"`
}

// Service implements booking, the appointment state machine, and history
// views.
type Service struct {
	repo      Repo
	directory DoctorDirectory
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repo, directory DoctorDirectory, logger zerolog.Logger) *Service {
	return &Service{repo: repo, directory: directory, logger: logger, now: time.Now}
}

// Slots returns the bookable time labels for a doctor's practice location.
func (s *Service) Slots(ctx context.Context, doctorID uuid.UUID, hospital string) ([]string, error) {
	loc, err := s.directory.Location(ctx, doctorID, hospital)
	if err != nil {
		return nil, err
	}
	return GenerateSlots(loc.TimeWindow), nil
}

// Book validates the request, checks the slot, and creates a pending
// appointment. A conflicting non-rejected appointment yields ErrSlotTaken.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, patientName string, in BookingInput) (*Appointment, error) {
	if in.DoctorID == uuid.Nil {
		return nil, errors.New("doctor is required")
	}
	if !cnicPattern.MatchString(in.CNIC) {
		return nil, errors.New("CNIC must be exactly 13 digits with no separators")
	}
	if in.Time == "" {
		return nil, errors.New("time slot is required")
	}
	if _, err := parseClock(in.Time); err != nil {
		return nil, fmt.Errorf("invalid time slot %q", in.Time)
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, errors.New("date must be in YYYY-MM-DD format")
	}
	today := s.now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, errors.New("appointment date cannot be in the past")
	}

	info, err := s.directory.Doctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !info.Verified {
		return nil, errors.New("doctor is not accepting appointments")
	}

	loc, err := s.directory.Location(ctx, in.DoctorID, in.Hospital)
	if err != nil {
		return nil, err
	}

	slotID := SlotKey(in.DoctorID, in.Date, in.Time, loc.Hospital)

	// Synchronous pre-check gives the caller a clean conflict error; the
	// database's partial unique index closes the remaining race window.
	taken, err := s.repo.IsSlotTaken(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	appt := &Appointment{
		ID:             uuid.New(),
		DoctorID:       in.DoctorID,
		DoctorName:     info.Name,
		DoctorHospital: loc.Hospital,
		PatientID:      patientID,
		PatientName:    patientName,
		PatientCNIC:    in.CNIC,
		Date:           in.Date,
		Time:           in.Time,
		Reason:         in.Reason,
		ReportURL:      in.ReportURL,
		SlotID:         slotID,
		Status:         StatusPending,
		CreatedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("doctor_id", in.DoctorID.String()).
		Str("slot", appt.Time).
		Msg("appointment booked")

	return appt, nil
}

// Get returns one appointment, restricted to its patient or doctor.
func (s *Service) Get(ctx context.Context, actorID, apptID uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.PatientID != actorID && appt.DoctorID != actorID {
		return nil, ErrNotFound
	}
	return appt, nil
}

// PatientAppointments lists a patient's upcoming or history view.
func (s *Service) PatientAppointments(ctx context.Context, patientID uuid.UUID, view string, limit, offset int) ([]*Appointment, int, error) {
	var statuses []string
	switch view {
	case "upcoming":
		statuses = []string{StatusPending, StatusAccepted}
	case "history":
		statuses = []string{StatusCompleted, StatusRejected}
	case "":
		// all
	default:
		return nil, 0, fmt.Errorf("unknown view %q", view)
	}

	appts, total, err := s.repo.ListByPatient(ctx, patientID, statuses, limit, offset)
	if appts == nil {
		appts = []*Appointment{}
	}
	return appts, total, err
}

// DoctorAppointments lists a doctor's inbox, optionally filtered by status.
func (s *Service) DoctorAppointments(ctx context.Context, doctorID uuid.UUID, status string, limit, offset int) ([]*Appointment, int, error) {
	var statuses []string
	if status != "" {
		if !validStatuses[status] {
			return nil, 0, fmt.Errorf("unknown status %q", status)
		}
		statuses = []string{status}
	}

	appts, total, err := s.repo.ListByDoctor(ctx, doctorID, statuses, limit, offset)
	if appts == nil {
		appts = []*Appointment{}
	}
	return appts, total, err
}

// Accept moves a pending appointment to accepted. Only the owning doctor
// may do this.
func (s *Service) Accept(ctx context.Context, doctorID, apptID uuid.UUID) error {
	return s.transition(ctx, doctorID, apptID, StatusPending, StatusAccepted)
}

// Reject moves a pending appointment to rejected, freeing its slot.
func (s *Service) Reject(ctx context.Context, doctorID, apptID uuid.UUID) error {
	return s.transition(ctx, doctorID, apptID, StatusPending, StatusRejected)
}

func (s *Service) transition(ctx context.Context, doctorID, apptID uuid.UUID, from, to string) error {
	appt, err := s.repo.GetByID(ctx, apptID)
	if err != nil {
		return err
	}
	if appt.DoctorID != doctorID {
		return ErrNotFound
	}
	if appt.Status != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}
	return s.repo.UpdateStatus(ctx, apptID, to)
}

// Complete finalizes an accepted appointment with the consultation record.
// Diagnosis is required; the record is immutable afterwards.
func (s *Service) Complete(ctx context.Context, doctorID, apptID uuid.UUID, in ConsultationInput) (*Appointment, error) {
	if in.Diagnosis == "" {
		return nil, errors.New("diagnosis is required")
	}

	appt, err := s.repo.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != doctorID {
		return nil, ErrNotFound
	}
	if appt.Status != StatusAccepted {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, StatusCompleted)
	}

	completedAt := s.now()
	if in.Medicines == nil {
		in.Medicines = []Medicine{}
	}
	if err := s.repo.Complete(ctx, apptID, in.Diagnosis, in.Notes, in.Medicines, completedAt); err != nil {
		return nil, err
	}

	appt.Status = StatusCompleted
	appt.Diagnosis = in.Diagnosis
	appt.Notes = in.Notes
	appt.Prescription = in.Medicines
	appt.CompletedAt = &completedAt
	return appt, nil
}

// SearchVisits returns completed consultations for a CNIC, newest first.
func (s *Service) SearchVisits(ctx context.Context, cnic string, limit, offset int) ([]*Appointment, int, error) {
	if !cnicPattern.MatchString(cnic) {
		return nil, 0, errors.New("CNIC must be exactly 13 digits with no separators")
	}
	appts, total, err := s.repo.SearchCompletedByCNIC(ctx, cnic, limit, offset)
	if appts == nil {
		appts = []*Appointment{}
	}
	return appts, total, err
}
