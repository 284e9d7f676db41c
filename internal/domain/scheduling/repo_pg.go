package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ db queryable }

func NewRepoPG(pool *pgxpool.Pool) Repo { return &repoPG{db: pool} }

const apptCols = `id, doctor_id, doctor_name, doctor_hospital, patient_id, patient_name,
	patient_cnic, to_char(date, 'YYYY-MM-DD'), time_label, reason, report_url, slot_id, status,
	diagnosis, notes, prescription, created_at, completed_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var prescription []byte
	err := row.Scan(&a.ID, &a.DoctorID, &a.DoctorName, &a.DoctorHospital, &a.PatientID, &a.PatientName,
		&a.PatientCNIC, &a.Date, &a.Time, &a.Reason, &a.ReportURL, &a.SlotID, &a.Status,
		&a.Diagnosis, &a.Notes, &prescription, &a.CreatedAt, &a.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan appointment: %w", err)
	}
	if len(prescription) > 0 {
		if err := json.Unmarshal(prescription, &a.Prescription); err != nil {
			return nil, fmt.Errorf("decode prescription: %w", err)
		}
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	prescription, err := json.Marshal(a.Prescription)
	if err != nil {
		return fmt.Errorf("encode prescription: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO appointments (id, doctor_id, doctor_name, doctor_hospital, patient_id,
			patient_name, patient_cnic, date, time_label, reason, report_url, slot_id, status, prescription)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8::date,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.DoctorID, a.DoctorName, a.DoctorHospital, a.PatientID,
		a.PatientName, a.PatientCNIC, a.Date, a.Time, a.Reason, a.ReportURL, a.SlotID, a.Status, prescription)
	if err != nil {
		var pgErr *pgconn.PgError
		// The partial unique index on slot_id makes the insert itself the
		// conflict check; a violation means the slot was taken between
		// the pre-check and the write.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.db.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) IsSlotTaken(ctx context.Context, slotID string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments WHERE slot_id = $1 AND status <> $2
		)`, slotID, StatusRejected).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}
	return taken, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, statuses []string, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `patient_id`, patientID, statuses, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, statuses []string, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `doctor_id`, doctorID, statuses, limit, offset)
}

func (r *repoPG) list(ctx context.Context, ownerCol string, ownerID uuid.UUID, statuses []string, limit, offset int) ([]*Appointment, int, error) {
	where := fmt.Sprintf(`WHERE %s = $1`, ownerCol)
	args := []interface{}{ownerID}
	if len(statuses) > 0 {
		where += fmt.Sprintf(` AND status = ANY($%d)`, len(args)+1)
		args = append(args, statuses)
	}

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM appointments `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM appointments %s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		apptCols, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	appts, err := collectAppointments(rows)
	return appts, total, err
}

func (r *repoPG) SearchCompletedByCNIC(ctx context.Context, cnic string, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM appointments WHERE patient_cnic = $1 AND status = $2`,
		cnic, StatusCompleted).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count visits: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE patient_cnic = $1 AND status = $2
		ORDER BY completed_at DESC LIMIT $3 OFFSET $4`,
		cnic, StatusCompleted, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	appts, err := collectAppointments(rows)
	return appts, total, err
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return appts, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validStatuses[strings.ToLower(status)] {
		return fmt.Errorf("unknown status %q", status)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Complete(ctx context.Context, id uuid.UUID, diagnosis, notes string, prescription []Medicine, completedAt time.Time) error {
	encoded, err := json.Marshal(prescription)
	if err != nil {
		return fmt.Errorf("encode prescription: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET status = $2, diagnosis = $3, notes = $4, prescription = $5, completed_at = $6
		WHERE id = $1`,
		id, StatusCompleted, diagnosis, notes, encoded, completedAt)
	if err != nil {
		return fmt.Errorf("complete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
