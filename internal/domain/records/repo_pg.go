package records

import (
	"context"
	"errors"
	"fmt"

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

const recordCols = `id, patient_id, name, url, to_char(record_date, 'YYYY-MM-DD'), created_at`

func scanRecord(row pgx.Row) (*HealthRecord, error) {
	var r HealthRecord
	err := row.Scan(&r.ID, &r.PatientID, &r.Name, &r.URL, &r.RecordDate, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan health record: %w", err)
	}
	return &r, nil
}

func (r *repoPG) Create(ctx context.Context, rec *HealthRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO health_records (id, patient_id, name, url, record_date)
		VALUES ($1,$2,$3,$4,$5::date)`,
		rec.ID, rec.PatientID, rec.Name, rec.URL, rec.RecordDate)
	if err != nil {
		return fmt.Errorf("insert health record: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthRecord, error) {
	return scanRecord(r.db.QueryRow(ctx,
		`SELECT `+recordCols+` FROM health_records WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM health_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count health records: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+recordCols+` FROM health_records
		WHERE patient_id = $1
		ORDER BY record_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query health records: %w", err)
	}
	defer rows.Close()

	var out []*HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate health records: %w", err)
	}
	return out, total, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM health_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete health record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
