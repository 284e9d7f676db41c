package doctors

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

const profileCols = `p.user_id, u.name, u.email, u.phone, u.gender, p.about,
	p.experience, p.services, p.specialties, p.verified, p.rating, p.review_count, p.created_at`

const profileJoin = `doctor_profiles p JOIN users u ON u.id = p.user_id`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.UserID, &p.Name, &p.Email, &p.Phone, &p.Gender, &p.About,
		&p.Experience, &p.Services, &p.Specialties, &p.Verified, &p.Rating, &p.ReviewCount, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan doctor profile: %w", err)
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Profile) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO doctor_profiles (user_id, about, experience, services, specialties, verified, rating, review_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.UserID, p.About, p.Experience, p.Services, p.Specialties, p.Verified, p.Rating, p.ReviewCount)
	if err != nil {
		return fmt.Errorf("insert doctor profile: %w", err)
	}

	for i, loc := range p.Locations {
		if loc.ID == uuid.Nil {
			loc.ID = uuid.New()
		}
		_, err := r.db.Exec(ctx, `
			INSERT INTO practice_locations (id, doctor_id, position, hospital, fee, time_window)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			loc.ID, p.UserID, i, loc.Hospital, loc.Fee, loc.TimeWindow)
		if err != nil {
			return fmt.Errorf("insert practice location: %w", err)
		}
	}
	return nil
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx,
		`SELECT `+profileCols+` FROM `+profileJoin+` WHERE p.user_id = $1`, userID))
	if err != nil {
		return nil, err
	}
	if err := r.attachLocations(ctx, []*Profile{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) ListBySpecialty(ctx context.Context, specialty string, verifiedOnly bool, limit, offset int) ([]*Profile, int, error) {
	where := `WHERE EXISTS (
		SELECT 1 FROM unnest(p.specialties) s WHERE lower(s) = lower($1)
	)`
	if verifiedOnly {
		where += ` AND p.verified`
	}

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM `+profileJoin+` `+where, specialty).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+profileCols+` FROM `+profileJoin+` `+where+
			` ORDER BY p.rating DESC, u.name LIMIT $2 OFFSET $3`,
		specialty, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	profiles, err := collectProfiles(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachLocations(ctx, profiles); err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *repoPG) ListByVerified(ctx context.Context, verified bool, limit, offset int) ([]*Profile, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM doctor_profiles p WHERE p.verified = $1`, verified).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+profileCols+` FROM `+profileJoin+
			` WHERE p.verified = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`,
		verified, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	profiles, err := collectProfiles(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachLocations(ctx, profiles); err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func collectProfiles(rows pgx.Rows) ([]*Profile, error) {
	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctors: %w", err)
	}
	return profiles, nil
}

func (r *repoPG) attachLocations(ctx context.Context, profiles []*Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(profiles))
	byID := make(map[uuid.UUID]*Profile, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
		byID[p.UserID] = p
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, doctor_id, position, hospital, fee, time_window
		FROM practice_locations WHERE doctor_id = ANY($1) ORDER BY doctor_id, position`, ids)
	if err != nil {
		return fmt.Errorf("query practice locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var loc PracticeLocation
		if err := rows.Scan(&loc.ID, &loc.DoctorID, &loc.Position, &loc.Hospital, &loc.Fee, &loc.TimeWindow); err != nil {
			return fmt.Errorf("scan practice location: %w", err)
		}
		if p := byID[loc.DoctorID]; p != nil {
			p.Locations = append(p.Locations, loc)
		}
	}
	return rows.Err()
}

func (r *repoPG) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE doctor_profiles SET verified = $2 WHERE user_id = $1`, userID, verified)
	if err != nil {
		return fmt.Errorf("update verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ApplyAdminUpdate(ctx context.Context, userID uuid.UUID, upd AdminUpdate) error {
	if upd.About != nil {
		tag, err := r.db.Exec(ctx,
			`UPDATE doctor_profiles SET about = $2 WHERE user_id = $1`, userID, *upd.About)
		if err != nil {
			return fmt.Errorf("update about: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
	}
	if upd.Phone != nil {
		if _, err := r.db.Exec(ctx,
			`UPDATE users SET phone = $2 WHERE id = $1`, userID, *upd.Phone); err != nil {
			return fmt.Errorf("update phone: %w", err)
		}
	}
	// Hospital and fee edits apply to the primary practice location.
	if upd.Hospital != nil {
		if _, err := r.db.Exec(ctx, `
			UPDATE practice_locations SET hospital = $2
			WHERE doctor_id = $1 AND position = 0`, userID, *upd.Hospital); err != nil {
			return fmt.Errorf("update hospital: %w", err)
		}
	}
	if upd.Fee != nil {
		if _, err := r.db.Exec(ctx, `
			UPDATE practice_locations SET fee = $2
			WHERE doctor_id = $1 AND position = 0`, userID, *upd.Fee); err != nil {
			return fmt.Errorf("update fee: %w", err)
		}
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM doctor_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete doctor profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
