package records

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shifa/shifa/internal/platform/blobstore"
)

// Service stores patient documents: the file goes to the blob store, the
// metadata row to the repo.
type Service struct {
	repo   Repo
	store  blobstore.Store
	url    func(uuid.UUID) string
	logger zerolog.Logger
}

func NewService(repo Repo, store blobstore.Store, url func(uuid.UUID) string, logger zerolog.Logger) *Service {
	return &Service{repo: repo, store: store, url: url, logger: logger}
}

// Upload stores the file and then the metadata row. A failed upload aborts
// before any row is written; a failed insert removes the orphaned blob.
func (s *Service) Upload(ctx context.Context, patientID uuid.UUID, name, recordDate, filename, contentType string, r io.Reader) (*HealthRecord, error) {
	if name == "" {
		name = filename
	}
	if name == "" {
		return nil, errors.New("record name is required")
	}
	if recordDate == "" {
		recordDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", recordDate); err != nil {
		return nil, errors.New("record date must be in YYYY-MM-DD format")
	}

	blob, err := s.store.Put(ctx, filename, contentType, r)
	if err != nil {
		return nil, err
	}

	rec := &HealthRecord{
		ID:         uuid.New(),
		PatientID:  patientID,
		Name:       name,
		URL:        s.url(blob.ID),
		RecordDate: recordDate,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if delErr := s.store.Delete(ctx, blob.ID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("blob_id", blob.ID.String()).Msg("orphaned blob after failed insert")
		}
		return nil, err
	}
	return rec, nil
}

// List returns a patient's own records, newest first.
func (s *Service) List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	recs, total, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if recs == nil {
		recs = []*HealthRecord{}
	}
	return recs, total, err
}

// Remove deletes a record the patient owns. Records belonging to another
// patient read as not found.
func (s *Service) Remove(ctx context.Context, patientID, recordID uuid.UUID) error {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.PatientID != patientID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, recordID)
}
