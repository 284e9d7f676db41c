package doctors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shifa/shifa/internal/domain/catalog"
	"github.com/shifa/shifa/internal/domain/identity"
	"github.com/shifa/shifa/internal/platform/assistant"
)

// Directory lists externally known practitioners, used as a fallback when
// no registered doctor matches a specialty.
type Directory interface {
	Doctors(ctx context.Context, specialty string) ([]assistant.DirectoryDoctor, error)
}

// SearchResult is a specialty search outcome. External entries are only
// populated when no registered profiles matched.
type SearchResult struct {
	Doctors  []*Profile                  `json:"doctors"`
	Total    int                         `json:"total"`
	External []assistant.DirectoryDoctor `json:"external,omitempty"`
}

// Service implements doctor directory and admin operations.
type Service struct {
	repo      Repo
	catalog   *catalog.Catalog
	directory Directory
	logger    zerolog.Logger
}

func NewService(repo Repo, cat *catalog.Catalog, directory Directory, logger zerolog.Logger) *Service {
	return &Service{repo: repo, catalog: cat, directory: directory, logger: logger}
}

// CreateProfile registers an unverified profile for a new doctor account.
// Satisfies identity.ProfileCreator.
func (s *Service) CreateProfile(ctx context.Context, userID uuid.UUID, signup identity.DoctorSignup) error {
	specialties := make([]string, 0, len(signup.Specialties))
	seen := map[string]bool{}
	for _, sp := range signup.Specialties {
		name, ok := s.catalog.Normalize(sp)
		if !ok {
			return fmt.Errorf("unknown specialty %q", sp)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		specialties = append(specialties, name)
	}
	if len(specialties) == 0 {
		return errors.New("at least one specialty is required")
	}

	timeWindow := strings.TrimSpace(signup.TimeWindow)
	if timeWindow == "" {
		timeWindow = "10:00 AM - 6:00 PM"
	}

	profile := &Profile{
		UserID:      userID,
		About:       signup.About,
		Experience:  signup.Experience,
		Services:    signup.Services,
		Specialties: specialties,
		Verified:    false,
		Locations: []PracticeLocation{{
			ID:         uuid.New(),
			DoctorID:   userID,
			Hospital:   signup.Hospital,
			Fee:        signup.Fee,
			TimeWindow: timeWindow,
		}},
	}
	if profile.Services == nil {
		profile.Services = []string{}
	}

	return s.repo.Create(ctx, profile)
}

// Get returns one doctor's profile.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Search lists verified doctors for a specialty. When none are registered,
// the external directory is consulted best-effort.
func (s *Service) Search(ctx context.Context, specialty string, limit, offset int) (*SearchResult, error) {
	if strings.TrimSpace(specialty) == "" {
		return nil, errors.New("specialty is required")
	}

	profiles, total, err := s.repo.ListBySpecialty(ctx, specialty, true, limit, offset)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Doctors: profiles, Total: total}
	if result.Doctors == nil {
		result.Doctors = []*Profile{}
	}

	if total == 0 && s.directory != nil {
		external, err := s.directory.Doctors(ctx, specialty)
		if err != nil {
			// Fallback listing is best-effort; an empty result is still
			// a valid answer.
			s.logger.Warn().Err(err).Str("specialty", specialty).Msg("external directory lookup failed")
		} else {
			result.External = external
		}
	}

	return result, nil
}

// ListByVerified returns pending or verified profiles for the admin
// dashboard tabs.
func (s *Service) ListByVerified(ctx context.Context, verified bool, limit, offset int) ([]*Profile, int, error) {
	profiles, total, err := s.repo.ListByVerified(ctx, verified, limit, offset)
	if profiles == nil {
		profiles = []*Profile{}
	}
	return profiles, total, err
}

// Verify marks a profile as verified. There is no reverse transition;
// removal deletes the profile instead.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID) error {
	return s.repo.SetVerified(ctx, userID, true)
}

// AdminUpdate edits the admin-editable profile fields.
func (s *Service) AdminUpdate(ctx context.Context, userID uuid.UUID, upd AdminUpdate) error {
	if upd.Fee != nil && *upd.Fee < 0 {
		return errors.New("fee must not be negative")
	}
	return s.repo.ApplyAdminUpdate(ctx, userID, upd)
}

// Remove deletes a doctor's profile.
func (s *Service) Remove(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Delete(ctx, userID)
}

// Location returns the practice location for a doctor and hospital. An
// empty hospital selects the primary location.
func (s *Service) Location(ctx context.Context, doctorID uuid.UUID, hospital string) (*PracticeLocation, error) {
	profile, err := s.repo.GetByUserID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if len(profile.Locations) == 0 {
		return nil, errors.New("doctor has no practice locations")
	}
	if hospital == "" {
		return &profile.Locations[0], nil
	}
	for i := range profile.Locations {
		if strings.EqualFold(profile.Locations[i].Hospital, hospital) {
			return &profile.Locations[i], nil
		}
	}
	return nil, fmt.Errorf("no practice location at %q", hospital)
}
