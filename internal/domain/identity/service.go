package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shifa/shifa/internal/platform/auth"
)

const minPasswordLen = 6

var ErrInvalidCredentials = errors.New("invalid email or password")

// DoctorSignup carries the profile fields collected when a doctor registers.
type DoctorSignup struct {
	Hospital    string   `json:"hospital"`
	Fee         float64  `json:"fee"`
	TimeWindow  string   `json:"time_window"`
	Experience  int      `json:"experience"`
	About       string   `json:"about"`
	Services    []string `json:"services"`
	Specialties []string `json:"specialties"`
}

// ProfileCreator creates the doctor profile that accompanies a doctor
// account. Implemented by the doctors service.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, signup DoctorSignup) error
}

// SignupInput is a registration request.
type SignupInput struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Phone    string        `json:"phone"`
	Gender   string        `json:"gender"`
	Password string        `json:"password"`
	Role     string        `json:"role"`
	Doctor   *DoctorSignup `json:"doctor,omitempty"`
}

// Session is the result of a successful signup or login.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Service implements account creation and sign-in.
type Service struct {
	repo     Repo
	profiles ProfileCreator
	issuer   *auth.Issuer
}

func NewService(repo Repo, profiles ProfileCreator, issuer *auth.Issuer) *Service {
	return &Service{repo: repo, profiles: profiles, issuer: issuer}
}

// Signup validates the input, creates the account, and for doctors creates
// the unverified profile. Returns a session token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Name == "" {
		return nil, errors.New("name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	switch in.Role {
	case auth.RolePatient:
	case auth.RoleDoctor:
		if in.Doctor == nil {
			return nil, errors.New("doctor profile details are required")
		}
		if len(in.Doctor.Specialties) == 0 {
			return nil, errors.New("at least one specialty is required")
		}
		if in.Doctor.Hospital == "" {
			return nil, errors.New("hospital is required")
		}
		if in.Doctor.Fee < 0 {
			return nil, errors.New("fee must not be negative")
		}
		if in.Doctor.Experience < 0 {
			return nil, errors.New("experience must not be negative")
		}
	default:
		return nil, fmt.Errorf("unsupported role %q", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Gender:       in.Gender,
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if in.Role == auth.RoleDoctor {
		if err := s.profiles.CreateProfile(ctx, user.ID, *in.Doctor); err != nil {
			// A doctor account without a profile is unusable; roll the
			// account back so signup can be retried cleanly.
			_ = s.repo.Delete(ctx, user.ID)
			return nil, fmt.Errorf("create doctor profile: %w", err)
		}
	}

	return s.newSession(user)
}

// Login verifies credentials and returns a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) newSession(user *User) (*Session, error) {
	token, err := s.issuer.Mint(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

// CreateAdmin registers an admin account. Used by the CLI, not exposed over
// HTTP.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*User, error) {
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.TrimSpace(strings.ToLower(email)),
		Role:         auth.RoleAdmin,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
