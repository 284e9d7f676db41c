package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shifa/shifa/internal/platform/auth"
)

type mockRepo struct {
	users   map[uuid.UUID]*User
	byEmail map[string]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: map[uuid.UUID]*User{}, byEmail: map[string]*User{}}
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byEmail, u.Email)
	delete(m.users, id)
	return nil
}

type mockProfiles struct {
	created map[uuid.UUID]DoctorSignup
	err     error
}

func (m *mockProfiles) CreateProfile(ctx context.Context, userID uuid.UUID, signup DoctorSignup) error {
	if m.err != nil {
		return m.err
	}
	if m.created == nil {
		m.created = map[uuid.UUID]DoctorSignup{}
	}
	m.created[userID] = signup
	return nil
}

func newTestService() (*Service, *mockRepo, *mockProfiles) {
	repo := newMockRepo()
	profiles := &mockProfiles{}
	issuer := auth.NewIssuer("test-secret", time.Hour)
	return NewService(repo, profiles, issuer), repo, profiles
}

func TestSignup_Patient(t *testing.T) {
	svc, repo, _ := newTestService()

	session, err := svc.Signup(context.Background(), SignupInput{
		Name: "Sana", Email: "Sana@Example.com", Password: "secret1", Role: auth.RolePatient,
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if session.Token == "" {
		t.Error("expected session token")
	}
	if session.User.Email != "sana@example.com" {
		t.Errorf("email not normalized: %q", session.User.Email)
	}
	if _, ok := repo.byEmail["sana@example.com"]; !ok {
		t.Error("user not persisted")
	}
}

func TestSignup_DoctorCreatesProfile(t *testing.T) {
	svc, _, profiles := newTestService()

	session, err := svc.Signup(context.Background(), SignupInput{
		Name: "Dr. Ahmed", Email: "ahmed@clinic.pk", Password: "secret1", Role: auth.RoleDoctor,
		Doctor: &DoctorSignup{
			Hospital:    "City Hospital",
			Fee:         2000,
			TimeWindow:  "9:00 AM - 5:00 PM",
			Specialties: []string{"Cardiologist"},
		},
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	got, ok := profiles.created[session.User.ID]
	if !ok {
		t.Fatal("doctor profile not created")
	}
	if got.Hospital != "City Hospital" {
		t.Errorf("profile = %+v", got)
	}
}

func TestSignup_DoctorProfileFailureRollsBack(t *testing.T) {
	svc, repo, profiles := newTestService()
	profiles.err = errors.New("db down")

	_, err := svc.Signup(context.Background(), SignupInput{
		Name: "Dr. Ahmed", Email: "ahmed@clinic.pk", Password: "secret1", Role: auth.RoleDoctor,
		Doctor: &DoctorSignup{Hospital: "City Hospital", Specialties: []string{"Cardiologist"}},
	})
	if err == nil {
		t.Fatal("expected error when profile creation fails")
	}
	if len(repo.users) != 0 {
		t.Error("account should be rolled back on profile failure")
	}
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []SignupInput{
		{Email: "a@b.c", Password: "secret1", Role: auth.RolePatient},                    // no name
		{Name: "x", Email: "not-an-email", Password: "secret1", Role: auth.RolePatient}, // bad email
		{Name: "x", Email: "a@b.c", Password: "short", Role: auth.RolePatient},          // short password
		{Name: "x", Email: "a@b.c", Password: "secret1", Role: "superuser"},             // bad role
		{Name: "x", Email: "a@b.c", Password: "secret1", Role: auth.RoleDoctor},         // doctor w/o profile
		{Name: "x", Email: "a@b.c", Password: "secret1", Role: auth.RoleDoctor,
			Doctor: &DoctorSignup{Hospital: "H"}}, // doctor w/o specialties
	}
	for i, in := range cases {
		if _, err := svc.Signup(context.Background(), in); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	in := SignupInput{Name: "x", Email: "a@b.c", Password: "secret1", Role: auth.RolePatient}
	if _, err := svc.Signup(context.Background(), in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Signup(context.Background(), SignupInput{
		Name: "Sana", Email: "sana@example.com", Password: "secret1", Role: auth.RolePatient,
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	session, err := svc.Login(context.Background(), "sana@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token == "" {
		t.Error("expected token")
	}

	if _, err := svc.Login(context.Background(), "sana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestCreateAdmin(t *testing.T) {
	svc, repo, _ := newTestService()
	admin, err := svc.CreateAdmin(context.Background(), "Root", "admin@shifa.pk", "secret1")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if admin.Role != auth.RoleAdmin {
		t.Errorf("role = %q", admin.Role)
	}
	if _, ok := repo.byEmail["admin@shifa.pk"]; !ok {
		t.Error("admin not persisted")
	}
}
