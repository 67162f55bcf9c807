package directory

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	if u.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, errRepoNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, errRepoNotFound
}

func (r *testRepo) ListFarmers(ctx context.Context, q FarmerQuery) ([]User, error) {
	out := make([]User, 0)
	for _, u := range r.byID {
		if u.IsFarmer() && u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *testRepo) CountByRole(ctx context.Context, role Role) (int, error) {
	n := 0
	for _, u := range r.byID {
		if u.Role == role && u.Active {
			n++
		}
	}
	return n, nil
}

func farmerInput(email string) RegisterInput {
	return RegisterInput{
		Name:     "Jean",
		Email:    email,
		Phone:    "0788123456",
		Password: "secret123",
		Role:     RoleFarmer,
		Farmer:   &FarmerProfile{District: "Musanze", Sector: "Muhoza"},
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Register_Farmer_HashesPassword(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), farmerInput("jean@example.com"))
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !u.Active {
		t.Fatalf("expected new user active")
	}
	if u.Farmer == nil || u.Farmer.District != "Musanze" {
		t.Fatalf("farmer profile missing: %#v", u)
	}
	if string(u.PasswordHash) == "secret123" {
		t.Fatalf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("secret123")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestService_Register_ProfileMustMatchRole(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{
			name: "farmer without district",
			in: RegisterInput{
				Name: "Jean", Email: "a@x.com", Password: "pw", Role: RoleFarmer,
				Farmer: &FarmerProfile{Sector: "Muhoza"},
			},
		},
		{
			name: "farmer with vet profile",
			in: RegisterInput{
				Name: "Jean", Email: "b@x.com", Password: "pw", Role: RoleFarmer,
				Farmer: &FarmerProfile{District: "Musanze", Sector: "Muhoza"},
				Vet:    &VetProfile{Specialty: "x", LicenseNumber: "1", Location: "y"},
			},
		},
		{
			name: "vet without license",
			in: RegisterInput{
				Name: "Alice", Email: "c@x.com", Password: "pw", Role: RoleVeterinarian,
				Vet: &VetProfile{Specialty: "x", Location: "y"},
			},
		},
		{
			name: "admin with profile",
			in: RegisterInput{
				Name: "Root", Email: "d@x.com", Password: "pw", Role: RoleAdmin,
				Farmer: &FarmerProfile{District: "Musanze", Sector: "Muhoza"},
			},
		},
		{
			name: "unknown role",
			in:   RegisterInput{Name: "X", Email: "e@x.com", Password: "pw", Role: Role("owner")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Register_EmailTaken_CaseInsensitive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), farmerInput("jean@example.com")); err != nil {
		t.Fatalf("first register error: %v", err)
	}

	_, err := svc.Register(context.Background(), farmerInput("JEAN@Example.COM"))
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), farmerInput("jean@example.com"))
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), "Jean@Example.com ", "secret123")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected same user back")
	}

	if _, err := svc.Authenticate(context.Background(), "jean@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "secret123"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for unknown email, got %v", err)
	}

	// usuario desactivado no entra aunque la password sea correcta
	u.Active = false
	repo.byID[u.ID] = u
	if _, err := svc.Authenticate(context.Background(), "jean@example.com", "secret123"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for inactive user, got %v", err)
	}
}
