package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saloniq/salon-booking-backend/internal/auth"
)

type memRepository struct {
	byEmail map[string]*User
	seq     int
}

func newMemRepository() *memRepository {
	return &memRepository{byEmail: map[string]*User{}}
}

func (r *memRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepository) GetByID(_ context.Context, id string) (*User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepository) Create(_ context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	r.seq++
	u.ID = fmt.Sprintf("usr-%04d", r.seq)
	u.CreatedAt = time.Now().UTC()
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.LastLoginAt = &at
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepository) Deactivate(_ context.Context, id string) error {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.IsActive = false
			return nil
		}
	}
	return ErrNotFound
}

// plainHasher keeps tests fast; bcrypt is exercised in production wiring only.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hash:"+plain {
		return fmt.Errorf("mismatch")
	}
	return nil
}

func newTestService() (Service, *memRepository) {
	repo := newMemRepository()
	return NewService(repo, plainHasher{}), repo
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  Anna@Example.COM ",
		Password: "correct-horse",
		Role:     auth.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NotEmpty(t, u.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "anna@example.com", Password: "correct-horse", Role: auth.RoleClient,
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email: "ANNA@example.com", Password: "other-password", Role: auth.RoleClient,
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "   ", Password: "correct-horse", Role: auth.RoleClient,
	})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email: "anna@example.com", Password: "short", Role: auth.RoleClient,
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email: "anna@example.com", Password: "correct-horse", Role: auth.Role("admin"),
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLoginSuccessUpdatesLastLogin(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "anna@example.com", Password: "correct-horse", Role: auth.RoleOwner,
	})
	require.NoError(t, err)

	u, err := svc.Login(context.Background(), "Anna@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleOwner, u.Role)

	stored := repo.byEmail["anna@example.com"]
	require.NotNil(t, stored.LastLoginAt)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "anna@example.com", Password: "correct-horse", Role: auth.RoleClient,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "anna@example.com", "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email returns the same error as a wrong password.
	_, err = svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, repo := newTestService()

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email: "anna@example.com", Password: "correct-horse", Role: auth.RoleStaff,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(context.Background(), u.ID))

	_, err = svc.Login(context.Background(), "anna@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInactiveUser)
}
