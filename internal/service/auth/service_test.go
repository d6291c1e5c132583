package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styllobarber/styllobarber-api/internal/email"
	"github.com/styllobarber/styllobarber-api/internal/model"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
	"github.com/styllobarber/styllobarber-api/pkg/logger"
	"github.com/styllobarber/styllobarber-api/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
	created []*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[uuid.UUID]*model.User),
	}
	for _, u := range users {
		r.byEmail[u.Email] = u
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.created = append(r.created, user)
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role model.Role) error {
	if u, ok := r.byID[id]; ok {
		u.Role = role
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) ListBarbers(_ context.Context, _ uuid.UUID) ([]*model.User, error) {
	return nil, nil
}

// fakeJWT issues predictable tokens so the tests assert on flow, not crypto.
type fakeJWT struct{}

func (fakeJWT) GenerateAccessToken(user *model.User) (string, error) {
	return "access-" + user.ID.String(), nil
}

func (fakeJWT) GenerateRefreshToken(user *model.User) (string, error) {
	return "refresh-" + user.ID.String(), nil
}

func (fakeJWT) ValidateToken(_ string) (*model.TokenClaims, error) {
	return nil, fmt.Errorf("invalid token")
}

func (fakeJWT) ValidateRefreshToken(_ string) (*model.TokenClaims, error) {
	return nil, fmt.Errorf("invalid token")
}

func testUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		Base:         model.Base{ID: uuid.New()},
		BarbershopID: uuid.New(),
		Email:        "barber@example.com",
		Name:         "Test Barber",
		PasswordHash: hash,
		Role:         model.RoleBarber,
		Status:       model.UserStatusActive,
	}
}

func newTestService(repo *fakeUserRepo) *Service {
	return NewService(repo, fakeJWT{}, email.NoopService{}, logger.NewLogger(nil))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return tokens and echo redirect", func(t *testing.T) {
		user := testUser(t, "correct-password")
		svc := newTestService(newFakeUserRepo(user))

		resp, err := svc.Login(ctx, &model.LoginRequest{
			Email:    user.Email,
			Password: "correct-password",
			Redirect: "/admin/reports",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "/admin/reports", resp.Redirect)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("unknown email and wrong password return the same error", func(t *testing.T) {
		user := testUser(t, "correct-password")
		svc := newTestService(newFakeUserRepo(user))

		_, errUnknown := svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
		_, errWrong := svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "wrong-password"})

		require.Error(t, errUnknown)
		require.Error(t, errWrong)
		assert.True(t, apperrors.IsCode(errUnknown, apperrors.ErrUnauthorized))
		assert.True(t, apperrors.IsCode(errWrong, apperrors.ErrUnauthorized))
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("repeated failures lock the account", func(t *testing.T) {
		user := testUser(t, "correct-password")
		svc := newTestService(newFakeUserRepo(user))

		for i := 0; i < maxLoginAttempts; i++ {
			_, err := svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "wrong-password"})
			require.Error(t, err)
		}
		assert.Equal(t, model.UserStatusLocked, user.Status)

		// Even the right password is rejected while locked.
		_, err := svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "correct-password"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
	})

	t.Run("lockout expires after the window", func(t *testing.T) {
		user := testUser(t, "correct-password")
		user.Status = model.UserStatusLocked
		user.LoginAttempts = maxLoginAttempts
		user.LastLoginAttempt = time.Now().Add(-lockoutDuration - time.Minute)
		svc := newTestService(newFakeUserRepo(user))

		resp, err := svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "correct-password"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, model.UserStatusActive, user.Status)
		assert.Zero(t, user.LoginAttempts)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		user := testUser(t, "correct-password")
		user.Status = model.UserStatusInactive
		svc := newTestService(newFakeUserRepo(user))

		_, err := svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "correct-password"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
	})

	t.Run("successful login resets the failure count", func(t *testing.T) {
		user := testUser(t, "correct-password")
		svc := newTestService(newFakeUserRepo(user))

		_, err := svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "wrong-password"})
		require.Error(t, err)
		assert.Equal(t, 1, user.LoginAttempts)

		_, err = svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "correct-password"})
		require.NoError(t, err)
		assert.Zero(t, user.LoginAttempts)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a client account", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := newTestService(repo)

		resp, err := svc.Register(ctx, &model.RegisterRequest{
			BarbershopID: uuid.New().String(),
			Email:        "client@example.com",
			Password:     "some-password",
			Name:         "New Client",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)

		require.Len(t, repo.created, 1)
		created := repo.created[0]
		assert.Equal(t, model.RoleClient, created.Role)
		assert.Equal(t, model.UserStatusActive, created.Status)
		assert.NotEqual(t, "some-password", created.PasswordHash)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		user := testUser(t, "correct-password")
		svc := newTestService(newFakeUserRepo(user))

		_, err := svc.Register(ctx, &model.RegisterRequest{
			BarbershopID: uuid.New().String(),
			Email:        user.Email,
			Password:     "some-password",
			Name:         "Impostor",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})

	t.Run("malformed barbershop id is rejected", func(t *testing.T) {
		svc := newTestService(newFakeUserRepo())

		_, err := svc.Register(ctx, &model.RegisterRequest{
			BarbershopID: "not-a-uuid",
			Email:        "client@example.com",
			Password:     "some-password",
			Name:         "New Client",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})
}
