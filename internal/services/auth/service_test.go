package auth

import (
	"errors"
	"testing"
	"time"

	"finsentry/internal/models"
	"finsentry/internal/repositories"
	"finsentry/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fakeInvestigatorRepo is an in-memory stand-in for the GORM repository.
type fakeInvestigatorRepo struct {
	byID    map[uint]*models.Investigator
	byEmail map[string]*models.Investigator
	updates int
}

func newFakeRepo(invs ...*models.Investigator) *fakeInvestigatorRepo {
	r := &fakeInvestigatorRepo{
		byID:    make(map[uint]*models.Investigator),
		byEmail: make(map[string]*models.Investigator),
	}
	for _, inv := range invs {
		r.byID[inv.ID] = inv
		r.byEmail[inv.Email] = inv
	}
	return r
}

func (r *fakeInvestigatorRepo) Create(inv *models.Investigator) error {
	r.byID[inv.ID] = inv
	r.byEmail[inv.Email] = inv
	return nil
}

func (r *fakeInvestigatorRepo) GetByID(id uint) (*models.Investigator, error) {
	inv, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrInvestigatorNotFound
	}
	return inv, nil
}

func (r *fakeInvestigatorRepo) GetByEmail(email string) (*models.Investigator, error) {
	inv, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrInvestigatorNotFound
	}
	return inv, nil
}

func (r *fakeInvestigatorRepo) Update(inv *models.Investigator) error {
	r.updates++
	r.byID[inv.ID] = inv
	r.byEmail[inv.Email] = inv
	return nil
}

func (r *fakeInvestigatorRepo) Delete(id uint) error {
	inv, ok := r.byID[id]
	if !ok {
		return repositories.ErrInvestigatorNotFound
	}
	delete(r.byEmail, inv.Email)
	delete(r.byID, id)
	return nil
}

func (r *fakeInvestigatorRepo) IncrementTokenVersion(id uint) error {
	inv, ok := r.byID[id]
	if !ok {
		return repositories.ErrInvestigatorNotFound
	}
	inv.TokenVersion++
	return nil
}

func (r *fakeInvestigatorRepo) List(offset, limit int) ([]*models.Investigator, int64, error) {
	out := make([]*models.Investigator, 0, len(r.byID))
	for _, inv := range r.byID {
		out = append(out, inv)
	}
	return out, int64(len(out)), nil
}

func testInvestigator(t *testing.T, password string) *models.Investigator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Investigator{
		Model:        gorm.Model{ID: 7},
		Email:        "asha@finsentry.test",
		Password:     string(hash),
		Name:         "Asha Verma",
		BadgeNumber:  "INV-0042",
		Role:         "investigator",
		Status:       "active",
		TokenVersion: 1,
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success", func(t *testing.T) {
		repo := newFakeRepo(testInvestigator(t, "s3cret!pass"))
		svc := NewService(repo)

		inv, access, refresh, err := svc.Login("asha@finsentry.test", "s3cret!pass")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, uint(7), inv.ID)
		assert.WithinDuration(t, time.Now(), inv.LastLoginAt, time.Minute)
		assert.Equal(t, 1, repo.updates)

		_, claims, err := utils.ParseToken(access)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "investigator", claims.Role)
		assert.Equal(t, 1, claims.TokenVersion)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, _, _, err := svc.Login("nobody@finsentry.test", "whatever")
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewService(newFakeRepo(testInvestigator(t, "s3cret!pass")))
		_, _, _, err := svc.Login("asha@finsentry.test", "wrong")
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("disabled account", func(t *testing.T) {
		inv := testInvestigator(t, "s3cret!pass")
		inv.Status = "suspended"
		svc := NewService(newFakeRepo(inv))
		_, _, _, err := svc.Login("asha@finsentry.test", "s3cret!pass")
		assert.EqualError(t, err, "account disabled")
	})
}

func TestRefreshTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	login := func(t *testing.T, repo *fakeInvestigatorRepo) string {
		t.Helper()
		svc := NewService(repo)
		_, _, refresh, err := svc.Login("asha@finsentry.test", "s3cret!pass")
		require.NoError(t, err)
		return refresh
	}

	t.Run("success", func(t *testing.T) {
		repo := newFakeRepo(testInvestigator(t, "s3cret!pass"))
		refresh := login(t, repo)

		access, newRefresh, err := NewService(repo).RefreshTokens(refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, _, err := svc.RefreshTokens("not.a.jwt")
		assert.EqualError(t, err, "invalid refresh token")
	})

	t.Run("stale token version", func(t *testing.T) {
		repo := newFakeRepo(testInvestigator(t, "s3cret!pass"))
		refresh := login(t, repo)

		svc := NewService(repo)
		require.NoError(t, svc.Logout(7))

		_, _, err := svc.RefreshTokens(refresh)
		assert.EqualError(t, err, "token version mismatch")
	})
}

func TestLogout(t *testing.T) {
	repo := newFakeRepo(testInvestigator(t, "s3cret!pass"))
	svc := NewService(repo)

	require.NoError(t, svc.Logout(7))
	assert.Equal(t, 2, repo.byID[7].TokenVersion)

	err := svc.Logout(999)
	assert.True(t, errors.Is(err, repositories.ErrInvestigatorNotFound))
}

func TestChangePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success invalidates old sessions", func(t *testing.T) {
		repo := newFakeRepo(testInvestigator(t, "s3cret!pass"))
		svc := NewService(repo)

		require.NoError(t, svc.ChangePassword(7, "s3cret!pass", "newpass!longer"))
		assert.Equal(t, 2, repo.byID[7].TokenVersion)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(repo.byID[7].Password), []byte("newpass!longer")))
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc := NewService(newFakeRepo(testInvestigator(t, "s3cret!pass")))
		err := svc.ChangePassword(7, "wrong", "newpass!longer")
		assert.EqualError(t, err, "invalid old password")
	})

	t.Run("weak new password", func(t *testing.T) {
		for _, weak := range []string{"short!", "longenoughbutplain"} {
			svc := NewService(newFakeRepo(testInvestigator(t, "s3cret!pass")))
			err := svc.ChangePassword(7, "s3cret!pass", weak)
			assert.Error(t, err)
		}
	})

	t.Run("unknown investigator", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		err := svc.ChangePassword(42, "x", "y")
		assert.EqualError(t, err, "failed to get investigator")
	})
}
