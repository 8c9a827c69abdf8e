package serviceImp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"larsbees/pkg/admin/service"
	"larsbees/pkg/apperr"
	authRepoImp "larsbees/pkg/auth/repositoryImp"
	authsvc "larsbees/pkg/auth/service"
	authSvcImp "larsbees/pkg/auth/serviceImp"
	"larsbees/pkg/testutil"
)

func newSvc(t *testing.T) (service.AdminService, authsvc.AuthService) {
	t.Helper()
	users := authRepoImp.New(testutil.NewDB(t))
	auth := authSvcImp.New(users, "test-secret", time.Hour, 24*time.Hour)
	return New(users, auth, zap.NewNop()), auth
}

func TestCreateUserCanLogIn(t *testing.T) {
	ctx := context.Background()
	s, auth := newSvc(t)

	u, err := s.Create(ctx, service.UserInput{Username: "worker", Email: "Worker@Example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "worker@example.com", u.Email)
	assert.Equal(t, "staff", u.Role)
	assert.Equal(t, "active", u.Status)
	assert.NotEmpty(t, u.CalendarToken)
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	sess, err := auth.Login(ctx, authsvc.LoginInput{Username: "worker", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, u.UserID, sess.User.UserID)

	_, err = s.Create(ctx, service.UserInput{Username: "nopass", Email: "nopass@example.com"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = s.Create(ctx, service.UserInput{Username: "worker", Email: "other@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, authsvc.ErrDuplicateUser)
}

func TestCreateInactiveUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)
	off := false
	u, err := s.Create(ctx, service.UserInput{Username: "trialist", Email: "t@example.com", Password: "hunter22", IsActive: &off})
	require.NoError(t, err)

	stored, err := s.Get(ctx, u.UserID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s, auth := newSvc(t)
	u, err := s.Create(ctx, service.UserInput{Username: "worker", Email: "w@example.com", Password: "hunter22"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, u.UserID, service.UserInput{
		Username: "worker", Email: "w@example.com", Role: "director", FirstName: "Wren",
	})
	require.NoError(t, err)
	assert.Equal(t, "director", updated.Role)
	assert.Equal(t, "Wren", updated.FirstName)

	_, err = auth.Login(ctx, authsvc.LoginInput{Username: "worker", Password: "hunter22"})
	assert.NoError(t, err)

	found, err := s.List(ctx, "wre")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, u.UserID, found[0].UserID)
}

func TestDeleteDeactivates(t *testing.T) {
	ctx := context.Background()
	s, auth := newSvc(t)
	admin, err := s.Create(ctx, service.UserInput{Username: "boss", Email: "boss@example.com", Password: "hunter22", IsAdmin: true})
	require.NoError(t, err)
	u, err := s.Create(ctx, service.UserInput{Username: "worker", Email: "w@example.com", Password: "hunter22"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, admin.UserID, admin.UserID), service.ErrDeleteSelf)
	require.NoError(t, s.Delete(ctx, admin.UserID, u.UserID))

	stored, err := s.Get(ctx, u.UserID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "inactive", stored.Status)

	_, err = auth.Login(ctx, authsvc.LoginInput{Username: "worker", Password: "hunter22"})
	assert.ErrorIs(t, err, authsvc.ErrInactiveUser)

	assert.ErrorIs(t, s.Delete(ctx, admin.UserID, 9999), apperr.ErrNotFound)
}
