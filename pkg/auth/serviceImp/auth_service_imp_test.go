package serviceImp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larsbees/pkg/apperr"
	"larsbees/pkg/auth/repositoryImp"
	"larsbees/pkg/auth/service"
	"larsbees/pkg/testutil"
)

func newSvc(t *testing.T) *authSvc {
	t.Helper()
	db := testutil.NewDB(t)
	return New(repositoryImp.New(db), "test-secret", time.Hour, 30*24*time.Hour).(*authSvc)
}

func register(t *testing.T, s *authSvc, name string) {
	t.Helper()
	_, err := s.Register(context.Background(), service.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "hunter22", Password2: "hunter22",
	})
	require.NoError(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	register(t, s, "beekeeper")

	sess, err := s.Login(ctx, service.LoginInput{Username: "beekeeper", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.NotEmpty(t, sess.User.CalendarToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	uid, err := s.ParseToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.UserID, uid)

	remembered, err := s.Login(ctx, service.LoginInput{Username: "beekeeper", Password: "hunter22", RememberMe: true})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), remembered.ExpiresAt, time.Minute)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	s := newSvc(t)
	register(t, s, "beekeeper")
	_, err := s.Register(context.Background(), service.RegisterInput{
		Username: "other", Email: "BEEKEEPER@example.com", Password: "hunter22", Password2: "hunter22",
	})
	assert.True(t, errors.Is(err, service.ErrDuplicateUser))
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	register(t, s, "beekeeper")

	_, err := s.Login(ctx, service.LoginInput{Username: "beekeeper", Password: "wrong"})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
	_, err = s.Login(ctx, service.LoginInput{Username: "nobody", Password: "hunter22"})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	register(t, s, "beekeeper")

	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	sess, err := s.Login(ctx, service.LoginInput{Username: "beekeeper", Password: "hunter22"})
	require.NoError(t, err)
	_, err = s.ParseToken(sess.Token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	s.now = time.Now
	sess, err = s.Login(ctx, service.LoginInput{Username: "beekeeper", Password: "hunter22"})
	require.NoError(t, err)
	other := New(nil, "another-secret", time.Hour, time.Hour)
	_, err = other.ParseToken(sess.Token)
	assert.Error(t, err)
}
