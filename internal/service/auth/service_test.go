package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store/storetest"
)

func newTestService() *Service {
	users := storetest.NewFakeUserRepository()
	cred := NewJWTCredentialService([]byte("test-signing-key"), Lifetimes{Access: 15 * time.Minute, Refresh: 7 * 24 * time.Hour})
	return NewService(users, cred)
}

func TestSignupThenLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, tokens, err := svc.Signup(ctx, SignupPayload{Email: "A@Example.com", Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "a@example.com", u.Email, "email must be lowercased")
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	_, loginTokens, err := svc.Login(ctx, LoginPayload{Email: "a@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, loginTokens.AccessToken)

	_, _, err = svc.Login(ctx, LoginPayload{Email: "a@example.com", Password: "wrong-password"})
	require.Error(t, err)
	require.Equal(t, domainerr.KindForbidden, domainerr.KindOf(err))
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupPayload{Email: "a@example.com", Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, SignupPayload{Email: "a@example.com", Username: "someone-else", Password: "correct-horse"})
	require.Error(t, err)
	require.Equal(t, domainerr.KindConflict, domainerr.KindOf(err))
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.Signup(context.Background(), SignupPayload{Email: "a@example.com", Username: "alice", Password: "short"})
	require.Error(t, err)
	require.Equal(t, domainerr.KindInvalidInput, domainerr.KindOf(err))
}

func TestAuthenticate_RoundTripsAccessToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, tokens, err := svc.Signup(ctx, SignupPayload{Email: "a@example.com", Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	principal, err := svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, principal.ID)
	require.True(t, principal.IsActive)
}

func TestAuthenticate_RejectsRefreshToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, tokens, err := svc.Signup(ctx, SignupPayload{Email: "a@example.com", Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, tokens.RefreshToken)
	require.Error(t, err)
}
