package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (*AuthService, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	cfg := &config.Config{
		SessionSecret: "test-secret-that-is-long-enough",
		SessionTTL:    time.Hour,
	}
	return NewAuthService(mem, mem, cfg), mem
}

func signup(t *testing.T, svc *AuthService, username string) *dto.LoginResult {
	t.Helper()
	res, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Username: username,
		Password: "correct-horse",
		Email:    username + "@example.com",
	}, dto.SessionInfo{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)
	return res
}

func TestSignupCreatesUserAndSession(t *testing.T) {
	svc, mem := newTestAuth(t)
	ctx := context.Background()

	res := signup(t, svc, "alice")
	require.NotNil(t, res.User)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "alice", res.User.DisplayName)
	require.NotNil(t, res.User.Password)
	assert.NotEqual(t, "correct-horse", *res.User.Password)
	assert.NotEmpty(t, res.Token)

	token, err := svc.ParseToken(res.Token)
	require.NoError(t, err)
	user, session, err := svc.ResolveSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
	assert.Equal(t, "test", session.UserAgent)
	assert.WithinDuration(t, res.ExpiresAt, session.ExpiresAt, time.Second)

	stored, err := mem.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", *stored.Email)
}

func TestSignupRejectsTakenUsername(t *testing.T) {
	svc, _ := newTestAuth(t)
	signup(t, svc, "alice")

	_, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Username: "alice",
		Password: "another-password",
	}, dto.SessionInfo{})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestAuth(t)
	cases := map[string]dto.SignupRequest{
		"short password":   {Username: "alice", Password: "short"},
		"long password":    {Username: "alice", Password: strings.Repeat("p", 80)},
		"short username":   {Username: "al", Password: "long-enough"},
		"blank username":   {Username: "   ", Password: "long-enough"},
		"invalid username": {Username: "al ice", Password: "long-enough"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			req := req
			_, err := svc.Signup(context.Background(), &req, dto.SessionInfo{})
			assert.ErrorIs(t, err, ErrInvalidSignup)
		})
	}
}

func TestSignupAcceptsMaxLengthPassword(t *testing.T) {
	svc, _ := newTestAuth(t)
	password := strings.Repeat("p", maxPasswordLength)

	_, err := svc.Signup(context.Background(), &dto.SignupRequest{Username: "alice", Password: password}, dto.SessionInfo{})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Username: "alice", Password: password}, dto.SessionInfo{})
	assert.NoError(t, err)
}

func TestSessionUserAgentIsTruncatedOnRuneBoundary(t *testing.T) {
	svc, _ := newTestAuth(t)
	agent := "a" + strings.Repeat("é", 600)

	res, err := svc.Signup(context.Background(), &dto.SignupRequest{Username: "alice", Password: "correct-horse"},
		dto.SessionInfo{UserAgent: agent})
	require.NoError(t, err)

	token, err := svc.ParseToken(res.Token)
	require.NoError(t, err)
	_, session, err := svc.ResolveSession(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(session.UserAgent))
	assert.LessOrEqual(t, len(session.UserAgent), 512)
	assert.Equal(t, 511, len(session.UserAgent))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "", truncate("日本", 2))
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()
	created := signup(t, svc, "alice")

	res, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "correct-horse"}, dto.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, res.User.ID)
	assert.NotEqual(t, created.Token, res.Token)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong-password"}, dto.SessionInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "correct-horse"}, dto.SessionInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsGoogleOnlyAccount(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.LoginWithGoogle(ctx, &GoogleProfile{ID: "g-1", Name: "Bob"}, dto.SessionInfo{})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "Bob", Password: "anything-at-all"}, dto.SessionInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()
	res := signup(t, svc, "alice")

	require.NoError(t, svc.Logout(ctx, res.Token))

	token, err := svc.ParseToken(res.Token)
	require.NoError(t, err)
	_, _, err = svc.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	assert.NoError(t, svc.Logout(ctx, "not-a-token"))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	svc, _ := newTestAuth(t)
	res := signup(t, svc, "alice")

	other := NewAuthService(store.NewMemoryStore(), store.NewMemoryStore(), &config.Config{
		SessionSecret: "a-different-secret",
		SessionTTL:    time.Hour,
	})
	_, err := other.ParseToken(res.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "sid": "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(unsigned)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestExpiredSessionIsRejected(t *testing.T) {
	svc, _ := newTestAuth(t)
	res := signup(t, svc, "alice")

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err := svc.ParseToken(res.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestResolveSessionRejectsMismatchedClaims(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	bob := signup(t, svc, "bobby")

	aliceToken, err := svc.ParseToken(alice.Token)
	require.NoError(t, err)
	bobToken, err := svc.ParseToken(bob.Token)
	require.NoError(t, err)

	forged := jwt.MapClaims{
		"sub": aliceToken.Claims.(jwt.MapClaims)["sub"],
		"sid": bobToken.Claims.(jwt.MapClaims)["sid"],
	}
	_, _, err = svc.ResolveSession(ctx, &jwt.Token{Claims: forged})
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, _, err = svc.ResolveSession(ctx, &jwt.Token{Claims: jwt.MapClaims{"sub": "1"}})
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestLoginWithGoogle(t *testing.T) {
	svc, mem := newTestAuth(t)
	ctx := context.Background()
	profile := &GoogleProfile{
		ID:      "g-123",
		Email:   "carol@example.com",
		Name:    "Carol",
		Picture: "https://example.com/carol.png",
	}

	first, err := svc.LoginWithGoogle(ctx, profile, dto.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, "Carol", first.User.Username)
	require.NotNil(t, first.User.ProfilePicture)
	assert.Equal(t, profile.Picture, *first.User.ProfilePicture)
	assert.Nil(t, first.User.Password)

	second, err := svc.LoginWithGoogle(ctx, profile, dto.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	stored, err := mem.GetUserByGoogleID(ctx, "g-123")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, stored.ID)
}

func TestLoginWithGoogleFallsBackOnNameClash(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()
	signup(t, svc, "Carol")

	res, err := svc.LoginWithGoogle(ctx, &GoogleProfile{ID: "g-9", Name: "Carol"}, dto.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, "user-g-9", res.User.Username)
	assert.Equal(t, "Carol", res.User.DisplayName)

	res, err = svc.LoginWithGoogle(ctx, &GoogleProfile{ID: "g-10"}, dto.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, "user-g-10", res.User.Username)

	_, err = svc.LoginWithGoogle(ctx, &GoogleProfile{}, dto.SessionInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
