package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSignup      = errors.New("invalid signup")
	ErrSessionInvalid     = errors.New("session is invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8
	// bcrypt rejects longer passwords.
	maxPasswordLength = 72
)

// AuthService owns user accounts and the sessions behind the session cookie.
// The cookie value is an HS256 JWT whose sid claim points at a stored
// session row, so logout takes effect before the token expires.
type AuthService struct {
	users    store.UserStore
	sessions store.SessionStore
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(users store.UserStore, sessions store.SessionStore, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest, info dto.SessionInfo) (*dto.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidSignup, minPasswordLength)
	}
	if len(req.Password) > maxPasswordLength {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidSignup, maxPasswordLength)
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	user := &models.User{
		Username:    username,
		Password:    &hashed,
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = &email
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.startSession(ctx, user, info)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, info dto.SessionInfo) (*dto.LoginResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Password == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user, info)
}

// LoginWithGoogle signs in the account linked to the Google profile,
// creating it on first login.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile *GoogleProfile, info dto.SessionInfo) (*dto.LoginResult, error) {
	if profile == nil || profile.ID == "" {
		return nil, fmt.Errorf("%w: google profile has no id", ErrInvalidCredentials)
	}

	user, err := s.users.GetUserByGoogleID(ctx, profile.ID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		user, err = s.createGoogleUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	return s.startSession(ctx, user, info)
}

func (s *AuthService) createGoogleUser(ctx context.Context, profile *GoogleProfile) (*models.User, error) {
	googleID := profile.ID
	fallbackName := "user-" + googleID

	user := &models.User{
		Username:    strings.TrimSpace(profile.Name),
		GoogleID:    &googleID,
		DisplayName: strings.TrimSpace(profile.Name),
	}
	if user.Username == "" {
		user.Username = fallbackName
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	if profile.Email != "" {
		email := profile.Email
		user.Email = &email
	}
	if profile.Picture != "" {
		picture := profile.Picture
		user.ProfilePicture = &picture
	}

	err := s.users.CreateUser(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		// Display name or email already belongs to another account.
		user.ID = 0
		user.Username = fallbackName
		user.Email = nil
		err = s.users.CreateUser(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	return user, nil
}

// Logout revokes the session behind the token. Unparseable or already
// expired tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	token, err := s.ParseToken(tokenString)
	if err != nil {
		return nil
	}
	_, sessionID, err := claimsFromToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.RevokeSession(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// ParseToken verifies the signature and expiry of a session token.
func (s *AuthService) ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, s.KeyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	return token, nil
}

// KeyFunc hands the session secret to jwt parsers, rejecting anything not
// signed with HMAC.
func (s *AuthService) KeyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(s.cfg.SessionSecret), nil
}

// ResolveSession loads the live session and user named by a verified token.
func (s *AuthService) ResolveSession(ctx context.Context, token *jwt.Token) (*models.User, *models.Session, error) {
	userID, sessionID, err := claimsFromToken(token)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrSessionInvalid
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID || !session.Active(s.now()) {
		return nil, nil, ErrSessionInvalid
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrSessionInvalid
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, session, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *models.User, info dto.SessionInfo) (*dto.LoginResult, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
		UserAgent: truncate(info.UserAgent, 512),
		IP:        truncate(info.IP, 64),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"sid": session.ID.String(),
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &dto.LoginResult{
		User:      user,
		Token:     signed,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func claimsFromToken(token *jwt.Token) (uint, uuid.UUID, error) {
	if token == nil {
		return 0, uuid.Nil, ErrSessionInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, uuid.Nil, ErrSessionInvalid
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || userID == 0 {
		return 0, uuid.Nil, ErrSessionInvalid
	}

	sid, _ := claims["sid"].(string)
	sessionID, err := uuid.Parse(sid)
	if err != nil {
		return 0, uuid.Nil, ErrSessionInvalid
	}
	return uint(userID), sessionID, nil
}

func validateUsername(username string) error {
	n := len([]rune(username))
	if n < minUsernameLength || n > maxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidSignup, minUsernameLength, maxUsernameLength)
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("%w: username may only contain letters, digits, '.', '_' and '-'", ErrInvalidSignup)
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary so the stored value stays valid UTF-8.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
