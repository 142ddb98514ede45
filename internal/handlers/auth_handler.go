package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	oauthStateCookie = "mindjournal_oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	authService *services.AuthService
	oauth       services.OAuthProvider
	cfg         *config.Config
}

// NewAuthHandler accepts a nil OAuth provider when Google login is not
// configured; the Google routes then answer 503.
func NewAuthHandler(authService *services.AuthService, oauth services.OAuthProvider, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, oauth: oauth, cfg: cfg}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.authService.Signup(c.UserContext(), &req, sessionInfo(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Username already taken",
			})
		case errors.Is(err, services.ErrInvalidSignup):
			return badRequest(c, err.Error())
		default:
			return err
		}
	}

	h.setSessionCookie(c, result)
	return c.Status(fiber.StatusCreated).JSON(result.User)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.UserContext(), &req, sessionInfo(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid username or password",
			})
		}
		return err
	}

	h.setSessionCookie(c, result)
	return c.JSON(result.User)
}

func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	user, err := session.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(user)
}

// Logout revokes the session and redirects to the landing page.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.endSession(c); err != nil {
		return err
	}
	return c.Redirect("/landing")
}

// LogoutJSON is the API variant of Logout for fetch-based clients.
func (h *AuthHandler) LogoutJSON(c *fiber.Ctx) error {
	if err := h.endSession(c); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Google(c *fiber.Ctx) error {
	if h.oauth == nil {
		return unavailable(c, "Google login is not configured")
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(oauthStateTTL),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(h.oauth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback completes the OAuth flow. Failures land on the login page.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if h.oauth == nil {
		return unavailable(c, "Google login is not configured")
	}

	expected := c.Cookies(oauthStateCookie)
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if expected == "" || c.Query("state") != expected {
		slog.Warn("google callback state mismatch", "ip", c.IP())
		return c.Redirect("/login")
	}
	code := c.Query("code")
	if code == "" {
		return c.Redirect("/login")
	}

	profile, err := h.oauth.Exchange(c.UserContext(), code)
	if err != nil {
		slog.Error("google code exchange failed", "error", err)
		return c.Redirect("/login")
	}

	result, err := h.authService.LoginWithGoogle(c.UserContext(), profile, sessionInfo(c))
	if err != nil {
		slog.Error("google login failed", "error", err)
		return c.Redirect("/login")
	}

	h.setSessionCookie(c, result)
	return c.Redirect("/")
}

func (h *AuthHandler) endSession(c *fiber.Ctx) error {
	err := h.authService.Logout(c.UserContext(), c.Cookies(h.cfg.SessionCookieName))
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return err
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, result *dto.LoginResult) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func sessionInfo(c *fiber.Ctx) dto.SessionInfo {
	return dto.SessionInfo{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IP:        c.IP(),
	}
}
