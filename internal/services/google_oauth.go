package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

const (
	defaultGoogleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	defaultGoogleTokenURL    = "https://oauth2.googleapis.com/token"
	defaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleProfile is the subset of the userinfo response used for login.
type GoogleProfile struct {
	ID      string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthProvider runs the authorization code flow against an identity provider.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Overridable for tests
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

type GoogleOAuth struct {
	oauth       *oauth2.Config
	userInfoURL string
	client      *resty.Client
}

func NewGoogleOAuth(cfg GoogleOAuthConfig) *GoogleOAuth {
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultGoogleAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultGoogleTokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = defaultGoogleUserInfoURL
	}

	return &GoogleOAuth{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		client:      resty.New().SetTimeout(15 * time.Second),
	}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token and fetches the profile.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	var profile GoogleProfile
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&profile).
		Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("userinfo failed with status %d: %s", resp.StatusCode(), resp.String())
	}
	if profile.ID == "" {
		return nil, errors.New("userinfo response has no subject")
	}
	return &profile, nil
}
