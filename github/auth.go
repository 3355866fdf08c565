package github

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// appJWTTTL is the lifetime of a minted app JWT. GitHub caps it at
// 10 minutes; stay under to survive clock skew.
const appJWTTTL = 9 * time.Minute

// tokenRefreshMargin is how long before expiry an installation token is
// considered stale.
const tokenRefreshMargin = time.Minute

// appJWT mints a short-lived JWT that authenticates as the GitHub App
// itself, signed RS256 with the app's private key.
func appJWT(appID int64, key *rsa.PrivateKey) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    fmt.Sprintf("%d", appID),
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)), // clock skew
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(key)
}

// appJWTTransport authenticates each request with a freshly minted
// app JWT.
type appJWTTransport struct {
	appID int64
	key   *rsa.PrivateKey
	base  http.RoundTripper
}

func (t *appJWTTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := appJWT(t.appID, t.key)
	if err != nil {
		return nil, fmt.Errorf("mint app jwt: %w", err)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// installationTokenSource exchanges the app JWT for installation tokens,
// caching each until shortly before expiry. It satisfies
// oauth2.TokenSource so the rest of the client is auth-method agnostic.
type installationTokenSource struct {
	apps           *gh.AppsService
	installationID int64

	mu      sync.Mutex
	current *oauth2.Token
}

// NewInstallationTokenSource builds a token source for GitHub App auth.
func NewInstallationTokenSource(cfg *Config) (oauth2.TokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parse github app private key: %w", err)
	}

	appClient := gh.NewClient(&http.Client{
		Transport: &appJWTTransport{appID: cfg.AppID, key: key},
		Timeout:   30 * time.Second,
	})
	if cfg.APIBaseURL != "" && cfg.APIBaseURL != DefaultAPIBaseURL {
		base, err := url.Parse(cfg.APIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		appClient.BaseURL = base
	}

	return &installationTokenSource{
		apps:           appClient.Apps,
		installationID: cfg.InstallationID,
	}, nil
}

// Token returns a valid installation token, exchanging a new one when
// the cached token is missing or about to expire.
func (s *installationTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && time.Until(s.current.Expiry) > tokenRefreshMargin {
		return s.current, nil
	}

	installation, _, err := s.apps.CreateInstallationToken(
		context.Background(), s.installationID, &gh.InstallationTokenOptions{})
	if err != nil {
		return nil, fmt.Errorf("create installation token: %w", err)
	}

	s.current = &oauth2.Token{
		AccessToken: installation.GetToken(),
		Expiry:      installation.GetExpiresAt().Time,
	}
	return s.current, nil
}
