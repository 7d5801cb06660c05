package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BerryBytes/credchain/internal/common"
	"github.com/BerryBytes/credchain/models"
	"github.com/charmbracelet/log"
)

const (
	DefaultTokenURL    = "https://oauth2.googleapis.com/token"
	GrantTypeJWTBearer = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

var ErrEmptyAccessToken = errors.New("token endpoint returned no access token")

// Exchanger trades a delegated service account for an OAuth access token.
type Exchanger struct {
	TokenURL   string
	Scopes     []string
	HTTPClient common.HTTPClient
	Now        func() time.Time
}

func NewExchanger(tokenURL string, httpClient common.HTTPClient) *Exchanger {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &Exchanger{
		TokenURL:   tokenURL,
		Scopes:     DefaultScopes,
		HTTPClient: httpClient,
		Now:        time.Now,
	}
}

// ExchangeForAccessToken signs a fresh assertion for sa and posts it as a
// jwt-bearer grant. The assertion embeds wall-clock time.
func (e *Exchanger) ExchangeForAccessToken(ctx context.Context, sa *models.ServiceAccount) (*models.AccessToken, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	claims := NewAssertionClaims(sa, e.TokenURL, e.Scopes, now())
	assertion, err := SignAssertion(sa, claims)
	if err != nil {
		return nil, err
	}
	log.Debug("Signed assertion", "issuer", claims.Issuer, "expires", claims.ExpiresAt.UTC().Format(time.RFC3339))

	form := url.Values{}
	form.Set("grant_type", GrantTypeJWTBearer)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token models.AccessToken
	if err := common.DoJSON(e.HTTPClient, req, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, ErrEmptyAccessToken
	}
	return &token, nil
}
