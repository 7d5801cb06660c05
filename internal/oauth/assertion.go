package oauth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerryBytes/credchain/models"
	"github.com/golang-jwt/jwt/v5"
)

// AssertionLifetime is the validity window of every signed assertion.
const AssertionLifetime = 3600 * time.Second

// DefaultScopes are requested on every exchange.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.readonly",
}

var ErrInvalidPrivateKey = errors.New("invalid service account private key")

// AssertionClaims is the claim set of a jwt-bearer assertion.
type AssertionClaims struct {
	Issuer    string
	Subject   string
	Audience  string
	Scope     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewAssertionClaims builds the claims for sa at now. The service account is
// both issuer and subject; expiry is always issued-at plus AssertionLifetime.
func NewAssertionClaims(sa *models.ServiceAccount, audience string, scopes []string, now time.Time) AssertionClaims {
	issuedAt := time.Unix(now.Unix(), 0)
	return AssertionClaims{
		Issuer:    sa.ClientEmail,
		Subject:   sa.ClientEmail,
		Audience:  audience,
		Scope:     strings.Join(scopes, " "),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(AssertionLifetime),
	}
}

// MapClaims renders the claims with a plain string audience.
func (c AssertionClaims) MapClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   c.Issuer,
		"sub":   c.Subject,
		"aud":   c.Audience,
		"iat":   c.IssuedAt.Unix(),
		"exp":   c.ExpiresAt.Unix(),
		"scope": c.Scope,
	}
}

// SignAssertion signs claims with the service account key using RS256.
func SignAssertion(sa *models.ServiceAccount, claims AssertionClaims) (string, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims.MapClaims())
	if sa.PrivateKeyID != "" {
		token.Header["kid"] = sa.PrivateKeyID
	}

	signed, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}
	return signed, nil
}
