package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/BerryBytes/credchain/internal/common"
	"github.com/BerryBytes/credchain/models"
)

const DefaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

var ErrEmptyIDToken = errors.New("identity provider returned no id token")

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// Client signs users in against the identity provider with a password grant.
type Client struct {
	Endpoint   string
	APIKey     string
	HTTPClient common.HTTPClient
}

func NewClient(endpoint, apiKey string, httpClient common.HTTPClient) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		APIKey:     apiKey,
		HTTPClient: httpClient,
	}
}

// Login exchanges email and password for an id token. Only a 200 reply with
// a non-empty idToken counts as success.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	payload, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	signInURL := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", c.Endpoint, url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signInURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp models.LoginResponse
	if err := common.DoJSON(c.HTTPClient, req, &resp); err != nil {
		return nil, err
	}
	if resp.IDToken == "" {
		return nil, ErrEmptyIDToken
	}
	return &resp, nil
}
