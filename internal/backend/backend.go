package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/BerryBytes/credchain/internal/common"
	"github.com/BerryBytes/credchain/models"
)

const ServiceAccountPath = "/api/auth/service-account"

var ErrIncompleteServiceAccount = errors.New("backend returned an incomplete service account")

type Client struct {
	BaseURL    string
	HTTPClient common.HTTPClient
}

func NewClient(baseURL string, httpClient common.HTTPClient) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
	}
}

// FetchDelegatedAccount asks the backend for the service account delegated
// to the holder of idToken.
func (c *Client) FetchDelegatedAccount(ctx context.Context, idToken string) (*models.ServiceAccount, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+ServiceAccountPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create service account request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+idToken)
	req.Header.Set("Content-Type", "application/json")

	var resp models.ServiceAccountResponse
	if err := common.DoJSON(c.HTTPClient, req, &resp); err != nil {
		return nil, err
	}

	sa := resp.ServiceAccount
	switch {
	case sa == nil:
		return nil, fmt.Errorf("%w: serviceAccount missing", ErrIncompleteServiceAccount)
	case sa.ClientEmail == "":
		return nil, fmt.Errorf("%w: client_email missing", ErrIncompleteServiceAccount)
	case sa.PrivateKey == "":
		return nil, fmt.Errorf("%w: private_key missing", ErrIncompleteServiceAccount)
	}
	return sa, nil
}
