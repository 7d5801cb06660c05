package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BerryBytes/credchain/internal/common"
	"github.com/BerryBytes/credchain/models"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	SpreadsheetQuery = "mimeType='application/vnd.google-apps.spreadsheet' and trashed=false"
	ListFields       = "files(id,name)"
)

// Client lists spreadsheets visible to an access token.
type Client struct {
	// Endpoint overrides the API base path, e.g. "https://www.googleapis.com/drive/v3/".
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = common.NewHTTPClient(0)
	}
	return &Client{Endpoint: endpoint, HTTPClient: httpClient}
}

// ListResources returns the non-trashed spreadsheets in listing order. A
// non-200 reply comes back as *common.StatusError.
func (c *Client) ListResources(ctx context.Context, token *models.AccessToken) ([]models.Spreadsheet, error) {
	svc, err := c.service(ctx, token)
	if err != nil {
		return nil, err
	}

	fileList, err := svc.Files.List().
		Q(SpreadsheetQuery).
		Fields(ListFields).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, &common.StatusError{StatusCode: apiErr.Code, Body: apiErr.Body}
		}
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sheets := make([]models.Spreadsheet, 0, len(fileList.Files))
	for _, f := range fileList.Files {
		sheets = append(sheets, models.Spreadsheet{ID: f.Id, Name: f.Name})
	}
	log.Debug("Listed spreadsheets", "count", len(sheets))
	return sheets, nil
}

func (c *Client) service(ctx context.Context, token *models.AccessToken) (*drivev3.Service, error) {
	src := oauth2.StaticTokenSource(OAuth2Token(token, time.Now()))

	// oauth2.NewClient takes its base transport and timeout from this client.
	baseCtx := context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(baseCtx, src))}
	if c.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.Endpoint))
	}

	svc, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return svc, nil
}

// OAuth2Token converts the exchange reply into an oauth2.Token issued at now.
func OAuth2Token(token *models.AccessToken, now time.Time) *oauth2.Token {
	t := &oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	}
	if token.ExpiresIn > 0 {
		t.Expiry = now.Add(time.Duration(token.ExpiresIn) * time.Second)
	}
	return t
}
