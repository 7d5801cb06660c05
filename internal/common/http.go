package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultHTTPTimeout bounds every outbound call of the chain.
const DefaultHTTPTimeout = 30 * time.Second

var ErrUnexpectedStatus = errors.New("unexpected status")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for any reply other than 200 OK. Body is the raw
// response body so it can be shown as-is.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// AsStatusError reports whether err carries a *StatusError and returns it.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// DoJSON sends req and decodes a 200 reply into out.
func DoJSON(client HTTPClient, req *http.Request, out any) error {
	target := req.URL.Host + req.URL.Path
	log.Debug("Sending request", "method", req.Method, "url", target)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", req.Method, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	log.Debug("Received response", "url", target, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return nil
}
