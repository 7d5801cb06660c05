package flow

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/BerryBytes/credchain/internal/common"
	"github.com/BerryBytes/credchain/models"
)

var rule = strings.Repeat("=", 60)

type reporter struct {
	w io.Writer
}

func (r *reporter) linef(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *reporter) header() {
	r.linef("%s", rule)
	r.linef("Testing Complete Staff Login Flow")
	r.linef("%s", rule)
}

func (r *reporter) step(n int, title string) {
	r.linef("\n=== Step %d: %s ===", n, title)
}

func (r *reporter) ok() {
	r.linef("Status: %d", http.StatusOK)
}

// failure prints the status code and raw body of a non-200 reply, or the
// error itself when the call never produced a reply.
func (r *reporter) failure(err error) {
	if statusErr, ok := common.AsStatusError(err); ok {
		r.linef("Status: %d", statusErr.StatusCode)
		r.linef("Error: %s", statusErr.Body)
		return
	}
	r.linef("Error: %v", err)
}

func (r *reporter) halt(message string, err error) error {
	r.failure(err)
	r.linef("\n❌ %s", message)
	return fmt.Errorf("%s: %w: %w", strings.ToLower(message), ErrStageFailed, err)
}

func (r *reporter) listing(sheets []models.Spreadsheet) {
	r.linef("\n✓ Found %d spreadsheets:", len(sheets))
	for i, s := range sheets {
		r.linef("  %d. %s (ID: %s)", i+1, s.Name, s.ID)
	}
}

func (r *reporter) summary(sheets []models.Spreadsheet) {
	r.linef("\n%s", rule)
	if len(sheets) > 0 {
		r.linef("✅ SUCCESS: Service account can access spreadsheets!")
		r.linef("   Total spreadsheets found: %d", len(sheets))
	} else {
		r.linef("⚠️  WARNING: No spreadsheets found")
		r.linef("   This could mean:")
		r.linef("   1. Service account has no spreadsheets shared with it")
		r.linef("   2. There's an issue with permissions")
	}
	r.linef("%s", rule)
}
