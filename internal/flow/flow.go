package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BerryBytes/credchain/internal/common"
	"github.com/BerryBytes/credchain/models"
	"github.com/charmbracelet/log"
)

// Stage is the furthest point the chain reached.
type Stage int

const (
	NotStarted Stage = iota
	HaveCredential
	HaveAccount
	HaveToken
	Done
)

func (s Stage) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case HaveCredential:
		return "have-credential"
	case HaveAccount:
		return "have-account"
	case HaveToken:
		return "have-token"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

var ErrStageFailed = errors.New("credential chain stage failed")

type Result struct {
	Stage        Stage
	Spreadsheets []models.Spreadsheet
}

type Runner struct {
	Identity  IdentityClient
	Backend   BackendClient
	Exchanger TokenExchanger
	Lister    ResourceLister
	Out       io.Writer
}

func NewRunner(identity IdentityClient, backend BackendClient, exchanger TokenExchanger, lister ResourceLister, out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	return &Runner{
		Identity:  identity,
		Backend:   backend,
		Exchanger: exchanger,
		Lister:    lister,
		Out:       out,
	}
}

// Run executes the four stages in order. Any failure halts the chain with
// ErrStageFailed, except a non-200 listing reply which degrades to an empty
// result.
func (r *Runner) Run(ctx context.Context, email, password string) (*Result, error) {
	rep := &reporter{w: r.Out}
	result := &Result{Stage: NotStarted}

	rep.header()

	rep.step(1, "Identity Login")
	login, err := r.Identity.Login(ctx, email, password)
	if err != nil {
		return result, rep.halt("Identity login failed", err)
	}
	rep.ok()
	rep.linef("✓ ID token obtained (length: %d)", len(login.IDToken))
	result.Stage = HaveCredential

	rep.step(2, "Get Service Account from Backend")
	sa, err := r.Backend.FetchDelegatedAccount(ctx, login.IDToken)
	if err != nil {
		return result, rep.halt("Failed to get service account from backend", err)
	}
	rep.ok()
	rep.linef("✓ Service Account obtained: %s", sa.ClientEmail)
	result.Stage = HaveAccount

	rep.step(3, "Get OAuth Access Token")
	token, err := r.Exchanger.ExchangeForAccessToken(ctx, sa)
	if err != nil {
		return result, rep.halt("Failed to get OAuth access token", err)
	}
	rep.ok()
	rep.linef("✓ Access Token obtained (length: %d)", len(token.AccessToken))
	rep.linef("  Token type: %s", token.TokenType)
	rep.linef("  Expires in: %d seconds", token.ExpiresIn)
	result.Stage = HaveToken

	rep.step(4, "List Spreadsheets")
	sheets, err := r.Lister.ListResources(ctx, token)
	if err != nil {
		// Unlike the stages above, a non-200 listing reply does not halt the
		// run. Transport failures still do.
		if _, ok := common.AsStatusError(err); !ok {
			return result, rep.halt("Failed to list spreadsheets", err)
		}
		rep.failure(err)
		log.Warn("Listing spreadsheets failed, continuing with an empty result", "error", err)
		sheets = []models.Spreadsheet{}
	} else {
		rep.ok()
		rep.listing(sheets)
	}
	result.Spreadsheets = sheets
	result.Stage = Done

	rep.summary(sheets)
	return result, nil
}
