package flow

import (
	"context"

	"github.com/BerryBytes/credchain/models"
)

type IdentityClient interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}

type BackendClient interface {
	FetchDelegatedAccount(ctx context.Context, idToken string) (*models.ServiceAccount, error)
}

type TokenExchanger interface {
	ExchangeForAccessToken(ctx context.Context, sa *models.ServiceAccount) (*models.AccessToken, error)
}

type ResourceLister interface {
	ListResources(ctx context.Context, token *models.AccessToken) ([]models.Spreadsheet, error)
}

// Pipeline runs the whole credential chain for one user.
type Pipeline interface {
	Run(ctx context.Context, email, password string) (*Result, error)
}
