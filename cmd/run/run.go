package run

import (
	"errors"
	"fmt"
	"io"

	"github.com/BerryBytes/credchain/internal/backend"
	"github.com/BerryBytes/credchain/internal/common"
	"github.com/BerryBytes/credchain/internal/config"
	"github.com/BerryBytes/credchain/internal/drive"
	"github.com/BerryBytes/credchain/internal/flow"
	"github.com/BerryBytes/credchain/internal/identity"
	"github.com/BerryBytes/credchain/internal/oauth"
	promptutils "github.com/BerryBytes/credchain/utils/prompt"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type ConfigLoader interface {
	Load(path string) (*config.Config, error)
}

type CredentialResolver interface {
	ResolveEmail(cfg *config.Config, interactive bool) (string, error)
	ResolvePassword(cfg *config.Config, interactive bool) (string, error)
}

// PipelineFactory builds the pipeline for a validated configuration, writing
// its report to out.
type PipelineFactory func(cfg *config.Config, out io.Writer) (flow.Pipeline, error)

type RunDependencies struct {
	Loader      ConfigLoader
	Secrets     CredentialResolver
	NewPipeline PipelineFactory
}

func DefaultDependencies() (RunDependencies, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return RunDependencies{}, err
	}
	return RunDependencies{
		Loader:      loader,
		Secrets:     config.NewSecretResolver(),
		NewPipeline: NewPipeline,
	}, nil
}

// NewPipeline wires the four stage clients around one shared HTTP client.
func NewPipeline(cfg *config.Config, out io.Writer) (flow.Pipeline, error) {
	timeout, err := cfg.HTTPTimeout()
	if err != nil {
		return nil, err
	}
	httpClient := common.NewHTTPClient(timeout)

	return flow.NewRunner(
		identity.NewClient(cfg.Identity.Endpoint, cfg.Identity.APIKey, httpClient),
		backend.NewClient(cfg.Backend.URL, httpClient),
		oauth.NewExchanger(cfg.OAuth.TokenURL, httpClient),
		drive.NewClient(cfg.Drive.Endpoint, httpClient),
		out,
	), nil
}

func NewRunCmd(deps RunDependencies) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the staff login credential chain",
		Long: `Log in with email and password, fetch the delegated service account from the
backend, exchange it for an OAuth access token and list the spreadsheets the
service account can read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %w", err)
			}
			email, err := cmd.Flags().GetString("email")
			if err != nil {
				return fmt.Errorf("could not get email flag: %w", err)
			}
			backendURL, err := cmd.Flags().GetString("backend-url")
			if err != nil {
				return fmt.Errorf("could not get backend-url flag: %w", err)
			}
			noPrompt, err := cmd.Flags().GetBool("no-prompt")
			if err != nil {
				return fmt.Errorf("could not get no-prompt flag: %w", err)
			}

			cfg, err := deps.Loader.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if email != "" {
				cfg.Identity.Email = email
			}
			if backendURL != "" {
				cfg.Backend.URL = backendURL
			}

			interactive := !noPrompt
			cfg.Identity.Email, err = deps.Secrets.ResolveEmail(cfg, interactive)
			if errors.Is(err, promptutils.ErrInterrupted) {
				return nil
			} else if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			password, err := deps.Secrets.ResolvePassword(cfg, interactive)
			if errors.Is(err, promptutils.ErrInterrupted) {
				return nil
			} else if err != nil {
				return err
			}

			pipeline, err := deps.NewPipeline(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result, err := pipeline.Run(cmd.Context(), cfg.Identity.Email, password)
			if result != nil {
				log.Debug("Credential chain finished", "stage", result.Stage, "spreadsheets", len(result.Spreadsheets))
			}
			return err
		},
	}

	runCmd.Flags().StringP("config", "c", "", "Path to a config file (default ~/.config/credchain/config.yaml)")
	runCmd.Flags().StringP("email", "e", "", "Staff email to log in with")
	runCmd.Flags().String("backend-url", "", "Base URL of the backend that issues service accounts")
	runCmd.Flags().Bool("no-prompt", false, "Never prompt; fail when a value is missing")

	return runCmd
}
