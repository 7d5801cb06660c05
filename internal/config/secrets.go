package config

import (
	"errors"
	"fmt"

	promptutils "github.com/BerryBytes/credchain/utils/prompt"
	"github.com/charmbracelet/log"
	"github.com/zalando/go-keyring"
)

// KeyringService is the keyring service name passwords are looked up under,
// keyed by email.
const KeyringService = AppName

var ErrNoPassword = errors.New("no password available")

type KeyringGetter interface {
	Get(service, user string) (string, error)
}

type SystemKeyring struct{}

func (SystemKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

// SecretResolver fills in the login email and password that are not part of
// the configuration.
type SecretResolver struct {
	Keyring  KeyringGetter
	Prompter promptutils.Prompter
}

func NewSecretResolver() *SecretResolver {
	return &SecretResolver{
		Keyring:  SystemKeyring{},
		Prompter: promptutils.NewPrompt(),
	}
}

func (r *SecretResolver) ResolveEmail(cfg *Config, interactive bool) (string, error) {
	if cfg.Identity.Email != "" {
		return cfg.Identity.Email, nil
	}
	if !interactive || r.Prompter == nil {
		return "", nil
	}
	email, err := r.Prompter.PromptForInput("Email")
	if err != nil {
		if errors.Is(err, promptutils.ErrInterrupted) {
			return "", promptutils.ErrInterrupted
		}
		return "", fmt.Errorf("failed to read email: %w", err)
	}
	return email, nil
}

// ResolvePassword tries the configured value, then the OS keyring, then an
// interactive masked prompt.
func (r *SecretResolver) ResolvePassword(cfg *Config, interactive bool) (string, error) {
	if cfg.Identity.Password != "" {
		log.Debug("Using password from configuration")
		return cfg.Identity.Password, nil
	}

	email := cfg.Identity.Email
	if r.Keyring != nil && email != "" {
		password, err := r.Keyring.Get(KeyringService, email)
		switch {
		case err == nil && password != "":
			log.Debug("Using password from keyring", "service", KeyringService, "user", email)
			return password, nil
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			log.Debug("Keyring lookup failed", "error", err)
		}
	}

	if !interactive || r.Prompter == nil {
		return "", fmt.Errorf("%w for %s: set %s or store it in the keyring under service %q", ErrNoPassword, email, EnvPassword, KeyringService)
	}

	password, err := r.Prompter.PromptForSecret(fmt.Sprintf("Password for %s", email))
	if err != nil {
		if errors.Is(err, promptutils.ErrInterrupted) {
			return "", promptutils.ErrInterrupted
		}
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}
