package config_test

import (
	"testing"
	"time"

	"github.com/BerryBytes/credchain/internal/config"
	"github.com/BerryBytes/credchain/internal/identity"
	"github.com/BerryBytes/credchain/internal/oauth"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigDir = "/home/staff/.config/credchain"

func newTestLoader(t *testing.T, env map[string]string) (*config.Loader, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return &config.Loader{
		Fs:        fs,
		ConfigDir: testConfigDir,
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}, fs
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o600))
}

const yamlConfig = `identity:
  api_key: AIza-test
  email: staff@example.com
backend:
  url: https://backend.example.com
drive:
  endpoint: https://drive.example.com/drive/v3/
http:
  timeout: 5s
`

const jsonConfig = `{
  "identity": {"api_key": "AIza-json", "email": "json@example.com"},
  "backend": {"url": "https://json.example.com"}
}`

func TestLoader_Load(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		env     map[string]string
		path    string
		want    func(t *testing.T, cfg *config.Config)
		wantErr string
	}{
		{
			name: "no config file uses defaults",
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, identity.DefaultEndpoint, cfg.Identity.Endpoint)
				assert.Equal(t, oauth.DefaultTokenURL, cfg.OAuth.TokenURL)
				assert.Empty(t, cfg.Identity.APIKey)
				assert.Empty(t, cfg.Drive.Endpoint)
				assert.Equal(t, "30s", cfg.HTTP.Timeout)
			},
		},
		{
			name:  "yaml in default directory",
			files: map[string]string{testConfigDir + "/config.yaml": yamlConfig},
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "AIza-test", cfg.Identity.APIKey)
				assert.Equal(t, "staff@example.com", cfg.Identity.Email)
				assert.Equal(t, "https://backend.example.com", cfg.Backend.URL)
				assert.Equal(t, "https://drive.example.com/drive/v3/", cfg.Drive.Endpoint)
				assert.Equal(t, "5s", cfg.HTTP.Timeout)
				// untouched keys keep their defaults
				assert.Equal(t, identity.DefaultEndpoint, cfg.Identity.Endpoint)
				assert.Equal(t, oauth.DefaultTokenURL, cfg.OAuth.TokenURL)
			},
		},
		{
			name: "yml is preferred over json",
			files: map[string]string{
				testConfigDir + "/config.yml":  yamlConfig,
				testConfigDir + "/config.json": jsonConfig,
			},
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "AIza-test", cfg.Identity.APIKey)
			},
		},
		{
			name:  "json file",
			files: map[string]string{testConfigDir + "/config.json": jsonConfig},
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "AIza-json", cfg.Identity.APIKey)
				assert.Equal(t, "json@example.com", cfg.Identity.Email)
				assert.Equal(t, "https://json.example.com", cfg.Backend.URL)
			},
		},
		{
			name:  "explicit path",
			files: map[string]string{"/etc/credchain.yaml": yamlConfig},
			path:  "/etc/credchain.yaml",
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "AIza-test", cfg.Identity.APIKey)
			},
		},
		{
			name:    "explicit path missing",
			path:    "/etc/missing.yaml",
			wantErr: "failed to read config file",
		},
		{
			name:    "unparseable file",
			files:   map[string]string{testConfigDir + "/config.yaml": "identity: [unterminated"},
			wantErr: "failed to parse config file",
		},
		{
			name:  "environment overrides file",
			files: map[string]string{testConfigDir + "/config.yaml": yamlConfig},
			env: map[string]string{
				config.EnvAPIKey:           "AIza-env",
				config.EnvEmail:            "env@example.com",
				config.EnvPassword:         "from-env",
				config.EnvBackendURL:       "https://env.example.com",
				config.EnvIdentityEndpoint: "http://127.0.0.1:9099/v1",
				config.EnvTokenURL:         "http://127.0.0.1:9098/token",
				config.EnvDriveEndpoint:    "http://127.0.0.1:9097/drive/v3/",
			},
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "AIza-env", cfg.Identity.APIKey)
				assert.Equal(t, "env@example.com", cfg.Identity.Email)
				assert.Equal(t, "from-env", cfg.Identity.Password)
				assert.Equal(t, "https://env.example.com", cfg.Backend.URL)
				assert.Equal(t, "http://127.0.0.1:9099/v1", cfg.Identity.Endpoint)
				assert.Equal(t, "http://127.0.0.1:9098/token", cfg.OAuth.TokenURL)
				assert.Equal(t, "http://127.0.0.1:9097/drive/v3/", cfg.Drive.Endpoint)
			},
		},
		{
			name:  "empty environment value is ignored",
			files: map[string]string{testConfigDir + "/config.yaml": yamlConfig},
			env:   map[string]string{config.EnvAPIKey: ""},
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "AIza-test", cfg.Identity.APIKey)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, fs := newTestLoader(t, tt.env)
			for path, content := range tt.files {
				writeFile(t, fs, path, content)
			}

			cfg, err := loader.Load(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.want(t, cfg)
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := config.FindConfigFile(fs, testConfigDir)
	assert.ErrorIs(t, err, config.ErrNoConfigFile)

	require.NoError(t, fs.MkdirAll(testConfigDir, 0o755))
	_, err = config.FindConfigFile(fs, testConfigDir)
	assert.ErrorIs(t, err, config.ErrNoConfigFile)

	writeFile(t, fs, testConfigDir+"/config.json", "{}")
	path, err := config.FindConfigFile(fs, testConfigDir)
	require.NoError(t, err)
	assert.Equal(t, testConfigDir+"/config.json", path)
}

func validConfig() *config.Config {
	cfg := config.Default()
	cfg.Identity.APIKey = "AIza-test"
	cfg.Identity.Email = "staff@example.com"
	cfg.Backend.URL = "https://backend.example.com"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *config.Config)
		wantErr  string
		wantKind error
	}{
		{name: "valid", mutate: func(cfg *config.Config) {}},
		{
			name:     "missing everything",
			mutate:   func(cfg *config.Config) { *cfg = *config.Default() },
			wantErr:  "identity.api_key (CREDCHAIN_API_KEY), identity.email (CREDCHAIN_EMAIL), backend.url (CREDCHAIN_BACKEND_URL)",
			wantKind: config.ErrMissingConfig,
		},
		{
			name:     "missing backend url",
			mutate:   func(cfg *config.Config) { cfg.Backend.URL = "" },
			wantErr:  "backend.url",
			wantKind: config.ErrMissingConfig,
		},
		{
			name:    "backend url without scheme",
			mutate:  func(cfg *config.Config) { cfg.Backend.URL = "backend.example.com" },
			wantErr: "invalid backend.url",
		},
		{
			name:    "token url with wrong scheme",
			mutate:  func(cfg *config.Config) { cfg.OAuth.TokenURL = "ftp://oauth2.example.com/token" },
			wantErr: "invalid oauth.token_url",
		},
		{
			name:    "bad timeout",
			mutate:  func(cfg *config.Config) { cfg.HTTP.Timeout = "soon" },
			wantErr: "invalid http.timeout",
		},
		{
			name:    "negative timeout",
			mutate:  func(cfg *config.Config) { cfg.HTTP.Timeout = "-1s" },
			wantErr: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.wantKind != nil {
				assert.ErrorIs(t, err, tt.wantKind)
			}
		})
	}
}

func TestConfig_ValidateReportsFirstInvalidURL(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.URL = "backend.example.com"
	cfg.Identity.Endpoint = "identity.example.com"
	cfg.OAuth.TokenURL = "ftp://oauth2.example.com/token"
	cfg.Drive.Endpoint = "drive.example.com"

	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid backend.url")
	}

	cfg.Backend.URL = "https://backend.example.com"
	assert.Contains(t, cfg.Validate().Error(), "invalid identity.endpoint")
}

func TestConfig_HTTPTimeout(t *testing.T) {
	cfg := &config.Config{}
	d, err := cfg.HTTPTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	cfg.HTTP.Timeout = "1m30s"
	d, err = cfg.HTTPTimeout()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestNewLoader(t *testing.T) {
	loader, err := config.NewLoader()
	require.NoError(t, err)
	assert.Contains(t, loader.ConfigDir, ".config/credchain")
	assert.NotNil(t, loader.Fs)
	assert.NotNil(t, loader.LookupEnv)
}
