package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, 24*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, "access.log", cfg.Log.File.AccessLog)
	assert.Equal(t, "/signin-oidc", cfg.AzureAD.CallbackPath)
	assert.Equal(t, "Azure AD", cfg.AzureAD.LoginBtnDisplayName)
	assert.True(t, BoolOr(cfg.AzureAD.RequireHTTPSMetadata, false))

	// the shipped config has no tenant, so the login is not registered
	assert.False(t, cfg.AzureAD.IsValid())
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("BACKOFFICE_WEBSERVER_PORT", "9191")
	t.Setenv("BACKOFFICE_AZUREADOPENIDCONNECT_TENANTID", "tenant-from-env")

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Webserver.Port)
	assert.Equal(t, "tenant-from-env", cfg.AzureAD.TenantID)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090},` +
		`"AzureADOpenIdConnect":{"TenantID":"t","ClientID":"c","ClientSecret":"s"}}`
	t.Setenv(JSONConfigEnv, jsonOverride)

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	// values missing in the override are kept from the file
	assert.Equal(t, "/signin-oidc", cfg.AzureAD.CallbackPath)
	assert.True(t, cfg.AzureAD.IsValid())
}

func TestReadConfigErrors(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)

	t.Setenv(JSONConfigEnv, "{not json")

	_, err = ReadConfig(projectConfigPath(t))
	require.Error(t, err)
}

func TestReadConfigDefaultPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "etc"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "etc", "main.toml"),
		[]byte("[Webserver]\nPort = 1\nURL = \"http://x\"\n"), 0o600))

	t.Chdir(dir)

	cfg, err := ReadConfig("")
	require.NoError(t, err)
	assert.Equal(t, EngineMySQL, cfg.DB.GormEngine)
	assert.Equal(t, 5, cfg.Webserver.ShutDownTime)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid config",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			},
		},
		{
			name: "missing port",
			config: Config{
				Webserver: Webserver{URL: "http://localhost:8080"},
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing URL",
			config: Config{
				Webserver: Webserver{Port: 8080},
			},
			wantErr: ErrEmptyURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}

	unknownEngine := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		DB:        DB{GormEngine: "oracle"},
	}
	assert.Error(t, validate(&unknownEngine))
}

func TestAzureADIsValid(t *testing.T) {
	full := AzureAD{
		TenantID:            "tenant",
		ClientID:            "client",
		ClientSecret:        "secret",
		CallbackPath:        "/signin-oidc",
		LoginBtnDisplayName: "Azure AD",
	}
	assert.True(t, full.IsValid())

	for name, mutate := range map[string]func(a *AzureAD){
		"tenant":        func(a *AzureAD) { a.TenantID = "" },
		"client id":     func(a *AzureAD) { a.ClientID = "" },
		"client secret": func(a *AzureAD) { a.ClientSecret = "" },
		"callback path": func(a *AzureAD) { a.CallbackPath = "" },
		"button label":  func(a *AzureAD) { a.LoginBtnDisplayName = "" },
	} {
		t.Run("missing "+name, func(t *testing.T) {
			a := full
			mutate(&a)
			assert.False(t, a.IsValid())
		})
	}
}

func TestDumpConfigMasksSecrets(t *testing.T) {
	cfg := Config{
		Title:     "Test",
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		DB:        DB{Password: "db-secret"},
		Admin:     Admin{Password: "admin-secret"},
		AzureAD:   AzureAD{TenantID: "tenant", ClientSecret: "client-secret"},
	}

	tomlStr, err := DumpConfig(&cfg)
	require.NoError(t, err)

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)

	for _, out := range []string{tomlStr, jsonStr} {
		assert.Contains(t, out, "Test")
		assert.Contains(t, out, "tenant")
		assert.Contains(t, out, masked)
		for _, secret := range []string{"db-secret", "admin-secret", "client-secret"} {
			assert.False(t, strings.Contains(out, secret), out)
		}
	}

	// the config itself is not touched
	assert.Equal(t, "client-secret", cfg.AzureAD.ClientSecret)
}
