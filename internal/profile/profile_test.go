package profile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"MODE", "BOT_TOKEN", "BOT_USERNAME", "SUPPORT_ADMIN_USERNAME",
		"DB_DRIVER", "DB_DSN", "DB_POOL_SIZE", "DB_MAX_OVERFLOW",
		"NANO_GPT_API_KEY", "CLASSIFIER_MODEL", "IPROYAL_PROXY_AUTH",
		"SESSIONS_DIR", "DATA_DIR", "DEVELOPMENT_MODE", "ADDR", "PORT",
	}
	for _, k := range keys {
		os.Unsetenv(k)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "dev", p.Mode)
	assert.Equal(t, "postgres", p.Driver)
	assert.Equal(t, "gpt-5-mini", p.ClassifierModel)
	assert.Equal(t, "sessions", p.SessionsDir)
	assert.Equal(t, 10, p.DBPoolSize)
	assert.Equal(t, 5, p.DBMaxOverflow)
	assert.False(t, p.Development)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnvVars(t)
	os.Setenv("BOT_TOKEN", "123:abc")
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("DEVELOPMENT_MODE", "true")
	defer clearEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "123:abc", p.BotToken)
	assert.Equal(t, "sqlite", p.Driver)
	assert.True(t, p.Development)
}

func TestValidateRejectsNonIntegerPoolSize(t *testing.T) {
	clearEnvVars(t)
	os.Setenv("DB_POOL_SIZE", "not-a-number")
	defer clearEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	err := p.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateSqliteDefaultsDSN(t *testing.T) {
	clearEnvVars(t)
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("DATA_DIR", t.TempDir())
	defer clearEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	require.NoError(t, p.Validate())
	assert.NotEmpty(t, p.DSN)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	clearEnvVars(t)
	os.Setenv("DB_DRIVER", "mongo")
	defer clearEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	err := p.Validate()
	require.Error(t, err)
}

func TestIsDev(t *testing.T) {
	p := &Profile{Mode: "prod"}
	assert.False(t, p.IsDev())

	p.Mode = "dev"
	assert.True(t, p.IsDev())
}
