// Package profile holds the process-wide configuration for the support bot.
package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration needed to start the support bot.
type Profile struct {
	Mode string // "dev" or "prod"

	// Chat platform.
	BotToken             string
	BotUsername          string
	SupportAdminUsername string // development-only fallback; prod uses bot_settings.support_username

	// Persistent store.
	Driver        string // "postgres" or "sqlite"
	DSN           string
	DBPoolSize    int
	DBMaxOverflow int

	// Classifier.
	NanoGPTAPIKey   string
	ClassifierModel string

	// Egress proxy.
	IProyalProxyAuth string // "host:port:username:base_password"

	// On-disk layout.
	SessionsDir string
	DataDir     string

	Development bool

	// HTTP control surface.
	Addr string
	Port int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// FromEnv populates the Profile from environment variables, per the
// external-interfaces config surface (BOT_TOKEN, BOT_USERNAME,
// SUPPORT_ADMIN_USERNAME, DB_*, NANO_GPT_API_KEY, IPROYAL_PROXY_AUTH,
// DEVELOPMENT_MODE).
func (p *Profile) FromEnv() {
	p.Mode = getEnv("MODE", "dev")
	p.BotToken = getEnv("BOT_TOKEN", "")
	p.BotUsername = getEnv("BOT_USERNAME", "")
	p.SupportAdminUsername = getEnv("SUPPORT_ADMIN_USERNAME", "")

	p.Driver = getEnv("DB_DRIVER", "postgres")
	p.DSN = getEnv("DB_DSN", "")

	p.NanoGPTAPIKey = getEnv("NANO_GPT_API_KEY", "")
	p.ClassifierModel = getEnv("CLASSIFIER_MODEL", "gpt-5-mini")

	p.IProyalProxyAuth = getEnv("IPROYAL_PROXY_AUTH", "")

	p.SessionsDir = getEnv("SESSIONS_DIR", "sessions")
	p.DataDir = getEnv("DATA_DIR", "data")

	p.Development = getEnv("DEVELOPMENT_MODE", "false") == "true"

	p.Addr = getEnv("ADDR", "")
	p.Port = 8080
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Port = n
		}
	}

	p.DBPoolSize = parseIntEnv("DB_POOL_SIZE", 10)
	p.DBMaxOverflow = parseIntEnv("DB_MAX_OVERFLOW", 5)
}

func parseIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1 // sentinel: Validate() turns this into a ConfigError
	}
	return n
}

// ConfigError is raised at startup when configuration is malformed
// (spec.md §7: non-integer DB pool sizes are fatal).
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{msg: errors.Errorf(format, args...).Error()}
}

// Validate checks the profile for structural errors raised at startup.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.DBPoolSize < 0 {
		return newConfigError("DB_POOL_SIZE must be an integer")
	}
	if p.DBMaxOverflow < 0 {
		return newConfigError("DB_MAX_OVERFLOW must be an integer")
	}

	if p.Driver != "postgres" && p.Driver != "sqlite" {
		return newConfigError("unsupported DB_DRIVER %q", p.Driver)
	}

	if p.Driver == "sqlite" && p.DSN == "" {
		dataDir, err := filepath.Abs(p.DataDir)
		if err != nil {
			return errors.Wrap(err, "failed to resolve data directory")
		}
		p.DSN = filepath.Join(dataDir, "support_"+p.Mode+".db")
	}

	p.SessionsDir = strings.TrimRight(p.SessionsDir, "\\/")

	return nil
}

// IsDev reports whether the profile is running in development mode.
func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}
