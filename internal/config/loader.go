package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOption configures Load.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load reads the configuration: config.yml as the base, then a .env file,
// then process environment variables, each layer overriding the previous.
// Missing files are not errors; environment-only configuration works.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.configFile == "" {
		lc.configFile = findFirst(
			"./cmd/server/config.yml",
			"../cmd/server/config.yml",
			"./config.yml",
		)
	}
	if lc.envFile == "" {
		lc.envFile = findFirst("./.env", "../.env")
	}

	v := viper.New()

	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", lc.configFile, err)
		}
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", lc.envFile, err)
		}
	}

	bindEnvVars(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findFirst(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// topLevelEnvKeys maps the top-level config keys to their environment
// variables. These carry an APP_ prefix so incidental process variables
// like VERSION or DEBUG cannot override file configuration.
var topLevelEnvKeys = map[string]string{
	"name":        "APP_NAME",
	"environment": "APP_ENVIRONMENT",
	"version":     "APP_VERSION",
	"debug":       "APP_DEBUG",
}

// nestedEnvKeys lists every nested key that an environment variable can
// override. The variable name is the key in UPPER_SNAKE, so
// auth.token.secret binds to AUTH_TOKEN_SECRET.
var nestedEnvKeys = []string{
	"logging.level",
	"logging.format",
	"logging.output",
	"logging.no_color",
	"logging.timestamp",
	"server.host",
	"server.port",
	"server.read_timeout",
	"server.write_timeout",
	"server.idle_timeout",
	"server.max_body_size",
	"server.cors.allowed_origins",
	"server.cors.allowed_methods",
	"server.cors.allowed_headers",
	"server.cors.allow_credentials",
	"auth.token.secret",
	"auth.token.method",
	"auth.token.access_token_ttl_minutes",
	"auth.password.algorithm",
	"auth.password.bcrypt_cost",
	"auth.password.argon2_time",
	"auth.password.argon2_memory",
	"auth.password.argon2_threads",
	"auth.revocation.backend",
	"auth.revocation.key_prefix",
	"database.enabled",
	"database.dsn",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime",
	"database.max_retries",
	"database.auto_migrate",
	"database.log_level",
	"database.slow_query_threshold",
	"redis.enabled",
	"redis.addr",
	"redis.password",
	"redis.db",
	"redis.pool_size",
	"redis.min_idle_conns",
	"redis.dial_timeout",
	"redis.read_timeout",
	"redis.write_timeout",
	"storage.base_path",
	"storage.public_prefix",
}

// bindEnvVars binds the known config keys to their environment variables.
// Only listed keys bind, so unrelated process variables never reach the
// configuration.
func bindEnvVars(v *viper.Viper) {
	for key, envName := range topLevelEnvKeys {
		_ = v.BindEnv(key, envName)
	}
	for _, key := range nestedEnvKeys {
		_ = v.BindEnv(key, envVarName(key))
	}
}

// envVarName converts a nested key to its environment variable spelling.
func envVarName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
