package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/joshwilensky/Google-Books-Search/internal/store"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Catalog
	CatalogKey     string
	CatalogURL     string
	RequestTimeout time.Duration
	Debounce       time.Duration

	// CatalogRateLimit caps catalog requests per second; 0 disables it
	CatalogRateLimit float64

	// Saved books
	APIBase    string
	APIToken   string
	LocalStore string
	LocalPath  string

	// Server
	Host          string
	Port          int
	MongoURI      string
	MongoDatabase string
	RateLimit     int
	CORSOrigins   []string

	// Logging
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.booksearch.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file. An empty path
// searches the home and working directories.
func LoadConfigFile(path string) (*Config, error) {
	// .env files are loaded before viper binds the environment
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.AppDirName)
		// a missing config file is fine
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose:  v.GetBool("verbose"),
		Quiet:    v.GetBool("quiet"),
		NoColor:  v.GetBool("no_color"),
		Format:   v.GetString("format"),
		LogLevel: v.GetString("log_level"),

		ConfigFile: v.ConfigFileUsed(),

		CatalogKey:     strings.TrimSpace(v.GetString("google_books_key")),
		CatalogURL:     v.GetString("catalog_url"),
		RequestTimeout: v.GetDuration("request_timeout"),
		Debounce:       v.GetDuration("debounce"),

		CatalogRateLimit: v.GetFloat64("catalog_rate_limit"),

		APIBase:    strings.TrimSpace(v.GetString("api_base")),
		APIToken:   v.GetString("api_token"),
		LocalStore: v.GetString("local_store"),
		LocalPath:  expandHome(v.GetString("local_path")),

		Host:          v.GetString("host"),
		Port:          v.GetInt("port"),
		MongoURI:      v.GetString("mongo_uri"),
		MongoDatabase: v.GetString("mongo_database"),
		RateLimit:     v.GetInt("rate_limit"),
		CORSOrigins:   stringList(v, "cors_origins"),

		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog_url", constants.DefaultCatalogURL)
	v.SetDefault("request_timeout", constants.RequestTimeout)
	v.SetDefault("debounce", constants.DebounceWindow)
	v.SetDefault("catalog_rate_limit", 0)
	v.SetDefault("local_store", store.BackendFile)
	v.SetDefault("local_path", defaultLocalPath())
	v.SetDefault("host", constants.DefaultServerHost)
	v.SetDefault("port", constants.DefaultServerPort)
	v.SetDefault("mongo_database", constants.DefaultMongoDatabase)
	v.SetDefault("rate_limit", constants.DefaultRateLimit)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags so that
// flags take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		// godotenv never overrides a variable that is already set
		_ = godotenv.Load(envFile)
	}
}

func defaultLocalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return constants.AppDirName
	}
	return filepath.Join(home, constants.AppDirName)
}

// stringList reads key as a YAML list or a comma-separated env value.
func stringList(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
