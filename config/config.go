package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	URL        string `mapstructure:"url"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
}

type ElevenLabsConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	Model        string `mapstructure:"model"`
	DefaultVoice string `mapstructure:"default_voice"`
}

type AuthConfig struct {
	Auth0Domain   string `mapstructure:"auth0_domain"`
	Auth0Audience string `mapstructure:"auth0_audience"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	// AdminSubjects are the token subjects allowed to clear the shared cache.
	AdminSubjects []string `mapstructure:"admin_subjects"`
}

type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	MaxDelay   time.Duration `mapstructure:"max_delay"`
}

// Config represents the structure of the configuration file
type Config struct {
	Port            string           `mapstructure:"port"`
	ProjectsDir     string           `mapstructure:"projects_dir"`
	MaxFileSize     int64            `mapstructure:"max_file_size"`
	MaxUploadSize   int64            `mapstructure:"max_upload_size"`
	GitCloneTimeout time.Duration    `mapstructure:"git_clone_timeout"`
	CookieDomain    string           `mapstructure:"cookie_domain"`
	CORS            CORSConfig       `mapstructure:"cors"`
	Database        DatabaseConfig   `mapstructure:"database"`
	Cache           CacheConfig      `mapstructure:"cache"`
	Gemini          GeminiConfig     `mapstructure:"gemini"`
	ElevenLabs      ElevenLabsConfig `mapstructure:"elevenlabs"`
	Auth            AuthConfig       `mapstructure:"auth"`
	Retry           RetryConfig      `mapstructure:"retry"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Port:            "8080",
	ProjectsDir:     "./projects",
	MaxFileSize:     1_000_000,
	MaxUploadSize:   100 << 20,
	GitCloneTimeout: 2 * time.Minute,
	CORS: CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
	},
	Database: DatabaseConfig{
		SQLitePath: "codementor.db",
	},
	Cache: CacheConfig{
		Backend: "database",
		TTL:     7 * 24 * time.Hour,
	},
	Gemini: GeminiConfig{
		Model:       "gemini-2.0-flash",
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		Temperature: 0.7,
	},
	ElevenLabs: ElevenLabsConfig{
		BaseURL:      "https://api.elevenlabs.io/v1",
		Model:        "eleven_turbo_v2_5",
		DefaultVoice: "pNInz6obpgDQGcFmaJgB",
	},
	Retry: RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   8 * time.Second,
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs resolves the configuration from defaults, an optional config
// file, environment variables and the flags of cmd (which may be nil).
func LoadConfigs(cmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("codementor-config")
		v.AddConfigPath(cwd)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			log.Println("config: no configuration file found, using defaults and environment")
		}
	}

	if cmd != nil {
		bindFlags(v, cmd)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
		if cfg.Database.URL != "" {
			cfg.Database.Driver = "postgres"
		}
	}
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)
	cfg.Auth.AdminSubjects = splitList(cfg.Auth.AdminSubjects)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("config: database.url (DB_URL) is required for postgres")
		}
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}

	switch c.Cache.Backend {
	case "database", "memory":
	default:
		return fmt.Errorf("config: unsupported cache backend %q", c.Cache.Backend)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("config: max_file_size must be positive")
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("config: max_upload_size must be positive")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// splitList accepts both list values and a single comma separated value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultConfig.Port)
	v.SetDefault("projects_dir", DefaultConfig.ProjectsDir)
	v.SetDefault("max_file_size", DefaultConfig.MaxFileSize)
	v.SetDefault("max_upload_size", DefaultConfig.MaxUploadSize)
	v.SetDefault("git_clone_timeout", DefaultConfig.GitCloneTimeout)
	v.SetDefault("cookie_domain", DefaultConfig.CookieDomain)
	v.SetDefault("cors.allowed_origins", DefaultConfig.CORS.AllowedOrigins)
	v.SetDefault("database.driver", DefaultConfig.Database.Driver)
	v.SetDefault("database.url", DefaultConfig.Database.URL)
	v.SetDefault("database.sqlite_path", DefaultConfig.Database.SQLitePath)
	v.SetDefault("cache.backend", DefaultConfig.Cache.Backend)
	v.SetDefault("cache.ttl", DefaultConfig.Cache.TTL)
	v.SetDefault("gemini.api_key", DefaultConfig.Gemini.APIKey)
	v.SetDefault("gemini.model", DefaultConfig.Gemini.Model)
	v.SetDefault("gemini.base_url", DefaultConfig.Gemini.BaseURL)
	v.SetDefault("gemini.temperature", DefaultConfig.Gemini.Temperature)
	v.SetDefault("elevenlabs.api_key", DefaultConfig.ElevenLabs.APIKey)
	v.SetDefault("elevenlabs.base_url", DefaultConfig.ElevenLabs.BaseURL)
	v.SetDefault("elevenlabs.model", DefaultConfig.ElevenLabs.Model)
	v.SetDefault("elevenlabs.default_voice", DefaultConfig.ElevenLabs.DefaultVoice)
	v.SetDefault("auth.auth0_domain", DefaultConfig.Auth.Auth0Domain)
	v.SetDefault("auth.auth0_audience", DefaultConfig.Auth.Auth0Audience)
	v.SetDefault("auth.jwt_secret", DefaultConfig.Auth.JWTSecret)
	v.SetDefault("auth.admin_subjects", DefaultConfig.Auth.AdminSubjects)
	v.SetDefault("retry.max_retries", DefaultConfig.Retry.MaxRetries)
	v.SetDefault("retry.base_delay", DefaultConfig.Retry.BaseDelay)
	v.SetDefault("retry.max_delay", DefaultConfig.Retry.MaxDelay)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("projects_dir", "PROJECTS_DIR")
	_ = v.BindEnv("max_file_size", "MAX_FILE_SIZE")
	_ = v.BindEnv("max_upload_size", "MAX_UPLOAD_SIZE")
	_ = v.BindEnv("git_clone_timeout", "GIT_CLONE_TIMEOUT")
	_ = v.BindEnv("cookie_domain", "COOKIE_DOMAIN")
	_ = v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.url", "DB_URL")
	_ = v.BindEnv("database.sqlite_path", "SQLITE_PATH")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("cache.ttl", "CACHE_TTL")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.model", "GEMINI_MODEL")
	_ = v.BindEnv("gemini.base_url", "GEMINI_BASE_URL")
	_ = v.BindEnv("gemini.temperature", "GEMINI_TEMPERATURE")
	_ = v.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")
	_ = v.BindEnv("elevenlabs.base_url", "ELEVENLABS_BASE_URL")
	_ = v.BindEnv("elevenlabs.model", "ELEVENLABS_MODEL")
	_ = v.BindEnv("elevenlabs.default_voice", "ELEVENLABS_DEFAULT_VOICE")
	_ = v.BindEnv("auth.auth0_domain", "AUTH0_DOMAIN")
	_ = v.BindEnv("auth.auth0_audience", "AUTH0_AUDIENCE")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET_KEY")
	_ = v.BindEnv("auth.admin_subjects", "ADMIN_SUBJECTS")
	_ = v.BindEnv("retry.max_retries", "HTTP_MAX_RETRIES")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	flags := map[string]string{
		"port":            "port",
		"projects_dir":    "projects-dir",
		"database.driver": "db-driver",
		"cache.backend":   "cache-backend",
		"gemini.model":    "gemini-model",
	}
	for key, name := range flags {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			_ = v.BindPFlag(key, flag)
		}
	}
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML).")
	rootCmd.PersistentFlags().String("port", DefaultConfig.Port, "Port the HTTP server listens on.")
	rootCmd.PersistentFlags().String("projects-dir", DefaultConfig.ProjectsDir, "Directory uploaded projects are stored under.")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: 'sqlite' or 'postgres' (default: postgres when DB_URL is set).")
	rootCmd.PersistentFlags().String("cache-backend", DefaultConfig.Cache.Backend, "Cache backend: 'database' or 'memory'.")
	rootCmd.PersistentFlags().String("gemini-model", DefaultConfig.Gemini.Model, "Gemini model used for generation.")
}
