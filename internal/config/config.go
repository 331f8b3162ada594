package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // Every request acts as the default user
	AuthModeToken AuthMode = "token" // Bearer API tokens looked up in the users table
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Auth
		Providers
		Tasks
		Cleanup
		Metrics
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Log struct {
		Level  string // debug, info, warn, error
		Format string // json or console
	}
	Auth struct {
		Mode AuthMode
	}
	Providers struct {
		Timeout         time.Duration // Per upstream call
		RatePerSecond   float64       // 0 disables throttling
		Burst           int
		BreakerFailures uint32        // Consecutive failures before the circuit opens
		BreakerCooldown time.Duration // How long an open circuit rejects calls
		UserAgent       string

		TMDB        TMDB
		ITunes      ITunes
		GoogleBooks GoogleBooks
		OpenLibrary OpenLibrary
	}
	TMDB struct {
		APIKey  string
		BaseURL string
	}
	ITunes struct {
		BaseURL string
	}
	GoogleBooks struct {
		APIKey  string
		BaseURL string
	}
	OpenLibrary struct {
		Enabled bool
		BaseURL string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Cleanup struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Metrics struct {
		Enabled bool
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("auth_mode", string(AuthModeNone))

	// Provider defaults
	v.SetDefault("provider_timeout", "5s")
	v.SetDefault("provider_rate_per_second", 5)
	v.SetDefault("provider_burst", 5)
	v.SetDefault("provider_breaker_failures", 5)
	v.SetDefault("provider_breaker_cooldown", "30s")
	v.SetDefault("provider_user_agent", "mediashelf/1.0 (https://github.com/mrlokans/mediashelf)")
	v.SetDefault("tmdb_api_key", "")
	v.SetDefault("tmdb_base_url", DefaultTMDBBaseURL)
	v.SetDefault("itunes_base_url", DefaultITunesBaseURL)
	v.SetDefault("google_books_api_key", "")
	v.SetDefault("google_books_base_url", DefaultGoogleBooksBaseURL)
	v.SetDefault("openlibrary_enabled", true)
	v.SetDefault("openlibrary_base_url", DefaultOpenLibraryBaseURL)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("cleanup_enabled", true)
	v.SetDefault("cleanup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("metrics_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Auth: Auth{
			Mode: AuthMode(v.GetString("AUTH_MODE")),
		},
		Providers: Providers{
			Timeout:         v.GetDuration("PROVIDER_TIMEOUT"),
			RatePerSecond:   v.GetFloat64("PROVIDER_RATE_PER_SECOND"),
			Burst:           v.GetInt("PROVIDER_BURST"),
			BreakerFailures: v.GetUint32("PROVIDER_BREAKER_FAILURES"),
			BreakerCooldown: v.GetDuration("PROVIDER_BREAKER_COOLDOWN"),
			UserAgent:       v.GetString("PROVIDER_USER_AGENT"),
			TMDB: TMDB{
				APIKey:  v.GetString("TMDB_API_KEY"),
				BaseURL: v.GetString("TMDB_BASE_URL"),
			},
			ITunes: ITunes{
				BaseURL: v.GetString("ITUNES_BASE_URL"),
			},
			GoogleBooks: GoogleBooks{
				APIKey:  v.GetString("GOOGLE_BOOKS_API_KEY"),
				BaseURL: v.GetString("GOOGLE_BOOKS_BASE_URL"),
			},
			OpenLibrary: OpenLibrary{
				Enabled: v.GetBool("OPENLIBRARY_ENABLED"),
				BaseURL: v.GetString("OPENLIBRARY_BASE_URL"),
			},
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Cleanup: Cleanup{
			Enabled:  v.GetBool("CLEANUP_ENABLED"),
			Schedule: v.GetString("CLEANUP_SCHEDULE"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}
