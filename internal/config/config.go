package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"` // current application environment (local, dev, prod etc)
	TelegramAPIToken string    `mapstructure:"-"`   // Telegram API token loaded from environment
	DB               DB        `mapstructure:"database"`
	Questions        Questions `mapstructure:"questions"`
	Quiz             Quiz      `mapstructure:"quiz"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Questions configures where question banks are loaded from and how long
// loaded sets are cached.
type Questions struct {
	UseOnline     bool          `mapstructure:"use_online"`     // fetch from GitHub instead of the local directory
	GitHubAPIURL  string        `mapstructure:"github_api_url"` // contents API base for part discovery
	GitHubRawURL  string        `mapstructure:"github_raw_url"` // raw file base for set fetching
	LocalDir      string        `mapstructure:"local_dir"`      // local question bank root
	CacheDuration time.Duration `mapstructure:"cache_duration"` // zero disables caching
}

// Quiz configures question selection and XP awards.
type Quiz struct {
	UseAllQuestions  bool  `mapstructure:"use_all_questions"`  // use the whole set instead of sampling
	QuestionsPerQuiz int   `mapstructure:"questions_per_quiz"` // sample size when not using all questions
	XPPerCorrect     int64 `mapstructure:"xp_per_correct"`
	XPPerWrong       int64 `mapstructure:"xp_per_wrong"`
	XPPerfectBonus   int64 `mapstructure:"xp_perfect_bonus"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("questions.use_online", true)
	v.SetDefault("questions.github_api_url", "https://api.github.com/repos/AboALhasanx/json-files/contents")
	v.SetDefault("questions.github_raw_url", "https://raw.githubusercontent.com/AboALhasanx/json-files/main")
	v.SetDefault("questions.local_dir", "assets/questions")
	v.SetDefault("questions.cache_duration", "60m")
	v.SetDefault("quiz.use_all_questions", true)
	v.SetDefault("quiz.questions_per_quiz", 5)
	v.SetDefault("quiz.xp_per_correct", 10)
	v.SetDefault("quiz.xp_per_wrong", 2)
	v.SetDefault("quiz.xp_perfect_bonus", 50)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
