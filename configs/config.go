package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App      `mapstructure:"app"`
	Session  `mapstructure:"session"`
	Redis    `mapstructure:"redis"`
	Catalog  `mapstructure:"catalog"`
	Postgres `mapstructure:"postgres"`
	Intent   `mapstructure:"intent"`
	LMStudio `mapstructure:"lmstudio"`
	Gemini   `mapstructure:"gemini"`
	Line     `mapstructure:"line"`
	Matching `mapstructure:"matching"`
	Clarify  `mapstructure:"clarify"`
}

// App struct
type App struct {
	Debug     bool   `mapstructure:"debug"`
	Env       string `mapstructure:"env"`
	Port      string `mapstructure:"port"`
	LogFormat string `mapstructure:"log_format"`
}

// Session struct
type Session struct {
	Backend string `mapstructure:"backend"`
	// TTL in seconds
	TTL int `mapstructure:"ttl"`
}

// Redis struct
type Redis struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Catalog struct
type Catalog struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// Postgres struct
type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"database"`
	SSLMode  bool   `mapstructure:"sslmode"`
}

// Intent struct
type Intent struct {
	Provider string `mapstructure:"provider"`
	// Timeout in seconds for one parse
	Timeout int `mapstructure:"timeout"`
}

// LMStudio struct
type LMStudio struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	// Timeout in seconds
	Timeout int `mapstructure:"timeout"`
}

// Gemini struct
type Gemini struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Line struct
type Line struct {
	Enabled       bool   `mapstructure:"enabled"`
	ChannelSecret string `mapstructure:"channel_secret"`
	ChannelToken  string `mapstructure:"channel_token"`
}

// Matching struct
type Matching struct {
	TopN         int `mapstructure:"top_n"`
	PreviewSize  int `mapstructure:"preview_size"`
	MaxQuestions int `mapstructure:"max_questions"`
}

// Clarify struct
type Clarify struct {
	Questions map[string]string `mapstructure:"questions"`
}

var defaults = map[string]any{
	"app.debug":              false,
	"app.env":                "local",
	"app.port":               "9089",
	"app.log_format":         "text",
	"session.backend":        "memory",
	"session.ttl":            3600,
	"redis.url":              "redis://localhost:6379/0",
	"redis.key_prefix":       "jobmatch:session:",
	"catalog.backend":        "file",
	"catalog.path":           "./data/jobs.json",
	"postgres.host":          "localhost",
	"postgres.port":          "5432",
	"postgres.username":      "postgres",
	"postgres.password":      "",
	"postgres.database":      "jobmatch",
	"postgres.sslmode":       false,
	"intent.provider":        "heuristic",
	"intent.timeout":         20,
	"lmstudio.base_url":      "http://localhost:1234",
	"lmstudio.model":         "",
	"lmstudio.timeout":       60,
	"gemini.api_key":         "",
	"gemini.model":           "gemini-2.5-flash",
	"line.enabled":           false,
	"line.channel_secret":    "",
	"line.channel_token":     "",
	"matching.top_n":         10,
	"matching.preview_size":  3,
	"matching.max_questions": 3,
	"clarify.questions":      map[string]string{},
}

var config Config

// InitViper func - loads .env, config.yaml, config.<env>.yaml and the environment
func InitViper(path, env string) error {
	v, err := load(path, env)
	if err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		logrus.Infof("Config file has changed: %s", e.Name)
	})
	if v.ConfigFileUsed() != "" {
		v.WatchConfig()
	}
	return nil
}

// GetViper func
func GetViper() *Config {
	return &config
}

func load(path, env string) (*viper.Viper, error) {
	loadEnvFile(path)

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logrus.Warnf("No config file in %s, using defaults and environment", path)
	}

	if env != "" {
		overlay := filepath.Join(path, fmt.Sprintf("config.%s.yaml", env))
		if _, err := os.Stat(overlay); err == nil {
			v.SetConfigFile(overlay)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merge %s: %w", overlay, err)
			}
		}
		v.Set("app.env", env)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	config = cfg

	return v, nil
}

func loadEnvFile(path string) {
	for _, candidate := range []string{filepath.Join(path, ".env"), ".env"} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			logrus.Warnf("Failed to load %s: %v", candidate, err)
			continue
		}
		logrus.Infof("Loaded environment from %s", candidate)
		return
	}
}
