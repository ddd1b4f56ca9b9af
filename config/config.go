package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Dosada05/archery-tournament/brackets"
	"github.com/Dosada05/archery-tournament/models"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	Tournament TournamentConfig    `yaml:"tournament"`
	Brackets   BracketConfig       `yaml:"brackets"`
	Match      brackets.MatchRules `yaml:"match"`
	Log        LogConfig           `yaml:"log"`
	Export     ExportConfig        `yaml:"export"`
	Metrics    MetricsConfig       `yaml:"metrics"`
	R2         R2Config            `yaml:"r2"`
}

type TournamentConfig struct {
	Type        models.TournamentType `yaml:"type"`
	StartTarget int                   `yaml:"start_target"`
}

type BracketConfig struct {
	// Cutoff keeps only the top N ranked archers; 0 takes everyone.
	Cutoff      int  `yaml:"cutoff"`
	BronzeMatch bool `yaml:"bronze_match"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ExportConfig struct {
	Dir       string `yaml:"dir"`
	KeyPrefix string `yaml:"key_prefix"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// R2Config is only needed when exports are published to Cloudflare R2.
type R2Config struct {
	AccountID       string `yaml:"account_id"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	BucketName      string `yaml:"bucket_name"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

func (c R2Config) Enabled() bool {
	return c.BucketName != ""
}

func Default() *Config {
	return &Config{
		Tournament: TournamentConfig{Type: models.TournamentIndoor, StartTarget: 1},
		Match:      brackets.DefaultMatchRules(),
		Log:        LogConfig{Level: "info"},
		Export:     ExportConfig{Dir: "exports", KeyPrefix: "results/"},
	}
}

// Load читает YAML-файл (если он есть), затем .env и переменные окружения.
// Переменные окружения имеют приоритет.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// работаем на значениях по умолчанию и окружении
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("TOURNAMENT_TYPE"); v != "" {
		cfg.Tournament.Type = models.TournamentType(strings.ToLower(v))
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"START_TARGET", &cfg.Tournament.StartTarget},
		{"BRACKET_CUTOFF", &cfg.Brackets.Cutoff},
		{"MATCH_WIN_THRESHOLD", &cfg.Match.WinThreshold},
		{"MATCH_MAX_SETS", &cfg.Match.MaxSets},
		{"MATCH_ARROWS_PER_SET", &cfg.Match.ArrowsPerSet},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, e.key, v)
		}
		*e.dst = n
	}
	if v := os.Getenv("BRONZE_MATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: BRONZE_MATCH=%q is not a boolean", ErrInvalidConfig, v)
		}
		cfg.Brackets.BronzeMatch = b
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"LOG_LEVEL", &cfg.Log.Level},
		{"EXPORT_DIR", &cfg.Export.Dir},
		{"EXPORT_KEY_PREFIX", &cfg.Export.KeyPrefix},
		{"METRICS_TEXTFILE", &cfg.Metrics.Textfile},
		{"R2_ACCOUNT_ID", &cfg.R2.AccountID},
		{"R2_ACCESS_KEY_ID", &cfg.R2.AccessKeyID},
		{"R2_SECRET_ACCESS_KEY", &cfg.R2.SecretAccessKey},
		{"R2_BUCKET_NAME", &cfg.R2.BucketName},
		{"R2_PUBLIC_BASE_URL", &cfg.R2.PublicBaseURL},
	}
	for _, e := range strs {
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if !c.Tournament.Type.Valid() {
		return fmt.Errorf("%w: tournament type %q", ErrInvalidConfig, c.Tournament.Type)
	}
	if c.Tournament.StartTarget < 1 {
		return fmt.Errorf("%w: start target must be at least 1, got %d", ErrInvalidConfig, c.Tournament.StartTarget)
	}
	if c.Brackets.Cutoff < 0 || c.Brackets.Cutoff == 1 || c.Brackets.Cutoff > brackets.MaxArchers {
		return fmt.Errorf("%w: bracket cutoff must be 0 or between 2 and %d, got %d", ErrInvalidConfig, brackets.MaxArchers, c.Brackets.Cutoff)
	}
	if c.Match.WinThreshold < 1 || c.Match.MaxSets < 1 || c.Match.ArrowsPerSet < 1 {
		return fmt.Errorf("%w: match rules must be positive: %+v", ErrInvalidConfig, c.Match)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.R2.Enabled() && (c.R2.AccountID == "" || c.R2.AccessKeyID == "" || c.R2.SecretAccessKey == "" || c.R2.PublicBaseURL == "") {
		return fmt.Errorf("%w: R2 bucket %q needs account id, credentials and public base URL", ErrInvalidConfig, c.R2.BucketName)
	}
	return nil
}

// SlogLevel maps the configured level; unknown values were rejected by Validate.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
	}
	return level, nil
}
