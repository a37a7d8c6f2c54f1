package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string `mapstructure:"telegram_token" validate:"required"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key" validate:"required"`
	OwnerID       int64  `mapstructure:"owner_id" validate:"gt=0"`
	GroupID       int64  `mapstructure:"group_id"`
	DatabaseURL   string `mapstructure:"database_url" validate:"required"`

	AIModels           []string      `mapstructure:"ai_models" validate:"min=2,dive,required"`
	AIRateLimitBackoff time.Duration `mapstructure:"ai_rate_limit_backoff" validate:"gte=0"`
	AICallTimeout      time.Duration `mapstructure:"ai_call_timeout" validate:"gt=0"`

	ReminderInterval time.Duration `mapstructure:"reminder_interval" validate:"gte=1m,lte=60m"`
	ConversationSize int           `mapstructure:"conversation_size" validate:"gte=1,lte=50"`

	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogJSON  bool   `mapstructure:"log_json"`

	Topics Topics `mapstructure:",squash"`
}

// Topics maps each category to a forum topic id inside the group. Zero means
// the message goes to the chat root.
type Topics struct {
	Work     int `mapstructure:"topic_work"`
	Personal int `mapstructure:"topic_personal"`
	Health   int `mapstructure:"topic_health"`
	Other    int `mapstructure:"topic_other"`
}

var defaults = map[string]any{
	"database_url":          "taskboss.db",
	"ai_models":             "gemini-2.5-flash,gemini-2.0-flash",
	"ai_rate_limit_backoff": "30s",
	"ai_call_timeout":       "2m",
	"reminder_interval":     "1m",
	"conversation_size":     10,
	"log_level":             "info",
	"log_json":              true,
	"group_id":              0,
	"topic_work":            0,
	"topic_personal":        0,
	"topic_health":          0,
	"topic_other":           0,
}

var required = []string{"telegram_token", "gemini_api_key", "owner_id"}

// Load reads configuration from environment variables, optionally layered on
// top of the file named by TASKBOSS_CONFIG.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range required {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path := strings.TrimSpace(os.Getenv("TASKBOSS_CONFIG")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.AIModels = cleanList(cfg.AIModels)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports the first offending field.
func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("invalid config field %s: failed %q", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("validate config: %w", err)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		// A single comma-joined entry comes through when the value is set
		// from a config file as one string.
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
