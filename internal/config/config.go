package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/partylink/internal/matching"
	"github.com/MrJamesThe3rd/partylink/internal/reconcile"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"partylink"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"partylink"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	// Redis is optional; without an address locks are held in-process.
	Redis struct {
		Addr     string        `envconfig:"REDIS_ADDR"`
		Password string        `envconfig:"REDIS_PASSWORD"`
		LockTTL  time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30s"`
	}

	Linking struct {
		AutoAccept      int    `envconfig:"LINKING_AUTO_ACCEPT" default:"60"`
		HighConfidence  int    `envconfig:"LINKING_HIGH_CONFIDENCE" default:"80"`
		ModerateFloor   int    `envconfig:"LINKING_MODERATE_FLOOR" default:"45"`
		SuggestionFloor int    `envconfig:"LINKING_SUGGESTION_FLOOR" default:"30"`
		MaxSuggestions  int    `envconfig:"LINKING_MAX_SUGGESTIONS" default:"5"`
		Workers         int    `envconfig:"LINKING_WORKERS" default:"4"`
		Actor           string `envconfig:"LINKING_ACTOR" default:"system"`
		Locale          string `envconfig:"LINKING_LOCALE" default:"und"`
	}

	Risk struct {
		HighOverduePct   int `envconfig:"RISK_HIGH_OVERDUE_PCT" default:"20"`
		MediumOverduePct int `envconfig:"RISK_MEDIUM_OVERDUE_PCT" default:"5"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) MatchingConfig() matching.Config {
	return matching.Config{
		AutoAccept:      c.Linking.AutoAccept,
		HighConfidence:  c.Linking.HighConfidence,
		ModerateFloor:   c.Linking.ModerateFloor,
		SuggestionFloor: c.Linking.SuggestionFloor,
		MaxSuggestions:  c.Linking.MaxSuggestions,
	}
}

func (c *Config) RiskPolicy() reconcile.RiskPolicy {
	return reconcile.RiskPolicy{
		HighOverduePct:   c.Risk.HighOverduePct,
		MediumOverduePct: c.Risk.MediumOverduePct,
	}
}

// Language is the BCP 47 tag used for lowercasing owner names.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Linking.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("parse LINKING_LOCALE: %w", err)
	}

	return tag, nil
}

func (c *Config) validate() error {
	l := c.Linking

	if l.SuggestionFloor > l.AutoAccept || l.AutoAccept > l.HighConfidence || l.HighConfidence > 100 {
		return fmt.Errorf("linking thresholds must satisfy suggestion floor <= auto accept <= high confidence <= 100")
	}

	if l.ModerateFloor < l.SuggestionFloor || l.ModerateFloor > l.AutoAccept {
		return fmt.Errorf("LINKING_MODERATE_FLOOR must lie between the suggestion floor and auto accept")
	}

	if l.MaxSuggestions < 1 {
		return fmt.Errorf("LINKING_MAX_SUGGESTIONS must be at least 1")
	}

	if l.Workers < 1 {
		return fmt.Errorf("LINKING_WORKERS must be at least 1")
	}

	if c.Risk.MediumOverduePct > c.Risk.HighOverduePct {
		return fmt.Errorf("RISK_MEDIUM_OVERDUE_PCT must not exceed RISK_HIGH_OVERDUE_PCT")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if _, err := cfg.Language(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
