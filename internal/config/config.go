package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/marcus-alicia/blesta-sub029/internal/validator"
)

// Configuration carries the pricing defaults for a company. The core
// packages never read this ambiently; values are handed to
// constructors explicitly.
type Configuration struct {
	Pricing PricingConfig `validate:"required"`
	Logging LoggingConfig `validate:"required"`
}

type PricingConfig struct {
	// Timezone is the company timezone used for day-boundary and
	// prorata-day arithmetic, e.g. "UTC" or "America/Chicago".
	Timezone string `validate:"required"`
	// RoundingPlaces is the decimal precision of prorated unit prices.
	RoundingPlaces int32 `validate:"gte=0,lte=8"`
	// DateFormat renders dates inside line descriptions.
	DateFormat string `validate:"required"`
}

type LoggingConfig struct {
	Level string `validate:"required"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/servibill")

	v.SetEnvPrefix("SERVIBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, errors.Wrap(err, "failed to read configuration")
		}
		// Defaults plus environment variables are enough to run.
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pricing.timezone", "UTC")
	v.SetDefault("pricing.roundingplaces", 4)
	v.SetDefault("pricing.dateformat", "Jan 2, 2006")
	v.SetDefault("logging.level", "info")
}

func (c Configuration) Validate() error {
	return validator.ValidateRequest(c)
}

// GetDefaultConfig returns the configuration used by tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Pricing: PricingConfig{
			Timezone:       "UTC",
			RoundingPlaces: 4,
			DateFormat:     "Jan 2, 2006",
		},
		Logging: LoggingConfig{Level: "debug"},
	}
}
