package service

import (
	"github.com/marcus-alicia/blesta-sub029/internal/config"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/proration"
	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
	"github.com/marcus-alicia/blesta-sub029/internal/logger"
)

// NewFromConfig wires the pricing pipeline from a loaded configuration:
// a logger at the configured level, the proration calculator in the
// company timezone at the configured precision, and the description
// service with the configured date format, all composed into one
// PricingService.
func NewFromConfig(cfg *config.Configuration, localizer Localizer) (*PricingService, error) {
	if cfg == nil {
		return nil, ierr.NewError("configuration is required").
			Mark(ierr.ErrValidation)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("failed to initialize logger at level '%s'", cfg.Logging.Level).
			Mark(ierr.ErrSystem)
	}

	calculator, err := proration.NewCalculator(cfg.Pricing.Timezone, cfg.Pricing.RoundingPlaces, log)
	if err != nil {
		return nil, err
	}

	descriptions := NewDescriptionService(localizer, cfg.Pricing.DateFormat, log)

	return NewPricingService(calculator, descriptions, log), nil
}
