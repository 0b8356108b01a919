package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vybraa/vybraa-api-v1/internal/domain"
)

// FeeSplit is the outcome of applying a fee config to a price:
// Fee + Payee always equals the price it was evaluated on.
type FeeSplit struct {
	Fee   decimal.Decimal
	Payee decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// EvaluateFee looks up the `<feeType>_fee_charge` config row and splits
// price into the platform fee and the payee's net. A missing config row
// is a configuration bug and propagates as ErrConfigMissing; the only
// caller allowed to fall back is the escrow release.
func EvaluateFee(settings SettingStore, price decimal.Decimal, feeType string) (FeeSplit, error) {
	slug := feeType + "_fee_charge"
	cfg, err := settings.GetBySlug(slug)
	if err != nil {
		return FeeSplit{}, err
	}
	if cfg == nil {
		return FeeSplit{}, fmt.Errorf("%w: %s", ErrConfigMissing, slug)
	}

	value, err := decimal.NewFromString(cfg.Value)
	if err != nil {
		return FeeSplit{}, fmt.Errorf("config %s has non-numeric value %q: %w", slug, cfg.Value, err)
	}

	switch cfg.CalculationType {
	case domain.CalculationTypePercentage:
		fee := price.Mul(value).Div(oneHundred)
		return FeeSplit{Fee: fee, Payee: price.Sub(fee)}, nil
	case domain.CalculationTypeFixed:
		return FeeSplit{Fee: value, Payee: price.Sub(value)}, nil
	default:
		return FeeSplit{}, fmt.Errorf("config %s has unknown calculation type %q", slug, cfg.CalculationType)
	}
}

// ConfigService exposes fee evaluation and config lookups to handlers.
type ConfigService struct {
	store Store
}

func NewConfigService(store Store) *ConfigService {
	return &ConfigService{store: store}
}

func (s *ConfigService) EvaluateRequestPrice(price decimal.Decimal, feeType string) (FeeSplit, error) {
	return EvaluateFee(s.store.Settings(), price, feeType)
}
