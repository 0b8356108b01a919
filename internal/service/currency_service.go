package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ConvertToBase converts amount from the transaction currency to the
// base currency. Rates are stored as "1 base = rate units of currency",
// so conversion back to base divides. A missing rate must surface: it
// is a configuration bug, never a silent 1:1.
func ConvertToBase(rates RateStore, baseCurrency string, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	from := strings.ToUpper(baseCurrency)
	to := strings.ToUpper(currency)
	if from == to {
		return amount, nil
	}
	rate, err := rates.GetActiveRate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrRateNotFound, from, to)
	}
	return amount.Div(rate.Rate), nil
}

// CurrencyService exposes base-currency conversion to handlers.
type CurrencyService struct {
	store Store
	base  string
}

func NewCurrencyService(store Store, baseCurrency string) *CurrencyService {
	return &CurrencyService{store: store, base: baseCurrency}
}

func (s *CurrencyService) ConvertToBase(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	return ConvertToBase(s.store.Rates(), s.base, amount, currency)
}

func (s *CurrencyService) BaseCurrency() string { return s.base }
