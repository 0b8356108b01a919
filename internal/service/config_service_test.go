package service_test

import (
	"testing"

	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/models"
	"github.com/vybraa/vybraa-api-v1/internal/service"
	"github.com/vybraa/vybraa-api-v1/internal/service/servicetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFeePercentage(t *testing.T) {
	store := servicetest.NewMemStore()
	store.SeedSetting(&models.ConfigSetting{
		Slug:            "request_fee_charge",
		Value:           "10",
		CalculationType: domain.CalculationTypePercentage,
	})

	split, err := service.EvaluateFee(store.Settings(), decimal.NewFromInt(200), domain.FeeTypeRequest)
	require.NoError(t, err)
	assert.True(t, split.Fee.Equal(decimal.NewFromInt(20)), "got %s", split.Fee)
	assert.True(t, split.Payee.Equal(decimal.NewFromInt(180)), "got %s", split.Payee)
}

func TestEvaluateFeeFixed(t *testing.T) {
	store := servicetest.NewMemStore()
	store.SeedSetting(&models.ConfigSetting{
		Slug:            "withdrawal_fee_charge",
		Value:           "2.50",
		CalculationType: domain.CalculationTypeFixed,
	})

	split, err := service.EvaluateFee(store.Settings(), decimal.NewFromInt(100), domain.FeeTypeWithdrawal)
	require.NoError(t, err)
	assert.True(t, split.Fee.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, split.Payee.Equal(decimal.RequireFromString("97.50")))
}

func TestEvaluateFeeSplitConserves(t *testing.T) {
	store := servicetest.NewMemStore()
	store.SeedSetting(&models.ConfigSetting{
		Slug:            "request_fee_charge",
		Value:           "12.5",
		CalculationType: domain.CalculationTypePercentage,
	})

	price := decimal.RequireFromString("33.33")
	split, err := service.EvaluateFee(store.Settings(), price, domain.FeeTypeRequest)
	require.NoError(t, err)
	assert.True(t, split.Fee.Add(split.Payee).Equal(price))
}

func TestEvaluateFeeMissingConfigPropagates(t *testing.T) {
	store := servicetest.NewMemStore()
	_, err := service.EvaluateFee(store.Settings(), decimal.NewFromInt(100), domain.FeeTypeRequest)
	assert.ErrorIs(t, err, service.ErrConfigMissing)
}

func TestEvaluateFeeBadValue(t *testing.T) {
	store := servicetest.NewMemStore()
	store.SeedSetting(&models.ConfigSetting{
		Slug:            "request_fee_charge",
		Value:           "ten",
		CalculationType: domain.CalculationTypePercentage,
	})
	_, err := service.EvaluateFee(store.Settings(), decimal.NewFromInt(100), domain.FeeTypeRequest)
	assert.Error(t, err)
}

func TestConvertToBaseSameCurrency(t *testing.T) {
	store := servicetest.NewMemStore()
	got, err := service.ConvertToBase(store.Rates(), "USD", decimal.NewFromInt(42), "usd")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(42)))
}

func TestConvertToBaseDividesByRate(t *testing.T) {
	store := servicetest.NewMemStore()
	store.SeedRate(&models.ExchangeRate{FromCurrency: "USD", ToCurrency: "KES", Rate: decimal.NewFromInt(129), IsActive: true})

	got, err := service.ConvertToBase(store.Rates(), "USD", decimal.NewFromInt(1290), "KES")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got)
}

func TestConvertToBaseMissingRate(t *testing.T) {
	store := servicetest.NewMemStore()
	_, err := service.ConvertToBase(store.Rates(), "USD", decimal.NewFromInt(10), "GHS")
	assert.ErrorIs(t, err, service.ErrRateNotFound)
}

func TestConvertToBaseIgnoresInactiveRate(t *testing.T) {
	store := servicetest.NewMemStore()
	store.SeedRate(&models.ExchangeRate{FromCurrency: "USD", ToCurrency: "GHS", Rate: decimal.NewFromInt(15), IsActive: false})
	_, err := service.ConvertToBase(store.Rates(), "USD", decimal.NewFromInt(10), "GHS")
	assert.ErrorIs(t, err, service.ErrRateNotFound)
}
