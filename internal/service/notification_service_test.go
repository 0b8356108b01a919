package service_test

import (
	"context"
	"testing"

	"github.com/vybraa/vybraa-api-v1/internal/events"
	"github.com/vybraa/vybraa-api-v1/internal/service"
	"github.com/vybraa/vybraa-api-v1/internal/service/servicetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentCompletedNotifiesBothParties(t *testing.T) {
	store := servicetest.NewMemStore()
	bus := events.NewBus()
	service.NewNotificationService(store).Register(bus)

	bus.Publish(context.Background(), events.PaymentCompleted{
		RequestID:       1,
		FanUserID:       10,
		CelebrityUserID: 20,
		CelebrityName:   "Ada",
		FanName:         "Femi",
		Occasion:        "Birthday",
		Reference:       "ref_1",
		Amount:          decimal.NewFromInt(50),
		Currency:        "USD",
	})

	require.Len(t, store.NoteRows, 2)
	byUser := map[uint]string{}
	for _, n := range store.NoteRows {
		byUser[n.UserID] = n.Type
	}
	assert.Equal(t, "NEW_REQUEST", byUser[20])
	assert.Equal(t, "PAYMENT_CONFIRMED", byUser[10])
}

func TestPaymentFailedNotifiesFanOnly(t *testing.T) {
	store := servicetest.NewMemStore()
	bus := events.NewBus()
	service.NewNotificationService(store).Register(bus)

	bus.Publish(context.Background(), events.PaymentFailed{RequestID: 1, FanUserID: 10, Reference: "ref_1"})

	require.Len(t, store.NoteRows, 1)
	assert.Equal(t, uint(10), store.NoteRows[0].UserID)
	assert.Equal(t, "PAYMENT_FAILED", store.NoteRows[0].Type)
}

func TestEscrowReleasedNotifiesCelebrity(t *testing.T) {
	store := servicetest.NewMemStore()
	bus := events.NewBus()
	service.NewNotificationService(store).Register(bus)

	bus.Publish(context.Background(), events.EscrowReleased{
		RequestID:       1,
		CelebrityUserID: 20,
		Amount:          decimal.NewFromInt(45),
		Fee:             decimal.NewFromInt(5),
		Currency:        "USD",
	})

	require.Len(t, store.NoteRows, 1)
	assert.Equal(t, uint(20), store.NoteRows[0].UserID)
	assert.Equal(t, "EARNINGS_RELEASED", store.NoteRows[0].Type)
	assert.Contains(t, store.NoteRows[0].Body, "45 USD")
}
