package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/vybraa/vybraa-api-v1/internal/events"
	"github.com/vybraa/vybraa-api-v1/internal/models"
)

// NotificationService turns settlement events into persisted
// notifications. It subscribes to the bus at startup, so the settlement
// engine never needs to know it exists.
type NotificationService struct {
	store Store
}

func NewNotificationService(store Store) *NotificationService {
	return &NotificationService{store: store}
}

// Register wires the service onto the event bus.
func (s *NotificationService) Register(bus *events.Bus) {
	bus.Subscribe(events.TypePaymentCompleted, s.onPaymentCompleted)
	bus.Subscribe(events.TypePaymentFailed, s.onPaymentFailed)
	bus.Subscribe(events.TypeEscrowReleased, s.onEscrowReleased)
}

func (s *NotificationService) notify(userID uint, notifType, title, body string, data map[string]interface{}) {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	if err := s.store.Notifications().Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	}); err != nil {
		// Notifications never break the settlement flow.
		log.Printf("[Notification] create failed for user %d: %v", userID, err)
	}
}

func (s *NotificationService) onPaymentCompleted(ctx context.Context, e events.Event) {
	ev, ok := e.(events.PaymentCompleted)
	if !ok {
		return
	}
	occasion := ev.Occasion
	if occasion == "" {
		occasion = "a personalized video"
	}
	s.notify(ev.CelebrityUserID, "NEW_REQUEST", "New paid request",
		ev.FanName+" paid for "+occasion+".",
		map[string]interface{}{"request_id": ev.RequestID, "reference": ev.Reference})
	s.notify(ev.FanUserID, "PAYMENT_CONFIRMED", "Payment confirmed",
		"Your payment to "+ev.CelebrityName+" was successful.",
		map[string]interface{}{
			"request_id": ev.RequestID,
			"reference":  ev.Reference,
			"amount":     ev.Amount.String(),
			"currency":   ev.Currency,
		})
}

func (s *NotificationService) onPaymentFailed(ctx context.Context, e events.Event) {
	ev, ok := e.(events.PaymentFailed)
	if !ok {
		return
	}
	s.notify(ev.FanUserID, "PAYMENT_FAILED", "Payment failed",
		"Your payment could not be completed.",
		map[string]interface{}{"request_id": ev.RequestID, "reference": ev.Reference})
}

func (s *NotificationService) onEscrowReleased(ctx context.Context, e events.Event) {
	ev, ok := e.(events.EscrowReleased)
	if !ok {
		return
	}
	s.notify(ev.CelebrityUserID, "EARNINGS_RELEASED", "Earnings released",
		ev.Amount.String()+" "+ev.Currency+" has been credited to your wallet.",
		map[string]interface{}{"request_id": ev.RequestID, "amount": ev.Amount.String(), "currency": ev.Currency})
}
