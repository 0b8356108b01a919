package payment

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/shopspring/decimal"
)

var (
	// ErrGatewayTimeout marks an indeterminate outcome: the provider
	// could not be reached in time. Callers leave the transaction
	// PENDING for the next reconciliation pass instead of failing it.
	ErrGatewayTimeout = errors.New("payment gateway timeout")

	// ErrVerifyFailed is a definitive negative answer from the
	// provider's verification API.
	ErrVerifyFailed = errors.New("payment verification failed")
)

// Event is the normalized shape both gateways translate into before
// anything touches the ledger. Amount is always in major units.
type Event struct {
	Provider  string
	Reference string
	Amount    decimal.Decimal
	Currency  string
	Channel   string
	Status    string // ledger transaction status
	Raw       []byte // original provider payload
}

// Verifier pulls the authoritative state of a payment by reference.
type Verifier interface {
	VerifyByReference(ctx context.Context, reference string) (*Event, error)
}

// classifyTransportErr maps network-level failures to ErrGatewayTimeout
// so callers can tell "provider said no" from "provider didn't answer".
func classifyTransportErr(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
	}
	return err
}
