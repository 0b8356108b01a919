package service

import "errors"

var (
	// ErrReferenceNotFound: a webhook or verification referenced a
	// payment no request or transaction knows about. The event is
	// acknowledged and dropped; there is no local state to advance.
	ErrReferenceNotFound = errors.New("payment reference not found")

	// Configuration errors are fatal for the single operation and must
	// surface, never be silently defaulted.
	ErrConfigMissing = errors.New("config setting not found")
	ErrRateNotFound  = errors.New("exchange rate not found")

	// Escrow release aborts: the whole release rolls back and the next
	// sweep retries.
	ErrTransactionNotFound      = errors.New("transaction not found for request")
	ErrWalletNotFound           = errors.New("celebrity wallet not found")
	ErrSuperAdminWalletNotFound = errors.New("super admin wallet not found")
)
