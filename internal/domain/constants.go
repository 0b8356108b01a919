package domain

const (
	RoleFan       = "FAN"
	RoleCelebrity = "CELEBRITY"
	RoleAdmin     = "ADMIN"
)

const (
	RequestStatusPending    = "PENDING"
	RequestStatusInProgress = "IN_PROGRESS"
	RequestStatusCompleted  = "COMPLETED"
	RequestStatusDeclined   = "DECLINED"
)

const (
	TransactionStatusPending    = "PENDING"
	TransactionStatusProcessing = "PROCESSING"
	TransactionStatusCompleted  = "COMPLETED"
	TransactionStatusFailed     = "FAILED"
	TransactionStatusCancelled  = "CANCELLED"
)

const (
	TransactionTypeCredit = "CREDIT"
	TransactionTypeDebit  = "DEBIT"
)

const (
	EscrowStatusPending  = "PENDING"
	EscrowStatusReleased = "RELEASED"
	EscrowStatusRefunded = "REFUNDED"
)

const (
	EscrowTypeRequestPayment = "REQUEST_PAYMENT"
)

const (
	CalculationTypePercentage = "PERCENTAGE"
	CalculationTypeFixed      = "FIXED"
)

const (
	EarningsStatusCredit = "CREDIT"
)

// Fee config slugs follow the <type>_fee_charge convention.
const (
	FeeTypeRequest    = "request"
	FeeTypeWithdrawal = "withdrawal"
)

const (
	ProviderPaystack    = "paystack"
	ProviderFlutterwave = "flutterwave"
)
