package types

// exchange module event types
const (
	EventTypeDeposit           = "exchange_deposit"
	EventTypeExchangeRequested = "exchange_requested"
	EventTypeExchangeCompleted = "exchange_completed"
	EventTypeExchangeRefunded  = "exchange_refunded"

	AttributeKeyRequestID = "request_id"
	AttributeKeyAddress   = "address"
	AttributeKeyAmount    = "amount"
	AttributeKeyTarget    = "target_denom"
	AttributeKeyConverted = "converted"
	AttributeKeyRate      = "rate"
	AttributeKeyDecimals  = "decimals"
	AttributeKeyRoundID   = "round_id"
	AttributeKeyReason    = "reason"
)
