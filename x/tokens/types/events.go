package types

// tokens module event types
const (
	EventTypeTransfer = "transfer"
	EventTypeMint     = "mint"

	AttributeKeySender    = "sender"
	AttributeKeyRecipient = "recipient"
	AttributeKeyAmount    = "amount"
)
