package types

// priceaggregator module event types
const (
	EventTypeNewRound          = "new_price_round"
	EventTypeSubmission        = "price_submission"
	EventTypeDiscardSubmission = "discard_price_submission"
	EventTypeDiscardRound      = "discard_price_round"
	EventTypeOraclesAdded      = "price_oracles_added"
	EventTypeOraclesRemoved    = "price_oracles_removed"
	EventTypeParamsUpdated     = "price_params_updated"
	EventTypeOwnerChanged      = "price_owner_changed"

	AttributeKeyFrom            = "from"
	AttributeKeyTo              = "to"
	AttributeKeyRoundID         = "round_id"
	AttributeKeyPrice           = "price"
	AttributeKeyTimestamp       = "timestamp"
	AttributeKeyOracle          = "oracle"
	AttributeKeyFirstTimestamp  = "first_submission_timestamp"
	AttributeKeyHasSubmitted    = "has_already_submitted"
	AttributeKeySubmissionCount = "submission_count"
	AttributeKeyPaused          = "paused"
	AttributeKeyOwner           = "owner"
)
