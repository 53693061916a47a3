package types

// aggregator module event types
const (
	EventTypeNewRound                   = "new_round"
	EventTypeSubmissionReceived         = "submission_received"
	EventTypeAnswerUpdated              = "answer_updated"
	EventTypeOraclePermissionsUpdated   = "oracle_permissions_updated"
	EventTypeOracleAdminUpdateRequested = "oracle_admin_update_requested"
	EventTypeOracleAdminUpdated         = "oracle_admin_updated"
	EventTypeRoundDetailsUpdated        = "round_details_updated"
	EventTypeAvailableFundsUpdated      = "available_funds_updated"
	EventTypeRequesterPermissionsSet    = "requester_permissions_set"
	EventTypeFundsWithdrawn             = "funds_withdrawn"
	EventTypePaymentWithdrawn           = "payment_withdrawn"
	EventTypeFundsDeposited             = "funds_deposited"
	EventTypeOwnerChanged               = "owner_changed"

	AttributeKeyRoundID        = "round_id"
	AttributeKeyStartedBy      = "started_by"
	AttributeKeyStartedAt      = "started_at"
	AttributeKeyUpdatedAt      = "updated_at"
	AttributeKeyOracle         = "oracle"
	AttributeKeySubmission     = "submission"
	AttributeKeyAnswer         = "answer"
	AttributeKeyWhitelisted    = "whitelisted"
	AttributeKeyAdmin          = "admin"
	AttributeKeyNewAdmin       = "new_admin"
	AttributeKeyPaymentAmount  = "payment_amount"
	AttributeKeyMinSubmissions = "min_submission_count"
	AttributeKeyMaxSubmissions = "max_submission_count"
	AttributeKeyRestartDelay   = "restart_delay"
	AttributeKeyTimeout        = "timeout"
	AttributeKeyAmount         = "amount"
	AttributeKeyRequester      = "requester"
	AttributeKeyAuthorized     = "authorized"
	AttributeKeyDelay          = "delay"
	AttributeKeyRecipient      = "recipient"
	AttributeKeySender         = "sender"
	AttributeKeyOwner          = "owner"
)
