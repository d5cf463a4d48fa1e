package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// Request decoding
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingPathParam      = "Missing %s path parameter"

	// Option selection
	ErrMsgOptionChoice = "Send either offer_id or cost and spins, not both"

	// Service failures
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgGameNotFound       = "Game not found. It may have expired."
	ErrMsgGameOverHTTP       = "The game is over. Start a new game to play again."
)

// Success messages for API responses
const (
	MsgGameEnded = "Game ended"
)

// Operation names used in logs
const (
	OpCreateGame       = "Create game"
	OpGetGame          = "Get game"
	OpEndGame          = "End game"
	OpSelectOption     = "Select option"
	OpSpin             = "Spin"
	OpDeposit          = "Deposit"
	OpWithdrawInterest = "Withdraw interest"
)

// Log messages
const (
	LogMsgDecodeFailedFmt   = "Failed to decode %s request"
	LogMsgRequestDecodedFmt = "%s request decoded"
	LogMsgRequestDetails    = "Request details"
	LogMsgOddLogFields      = "LogRequestFields called with odd number of arguments"
	LogMsgActionRejected    = "Action rejected"
	LogMsgServiceFailed     = "Service call failed"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteFailed       = "Failed to write response buffer"
)

// Path parameters
const (
	PathParamGameID = "id"
)
