package session

// ==================== Log Messages ====================

const (
	LogMsgGameCreated      = "Game created"
	LogMsgGameEnded        = "Game session removed"
	LogMsgGameOver         = "Game over"
	LogMsgActionRejected   = "Player action rejected"
	LogMsgActionFailed     = "Player action failed"
	LogMsgSessionEvicted   = "Game session evicted"
	LogMsgSessionsPurged   = "Game sessions purged on shutdown"
	LogMsgSessionNotFound  = "Game session not found"
	LogMsgEventsPublishing = "Publishing game events"
)

// Action names used in logs
const (
	ActionSelectOffer      = "select_offer"
	ActionSelectSpinOption = "select_spin_option"
	ActionSpin             = "spin"
	ActionDeposit          = "deposit"
	ActionWithdrawInterest = "withdraw_interest"
)

// ==================== Error Messages ====================

const (
	ErrMsgSessionNotFoundFmt = "%w: %s"
	ErrMsgBuildEngineFmt     = "failed to build slot engine: %w"
	ErrMsgBuildMachineFmt    = "failed to build economy machine: %w"
	ErrMsgShuttingDown       = "session service is shutting down"
)
