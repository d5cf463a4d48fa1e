package economy

// Default rule values
const (
	DefaultStartingCoins   = 50
	DefaultStartingQuota   = 20
	DefaultQuotaGrowth     = 1.5
	DefaultInterestRate    = 0.04
	DefaultActionsPerRound = 3
	DefaultBankruptcyFloor = 3 // Cheapest spin option cost
)

// Offer IDs
const (
	OfferSingle   = "single"
	OfferTriple   = "triple"
	OfferMarathon = "marathon"
)

// MoneyDecimals is the precision money is displayed with
const MoneyDecimals = 2

// ==================== Player Messages ====================

// Rejections
const (
	MsgInsufficientCoins   = "Insufficient coins to play this option!"
	MsgInvalidDeposit      = "Invalid deposit amount."
	MsgDepositExceedsCoins = "You don't have that many coins to deposit."
	MsgInvalidSpinOption   = "Invalid spin option."
	MsgSpinOptionActive    = "Finish your current spins before buying more."
	MsgNoSpinOption        = "Buy a spin option first."
	MsgResolving           = "Wait for the reels to stop."
	MsgNotResolving        = "There is no spin to complete."
	MsgNoInterest          = "Nothing to withdraw: interest < 1."
	MsgGameOver            = "The game is over."
	MsgUnknownOfferFmt     = "Unknown spin option %q."
)

// Results
const (
	MsgOptionPurchasedFmt   = "Bought %d spins for %d coins."
	MsgDepositedFmt         = "Successfully deposited %d coins. Quota progress: %d/%d."
	MsgInterestWithdrawnFmt = "Withdrew %d coins of interest."
	MsgQuotaSuccessFmt      = "Quota SUCCESS! New Quota: %d. Earned %s interest on deposit."
	MsgQuotaFailedFmt       = "Quota FAILED! Deposited %d of %d."
	MsgBankrupt             = "You are bankrupt."
	MsgRoundsSurvivedFmt    = "You survived %d rounds."
	MsgTotalDepositFmt      = "Total Deposit: %s"
	MsgWelcome              = "Welcome. Meet the Quota. Survive the Slots."
)

// Joiners
const (
	MsgSeparator        = " | "
	MsgSummarySeparator = " "
)

// ==================== Error Messages ====================

const (
	ErrMsgBadStartingCoinsFmt = "starting coins must be >= 0, got %d: %w"
	ErrMsgBadStartingQuotaFmt = "starting quota must be >= 1, got %d: %w"
	ErrMsgBadQuotaGrowthFmt   = "quota growth must be >= 1, got %v: %w"
	ErrMsgBadInterestRateFmt  = "interest rate must be >= 0, got %v: %w"
	ErrMsgBadActionsFmt       = "actions per round must be >= 1, got %d: %w"
	ErrMsgBadBankruptcyFmt    = "bankruptcy floor must be >= 0, got %d: %w"
	ErrMsgBadOfferFmt         = "offer %q has a negative cost, spin count or ticket grant: %w"
	ErrMsgDuplicateOfferFmt   = "duplicate offer %q: %w"
	ErrMsgEmptyOfferIDFmt     = "offer at index %d has no id: %w"
	ErrMsgNilResolverFmt      = "economy machine needs a spin resolver: %w"
)
