package slots

// Symbol constants
const (
	SymbolLemon   = "LEMON"
	SymbolCherry  = "CHERRY"
	SymbolBell    = "BELL"
	SymbolBar     = "BAR"
	SymbolSeven   = "SEVEN"
	SymbolDiamond = "DIAMOND"
	SymbolStar    = "STAR"
)

// Grid dimensions
const (
	DefaultRows = 4
	DefaultCols = 5
)

// Penalty event
const (
	PenaltyChance = 0.04 // Rolled once per spin, after the grid
	PenaltyRate   = 0.10 // Share of the current coin balance lost
	MinPenalty    = 1
)

// Symbol weights for weighted random selection (out of 1000)
var SymbolWeights = map[string]int{
	SymbolLemon:   400, // 40%
	SymbolCherry:  250, // 25%
	SymbolBell:    150, // 15%
	SymbolBar:     95,  // 9.5%
	SymbolSeven:   70,  // 7%
	SymbolDiamond: 25,  // 2.5%
	SymbolStar:    10,  // 1%
}

// PayoutFactors scale every pattern multiplier won with the symbol
var PayoutFactors = map[string]float64{
	SymbolLemon:   1.0,
	SymbolCherry:  1.0,
	SymbolBell:    1.5,
	SymbolBar:     2.0,
	SymbolSeven:   3.0,
	SymbolDiamond: 5.0,
	SymbolStar:    8.0,
}

// symbolOrder is the catalog order used for cumulative draws and evaluation
var symbolOrder = []string{SymbolLemon, SymbolCherry, SymbolBell, SymbolBar, SymbolSeven, SymbolDiamond, SymbolStar}

var symbolGlyphs = map[string]string{
	SymbolLemon:   "🍋",
	SymbolCherry:  "🍒",
	SymbolBell:    "🔔",
	SymbolBar:     "➖",
	SymbolSeven:   "7️⃣",
	SymbolDiamond: "💎",
	SymbolStar:    "⭐",
}

// Pattern type tags
const (
	TypeShape   = "shape"
	TypeJackpot = "jackpot"
	TypeCluster = "cluster"
	TypeRun     = "run"
)

// Mask cell markers
const (
	MaskRequired = 'X' // Must hold the candidate symbol
	MaskIgnored  = '.' // Not inspected
	MaskExcluded = '!' // Must NOT hold the candidate symbol
)

// Run directions
const (
	DirectionHorizontal   = "horizontal"
	DirectionVertical     = "vertical"
	DirectionDiagonal     = "diagonal"
	DirectionAntiDiagonal = "anti_diagonal"
)

// ==================== Error Messages ====================

const (
	ErrMsgNoSymbolsFmt        = "symbol table is empty: %w"
	ErrMsgDuplicateSymbolFmt  = "duplicate symbol %q: %w"
	ErrMsgBadWeightFmt        = "symbol %q has non-positive weight %d: %w"
	ErrMsgBadFactorFmt        = "symbol %q has non-positive payout factor %v: %w"
	ErrMsgEmptyMaskFmt        = "pattern %q has an empty mask: %w"
	ErrMsgRaggedMaskFmt       = "pattern %q mask row %d has width %d, want %d: %w"
	ErrMsgBadMaskCharFmt      = "pattern %q mask has invalid marker %q: %w"
	ErrMsgNoRequiredCellsFmt  = "pattern %q has no required cells: %w"
	ErrMsgMaskTooLargeFmt     = "pattern %q (%dx%d) does not fit a %dx%d grid: %w"
	ErrMsgBadAnchorFmt        = "pattern %q has unknown anchor %q: %w"
	ErrMsgBadBaseFmt          = "pattern %q has non-positive base multiplier %v: %w"
	ErrMsgBadGridFmt          = "grid must be at least 1x1, got %dx%d: %w"
	ErrMsgBadRunLengthFmt     = "run minimum length must be >= 2, got %d: %w"
	ErrMsgNoRunTiersFmt       = "run rule has no tiers: %w"
	ErrMsgBadPenaltyChanceFmt = "penalty chance must be in [0,1], got %v: %w"
	ErrMsgBadPenaltyRateFmt   = "penalty rate must be in [0,1], got %v: %w"
)

// ==================== Log Messages ====================

const (
	LogMsgSymbolFallthrough = "Weighted symbol draw fell through the cumulative table; using fallback symbol"
)

// Summary text
const (
	SummaryNoWin      = "No matches."
	SummaryWinFmt     = "Won %d coins (x%s): %s"
	SummaryPenaltyFmt = " | Penalty! Lost %d coins."
)
