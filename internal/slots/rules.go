package slots

import (
	"fmt"

	"github.com/osse101/QuotaPit_Go/internal/domain"
)

// Rules is the injectable rule set of the slot machine
type Rules struct {
	Rows          int
	Cols          int
	Symbols       []domain.Symbol
	Patterns      []Pattern
	Runs          *RunRule // nil disables run scoring
	PenaltyChance float64
	PenaltyRate   float64
	MinPenalty    int
}

// DefaultRules returns the standard 4x5 machine
func DefaultRules() Rules {
	return Rules{
		Rows:     DefaultRows,
		Cols:     DefaultCols,
		Symbols:  DefaultSymbols(),
		Patterns: DefaultPatterns(),
		Runs: &RunRule{
			MinLength: 3,
			Tiers:     map[int]float64{3: 1.0, 4: 2.0, 5: 3.0},
		},
		PenaltyChance: PenaltyChance,
		PenaltyRate:   PenaltyRate,
		MinPenalty:    MinPenalty,
	}
}

// DefaultPatterns returns the standard shapes, evaluated in this order
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name: "zig", Type: TypeShape, Anchor: AnchorOrigin, BaseMultiplier: 4,
			Mask: []string{
				"..X..",
				".X.X.",
				"X...X",
				".....",
			},
		},
		{
			Name: "zag", Type: TypeShape, Anchor: AnchorOrigin, BaseMultiplier: 4,
			Mask: []string{
				"X...X",
				".X.X.",
				"..X..",
				".....",
			},
		},
		{
			Name: "eye", Type: TypeShape, Anchor: AnchorOrigin, BaseMultiplier: 8,
			Mask: []string{
				".XXX.",
				"X...X",
				"X...X",
				".XXX.",
			},
		},
		{
			Name: "frame", Type: TypeShape, Anchor: AnchorOrigin, BaseMultiplier: 10,
			Mask: []string{
				"XXXXX",
				"X...X",
				"X...X",
				"XXXXX",
			},
		},
		{
			Name: "jackpot", Type: TypeJackpot, Anchor: AnchorOrigin, BaseMultiplier: 20,
			Mask: []string{
				"XXXXX",
				"XXXXX",
				"XXXXX",
				"XXXXX",
			},
		},
		{
			Name: "block", Type: TypeCluster, Anchor: AnchorSliding, BaseMultiplier: 2,
			Mask: []string{
				"XX",
				"XX",
			},
		},
		{
			Name: "cross", Type: TypeCluster, Anchor: AnchorSliding, BaseMultiplier: 3,
			Mask: []string{
				".X.",
				"XXX",
				".X.",
			},
		},
	}
}

// Validate checks the numeric parts of the rule set not covered by table/pattern compilation
func (r Rules) Validate() error {
	if r.Rows < 1 || r.Cols < 1 {
		return fmt.Errorf(ErrMsgBadGridFmt, r.Rows, r.Cols, domain.ErrInvalidRules)
	}
	if r.PenaltyChance < 0 || r.PenaltyChance > 1 {
		return fmt.Errorf(ErrMsgBadPenaltyChanceFmt, r.PenaltyChance, domain.ErrInvalidRules)
	}
	if r.PenaltyRate < 0 || r.PenaltyRate > 1 {
		return fmt.Errorf(ErrMsgBadPenaltyRateFmt, r.PenaltyRate, domain.ErrInvalidRules)
	}
	if r.Runs != nil {
		if err := r.Runs.validate(); err != nil {
			return err
		}
	}
	return nil
}
