package slots

import (
	"github.com/osse101/QuotaPit_Go/internal/domain"
)

// Engine draws grids, evaluates them and resolves spins for one rule set.
// An Engine is as safe for concurrent use as its RandomSource.
type Engine struct {
	rules    Rules
	table    *SymbolTable
	patterns []compiledPattern
	runs     *RunRule
	rng      RandomSource
}

// NewEngine validates rules and builds an engine. A nil rng selects DefaultRNG.
func NewEngine(rules Rules, rng RandomSource) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	table, err := NewSymbolTable(rules.Symbols)
	if err != nil {
		return nil, err
	}

	patterns := make([]compiledPattern, 0, len(rules.Patterns))
	for _, p := range rules.Patterns {
		cp, err := compilePattern(p, rules.Rows, rules.Cols)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, cp)
	}

	if rng == nil {
		rng = DefaultRNG()
	}

	return &Engine{
		rules:    rules,
		table:    table,
		patterns: patterns,
		runs:     rules.Runs,
		rng:      rng,
	}, nil
}

// WithRandomSource returns a copy of the engine drawing from rng
func (e *Engine) WithRandomSource(rng RandomSource) *Engine {
	clone := *e
	clone.rng = rng
	return &clone
}

// Rules returns the rule set the engine was built from
func (e *Engine) Rules() Rules {
	return e.rules
}

// Table returns the symbol catalog
func (e *Engine) Table() *SymbolTable {
	return e.table
}

// DrawSymbol draws one symbol with probability weight/total
func (e *Engine) DrawSymbol() string {
	return e.table.Draw(e.rng)
}

// GenerateGrid draws rows x cols independent symbols in row-major order
func (e *Engine) GenerateGrid(rows, cols int) domain.Grid {
	grid := make(domain.Grid, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]string, cols)
		for c := 0; c < cols; c++ {
			grid[r][c] = e.DrawSymbol()
		}
	}
	return grid
}
