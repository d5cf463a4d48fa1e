package slots

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/QuotaPit_Go/internal/domain"
)

// DefaultSymbols returns the 7-symbol catalog in draw order
func DefaultSymbols() []domain.Symbol {
	symbols := make([]domain.Symbol, 0, len(symbolOrder))
	for _, id := range symbolOrder {
		symbols = append(symbols, domain.Symbol{
			ID:           id,
			Name:         symbolName(id),
			Glyph:        symbolGlyphs[id],
			Weight:       SymbolWeights[id],
			PayoutFactor: PayoutFactors[id],
		})
	}
	return symbols
}

func symbolName(id string) string {
	return cases.Title(language.English).String(id)
}

// SymbolTable is an immutable weighted catalog
type SymbolTable struct {
	symbols []domain.Symbol
	index   map[string]int
	total   int
}

// NewSymbolTable validates and indexes a catalog. Order is significant for draws.
func NewSymbolTable(symbols []domain.Symbol) (*SymbolTable, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf(ErrMsgNoSymbolsFmt, domain.ErrInvalidRules)
	}

	t := &SymbolTable{
		symbols: make([]domain.Symbol, len(symbols)),
		index:   make(map[string]int, len(symbols)),
	}
	copy(t.symbols, symbols)

	for i, s := range t.symbols {
		if _, dup := t.index[s.ID]; dup {
			return nil, fmt.Errorf(ErrMsgDuplicateSymbolFmt, s.ID, domain.ErrInvalidRules)
		}
		if s.Weight <= 0 {
			return nil, fmt.Errorf(ErrMsgBadWeightFmt, s.ID, s.Weight, domain.ErrInvalidRules)
		}
		if s.PayoutFactor <= 0 {
			return nil, fmt.Errorf(ErrMsgBadFactorFmt, s.ID, s.PayoutFactor, domain.ErrInvalidRules)
		}
		t.index[s.ID] = i
		t.total += s.Weight
	}

	return t, nil
}

// Symbols returns a copy of the catalog
func (t *SymbolTable) Symbols() []domain.Symbol {
	out := make([]domain.Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Lookup finds a symbol by ID
func (t *SymbolTable) Lookup(id string) (domain.Symbol, bool) {
	i, ok := t.index[id]
	if !ok {
		return domain.Symbol{}, false
	}
	return t.symbols[i], true
}

// TotalWeight is the sum of all weights
func (t *SymbolTable) TotalWeight() int {
	return t.total
}

// Probability returns weight/total for a symbol, 0 if unknown
func (t *SymbolTable) Probability(id string) float64 {
	s, ok := t.Lookup(id)
	if !ok {
		return 0
	}
	return float64(s.Weight) / float64(t.total)
}

// Draw performs weighted random selection of a symbol
func (t *SymbolTable) Draw(rng RandomSource) string {
	roll := rng.Float64() * float64(t.total)

	cumulative := 0
	for _, s := range t.symbols {
		cumulative += s.Weight
		if roll < float64(cumulative) {
			return s.ID
		}
	}

	// Fallback (should never happen)
	slog.Error(LogMsgSymbolFallthrough, "roll", roll, "total_weight", t.total)
	return t.symbols[0].ID
}
