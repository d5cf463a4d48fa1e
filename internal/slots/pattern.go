package slots

import (
	"fmt"
	"sort"

	"github.com/osse101/QuotaPit_Go/internal/domain"
)

// Anchor controls where a pattern mask is overlaid on the grid
type Anchor string

const (
	// AnchorOrigin overlays the mask once, at the top-left corner
	AnchorOrigin Anchor = "origin"
	// AnchorSliding overlays the mask at every offset where it fits
	AnchorSliding Anchor = "sliding"
)

// Pattern is a winning shape. Mask rows use MaskRequired, MaskIgnored and MaskExcluded.
type Pattern struct {
	Name           string
	Type           string
	Mask           []string
	BaseMultiplier float64
	Anchor         Anchor
}

// RunRule pays maximal straight runs of one symbol in any of the four line directions
type RunRule struct {
	MinLength int
	Tiers     map[int]float64 // Run length -> base multiplier
}

// Multiplier returns the base multiplier for a run length.
// Lengths past the longest tier use the longest tier.
func (r RunRule) Multiplier(length int) float64 {
	if length < r.MinLength {
		return 0
	}
	if m, ok := r.Tiers[length]; ok {
		return m
	}
	best, bestLen := 0.0, 0
	for l, m := range r.Tiers {
		if l <= length && l > bestLen {
			best, bestLen = m, l
		}
	}
	return best
}

func (r RunRule) validate() error {
	if r.MinLength < 2 {
		return fmt.Errorf(ErrMsgBadRunLengthFmt, r.MinLength, domain.ErrInvalidRules)
	}
	if len(r.Tiers) == 0 {
		return fmt.Errorf(ErrMsgNoRunTiersFmt, domain.ErrInvalidRules)
	}
	return nil
}

// compiledPattern is a validated pattern with its mask decoded into offsets
type compiledPattern struct {
	Pattern
	rows, cols int
	required   []domain.Cell
	excluded   []domain.Cell
}

func compilePattern(p Pattern, gridRows, gridCols int) (compiledPattern, error) {
	cp := compiledPattern{Pattern: p, rows: len(p.Mask)}

	if cp.rows == 0 || len(p.Mask[0]) == 0 {
		return cp, fmt.Errorf(ErrMsgEmptyMaskFmt, p.Name, domain.ErrInvalidRules)
	}
	if p.BaseMultiplier <= 0 {
		return cp, fmt.Errorf(ErrMsgBadBaseFmt, p.Name, p.BaseMultiplier, domain.ErrInvalidRules)
	}
	switch p.Anchor {
	case AnchorOrigin, AnchorSliding:
	case "":
		cp.Anchor = AnchorOrigin
	default:
		return cp, fmt.Errorf(ErrMsgBadAnchorFmt, p.Name, p.Anchor, domain.ErrInvalidRules)
	}

	cp.cols = len(p.Mask[0])
	for r, row := range p.Mask {
		if len(row) != cp.cols {
			return cp, fmt.Errorf(ErrMsgRaggedMaskFmt, p.Name, r, len(row), cp.cols, domain.ErrInvalidRules)
		}
		for c, marker := range []byte(row) {
			switch marker {
			case MaskRequired:
				cp.required = append(cp.required, domain.Cell{Row: r, Col: c})
			case MaskExcluded:
				cp.excluded = append(cp.excluded, domain.Cell{Row: r, Col: c})
			case MaskIgnored:
			default:
				return cp, fmt.Errorf(ErrMsgBadMaskCharFmt, p.Name, string(marker), domain.ErrInvalidRules)
			}
		}
	}

	if len(cp.required) == 0 {
		return cp, fmt.Errorf(ErrMsgNoRequiredCellsFmt, p.Name, domain.ErrInvalidRules)
	}
	if cp.rows > gridRows || cp.cols > gridCols {
		return cp, fmt.Errorf(ErrMsgMaskTooLargeFmt, p.Name, cp.rows, cp.cols, gridRows, gridCols, domain.ErrInvalidRules)
	}

	return cp, nil
}

// placements returns every top-left offset the mask is tested at
func (p compiledPattern) placements(gridRows, gridCols int) []domain.Cell {
	if p.Anchor != AnchorSliding {
		return []domain.Cell{{Row: 0, Col: 0}}
	}
	out := make([]domain.Cell, 0, (gridRows-p.rows+1)*(gridCols-p.cols+1))
	for r := 0; r+p.rows <= gridRows; r++ {
		for c := 0; c+p.cols <= gridCols; c++ {
			out = append(out, domain.Cell{Row: r, Col: c})
		}
	}
	return out
}

// matches reports whether the mask placed at origin holds symbol in every required
// cell and not in any excluded cell
func (p compiledPattern) matches(grid domain.Grid, origin domain.Cell, symbol string) bool {
	for _, off := range p.required {
		if grid.At(shift(origin, off)) != symbol {
			return false
		}
	}
	for _, off := range p.excluded {
		if grid.At(shift(origin, off)) == symbol {
			return false
		}
	}
	return true
}

// cellsAt returns the grid cells covered by the required markers at origin
func (p compiledPattern) cellsAt(origin domain.Cell) []domain.Cell {
	cells := make([]domain.Cell, len(p.required))
	for i, off := range p.required {
		cells[i] = shift(origin, off)
	}
	return cells
}

func shift(origin, off domain.Cell) domain.Cell {
	return domain.Cell{Row: origin.Row + off.Row, Col: origin.Col + off.Col}
}

// sortedCells flattens a cell set in row-major order
func sortedCells(set map[domain.Cell]struct{}) []domain.Cell {
	cells := make([]domain.Cell, 0, len(set))
	for c := range set {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}
