package slots

import (
	"github.com/osse101/QuotaPit_Go/internal/domain"
)

// Evaluation is the result of matching a grid against the rule set
type Evaluation struct {
	Multiplier float64             // Sum of every win, unrounded
	Cells      []domain.Cell       // Union of winning cells, row-major
	Wins       []domain.PatternWin // One entry per match, in evaluation order
}

// Payout returns the rounded coin payout
func (ev Evaluation) Payout() int {
	return roundPayout(ev.Multiplier)
}

type direction struct {
	name   string
	dr, dc int
}

var runDirections = []direction{
	{DirectionHorizontal, 0, 1},
	{DirectionVertical, 1, 0},
	{DirectionDiagonal, 1, 1},
	{DirectionAntiDiagonal, 1, -1},
}

// Evaluate scores a grid. Every symbol is tested against every pattern independently,
// so wins stack and cells are never consumed. Maximal runs are scored afterwards.
func (e *Engine) Evaluate(grid domain.Grid) Evaluation {
	var ev Evaluation
	cellSet := make(map[domain.Cell]struct{})
	rows, cols := grid.Rows(), grid.Cols()

	for _, sym := range e.table.symbols {
		for _, p := range e.patterns {
			if p.rows > rows || p.cols > cols {
				continue
			}
			for _, origin := range p.placements(rows, cols) {
				if !p.matches(grid, origin, sym.ID) {
					continue
				}
				cells := p.cellsAt(origin)
				mult := p.BaseMultiplier * sym.PayoutFactor
				ev.Multiplier += mult
				for _, c := range cells {
					cellSet[c] = struct{}{}
				}
				ev.Wins = append(ev.Wins, domain.PatternWin{
					Symbol:     sym.ID,
					Pattern:    p.Name,
					Type:       p.Type,
					Multiplier: mult,
					Cells:      cells,
				})
			}
		}
	}

	if e.runs != nil {
		e.scoreRuns(grid, &ev, cellSet)
	}

	ev.Cells = sortedCells(cellSet)
	return ev
}

// scoreRuns scores each maximal run once: a run is only walked from its first cell,
// the cell whose predecessor in that direction is off-grid or a different symbol.
func (e *Engine) scoreRuns(grid domain.Grid, ev *Evaluation, cellSet map[domain.Cell]struct{}) {
	rows, cols := grid.Rows(), grid.Cols()

	for _, d := range runDirections {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				start := domain.Cell{Row: r, Col: c}
				id := grid.At(start)
				sym, ok := e.table.Lookup(id)
				if !ok {
					continue
				}
				if grid.At(domain.Cell{Row: r - d.dr, Col: c - d.dc}) == id {
					continue
				}

				cells := []domain.Cell{start}
				next := domain.Cell{Row: r + d.dr, Col: c + d.dc}
				for grid.At(next) == id {
					cells = append(cells, next)
					next = domain.Cell{Row: next.Row + d.dr, Col: next.Col + d.dc}
				}

				base := e.runs.Multiplier(len(cells))
				if base == 0 {
					continue
				}
				mult := base * sym.PayoutFactor
				ev.Multiplier += mult
				for _, cell := range cells {
					cellSet[cell] = struct{}{}
				}
				ev.Wins = append(ev.Wins, domain.PatternWin{
					Symbol:     sym.ID,
					Pattern:    TypeRun,
					Type:       d.name,
					Multiplier: mult,
					Cells:      cells,
				})
			}
		}
	}
}
