package domain

// Symbol is one entry of the slot catalog
type Symbol struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Glyph        string  `json:"glyph"`
	Weight       int     `json:"weight"`        // Relative draw weight
	PayoutFactor float64 `json:"payout_factor"` // Scales every pattern multiplier won with this symbol
}

// Cell addresses one position of a grid
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is a row-major matrix of symbol IDs
type Grid [][]string

// Rows returns the number of rows
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns (0 for an empty grid)
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the symbol at c, or "" when c lies outside the grid
func (g Grid) At(c Cell) string {
	if c.Row < 0 || c.Row >= len(g) || c.Col < 0 || c.Col >= len(g[c.Row]) {
		return ""
	}
	return g[c.Row][c.Col]
}

// PatternWin records one matched pattern (or run) for one symbol
type PatternWin struct {
	Symbol     string  `json:"symbol"`
	Pattern    string  `json:"pattern"`
	Type       string  `json:"type"`
	Multiplier float64 `json:"multiplier"` // BaseMultiplier x PayoutFactor, never rounded
	Cells      []Cell  `json:"cells"`
}

// SpinOutcome is the result of resolving a single spin
type SpinOutcome struct {
	Grid         Grid         `json:"grid"`
	Multiplier   float64      `json:"multiplier"`    // Sum of all win multipliers
	Gain         int          `json:"gain"`          // round(Multiplier)
	Loss         int          `json:"loss"`          // Coins lost to the penalty event
	Penalty      bool         `json:"penalty"`       // Whether the penalty event fired
	WinningCells []Cell       `json:"winning_cells"` // Union of all matched cells, sorted
	Wins         []PatternWin `json:"wins"`
	Summary      string       `json:"summary"`
}

// Net returns the coin delta of the spin
func (o SpinOutcome) Net() int {
	return o.Gain - o.Loss
}
