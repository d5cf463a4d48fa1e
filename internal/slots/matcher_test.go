package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuotaPit_Go/internal/domain"
)

func TestEvaluate_NoWin(t *testing.T) {
	e := newTestEngine(t, nil)

	ev := e.Evaluate(parseGrid(noWinGrid...))

	assert.Zero(t, ev.Multiplier)
	assert.Zero(t, ev.Payout())
	assert.Empty(t, ev.Cells)
	assert.Empty(t, ev.Wins)
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		grid       []string
		multiplier float64
		wins       int
		cells      int
	}{
		{
			name: "full row of five is a single run",
			grid: []string{
				"LLLLL",
				"BRSLC",
				"SLCBR",
				"CBRSL",
			},
			multiplier: 3.0,
			wins:       1,
			cells:      5,
		},
		{
			name: "run of four",
			grid: []string{
				"CCCCS",
				"BRSLC",
				"SLCBR",
				"CBRSL",
			},
			multiplier: 2.0,
			wins:       1,
			cells:      4,
		},
		{
			name: "cross stacks with its row and column runs",
			grid: []string{
				"LSBRS",
				"SSSLC",
				"DSCBR",
				"CBRSL",
			},
			// cross 3x3 + horizontal run 1x3 + vertical run 1x3
			multiplier: 15.0,
			wins:       3,
			cells:      5,
		},
		{
			name: "every pattern and run on a uniform grid",
			grid: []string{
				"LLLLL",
				"LLLLL",
				"LLLLL",
				"LLLLL",
			},
			// shapes 46 + 12 blocks 24 + 6 crosses 18 + runs 12+10+6+6
			multiplier: 122.0,
			wins:       40,
			cells:      20,
		},
	}

	e := newTestEngine(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := e.Evaluate(parseGrid(tt.grid...))

			assert.InDelta(t, tt.multiplier, ev.Multiplier, 1e-9)
			assert.Len(t, ev.Wins, tt.wins)
			assert.Len(t, ev.Cells, tt.cells)
		})
	}
}

func TestEvaluate_WinDetails(t *testing.T) {
	e := newTestEngine(t, nil)

	ev := e.Evaluate(parseGrid(
		"LSBRS",
		"SSSLC",
		"DSCBR",
		"CBRSL",
	))
	require.Len(t, ev.Wins, 3)

	cross := ev.Wins[0]
	assert.Equal(t, SymbolSeven, cross.Symbol)
	assert.Equal(t, "cross", cross.Pattern)
	assert.Equal(t, TypeCluster, cross.Type)
	assert.InDelta(t, 9.0, cross.Multiplier, 1e-9)

	horizontal := ev.Wins[1]
	assert.Equal(t, TypeRun, horizontal.Pattern)
	assert.Equal(t, DirectionHorizontal, horizontal.Type)
	assert.Equal(t, []domain.Cell{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}}, horizontal.Cells)

	vertical := ev.Wins[2]
	assert.Equal(t, DirectionVertical, vertical.Type)
	assert.Equal(t, []domain.Cell{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}}, vertical.Cells)

	// Union is row-major and deduplicated
	assert.Equal(t, []domain.Cell{
		{Row: 0, Col: 1},
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2},
		{Row: 2, Col: 1},
	}, ev.Cells)
}

func TestEvaluate_UniformGridRuns(t *testing.T) {
	e := newTestEngine(t, nil)
	ev := e.Evaluate(parseGrid("LLLLL", "LLLLL", "LLLLL", "LLLLL"))

	perDirection := make(map[string]int)
	for _, w := range ev.Wins {
		if w.Pattern == TypeRun {
			perDirection[w.Type]++
		}
	}

	assert.Equal(t, 4, perDirection[DirectionHorizontal])
	assert.Equal(t, 5, perDirection[DirectionVertical])
	assert.Equal(t, 4, perDirection[DirectionDiagonal])
	assert.Equal(t, 4, perDirection[DirectionAntiDiagonal])
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := newTestEngine(t, NewSeededRNG(2024))

	for i := 0; i < 50; i++ {
		grid := e.GenerateGrid(DefaultRows, DefaultCols)
		assert.Equal(t, e.Evaluate(grid), e.Evaluate(grid))
	}
}

func customEngine(t *testing.T, patterns ...Pattern) *Engine {
	t.Helper()
	e, err := NewEngine(Rules{
		Rows: 1,
		Cols: 3,
		Symbols: []domain.Symbol{
			{ID: "A", Weight: 1, PayoutFactor: 1},
			{ID: "B", Weight: 1, PayoutFactor: 2},
		},
		Patterns: patterns,
	}, nil)
	require.NoError(t, err)
	return e
}

func TestEvaluate_ExcludedMarker(t *testing.T) {
	e := customEngine(t, Pattern{Name: "gap", Mask: []string{"X!X"}, BaseMultiplier: 1})

	tests := []struct {
		name       string
		grid       domain.Grid
		multiplier float64
	}{
		{"excluded cell differs", domain.Grid{{"A", "B", "A"}}, 1.0},
		{"excluded cell matches", domain.Grid{{"A", "A", "A"}}, 0},
		{"required cells differ", domain.Grid{{"A", "B", "B"}}, 0},
		{"factor applies", domain.Grid{{"B", "A", "B"}}, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := e.Evaluate(tt.grid)
			assert.InDelta(t, tt.multiplier, ev.Multiplier, 1e-9)
		})
	}
}

func TestEvaluate_AnchorModes(t *testing.T) {
	grid := domain.Grid{{"B", "A", "A"}}

	origin := customEngine(t, Pattern{Name: "pair", Mask: []string{"XX"}, BaseMultiplier: 1, Anchor: AnchorOrigin})
	assert.Zero(t, origin.Evaluate(grid).Multiplier)

	sliding := customEngine(t, Pattern{Name: "pair", Mask: []string{"XX"}, BaseMultiplier: 1, Anchor: AnchorSliding})
	ev := sliding.Evaluate(grid)
	assert.InDelta(t, 1.0, ev.Multiplier, 1e-9)
	assert.Equal(t, []domain.Cell{{Row: 0, Col: 1}, {Row: 0, Col: 2}}, ev.Cells)
}

func TestEvaluate_EmptyAnchorDefaultsToOrigin(t *testing.T) {
	e := customEngine(t, Pattern{Name: "pair", Mask: []string{"XX"}, BaseMultiplier: 1})
	assert.Zero(t, e.Evaluate(domain.Grid{{"B", "A", "A"}}).Multiplier)
	assert.InDelta(t, 1.0, e.Evaluate(domain.Grid{{"A", "A", "B"}}).Multiplier, 1e-9)
}

func TestEvaluation_PayoutRounding(t *testing.T) {
	tests := []struct {
		multiplier float64
		payout     int
	}{
		{0, 0},
		{1.4, 1},
		{1.5, 2},
		{2.5, 3},
		{122, 122},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.payout, Evaluation{Multiplier: tt.multiplier}.Payout(), "multiplier %v", tt.multiplier)
	}
}
