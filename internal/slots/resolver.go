package slots

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/utils"
)

// ResolveSpin generates one grid, evaluates it and rolls the penalty event.
// coins is the balance the spin is played from; it only sizes the penalty.
func (e *Engine) ResolveSpin(coins int) domain.SpinOutcome {
	grid := e.GenerateGrid(e.rules.Rows, e.rules.Cols)
	ev := e.Evaluate(grid)

	outcome := domain.SpinOutcome{
		Grid:         grid,
		Multiplier:   ev.Multiplier,
		Gain:         ev.Payout(),
		WinningCells: ev.Cells,
		Wins:         ev.Wins,
	}

	if e.rng.Float64() < e.rules.PenaltyChance {
		outcome.Penalty = true
		outcome.Loss = e.penaltyLoss(coins)
	}

	outcome.Summary = formatSummary(outcome)
	return outcome
}

// penaltyLoss is max(MinPenalty, round(rate x coins)). The balance is clamped
// at zero when the outcome is applied, not here.
func (e *Engine) penaltyLoss(coins int) int {
	return utils.ClampMin(utils.RoundToInt(float64(coins)*e.rules.PenaltyRate), e.rules.MinPenalty)
}

func roundPayout(multiplier float64) int {
	return utils.RoundToInt(multiplier)
}

// formatSummary creates a human-readable line for the renderer
func formatSummary(o domain.SpinOutcome) string {
	var b strings.Builder

	if len(o.Wins) == 0 {
		b.WriteString(SummaryNoWin)
	} else {
		caser := cases.Title(language.English)
		parts := make([]string, 0, len(o.Wins))
		for _, w := range o.Wins {
			parts = append(parts, describeWin(caser, w))
		}
		multiplier := strconv.FormatFloat(o.Multiplier, 'f', -1, 64)
		fmt.Fprintf(&b, SummaryWinFmt, o.Gain, multiplier, strings.Join(parts, ", "))
	}

	if o.Penalty {
		fmt.Fprintf(&b, SummaryPenaltyFmt, o.Loss)
	}
	return b.String()
}

func describeWin(caser cases.Caser, w domain.PatternWin) string {
	if w.Pattern == TypeRun {
		direction := strings.ReplaceAll(w.Type, "_", "-")
		return fmt.Sprintf("%s run of %d %s", caser.String(direction), len(w.Cells), w.Symbol)
	}
	return fmt.Sprintf("%s of %s", caser.String(w.Pattern), w.Symbol)
}
