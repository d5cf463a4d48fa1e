package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/economy"
	"github.com/osse101/QuotaPit_Go/internal/slots"
	"github.com/osse101/QuotaPit_Go/internal/validation"
)

// rulesSchema is compiled on first use and shared by every load
var rulesSchema = sync.OnceValues(validation.NewRulesValidator)

// GameRules is the complete injectable rule set of a game
type GameRules struct {
	Slots   slots.Rules
	Economy economy.Rules
}

// DefaultGameRules returns the built-in rules
func DefaultGameRules() GameRules {
	return GameRules{
		Slots:   slots.DefaultRules(),
		Economy: economy.DefaultRules(),
	}
}

// RawRules mirrors the YAML rules file. Absent sections keep the built-in values.
type RawRules struct {
	Version  string       `yaml:"version"`
	Grid     *RawGrid     `yaml:"grid"`
	Symbols  []RawSymbol  `yaml:"symbols"`
	Patterns []RawPattern `yaml:"patterns"`
	Runs     *RawRuns     `yaml:"runs"`
	Penalty  *RawPenalty  `yaml:"penalty"`
	Economy  *RawEconomy  `yaml:"economy"`
}

// RawGrid sets the grid size
type RawGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// RawSymbol overrides draw data of one catalog symbol; identities are fixed
type RawSymbol struct {
	ID           string   `yaml:"id"`
	Glyph        string   `yaml:"glyph"`
	Weight       *int     `yaml:"weight"`
	PayoutFactor *float64 `yaml:"payout_factor"`
}

// RawPattern declares a winning shape. A non-empty pattern list replaces the built-in set.
type RawPattern struct {
	Name           string   `yaml:"name"`
	Type           string   `yaml:"type"`
	Anchor         string   `yaml:"anchor"`
	BaseMultiplier float64  `yaml:"base_multiplier"`
	Mask           []string `yaml:"mask"`
}

// RawRuns configures continuous-run scoring
type RawRuns struct {
	Enabled   *bool           `yaml:"enabled"`
	MinLength int             `yaml:"min_length"`
	Tiers     map[int]float64 `yaml:"tiers"`
}

// RawPenalty configures the random penalty event
type RawPenalty struct {
	Chance  *float64 `yaml:"chance"`
	Rate    *float64 `yaml:"rate"`
	Minimum *int     `yaml:"minimum"`
}

// RawEconomy configures the round and quota economy
type RawEconomy struct {
	StartingCoins         *int            `yaml:"starting_coins"`
	StartingQuota         *int            `yaml:"starting_quota"`
	QuotaGrowth           *float64        `yaml:"quota_growth"`
	InterestRate          *float64        `yaml:"interest_rate"`
	ActionsPerRound       *int            `yaml:"actions_per_round"`
	BankruptcyFloor       *int            `yaml:"bankruptcy_floor"`
	SettleOnFinalPurchase *bool           `yaml:"settle_on_final_purchase"`
	Offers                []economy.Offer `yaml:"offers"`
}

// LoadRules reads a rules file. A missing file yields the built-in rules.
func LoadRules(path string) (GameRules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn(LogMsgRulesFileMissing, "path", path)
			return DefaultGameRules(), nil
		}
		return GameRules{}, fmt.Errorf(ErrMsgReadRulesFmt, path, err)
	}

	rules, err := ParseRules(b)
	if err != nil {
		return GameRules{}, fmt.Errorf(ErrMsgInvalidRulesFmt, path, err)
	}

	slog.Info(LogMsgRulesLoaded,
		"path", path,
		"symbols", len(rules.Slots.Symbols),
		"patterns", len(rules.Slots.Patterns),
		"offers", len(rules.Economy.Offers))
	return rules, nil
}

// ParseRules checks the document shape, then decodes, validates and applies
// YAML rules over the built-in rules
func ParseRules(data []byte) (GameRules, error) {
	schema, err := rulesSchema()
	if err != nil {
		return GameRules{}, err
	}
	if err := schema.ValidateYAML(data); err != nil {
		if errors.Is(err, validation.ErrSchemaViolation) {
			return GameRules{}, fmt.Errorf("%w: %w: %w", ErrInvalidConfig, domain.ErrInvalidRules, err)
		}
		return GameRules{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var raw RawRules
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return GameRules{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := ValidateRules(raw); err != nil {
		return GameRules{}, err
	}

	rules := raw.apply(DefaultGameRules())

	// Compiling an engine catches anything the raw checks cannot see
	if _, err := slots.NewEngine(rules.Slots, slots.DefaultRNG()); err != nil {
		return GameRules{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := rules.Economy.Validate(); err != nil {
		return GameRules{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return rules, nil
}

// ValidateRules checks semantic constraints of a rules file and reports every violation
func ValidateRules(raw RawRules) error {
	var errs []string

	if raw.Version != "" && raw.Version != RulesSchemaVersion {
		errs = append(errs, fmt.Sprintf(ErrMsgRulesVersionFmt, RulesSchemaVersion, raw.Version))
	}

	rows, cols := slots.DefaultRows, slots.DefaultCols
	if raw.Grid != nil {
		rows, cols = raw.Grid.Rows, raw.Grid.Cols
		if rows < 1 || cols < 1 {
			errs = append(errs, "grid.rows and grid.cols must be >= 1")
		}
	}

	errs = append(errs, validateSymbols(raw.Symbols)...)
	errs = append(errs, validatePatterns(raw.Patterns, rows, cols)...)

	if r := raw.Runs; r != nil && (r.Enabled == nil || *r.Enabled) {
		if r.MinLength < 2 {
			errs = append(errs, "runs.min_length must be >= 2")
		}
		if len(r.Tiers) == 0 {
			errs = append(errs, "runs.tiers must not be empty")
		}
		for length, mult := range r.Tiers {
			if length < r.MinLength {
				errs = append(errs, fmt.Sprintf("runs.tiers[%d] is shorter than runs.min_length", length))
			}
			if mult <= 0 {
				errs = append(errs, fmt.Sprintf("runs.tiers[%d] must be > 0", length))
			}
		}
	}

	if p := raw.Penalty; p != nil {
		if p.Chance != nil && (*p.Chance < 0 || *p.Chance > 1) {
			errs = append(errs, "penalty.chance must be in [0,1]")
		}
		if p.Rate != nil && (*p.Rate < 0 || *p.Rate > 1) {
			errs = append(errs, "penalty.rate must be in [0,1]")
		}
		if p.Minimum != nil && *p.Minimum < 0 {
			errs = append(errs, "penalty.minimum must be >= 0")
		}
	}

	errs = append(errs, validateEconomy(raw.Economy)...)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, domain.ErrInvalidRules, strings.Join(errs, "; "))
	}
	return nil
}

func validateSymbols(symbols []RawSymbol) []string {
	var errs []string
	known := make(map[string]bool)
	for _, s := range slots.DefaultSymbols() {
		known[s.ID] = true
	}

	seen := make(map[string]bool)
	for i, s := range symbols {
		switch {
		case !known[s.ID]:
			errs = append(errs, fmt.Sprintf("symbols[%d].id %q is not in the symbol catalog", i, s.ID))
		case seen[s.ID]:
			errs = append(errs, fmt.Sprintf("symbols[%d].id %q is duplicated", i, s.ID))
		}
		seen[s.ID] = true

		if s.Weight != nil && *s.Weight <= 0 {
			errs = append(errs, fmt.Sprintf("symbols[%d].weight must be > 0", i))
		}
		if s.PayoutFactor != nil && *s.PayoutFactor <= 0 {
			errs = append(errs, fmt.Sprintf("symbols[%d].payout_factor must be > 0", i))
		}
	}
	return errs
}

func validatePatterns(patterns []RawPattern, rows, cols int) []string {
	var errs []string
	seen := make(map[string]bool)

	for i, p := range patterns {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("patterns[%d].name is required", i))
		} else if seen[p.Name] {
			errs = append(errs, fmt.Sprintf("patterns[%d].name %q is duplicated", i, p.Name))
		}
		seen[p.Name] = true

		if p.BaseMultiplier <= 0 {
			errs = append(errs, fmt.Sprintf("patterns[%d].base_multiplier must be > 0", i))
		}
		switch slots.Anchor(p.Anchor) {
		case "", slots.AnchorOrigin, slots.AnchorSliding:
		default:
			errs = append(errs, fmt.Sprintf("patterns[%d].anchor must be origin or sliding", i))
		}

		if len(p.Mask) == 0 {
			errs = append(errs, fmt.Sprintf("patterns[%d].mask is required", i))
			continue
		}
		width := len(p.Mask[0])
		required := 0
		for r, row := range p.Mask {
			if len(row) != width {
				errs = append(errs, fmt.Sprintf("patterns[%d].mask row %d is not %d cells wide", i, r, width))
			}
			for _, c := range row {
				switch c {
				case slots.MaskRequired:
					required++
				case slots.MaskIgnored, slots.MaskExcluded:
				default:
					errs = append(errs, fmt.Sprintf("patterns[%d].mask has invalid marker %q", i, c))
				}
			}
		}
		if required == 0 {
			errs = append(errs, fmt.Sprintf("patterns[%d].mask needs at least one X", i))
		}
		if len(p.Mask) > rows || width > cols {
			errs = append(errs, fmt.Sprintf("patterns[%d].mask does not fit a %dx%d grid", i, rows, cols))
		}
	}
	return errs
}

func validateEconomy(e *RawEconomy) []string {
	if e == nil {
		return nil
	}

	var errs []string
	if e.StartingCoins != nil && *e.StartingCoins < 0 {
		errs = append(errs, "economy.starting_coins must be >= 0")
	}
	if e.StartingQuota != nil && *e.StartingQuota < 1 {
		errs = append(errs, "economy.starting_quota must be >= 1")
	}
	if e.QuotaGrowth != nil && *e.QuotaGrowth < 1 {
		errs = append(errs, "economy.quota_growth must be >= 1")
	}
	if e.InterestRate != nil && *e.InterestRate < 0 {
		errs = append(errs, "economy.interest_rate must be >= 0")
	}
	if e.ActionsPerRound != nil && *e.ActionsPerRound < 1 {
		errs = append(errs, "economy.actions_per_round must be >= 1")
	}
	if e.BankruptcyFloor != nil && *e.BankruptcyFloor < 0 {
		errs = append(errs, "economy.bankruptcy_floor must be >= 0")
	}

	seen := make(map[string]bool)
	for i, o := range e.Offers {
		if o.ID == "" {
			errs = append(errs, fmt.Sprintf("economy.offers[%d].id is required", i))
		} else if seen[o.ID] {
			errs = append(errs, fmt.Sprintf("economy.offers[%d].id %q is duplicated", i, o.ID))
		}
		seen[o.ID] = true
		if o.Cost < 0 || o.Spins < 0 || o.Tickets < 0 {
			errs = append(errs, fmt.Sprintf("economy.offers[%d] must not have negative cost, spins or tickets", i))
		}
	}
	return errs
}

// apply overlays the file onto base
func (raw RawRules) apply(base GameRules) GameRules {
	out := base

	if raw.Grid != nil {
		out.Slots.Rows, out.Slots.Cols = raw.Grid.Rows, raw.Grid.Cols
	}

	if len(raw.Symbols) > 0 {
		symbols := out.Slots.Symbols
		for _, rs := range raw.Symbols {
			for i := range symbols {
				if symbols[i].ID != rs.ID {
					continue
				}
				if rs.Glyph != "" {
					symbols[i].Glyph = rs.Glyph
				}
				if rs.Weight != nil {
					symbols[i].Weight = *rs.Weight
				}
				if rs.PayoutFactor != nil {
					symbols[i].PayoutFactor = *rs.PayoutFactor
				}
			}
		}
	}

	if len(raw.Patterns) > 0 {
		patterns := make([]slots.Pattern, 0, len(raw.Patterns))
		for _, rp := range raw.Patterns {
			patterns = append(patterns, slots.Pattern{
				Name:           rp.Name,
				Type:           rp.Type,
				Mask:           rp.Mask,
				BaseMultiplier: rp.BaseMultiplier,
				Anchor:         slots.Anchor(rp.Anchor),
			})
		}
		out.Slots.Patterns = patterns
	}

	if r := raw.Runs; r != nil {
		if r.Enabled != nil && !*r.Enabled {
			out.Slots.Runs = nil
		} else {
			tiers := make(map[int]float64, len(r.Tiers))
			for k, v := range r.Tiers {
				tiers[k] = v
			}
			out.Slots.Runs = &slots.RunRule{MinLength: r.MinLength, Tiers: tiers}
		}
	}

	if p := raw.Penalty; p != nil {
		setFloat(&out.Slots.PenaltyChance, p.Chance)
		setFloat(&out.Slots.PenaltyRate, p.Rate)
		setInt(&out.Slots.MinPenalty, p.Minimum)
	}

	if e := raw.Economy; e != nil {
		setInt(&out.Economy.StartingCoins, e.StartingCoins)
		setInt(&out.Economy.StartingQuota, e.StartingQuota)
		setFloat(&out.Economy.QuotaGrowth, e.QuotaGrowth)
		setFloat(&out.Economy.InterestRate, e.InterestRate)
		setInt(&out.Economy.ActionsPerRound, e.ActionsPerRound)
		setInt(&out.Economy.BankruptcyFloor, e.BankruptcyFloor)
		if e.SettleOnFinalPurchase != nil {
			out.Economy.SettleOnFinalPurchase = *e.SettleOnFinalPurchase
		}
		if len(e.Offers) > 0 {
			out.Economy.Offers = append([]economy.Offer(nil), e.Offers...)
		}
	}

	return out
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
