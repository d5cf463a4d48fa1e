package economy

import (
	"fmt"

	"github.com/osse101/QuotaPit_Go/internal/domain"
)

// Offer is a purchasable spin bundle
type Offer struct {
	ID      string `json:"id" yaml:"id"`
	Cost    int    `json:"cost" yaml:"cost"`
	Spins   int    `json:"spins" yaml:"spins"`
	Tickets int    `json:"tickets" yaml:"tickets"`
}

// Rules is the injectable rule table of the economy
type Rules struct {
	StartingCoins   int
	StartingQuota   int
	QuotaGrowth     float64
	InterestRate    float64
	ActionsPerRound int
	BankruptcyFloor int

	// SettleOnFinalPurchase settles the round as soon as the last round action is bought,
	// before its spins are played. When false, settlement waits until the spins are exhausted.
	SettleOnFinalPurchase bool

	Offers []Offer
}

// DefaultRules returns the standard economy
func DefaultRules() Rules {
	return Rules{
		StartingCoins:         DefaultStartingCoins,
		StartingQuota:         DefaultStartingQuota,
		QuotaGrowth:           DefaultQuotaGrowth,
		InterestRate:          DefaultInterestRate,
		ActionsPerRound:       DefaultActionsPerRound,
		BankruptcyFloor:       DefaultBankruptcyFloor,
		SettleOnFinalPurchase: true,
		Offers:                DefaultOffers(),
	}
}

// DefaultOffers returns the standard spin bundles, cheapest first
func DefaultOffers() []Offer {
	return []Offer{
		{ID: OfferSingle, Cost: 3, Spins: 1, Tickets: 0},
		{ID: OfferTriple, Cost: 7, Spins: 3, Tickets: 1},
		{ID: OfferMarathon, Cost: 15, Spins: 7, Tickets: 2},
	}
}

// Offer looks up an offer by ID
func (r Rules) Offer(id string) (Offer, bool) {
	for _, o := range r.Offers {
		if o.ID == id {
			return o, true
		}
	}
	return Offer{}, false
}

// Validate checks every rule value and returns the first violation
func (r Rules) Validate() error {
	if r.StartingCoins < 0 {
		return fmt.Errorf(ErrMsgBadStartingCoinsFmt, r.StartingCoins, domain.ErrInvalidRules)
	}
	if r.StartingQuota < 1 {
		return fmt.Errorf(ErrMsgBadStartingQuotaFmt, r.StartingQuota, domain.ErrInvalidRules)
	}
	if r.QuotaGrowth < 1 {
		return fmt.Errorf(ErrMsgBadQuotaGrowthFmt, r.QuotaGrowth, domain.ErrInvalidRules)
	}
	if r.InterestRate < 0 {
		return fmt.Errorf(ErrMsgBadInterestRateFmt, r.InterestRate, domain.ErrInvalidRules)
	}
	if r.ActionsPerRound < 1 {
		return fmt.Errorf(ErrMsgBadActionsFmt, r.ActionsPerRound, domain.ErrInvalidRules)
	}
	if r.BankruptcyFloor < 0 {
		return fmt.Errorf(ErrMsgBadBankruptcyFmt, r.BankruptcyFloor, domain.ErrInvalidRules)
	}

	seen := make(map[string]bool, len(r.Offers))
	for i, o := range r.Offers {
		if o.ID == "" {
			return fmt.Errorf(ErrMsgEmptyOfferIDFmt, i, domain.ErrInvalidRules)
		}
		if seen[o.ID] {
			return fmt.Errorf(ErrMsgDuplicateOfferFmt, o.ID, domain.ErrInvalidRules)
		}
		if o.Cost < 0 || o.Spins < 0 || o.Tickets < 0 {
			return fmt.Errorf(ErrMsgBadOfferFmt, o.ID, domain.ErrInvalidRules)
		}
		seen[o.ID] = true
	}
	return nil
}
