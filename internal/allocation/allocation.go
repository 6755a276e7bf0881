// Package allocation implements the purse rules that govern what a team may
// bid: the reserve a team must keep back for its unfilled roster places, the
// validator every bid passes through, and the tiered increment schedule.
//
// The reserve assumes every remaining place can be filled at the settings'
// default base price. Players with a higher floor are not looked at, so the
// reserve can understate a team's real future exposure.
package allocation

import (
	"errors"

	"github.com/auctiondesk/auction-engine/internal/model"
)

// Increment tier boundaries. A bid exactly on a boundary uses the higher tier.
const (
	TierTwoFrom   int64 = 200_000
	TierThreeFrom int64 = 500_000
)

// Reason is why a bid was denied.
type Reason string

const (
	ReasonSquadFull        Reason = "Squad Full"
	ReasonNoFunds          Reason = "No Funds"
	ReasonExceedsSafeLimit Reason = "Exceeds Safe Limit"
)

var (
	// ErrSquadFull is returned when the team has no roster place left.
	ErrSquadFull = errors.New("allocation: squad full")

	// ErrNoFunds is returned when the bid is larger than the purse.
	ErrNoFunds = errors.New("allocation: no funds")

	// ErrExceedsSafeLimit is returned when paying the bid would leave too
	// little to fill the remaining places at the default base price.
	ErrExceedsSafeLimit = errors.New("allocation: exceeds safe limit")
)

// Verdict is the validator's answer. Reason is empty when Allowed.
type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

// Err maps a denial to its sentinel error; nil when allowed.
func (v Verdict) Err() error {
	if v.Allowed {
		return nil
	}
	switch v.Reason {
	case ReasonSquadFull:
		return ErrSquadFull
	case ReasonNoFunds:
		return ErrNoFunds
	default:
		return ErrExceedsSafeLimit
	}
}

func deny(r Reason) Verdict { return Verdict{Reason: r} }

// openSlots is the number of roster places still to be bought, including the
// one currently contested. Zero or less means the squad is full.
func openSlots(team *model.Team, s model.Settings) int {
	return s.MaxPlayersPerTeam - team.RosterSize()
}

// MaxBid returns the most the team can commit to the current player while
// keeping enough back to fill every other open place at the default base
// price. A full squad yields 0.
func MaxBid(team model.Team, s model.Settings) int64 {
	open := openSlots(&team, s)
	if open <= 0 {
		return 0
	}
	reserve := int64(open-1) * s.DefaultBasePrice
	return max(0, team.PurseRemaining-reserve)
}

// CanBid decides whether team may bid amount. The first failing check wins:
// squad full, then insufficient purse, then the safe limit.
func CanBid(team model.Team, amount int64, s model.Settings) Verdict {
	open := openSlots(&team, s)
	if open <= 0 {
		return deny(ReasonSquadFull)
	}

	if amount > team.PurseRemaining {
		return deny(ReasonNoFunds)
	}

	// Places left to fill once this bid wins.
	if after := open - 1; after > 0 {
		needed := int64(after) * s.DefaultBasePrice
		if team.PurseRemaining-amount < needed {
			return deny(ReasonExceedsSafeLimit)
		}
	}

	return Verdict{Allowed: true}
}

// NextBid returns the minimum legal raise over current.
func NextBid(current int64, s model.Settings) int64 {
	switch {
	case current < TierTwoFrom:
		return current + s.BidIncrement1
	case current < TierThreeFrom:
		return current + s.BidIncrement2
	default:
		return current + s.BidIncrement3
	}
}
