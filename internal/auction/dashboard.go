package auction

import (
	"github.com/shopspring/decimal"

	"github.com/auctiondesk/auction-engine/internal/allocation"
	"github.com/auctiondesk/auction-engine/internal/model"
)

var (
	hundred     = decimal.NewFromInt(100)
	lakh        = decimal.NewFromInt(100_000)
	thousand    = decimal.NewFromInt(1_000)
	lowPurseCut = decimal.NewFromFloat(0.2)
)

// BuildDashboard computes the auction-wide statistics for r.
func BuildDashboard(r model.Roster) model.Dashboard {
	d := model.Dashboard{
		TotalPurse:   int64(len(r.Teams)) * r.Settings.TotalPurse,
		PlayersTotal: len(r.Players),
		Teams:        make([]model.TeamStanding, 0, len(r.Teams)),
	}

	total := decimal.NewFromInt(r.Settings.TotalPurse)
	for _, t := range r.Teams {
		d.PurseRemaining += t.PurseRemaining

		spent := r.Settings.TotalPurse - t.PurseRemaining
		pct := decimal.Zero
		if total.IsPositive() {
			pct = decimal.NewFromInt(spent).Div(total).Mul(hundred).Round(2)
		}
		maxBid := allocation.MaxBid(t, r.Settings)

		d.Teams = append(d.Teams, model.TeamStanding{
			TeamID:          t.ID,
			Name:            t.Name,
			PurseRemaining:  t.PurseRemaining,
			PurseLabel:      Compact(t.PurseRemaining),
			Spent:           spent,
			SpendPercentage: pct,
			LowPurse:        decimal.NewFromInt(t.PurseRemaining).LessThan(total.Mul(lowPurseCut)),
			RosterSize:      t.RosterSize(),
			MaxBid:          maxBid,
			MaxBidLabel:     Compact(maxBid),
		})
	}
	d.MoneySpent = d.TotalPurse - d.PurseRemaining

	for _, p := range r.Players {
		if p.IsSold {
			d.PlayersSold++
		}
	}
	d.PlayersUnsold = d.PlayersTotal - d.PlayersSold
	return d
}

// Compact renders an amount the way the auction floor reads it: lakhs with
// two decimals from one lakh up, whole thousands below.
//
//	820000 → "8.20L", 30000 → "30k"
func Compact(amount int64) string {
	a := decimal.NewFromInt(amount)
	if amount >= 100_000 {
		return a.Div(lakh).StringFixed(2) + "L"
	}
	return a.Div(thousand).StringFixed(0) + "k"
}
