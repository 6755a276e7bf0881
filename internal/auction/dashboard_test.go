package auction

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/auctiondesk/auction-engine/internal/model"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0k"},
		{20_000, "20k"},
		{30_000, "30k"},
		{100_000, "1.00L"},
		{820_000, "8.20L"},
		{1_000_000, "10.00L"},
	}
	for _, tt := range tests {
		check.Equal(t, tt.want, Compact(tt.in))
	}
}

func TestBuildDashboard(t *testing.T) {
	r := model.DemoRoster()
	r.Teams[0].PurseRemaining = 150_000
	r.Teams[0].PlayersBought = []string{"p_d1"}
	r.Players[0].MarkSold("t_demo_1", 850_000)

	d := BuildDashboard(r)

	check.Equal(t, int64(3_000_000), d.TotalPurse)
	check.Equal(t, int64(2_150_000), d.PurseRemaining)
	check.Equal(t, int64(850_000), d.MoneySpent)
	check.Equal(t, 6, d.PlayersTotal)
	check.Equal(t, 1, d.PlayersSold)
	check.Equal(t, 5, d.PlayersUnsold)

	titans := d.Teams[0]
	check.True(t, titans.SpendPercentage.Equal(decimal.NewFromInt(85)))
	check.True(t, titans.LowPurse)
	check.Equal(t, 3, titans.RosterSize)
	check.Equal(t, "1.50L", titans.PurseLabel)
	// Six open places: 1.5L less a 5 × 30k reserve.
	check.Equal(t, int64(0), titans.MaxBid)

	warriors := d.Teams[1]
	check.True(t, warriors.SpendPercentage.IsZero())
	check.False(t, warriors.LowPurse)
	check.Equal(t, int64(820_000), warriors.MaxBid)
	check.Equal(t, "8.20L", warriors.MaxBidLabel)
}

func TestBuildDashboard_ZeroPurse(t *testing.T) {
	r := model.DemoRoster()
	r.Settings.TotalPurse = 0
	for i := range r.Teams {
		r.Teams[i].PurseRemaining = 0
	}

	d := BuildDashboard(r)
	for _, team := range d.Teams {
		check.True(t, team.SpendPercentage.IsZero())
		check.False(t, team.LowPurse)
	}
}
