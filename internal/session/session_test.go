package session

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/auctiondesk/auction-engine/internal/allocation"
	"github.com/auctiondesk/auction-engine/internal/model"
)

func testRoster() model.Roster {
	return model.Roster{
		Teams: []model.Team{
			{ID: "t1", Name: "Titans", PurseRemaining: 1_000_000, PlayersBought: []string{}},
			{ID: "t2", Name: "Warriors", PurseRemaining: 1_000_000, PlayersBought: []string{}},
		},
		Players: []model.Player{
			{ID: "p1", Name: "John", BasePrice: 50_000},
			{ID: "p2", Name: "Jane"},
			{ID: "p3", Name: "Robert", BasePrice: 40_000},
		},
		Settings: model.DefaultSettings(),
	}
}

func TestStart(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)

	check.Equal(t, "p1", st.CurrentPlayerID)
	check.Equal(t, int64(50_000), st.CurrentBid)
	check.Equal(t, "", st.LeadingTeamID)
	check.Equal(t, PhaseAwaitingBid, st.Phase())
	check.False(t, st.CanUndo())
	check.Equal(t, int64(50_000), st.RequiredBid(r.Settings))
}

func TestStart_DefaultBasePrice(t *testing.T) {
	r := testRoster()
	r.Players = r.Players[1:]
	st := Start(r, nil)

	check.Equal(t, "p2", st.CurrentPlayerID)
	check.Equal(t, r.Settings.DefaultBasePrice, st.CurrentBid)
}

func TestStart_Complete(t *testing.T) {
	r := testRoster()
	for i := range r.Players {
		r.Players[i].MarkSold("t1", 30_000)
	}
	st := Start(r, nil)

	check.Equal(t, PhaseComplete, st.Phase())
	check.Equal(t, "", st.CurrentPlayerID)
}

func TestPlaceBid(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)

	st, v, err := PlaceBid(st, r, "t1", 50_000)
	assert.NoError(t, err)
	check.True(t, v.Allowed)
	check.Equal(t, PhaseHasLeader, st.Phase())
	check.Equal(t, "t1", st.LeadingTeamID)
	check.Equal(t, int64(60_000), st.RequiredBid(r.Settings))

	st, v, err = PlaceBid(st, r, "t2", 60_000)
	assert.NoError(t, err)
	check.True(t, v.Allowed)
	check.Equal(t, "t2", st.LeadingTeamID)
	check.Equal(t, int64(60_000), st.CurrentBid)
}

func TestPlaceBid_DeniedLeavesStateUnchanged(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)
	st, _, _ = PlaceBid(st, r, "t1", 50_000)

	next, v, err := PlaceBid(st, r, "t2", 820_001)
	assert.NoError(t, err)
	check.False(t, v.Allowed)
	check.Equal(t, allocation.ReasonExceedsSafeLimit, v.Reason)
	check.Equal(t, st, next)
}

func TestPlaceBid_SquadFull(t *testing.T) {
	r := testRoster()
	r.Teams[0].PlayersBought = []string{"a", "b", "c", "d", "e", "f", "g"}
	st := Start(r, nil)

	_, v, err := PlaceBid(st, r, "t1", 50_000)
	assert.NoError(t, err)
	check.Equal(t, allocation.ReasonSquadFull, v.Reason)
}

func TestPlaceBid_Errors(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)

	_, _, err := PlaceBid(st, r, "nope", 50_000)
	check.True(t, errors.Is(err, ErrTeamNotFound))

	_, _, err = PlaceBid(State{}, r, "t1", 50_000)
	check.True(t, errors.Is(err, ErrNoCurrentPlayer))
}

func TestConfirmSale(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)
	st, _, _ = PlaceBid(st, r, "t1", 70_000)

	next, out, sale, err := ConfirmSale(st, r)
	assert.NoError(t, err)

	check.Equal(t, "p1", sale.PlayerID)
	check.Equal(t, "t1", sale.TeamID)
	check.Equal(t, int64(70_000), sale.Price)
	check.NotEqual(t, "", sale.ID)

	check.True(t, out.Players[0].IsSold)
	check.Equal(t, "t1", out.Players[0].SoldToTeamID)
	check.Equal(t, int64(70_000), out.Players[0].SoldPrice)
	check.Equal(t, int64(930_000), out.Teams[0].PurseRemaining)
	check.Equal(t, []string{"p1"}, out.Teams[0].PlayersBought)

	check.Equal(t, "p2", next.CurrentPlayerID)
	check.Equal(t, PhaseAwaitingBid, next.Phase())
	check.Equal(t, []model.SaleRecord{sale}, next.History)

	// Inputs are untouched.
	check.False(t, r.Players[0].IsSold)
	check.Equal(t, int64(1_000_000), r.Teams[0].PurseRemaining)
	check.Equal(t, 0, len(st.History))
}

func TestConfirmSale_RequiresLeader(t *testing.T) {
	r := testRoster()
	_, _, _, err := ConfirmSale(Start(r, nil), r)
	check.True(t, errors.Is(err, ErrNoLeader))
}

func TestConfirmSale_RechecksPurse(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)
	st, _, _ = PlaceBid(st, r, "t1", 500_000)
	r.Teams[0].PurseRemaining = 100_000

	_, out, _, err := ConfirmSale(st, r)
	check.True(t, errors.Is(err, allocation.ErrNoFunds))
	check.False(t, out.Players[0].IsSold)
}

func TestConfirmSale_LastPlayerCompletes(t *testing.T) {
	r := testRoster()
	r.Players = r.Players[:1]
	st := Start(r, nil)
	st, _, _ = PlaceBid(st, r, "t2", 50_000)

	next, _, _, err := ConfirmSale(st, r)
	assert.NoError(t, err)
	check.Equal(t, PhaseComplete, next.Phase())
}

func TestSaleUndoRoundTrip(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)
	st, _, _ = PlaceBid(st, r, "t1", 50_000)
	st, sold, _, err := ConfirmSale(st, r)
	assert.NoError(t, err)

	st, restored, sale, ok := UndoLastSale(st, sold)
	assert.True(t, ok)
	check.Equal(t, "p1", sale.PlayerID)

	check.Equal(t, r.Teams, restored.Teams)
	check.Equal(t, r.Players, restored.Players)
	check.False(t, st.CanUndo())
	check.Equal(t, "p1", st.CurrentPlayerID)
	check.Equal(t, PhaseAwaitingBid, st.Phase())
}

func TestUndo_IsLIFO(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)

	st, _, _ = PlaceBid(st, r, "t1", 50_000)
	st, r, _, _ = ConfirmSale(st, r)
	st, _, _ = PlaceBid(st, r, "t2", 30_000)
	st, r, _, _ = ConfirmSale(st, r)
	check.Equal(t, 2, len(st.History))

	st, r, sale, ok := UndoLastSale(st, r)
	assert.True(t, ok)
	check.Equal(t, "p2", sale.PlayerID)
	check.True(t, r.Players[0].IsSold)
	check.False(t, r.Players[1].IsSold)
	check.Equal(t, int64(1_000_000), r.Teams[1].PurseRemaining)
	check.Equal(t, "p2", st.CurrentPlayerID)

	st, r, sale, ok = UndoLastSale(st, r)
	assert.True(t, ok)
	check.Equal(t, "p1", sale.PlayerID)
	check.Equal(t, "p1", st.CurrentPlayerID)

	_, _, _, ok = UndoLastSale(st, r)
	check.False(t, ok)
}

func TestSkip(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)
	st, _, _ = PlaceBid(st, r, "t1", 50_000)

	next, out, err := Skip(st, r)
	assert.NoError(t, err)

	ids := []string{out.Players[0].ID, out.Players[1].ID, out.Players[2].ID}
	check.Equal(t, []string{"p2", "p3", "p1"}, ids)
	check.Equal(t, "p2", next.CurrentPlayerID)
	check.Equal(t, PhaseAwaitingBid, next.Phase())
	check.Equal(t, r.Teams, out.Teams)
	check.Equal(t, "p1", r.Players[0].ID)
}

func TestSkip_Complete(t *testing.T) {
	r := testRoster()
	r.Players = nil
	_, _, err := Skip(Start(r, nil), r)
	check.True(t, errors.Is(err, ErrNoCurrentPlayer))
}

func TestReset(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)
	st, _, _ = PlaceBid(st, r, "t1", 50_000)
	st, r, _, _ = ConfirmSale(st, r)
	r.Settings.TotalPurse = 2_000_000

	next, out := Reset(r)

	check.False(t, next.CanUndo())
	check.Equal(t, "p1", next.CurrentPlayerID)
	for _, p := range out.Players {
		check.False(t, p.IsSold)
		check.Equal(t, "", p.SoldToTeamID)
	}
	for _, team := range out.Teams {
		check.Equal(t, 0, len(team.PlayersBought))
		check.Equal(t, int64(2_000_000), team.PurseRemaining)
	}
}

func TestSync(t *testing.T) {
	r := testRoster()
	st := Start(r, nil)
	st, _, _ = PlaceBid(st, r, "t1", 50_000)

	check.Equal(t, st, Sync(st, r))

	r.Players[0].MarkSold("t2", 50_000)
	synced := Sync(st, r)
	check.Equal(t, "p2", synced.CurrentPlayerID)
	check.Equal(t, "", synced.LeadingTeamID)
}

func TestPrompts(t *testing.T) {
	r := testRoster()
	p := SalePrompt(r.Players[0], r.Teams[0], 1_234_567)
	check.Equal(t, "Sell John to Titans for ₹12,34,567?", p.Message)

	check.True(t, p.Ask(ConfirmFunc(func(string, string) bool { return true })))
	check.False(t, p.Ask(ConfirmFunc(func(string, string) bool { return false })))
	check.False(t, p.Ask(nil))
}

func TestRupees(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1,000"},
		{30_000, "30,000"},
		{820_000, "8,20,000"},
		{10_000_000, "1,00,00,000"},
		{-50_000, "-50,000"},
	}
	for _, tt := range tests {
		check.Equal(t, tt.want, Rupees(tt.in))
	}
}
