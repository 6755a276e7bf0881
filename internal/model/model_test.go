package model

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestTeamRosterSize(t *testing.T) {
	team := Team{PlayersBought: []string{"p1", "p2"}}
	check.Equal(t, 4, team.RosterSize())
	check.Equal(t, FixedSlots, (&Team{}).RosterSize())
	check.True(t, team.Owns("p2"))
	check.False(t, team.Owns("p3"))
}

func TestTeamCloneDoesNotAlias(t *testing.T) {
	team := Team{ID: "t1", PlayersBought: []string{"p1"}}
	c := team.Clone()
	c.PlayersBought[0] = "x"
	check.Equal(t, "p1", team.PlayersBought[0])

	empty := Team{}.Clone()
	check.True(t, empty.PlayersBought != nil)
}

func TestStartingBid(t *testing.T) {
	s := DefaultSettings()
	check.Equal(t, int64(50_000), s.StartingBid(Player{BasePrice: 50_000}))
	check.Equal(t, s.DefaultBasePrice, s.StartingBid(Player{}))
}

func TestFirstUnsold(t *testing.T) {
	r := Roster{Players: []Player{{ID: "a", IsSold: true}, {ID: "b"}, {ID: "c"}}}
	p, ok := r.FirstUnsold()
	check.True(t, ok)
	check.Equal(t, "b", p.ID)

	r.Players[1].IsSold = true
	r.Players[2].IsSold = true
	_, ok = r.FirstUnsold()
	check.False(t, ok)
}

func TestDemoRosterIsValid(t *testing.T) {
	demo := DemoRoster()
	check.NoError(t, demo.Validate())
	check.Equal(t, 3, len(demo.Teams))
	check.Equal(t, 6, len(demo.Players))
	for _, team := range demo.Teams {
		check.Equal(t, demo.Settings.TotalPurse, team.PurseRemaining)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		valid  bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"zero squad", func(s *Settings) { s.MaxPlayersPerTeam = 0 }, false},
		{"negative purse", func(s *Settings) { s.TotalPurse = -1 }, false},
		{"negative base price", func(s *Settings) { s.DefaultBasePrice = -1 }, false},
		{"zero increment", func(s *Settings) { s.BidIncrement2 = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			check.Equal(t, tt.valid, err == nil)
			if err != nil {
				check.True(t, errors.Is(err, ErrInvalidSettings))
			}
		})
	}
}

func TestRosterValidate(t *testing.T) {
	sold := func() Roster {
		r := DemoRoster()
		r.Players[0].MarkSold("t_demo_1", 50_000)
		r.Teams[0].PlayersBought = []string{"p_d1"}
		r.Teams[0].PurseRemaining -= 50_000
		return r
	}

	tests := []struct {
		name   string
		modify func(*Roster)
		valid  bool
	}{
		{"consistent sale", func(*Roster) {}, true},
		{"duplicate team", func(r *Roster) { r.Teams[1].ID = r.Teams[0].ID }, false},
		{"duplicate player", func(r *Roster) { r.Players[2].ID = r.Players[1].ID }, false},
		{"negative purse", func(r *Roster) { r.Teams[2].PurseRemaining = -1 }, false},
		{"bought but unsold", func(r *Roster) { r.Players[0].MarkUnsold() }, false},
		{"sold but not listed", func(r *Roster) { r.Teams[0].PlayersBought = []string{} }, false},
		{"sold to unknown team", func(r *Roster) { r.Players[0].SoldToTeamID = "ghost" }, false},
		{"unsold with price", func(r *Roster) { r.Players[3].SoldPrice = 10 }, false},
		{"bad settings", func(r *Roster) { r.Settings.BidIncrement1 = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sold()
			tt.modify(&r)
			check.Equal(t, tt.valid, r.Validate() == nil)
		})
	}
}
