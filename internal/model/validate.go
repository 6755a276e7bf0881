package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSettings = errors.New("model: invalid settings")
	ErrInvalidRoster   = errors.New("model: invalid roster")
)

// Validate checks the settings are usable for bidding.
func (s Settings) Validate() error {
	switch {
	case s.MaxPlayersPerTeam <= 0:
		return fmt.Errorf("%w: max players per team must be positive", ErrInvalidSettings)
	case s.TotalPurse < 0:
		return fmt.Errorf("%w: total purse must not be negative", ErrInvalidSettings)
	case s.DefaultBasePrice < 0:
		return fmt.Errorf("%w: default base price must not be negative", ErrInvalidSettings)
	case s.BidIncrement1 <= 0 || s.BidIncrement2 <= 0 || s.BidIncrement3 <= 0:
		return fmt.Errorf("%w: bid increments must be positive", ErrInvalidSettings)
	}
	return nil
}

// Validate checks the roster invariants: unique ids, non-negative purses
// and prices, and that every bought player is sold to the team holding it
// and vice versa.
func (r Roster) Validate() error {
	if err := r.Settings.Validate(); err != nil {
		return err
	}

	teams := make(map[string]*Team, len(r.Teams))
	for i := range r.Teams {
		t := &r.Teams[i]
		if t.ID == "" {
			return fmt.Errorf("%w: team without id", ErrInvalidRoster)
		}
		if _, dup := teams[t.ID]; dup {
			return fmt.Errorf("%w: duplicate team %s", ErrInvalidRoster, t.ID)
		}
		if t.PurseRemaining < 0 {
			return fmt.Errorf("%w: team %s has a negative purse", ErrInvalidRoster, t.ID)
		}
		teams[t.ID] = t
	}

	players := make(map[string]*Player, len(r.Players))
	for i := range r.Players {
		p := &r.Players[i]
		if p.ID == "" {
			return fmt.Errorf("%w: player without id", ErrInvalidRoster)
		}
		if _, dup := players[p.ID]; dup {
			return fmt.Errorf("%w: duplicate player %s", ErrInvalidRoster, p.ID)
		}
		if p.BasePrice < 0 || p.SoldPrice < 0 {
			return fmt.Errorf("%w: player %s has a negative price", ErrInvalidRoster, p.ID)
		}
		players[p.ID] = p

		if !p.IsSold {
			if p.SoldToTeamID != "" || p.SoldPrice != 0 {
				return fmt.Errorf("%w: unsold player %s carries sale details", ErrInvalidRoster, p.ID)
			}
			continue
		}
		owner, ok := teams[p.SoldToTeamID]
		if !ok {
			return fmt.Errorf("%w: player %s sold to unknown team %q", ErrInvalidRoster, p.ID, p.SoldToTeamID)
		}
		if !owner.Owns(p.ID) {
			return fmt.Errorf("%w: player %s missing from team %s", ErrInvalidRoster, p.ID, owner.ID)
		}
	}

	for _, t := range r.Teams {
		for _, id := range t.PlayersBought {
			p, ok := players[id]
			if !ok || !p.IsSold || p.SoldToTeamID != t.ID {
				return fmt.Errorf("%w: team %s lists %s which it did not buy", ErrInvalidRoster, t.ID, id)
			}
		}
	}
	return nil
}
