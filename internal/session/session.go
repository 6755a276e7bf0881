// Package session drives one live auction: which player is on the block,
// the standing bid, the leading team, and the sold/undo/skip/reset
// transitions over a roster.
//
// Every transition is a pure function: it takes the current State and a
// Roster snapshot and returns new values without touching its inputs. The
// caller persists the returned roster and keeps the returned State.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/auctiondesk/auction-engine/internal/allocation"
	"github.com/auctiondesk/auction-engine/internal/model"
)

var (
	ErrNoCurrentPlayer = errors.New("session: no player up for auction")
	ErrNoLeader        = errors.New("session: no team is leading")
	ErrTeamNotFound    = errors.New("session: team not found")
	ErrPlayerNotFound  = errors.New("session: player not found")
)

// Phase is where the session stands for the current player.
type Phase string

const (
	PhaseAwaitingBid Phase = "awaiting_bid"
	PhaseHasLeader   Phase = "has_leader"
	PhaseComplete    Phase = "complete"
)

// State is the serializable session state. History is the undo stack,
// most recent sale last.
type State struct {
	CurrentPlayerID string             `json:"current_player_id,omitempty"`
	CurrentBid      int64              `json:"current_bid"`
	LeadingTeamID   string             `json:"leading_team_id,omitempty"`
	History         []model.SaleRecord `json:"history"`
}

// Phase derives the session phase from the state.
func (s State) Phase() Phase {
	switch {
	case s.CurrentPlayerID == "":
		return PhaseComplete
	case s.LeadingTeamID == "":
		return PhaseAwaitingBid
	default:
		return PhaseHasLeader
	}
}

// CanUndo reports whether there is a sale to undo.
func (s State) CanUndo() bool {
	return len(s.History) > 0
}

// RequiredBid is the amount the next bid must offer: the opening price
// while nobody leads, the next increment once someone does.
func (s State) RequiredBid(settings model.Settings) int64 {
	if s.LeadingTeamID == "" {
		return s.CurrentBid
	}
	return allocation.NextBid(s.CurrentBid, settings)
}

// Start initialises a session for the first unsold player of r, keeping the
// given undo history.
func Start(r model.Roster, history []model.SaleRecord) State {
	st := State{History: cloneHistory(history)}
	if p, ok := r.FirstUnsold(); ok {
		st.CurrentPlayerID = p.ID
		st.CurrentBid = r.Settings.StartingBid(p)
	}
	return st
}

// Sync re-initialises st when the first unsold player of r is no longer the
// player st is bidding on. Otherwise st is returned unchanged.
func Sync(st State, r model.Roster) State {
	p, ok := r.FirstUnsold()
	if ok && p.ID == st.CurrentPlayerID {
		return st
	}
	if !ok && st.CurrentPlayerID == "" {
		return st
	}
	return Start(r, st.History)
}

// PlaceBid records amount from teamID as the standing bid. A denied bid
// leaves the state unchanged and is reported through the verdict, not the
// error; errors are reserved for a missing player or team.
func PlaceBid(st State, r model.Roster, teamID string, amount int64) (State, allocation.Verdict, error) {
	if st.CurrentPlayerID == "" {
		return st, allocation.Verdict{}, ErrNoCurrentPlayer
	}
	i := r.TeamIndex(teamID)
	if i < 0 {
		return st, allocation.Verdict{}, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}

	verdict := allocation.CanBid(r.Teams[i], amount, r.Settings)
	if !verdict.Allowed {
		return st, verdict, nil
	}

	st.CurrentBid = amount
	st.LeadingTeamID = teamID
	return st, verdict, nil
}

// ConfirmSale sells the current player to the leading team at the standing
// bid and moves on to the next unsold player. The player, the team and the
// history change together in the returned values.
func ConfirmSale(st State, r model.Roster) (State, model.Roster, model.SaleRecord, error) {
	if st.Phase() != PhaseHasLeader {
		return st, r, model.SaleRecord{}, ErrNoLeader
	}

	out := r.Clone()
	pi := out.PlayerIndex(st.CurrentPlayerID)
	if pi < 0 {
		return st, r, model.SaleRecord{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, st.CurrentPlayerID)
	}
	ti := out.TeamIndex(st.LeadingTeamID)
	if ti < 0 {
		return st, r, model.SaleRecord{}, fmt.Errorf("%w: %s", ErrTeamNotFound, st.LeadingTeamID)
	}

	// The team may have been edited since the bid was placed.
	if err := allocation.CanBid(out.Teams[ti], st.CurrentBid, out.Settings).Err(); err != nil {
		return st, r, model.SaleRecord{}, err
	}

	sale := model.SaleRecord{
		ID:       uuid.New().String(),
		PlayerID: st.CurrentPlayerID,
		TeamID:   st.LeadingTeamID,
		Price:    st.CurrentBid,
	}

	out.Players[pi].MarkSold(sale.TeamID, sale.Price)
	team := &out.Teams[ti]
	team.PurseRemaining -= sale.Price
	team.PlayersBought = append(team.PlayersBought, sale.PlayerID)

	history := append(cloneHistory(st.History), sale)
	return Start(out, history), out, sale, nil
}

// UndoLastSale reverses the most recent sale. ok is false, and nothing
// changes, when the history is empty. The session restarts on whichever
// player is first unsold afterwards.
func UndoLastSale(st State, r model.Roster) (next State, out model.Roster, sale model.SaleRecord, ok bool) {
	if !st.CanUndo() {
		return st, r, model.SaleRecord{}, false
	}

	sale = st.History[len(st.History)-1]
	out = r.Clone()

	if pi := out.PlayerIndex(sale.PlayerID); pi >= 0 {
		out.Players[pi].MarkUnsold()
	}
	if ti := out.TeamIndex(sale.TeamID); ti >= 0 {
		team := &out.Teams[ti]
		team.PurseRemaining += sale.Price
		team.PlayersBought = removeID(team.PlayersBought, sale.PlayerID)
	}

	return Start(out, st.History[:len(st.History)-1]), out, sale, true
}

// Skip moves the current player to the end of the auction order without
// selling it, and restarts the session on the new first unsold player.
func Skip(st State, r model.Roster) (State, model.Roster, error) {
	if st.CurrentPlayerID == "" {
		return st, r, ErrNoCurrentPlayer
	}

	out := r.Clone()
	i := out.PlayerIndex(st.CurrentPlayerID)
	if i < 0 {
		return st, r, fmt.Errorf("%w: %s", ErrPlayerNotFound, st.CurrentPlayerID)
	}
	skipped := out.Players[i]
	out.Players = append(out.Players[:i], out.Players[i+1:]...)
	out.Players = append(out.Players, skipped)

	return Start(out, st.History), out, nil
}

// Reset returns every player to the pool, refills every purse to the
// configured total and empties the undo history.
func Reset(r model.Roster) (State, model.Roster) {
	out := r.Clone()
	for i := range out.Players {
		out.Players[i].MarkUnsold()
	}
	for i := range out.Teams {
		out.Teams[i].PlayersBought = []string{}
		out.Teams[i].PurseRemaining = out.Settings.TotalPurse
	}
	return Start(out, nil), out
}

func cloneHistory(h []model.SaleRecord) []model.SaleRecord {
	out := make([]model.SaleRecord, len(h))
	copy(out, h)
	return out
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
