// Package auction runs the live auction: it serializes operator actions,
// applies session transitions to the stored roster, broadcasts every
// change to connected displays, and exposes it all over HTTP.
package auction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/auctiondesk/auction-engine/internal/allocation"
	"github.com/auctiondesk/auction-engine/internal/metrics"
	"github.com/auctiondesk/auction-engine/internal/model"
	"github.com/auctiondesk/auction-engine/internal/session"
	"github.com/auctiondesk/auction-engine/internal/store"
)

var (
	ErrBidTooLow      = errors.New("auction: bid is below the current bid")
	ErrTeamHasPlayers = errors.New("auction: team has bought players")
	ErrPlayerSold     = errors.New("auction: player is sold")
)

// PromptError is returned when a mutation needs the operator's approval
// and did not get it. Nothing was changed.
type PromptError struct {
	Prompt session.Prompt
}

func (e *PromptError) Error() string {
	return "auction: confirmation required: " + e.Prompt.Title
}

// Service owns the single live auction session. Every operation holds the
// mutex for its whole load-transition-save cycle, so operator actions are
// applied one at a time. Concurrent sessions over one store are unsupported.
type Service struct {
	store store.Store
	wsHub *WSHub // optional WebSocket hub for the live feed
	mu    sync.Mutex
	state session.State
}

// NewService creates a new auction service.
// Pass nil for hub if WebSocket broadcasting is not needed.
func NewService(st store.Store, hub *WSHub) *Service {
	return &Service{store: st, wsHub: hub}
}

// Bidder is one team's standing against the player on the block.
type Bidder struct {
	TeamID         string             `json:"team_id"`
	Name           string             `json:"name"`
	PurseRemaining int64              `json:"purse_remaining"`
	RosterSize     int                `json:"roster_size"`
	MaxBid         int64              `json:"max_bid"`
	Leading        bool               `json:"leading"`
	NextBid        allocation.Verdict `json:"next_bid"` // verdict for the required amount
}

// View is what the auctioneer's screen shows.
type View struct {
	Phase         session.Phase `json:"phase"`
	CurrentPlayer *model.Player `json:"current_player,omitempty"`
	CurrentBid    int64         `json:"current_bid"`
	LeadingTeamID string        `json:"leading_team_id,omitempty"`
	RequiredBid   int64         `json:"required_bid"`
	CanUndo       bool          `json:"can_undo"`
	Bidders       []Bidder      `json:"bidders"`
}

// --- Session operations ---

// Current returns the live view of the auction.
func (s *Service) Current(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	return s.view(r), nil
}

// PlaceBid bids for teamID. A nil amount bids the required amount; an
// explicit amount is a custom bid and goes through the same validator.
// A denied bid returns the verdict and a nil error.
func (s *Service) PlaceBid(ctx context.Context, teamID string, amount *int64) (View, allocation.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return View{}, allocation.Verdict{}, err
	}

	bid := s.state.RequiredBid(r.Settings)
	if amount != nil {
		bid = *amount
	}
	if s.state.CurrentPlayerID != "" && bid < s.state.CurrentBid {
		return View{}, allocation.Verdict{}, fmt.Errorf("%w: %d < %d", ErrBidTooLow, bid, s.state.CurrentBid)
	}

	next, verdict, err := session.PlaceBid(s.state, r, teamID, bid)
	if err != nil {
		return View{}, verdict, err
	}
	if !verdict.Allowed {
		metrics.BidDenials.WithLabelValues(string(verdict.Reason)).Inc()
		slog.Info("bid denied",
			"team", teamID,
			"player", s.state.CurrentPlayerID,
			"amount", bid,
			"reason", verdict.Reason,
		)
		return s.view(r), verdict, nil
	}

	s.state = next
	metrics.BidsPlaced.Inc()
	slog.Info("bid placed",
		"team", teamID,
		"player", next.CurrentPlayerID,
		"amount", bid,
	)
	s.broadcast(Event{
		Type:     EventBidPlaced,
		PlayerID: next.CurrentPlayerID,
		TeamID:   teamID,
		Amount:   bid,
	})
	return s.view(r), verdict, nil
}

// Sell confirms the sale of the current player to the leading team.
func (s *Service) Sell(ctx context.Context, c session.Confirmer) (model.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return model.SaleRecord{}, err
	}
	if s.state.Phase() != session.PhaseHasLeader {
		return model.SaleRecord{}, session.ErrNoLeader
	}

	player := r.Players[r.PlayerIndex(s.state.CurrentPlayerID)]
	var team model.Team
	if i := r.TeamIndex(s.state.LeadingTeamID); i >= 0 {
		team = r.Teams[i]
	}
	if p := session.SalePrompt(player, team, s.state.CurrentBid); !p.Ask(c) {
		return model.SaleRecord{}, &PromptError{Prompt: p}
	}

	next, out, sale, err := session.ConfirmSale(s.state, r)
	if err != nil {
		return model.SaleRecord{}, err
	}
	if err := s.store.SaveRoster(ctx, out.Teams, out.Players); err != nil {
		return model.SaleRecord{}, fmt.Errorf("save sale: %w", err)
	}
	s.state = next

	metrics.PlayersSold.Inc()
	metrics.SalePrice.Observe(float64(sale.Price))
	slog.Info("player sold",
		"sale_id", sale.ID,
		"player", sale.PlayerID,
		"team", sale.TeamID,
		"price", sale.Price,
	)
	s.broadcast(Event{
		Type:     EventPlayerSold,
		PlayerID: sale.PlayerID,
		TeamID:   sale.TeamID,
		Amount:   sale.Price,
	})
	s.announceIfComplete(out)
	return sale, nil
}

// Undo reverses the most recent sale. ok is false when there was nothing
// to undo.
func (s *Service) Undo(ctx context.Context, c session.Confirmer) (sale model.SaleRecord, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return model.SaleRecord{}, false, err
	}
	if !s.state.CanUndo() {
		return model.SaleRecord{}, false, nil
	}
	if p := session.UndoPrompt(); !p.Ask(c) {
		return model.SaleRecord{}, false, &PromptError{Prompt: p}
	}

	next, out, sale, _ := session.UndoLastSale(s.state, r)
	if err := s.store.SaveRoster(ctx, out.Teams, out.Players); err != nil {
		return model.SaleRecord{}, false, fmt.Errorf("save undo: %w", err)
	}
	s.state = next

	metrics.SessionActions.WithLabelValues("undo").Inc()
	slog.Info("sale undone",
		"sale_id", sale.ID,
		"player", sale.PlayerID,
		"team", sale.TeamID,
		"price", sale.Price,
	)
	s.broadcast(Event{
		Type:     EventSaleUndone,
		PlayerID: sale.PlayerID,
		TeamID:   sale.TeamID,
		Amount:   sale.Price,
	})
	return sale, true, nil
}

// Skip sends the current player to the back of the queue.
func (s *Service) Skip(ctx context.Context, c session.Confirmer) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return model.Player{}, err
	}
	if s.state.CurrentPlayerID == "" {
		return model.Player{}, session.ErrNoCurrentPlayer
	}

	player := r.Players[r.PlayerIndex(s.state.CurrentPlayerID)]
	if p := session.SkipPrompt(player); !p.Ask(c) {
		return model.Player{}, &PromptError{Prompt: p}
	}

	next, out, err := session.Skip(s.state, r)
	if err != nil {
		return model.Player{}, err
	}
	if err := s.store.SaveRoster(ctx, out.Teams, out.Players); err != nil {
		return model.Player{}, fmt.Errorf("save skip: %w", err)
	}
	s.state = next

	metrics.SessionActions.WithLabelValues("skip").Inc()
	slog.Info("player skipped", "player", player.ID, "next", next.CurrentPlayerID)
	s.broadcast(Event{Type: EventPlayerSkipped, PlayerID: player.ID})
	return player, nil
}

// Reset unsells every player, refills every purse and clears the history.
func (s *Service) Reset(ctx context.Context, c session.Confirmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return err
	}
	if p := session.ResetPrompt(); !p.Ask(c) {
		return &PromptError{Prompt: p}
	}

	next, out := session.Reset(r)
	if err := s.store.SaveRoster(ctx, out.Teams, out.Players); err != nil {
		return fmt.Errorf("save reset: %w", err)
	}
	s.state = next

	metrics.SessionActions.WithLabelValues("reset").Inc()
	slog.Info("auction reset", "teams", len(out.Teams), "players", len(out.Players))
	s.broadcast(Event{Type: EventAuctionReset})
	return nil
}

// MaxBid returns the most teamID can safely bid right now.
func (s *Service) MaxBid(ctx context.Context, teamID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	i := r.TeamIndex(teamID)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", session.ErrTeamNotFound, teamID)
	}
	return allocation.MaxBid(r.Teams[i], r.Settings), nil
}

// --- Registry operations ---

// Teams lists every team.
func (s *Service) Teams(ctx context.Context) ([]model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.load(ctx)
	return r.Teams, err
}

// CreateTeam registers a team with a full purse and no bought players.
func (s *Service) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return model.Team{}, err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.PurseRemaining = r.Settings.TotalPurse
	t.PlayersBought = []string{}
	r.Teams = append(r.Teams, t)

	if err := s.saveRoster(ctx, r); err != nil {
		return model.Team{}, err
	}
	slog.Info("team created", "id", t.ID, "name", t.Name)
	return t, nil
}

// UpdateTeam replaces a team's details and purse. The bought list is kept.
func (s *Service) UpdateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return model.Team{}, err
	}
	i := r.TeamIndex(t.ID)
	if i < 0 {
		return model.Team{}, fmt.Errorf("%w: %s", session.ErrTeamNotFound, t.ID)
	}
	if t.PurseRemaining < 0 {
		return model.Team{}, fmt.Errorf("%w: negative purse", model.ErrInvalidRoster)
	}
	t.PlayersBought = r.Teams[i].PlayersBought
	r.Teams[i] = t

	if err := s.saveRoster(ctx, r); err != nil {
		return model.Team{}, err
	}
	slog.Info("team updated", "id", t.ID, "purse", t.PurseRemaining)
	return t, nil
}

// DeleteTeam removes a team that has not bought anyone.
func (s *Service) DeleteTeam(ctx context.Context, id string, c session.Confirmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := r.TeamIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", session.ErrTeamNotFound, id)
	}
	if len(r.Teams[i].PlayersBought) > 0 {
		return fmt.Errorf("%w: %s", ErrTeamHasPlayers, id)
	}
	if p := session.DeletePrompt("Team", r.Teams[i].Name); !p.Ask(c) {
		return &PromptError{Prompt: p}
	}

	r.Teams = append(r.Teams[:i], r.Teams[i+1:]...)
	if err := s.saveRoster(ctx, r); err != nil {
		return err
	}
	if s.state.LeadingTeamID == id {
		s.state = session.Start(r, s.state.History)
	}
	slog.Info("team deleted", "id", id)
	return nil
}

// Players lists every player in auction order.
func (s *Service) Players(ctx context.Context) ([]model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.load(ctx)
	return r.Players, err
}

// CreatePlayer appends an unsold player to the end of the queue.
func (s *Service) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return model.Player{}, err
	}
	if p.BasePrice < 0 {
		return model.Player{}, fmt.Errorf("%w: negative base price", model.ErrInvalidRoster)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.MarkUnsold()
	r.Players = append(r.Players, p)

	if err := s.saveRoster(ctx, r); err != nil {
		return model.Player{}, err
	}
	slog.Info("player created", "id", p.ID, "name", p.Name, "base_price", p.BasePrice)
	return p, nil
}

// UpdatePlayer replaces a player's details. Sale status is kept.
func (s *Service) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return model.Player{}, err
	}
	i := r.PlayerIndex(p.ID)
	if i < 0 {
		return model.Player{}, fmt.Errorf("%w: %s", session.ErrPlayerNotFound, p.ID)
	}
	if p.BasePrice < 0 {
		return model.Player{}, fmt.Errorf("%w: negative base price", model.ErrInvalidRoster)
	}
	old := r.Players[i]
	p.IsSold, p.SoldToTeamID, p.SoldPrice = old.IsSold, old.SoldToTeamID, old.SoldPrice
	r.Players[i] = p

	if err := s.saveRoster(ctx, r); err != nil {
		return model.Player{}, err
	}
	slog.Info("player updated", "id", p.ID)
	return p, nil
}

// DeletePlayer removes an unsold player.
func (s *Service) DeletePlayer(ctx context.Context, id string, c session.Confirmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := r.PlayerIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", session.ErrPlayerNotFound, id)
	}
	if r.Players[i].IsSold {
		return fmt.Errorf("%w: %s", ErrPlayerSold, id)
	}
	if p := session.DeletePrompt("Player", r.Players[i].Name); !p.Ask(c) {
		return &PromptError{Prompt: p}
	}

	r.Players = append(r.Players[:i], r.Players[i+1:]...)
	if err := s.saveRoster(ctx, r); err != nil {
		return err
	}
	s.state = session.Sync(s.state, r)
	slog.Info("player deleted", "id", id)
	return nil
}

// Settings returns the auction rules in force.
func (s *Service) Settings(ctx context.Context) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.load(ctx)
	return r.Settings, err
}

// UpdateSettings validates and saves new rules. Purses are not touched;
// a reset applies a changed total purse.
func (s *Service) UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	if err := settings.Validate(); err != nil {
		return model.Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return model.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	slog.Info("settings updated",
		"max_players", settings.MaxPlayersPerTeam,
		"total_purse", settings.TotalPurse,
		"base_price", settings.DefaultBasePrice,
	)
	return settings, nil
}

// --- Import / export ---

// Export is the portable dump of all auction data.
type Export struct {
	Teams      []model.Team   `json:"teams"`
	Players    []model.Player `json:"players"`
	Settings   model.Settings `json:"settings"`
	ExportDate time.Time      `json:"export_date"`
}

// Export dumps all auction data.
func (s *Service) Export(ctx context.Context) (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return Export{}, err
	}
	return Export{
		Teams:      r.Teams,
		Players:    r.Players,
		Settings:   r.Settings,
		ExportDate: time.Now().UTC(),
	}, nil
}

// Import replaces all auction data with r and clears the undo history.
func (s *Service) Import(ctx context.Context, r model.Roster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return s.replace(ctx, r, "data imported")
}

// LoadDemo replaces all auction data with the demo roster.
func (s *Service) LoadDemo(ctx context.Context, c session.Confirmer) error {
	p := session.Prompt{Title: "Load Demo Data?", Message: "This replaces all teams, players and settings."}
	if !p.Ask(c) {
		return &PromptError{Prompt: p}
	}
	return s.replace(ctx, model.DemoRoster(), "demo data loaded")
}

// Dashboard returns auction-wide statistics.
func (s *Service) Dashboard(ctx context.Context) (model.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	return BuildDashboard(r), nil
}

// --- internals ---

func (s *Service) replace(ctx context.Context, r model.Roster, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := store.SaveAll(ctx, s.store, r); err != nil {
		return err
	}
	s.state = session.Start(r, nil)
	s.updateGauges(r)
	slog.Info(msg, "teams", len(r.Teams), "players", len(r.Players))
	s.broadcast(Event{Type: EventAuctionReset})
	return nil
}

// load reads the roster and brings the session in line with it. Must be
// called with s.mu held.
func (s *Service) load(ctx context.Context) (model.Roster, error) {
	r, err := store.LoadRoster(ctx, s.store)
	if err != nil {
		return model.Roster{}, err
	}
	s.state = session.Sync(s.state, r)
	s.updateGauges(r)
	return r, nil
}

func (s *Service) saveRoster(ctx context.Context, r model.Roster) error {
	if err := s.store.SaveRoster(ctx, r.Teams, r.Players); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	s.state = session.Sync(s.state, r)
	return nil
}

func (s *Service) view(r model.Roster) View {
	v := View{
		Phase:         s.state.Phase(),
		CurrentBid:    s.state.CurrentBid,
		LeadingTeamID: s.state.LeadingTeamID,
		RequiredBid:   s.state.RequiredBid(r.Settings),
		CanUndo:       s.state.CanUndo(),
		Bidders:       make([]Bidder, 0, len(r.Teams)),
	}
	if i := r.PlayerIndex(s.state.CurrentPlayerID); i >= 0 {
		p := r.Players[i]
		v.CurrentPlayer = &p
	}
	for _, t := range r.Teams {
		v.Bidders = append(v.Bidders, Bidder{
			TeamID:         t.ID,
			Name:           t.Name,
			PurseRemaining: t.PurseRemaining,
			RosterSize:     t.RosterSize(),
			MaxBid:         allocation.MaxBid(t, r.Settings),
			Leading:        t.ID == s.state.LeadingTeamID,
			NextBid:        allocation.CanBid(t, v.RequiredBid, r.Settings),
		})
	}
	return v
}

func (s *Service) announceIfComplete(r model.Roster) {
	if s.state.Phase() != session.PhaseComplete {
		return
	}
	slog.Info("auction complete", "players", len(r.Players))
	s.broadcast(Event{Type: EventAuctionComplete})
}

func (s *Service) updateGauges(r model.Roster) {
	unsold := 0
	for _, p := range r.Players {
		if !p.IsSold {
			unsold++
		}
	}
	metrics.PlayersUnsold.Set(float64(unsold))
}

func (s *Service) broadcast(e Event) {
	if s.wsHub != nil {
		s.wsHub.Broadcast(e)
	}
}
