package auction

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/auctiondesk/auction-engine/internal/allocation"
	"github.com/auctiondesk/auction-engine/internal/model"
	"github.com/auctiondesk/auction-engine/internal/session"
)

// Mount registers the auction API on r. The caller picks the prefix.
func (s *Service) Mount(r chi.Router) {
	// WebSocket endpoint for the live auction feed.
	if s.wsHub != nil {
		r.Get("/ws", s.wsHub.HandleWS)
	}

	// Live session.
	r.Get("/auction", s.HandleCurrent)
	r.Post("/auction/bids", s.HandleBid)
	r.Post("/auction/sell", s.HandleSell)
	r.Post("/auction/undo", s.HandleUndo)
	r.Post("/auction/skip", s.HandleSkip)
	r.Post("/auction/reset", s.HandleReset)

	// Teams.
	r.Get("/teams", s.HandleListTeams)
	r.Post("/teams", s.HandleCreateTeam)
	r.Put("/teams/{teamID}", s.HandleUpdateTeam)
	r.Delete("/teams/{teamID}", s.HandleDeleteTeam)
	r.Get("/teams/{teamID}/max-bid", s.HandleMaxBid)

	// Players.
	r.Get("/players", s.HandleListPlayers)
	r.Post("/players", s.HandleCreatePlayer)
	r.Put("/players/{playerID}", s.HandleUpdatePlayer)
	r.Delete("/players/{playerID}", s.HandleDeletePlayer)

	// Settings and data.
	r.Get("/settings", s.HandleGetSettings)
	r.Put("/settings", s.HandleUpdateSettings)
	r.Get("/dashboard", s.HandleDashboard)
	r.Get("/export", s.HandleExport)
	r.Post("/import", s.HandleImport)
	r.Post("/demo", s.HandleDemo)
}

// --- Request/Response types ---

// BidRequest is the JSON body for POST /auction/bids.
type BidRequest struct {
	TeamID string `json:"team_id"`
	Amount *int64 `json:"amount,omitempty"` // nil → the required bid
}

// BidResponse is returned from POST /auction/bids, accepted or not.
type BidResponse struct {
	Allowed bool              `json:"allowed"`
	Reason  allocation.Reason `json:"reason,omitempty"`
	Error   string            `json:"error,omitempty"`
	Auction View              `json:"auction"`
}

// ConfirmRequest carries the operator's approval for a mutation. The
// confirmed query parameter works too.
type ConfirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ImportRequest is the JSON body for POST /import, the shape Export writes.
type ImportRequest struct {
	Teams    []model.Team    `json:"teams"`
	Players  []model.Player  `json:"players"`
	Settings *model.Settings `json:"settings,omitempty"` // nil → defaults
}

// MaxBidResponse is returned from GET /teams/{teamID}/max-bid.
type MaxBidResponse struct {
	TeamID string `json:"team_id"`
	MaxBid int64  `json:"max_bid"`
	Label  string `json:"label"`
}

// --- Session handlers ---

// HandleCurrent handles GET /api/v1/auction
func (s *Service) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	v, err := s.Current(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleBid handles POST /api/v1/auction/bids
// A denied bid is a 409 carrying the reason and the unchanged auction.
func (s *Service) HandleBid(w http.ResponseWriter, r *http.Request) {
	var req BidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.TeamID == "" {
		writeError(w, "team_id is required", http.StatusBadRequest)
		return
	}

	v, verdict, err := s.PlaceBid(r.Context(), req.TeamID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := BidResponse{Allowed: verdict.Allowed, Reason: verdict.Reason, Auction: v}
	status := http.StatusOK
	if !verdict.Allowed {
		resp.Error = verdict.Err().Error()
		status = http.StatusConflict
	}
	writeJSON(w, status, resp)
}

// HandleSell handles POST /api/v1/auction/sell
func (s *Service) HandleSell(w http.ResponseWriter, r *http.Request) {
	sale, err := s.Sell(r.Context(), confirmation(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// HandleUndo handles POST /api/v1/auction/undo
// With nothing to undo it answers 200 with undone=false.
func (s *Service) HandleUndo(w http.ResponseWriter, r *http.Request) {
	sale, ok, err := s.Undo(r.Context(), confirmation(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := struct {
		Undone bool               `json:"undone"`
		Sale   *model.SaleRecord `json:"sale,omitempty"`
	}{Undone: ok}
	if ok {
		resp.Sale = &sale
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSkip handles POST /api/v1/auction/skip
func (s *Service) HandleSkip(w http.ResponseWriter, r *http.Request) {
	p, err := s.Skip(r.Context(), confirmation(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleReset handles POST /api/v1/auction/reset
func (s *Service) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.Reset(r.Context(), confirmation(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Team handlers ---

// HandleListTeams handles GET /api/v1/teams
func (s *Service) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.Teams(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleCreateTeam handles POST /api/v1/teams
func (s *Service) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var t model.Team
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if t.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	created, err := s.CreateTeam(r.Context(), t)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateTeam handles PUT /api/v1/teams/{teamID}
func (s *Service) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var t model.Team
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	t.ID = chi.URLParam(r, "teamID")
	updated, err := s.UpdateTeam(r.Context(), t)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDeleteTeam handles DELETE /api/v1/teams/{teamID}
func (s *Service) HandleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.DeleteTeam(r.Context(), chi.URLParam(r, "teamID"), confirmation(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMaxBid handles GET /api/v1/teams/{teamID}/max-bid
func (s *Service) HandleMaxBid(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	maxBid, err := s.MaxBid(r.Context(), teamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MaxBidResponse{TeamID: teamID, MaxBid: maxBid, Label: Compact(maxBid)})
}

// --- Player handlers ---

// HandleListPlayers handles GET /api/v1/players
func (s *Service) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.Players(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// HandleCreatePlayer handles POST /api/v1/players
func (s *Service) HandleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var p model.Player
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if p.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	created, err := s.CreatePlayer(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdatePlayer handles PUT /api/v1/players/{playerID}
func (s *Service) HandleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var p model.Player
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = chi.URLParam(r, "playerID")
	updated, err := s.UpdatePlayer(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDeletePlayer handles DELETE /api/v1/players/{playerID}
func (s *Service) HandleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := s.DeletePlayer(r.Context(), chi.URLParam(r, "playerID"), confirmation(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Settings and data handlers ---

// HandleGetSettings handles GET /api/v1/settings
func (s *Service) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Settings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// HandleUpdateSettings handles PUT /api/v1/settings
func (s *Service) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	saved, err := s.UpdateSettings(r.Context(), settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleDashboard handles GET /api/v1/dashboard
func (s *Service) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleExport handles GET /api/v1/export
func (s *Service) HandleExport(w http.ResponseWriter, r *http.Request) {
	exp, err := s.Export(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	name := "auction-export-" + exp.ExportDate.Format(time.DateOnly) + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	writeJSON(w, http.StatusOK, exp)
}

// HandleImport handles POST /api/v1/import
func (s *Service) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Teams == nil || req.Players == nil {
		writeError(w, "teams and players are required", http.StatusBadRequest)
		return
	}

	roster := model.Roster{Teams: req.Teams, Players: req.Players, Settings: model.DefaultSettings()}
	if req.Settings != nil {
		roster.Settings = *req.Settings
	}
	for i := range roster.Teams {
		if roster.Teams[i].PlayersBought == nil {
			roster.Teams[i].PlayersBought = []string{}
		}
	}

	if err := s.Import(r.Context(), roster); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"teams":   len(roster.Teams),
		"players": len(roster.Players),
	})
}

// HandleDemo handles POST /api/v1/demo
func (s *Service) HandleDemo(w http.ResponseWriter, r *http.Request) {
	if err := s.LoadDemo(r.Context(), confirmation(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

var approve = session.ConfirmFunc(func(string, string) bool { return true })

// confirmation reads the operator's approval from ?confirmed=true or a
// {"confirmed": true} body. Without either, mutations answer 428.
func confirmation(r *http.Request) session.Confirmer {
	if ok, err := strconv.ParseBool(r.URL.Query().Get("confirmed")); err == nil && ok {
		return approve
	}
	var req ConfirmRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return nil
		}
	}
	if req.Confirmed {
		return approve
	}
	return nil
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var pe *PromptError
	switch {
	case errors.As(err, &pe):
		writeJSON(w, http.StatusPreconditionRequired, map[string]string{
			"error":   "confirmation required",
			"title":   pe.Prompt.Title,
			"message": pe.Prompt.Message,
		})
	case errors.Is(err, session.ErrTeamNotFound),
		errors.Is(err, session.ErrPlayerNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrBidTooLow),
		errors.Is(err, model.ErrInvalidSettings),
		errors.Is(err, model.ErrInvalidRoster):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrNoCurrentPlayer),
		errors.Is(err, session.ErrNoLeader),
		errors.Is(err, ErrTeamHasPlayers),
		errors.Is(err, ErrPlayerSold),
		errors.Is(err, allocation.ErrSquadFull),
		errors.Is(err, allocation.ErrNoFunds),
		errors.Is(err, allocation.ErrExceedsSafeLimit):
		writeError(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("request failed", "err", err)
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
