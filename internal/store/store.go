// Package store defines the persistence interface for the auction engine.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing and local runs).
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/auctiondesk/auction-engine/internal/model"
)

// ErrSettingsNotFound is returned by LoadSettings when nothing was saved yet.
var ErrSettingsNotFound = errors.New("store: settings not found")

// Store is the persistence interface. Collections are replaced wholesale on
// save; players are kept in auction order.
type Store interface {
	// --- Teams ---

	// LoadTeams returns every team.
	LoadTeams(ctx context.Context) ([]model.Team, error)

	// SaveTeams replaces the stored teams.
	SaveTeams(ctx context.Context, teams []model.Team) error

	// --- Players ---

	// LoadPlayers returns every player in auction order.
	LoadPlayers(ctx context.Context) ([]model.Player, error)

	// SavePlayers replaces the stored players, preserving slice order.
	SavePlayers(ctx context.Context, players []model.Player) error

	// --- Settings ---

	// LoadSettings returns the saved settings or ErrSettingsNotFound.
	LoadSettings(ctx context.Context) (model.Settings, error)

	// SaveSettings replaces the saved settings.
	SaveSettings(ctx context.Context, settings model.Settings) error

	// --- Atomic roster writes ---

	// SaveRoster replaces teams and players together: either both land or
	// neither does. Sales, undos, skips and resets go through here.
	SaveRoster(ctx context.Context, teams []model.Team, players []model.Player) error
}

// LoadRoster reads a full snapshot from st, falling back to the default
// settings when none were saved.
func LoadRoster(ctx context.Context, st Store) (model.Roster, error) {
	teams, err := st.LoadTeams(ctx)
	if err != nil {
		return model.Roster{}, fmt.Errorf("load teams: %w", err)
	}
	players, err := st.LoadPlayers(ctx)
	if err != nil {
		return model.Roster{}, fmt.Errorf("load players: %w", err)
	}
	settings, err := st.LoadSettings(ctx)
	if errors.Is(err, ErrSettingsNotFound) {
		settings = model.DefaultSettings()
	} else if err != nil {
		return model.Roster{}, fmt.Errorf("load settings: %w", err)
	}

	if teams == nil {
		teams = []model.Team{}
	}
	if players == nil {
		players = []model.Player{}
	}
	return model.Roster{Teams: teams, Players: players, Settings: settings}, nil
}

// SaveAll writes settings and then the roster.
func SaveAll(ctx context.Context, st Store, r model.Roster) error {
	if err := st.SaveSettings(ctx, r.Settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := st.SaveRoster(ctx, r.Teams, r.Players); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}
