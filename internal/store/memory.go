package store

import (
	"context"
	"sync"

	"github.com/auctiondesk/auction-engine/internal/model"
)

// MemoryStore implements Store with in-memory slices. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu       sync.RWMutex
	teams    []model.Team
	players  []model.Player
	settings *model.Settings
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadTeams(_ context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTeams(s.teams), nil
}

func (s *MemoryStore) SaveTeams(_ context.Context, teams []model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Store a copy to avoid external mutation.
	s.teams = copyTeams(teams)
	return nil
}

func (s *MemoryStore) LoadPlayers(_ context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Player{}, s.players...), nil
}

func (s *MemoryStore) SavePlayers(_ context.Context, players []model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append([]model.Player{}, players...)
	return nil
}

func (s *MemoryStore) LoadSettings(_ context.Context) (model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return model.Settings{}, ErrSettingsNotFound
	}
	return *s.settings, nil
}

func (s *MemoryStore) SaveSettings(_ context.Context, settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}

// SaveRoster swaps both collections under one lock.
func (s *MemoryStore) SaveRoster(_ context.Context, teams []model.Team, players []model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = copyTeams(teams)
	s.players = append([]model.Player{}, players...)
	return nil
}

func copyTeams(teams []model.Team) []model.Team {
	out := make([]model.Team, len(teams))
	for i, t := range teams {
		out[i] = t.Clone()
	}
	return out
}
