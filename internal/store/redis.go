package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/auctiondesk/auction-engine/internal/model"
)

const (
	teamsKey    = "auction:teams"
	playersKey  = "auction:players"
	settingsKey = "auction:settings"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and invalidate the cache; reads
// check Redis first then fall back to the primary.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, invalidate cache) ---

func (s *CachedStore) SaveTeams(ctx context.Context, teams []model.Team) error {
	if err := s.primary.SaveTeams(ctx, teams); err != nil {
		return err
	}
	s.rdb.Del(ctx, teamsKey)
	return nil
}

func (s *CachedStore) SavePlayers(ctx context.Context, players []model.Player) error {
	if err := s.primary.SavePlayers(ctx, players); err != nil {
		return err
	}
	s.rdb.Del(ctx, playersKey)
	return nil
}

func (s *CachedStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := s.primary.SaveSettings(ctx, settings); err != nil {
		return err
	}
	s.rdb.Del(ctx, settingsKey)
	return nil
}

func (s *CachedStore) SaveRoster(ctx context.Context, teams []model.Team, players []model.Player) error {
	if err := s.primary.SaveRoster(ctx, teams, players); err != nil {
		return err
	}
	// Both keys go at once so a reader never pairs new teams with old players.
	s.rdb.Del(ctx, teamsKey, playersKey)
	return nil
}

// --- Read-through (check cache first) ---

func (s *CachedStore) LoadTeams(ctx context.Context) ([]model.Team, error) {
	return readThrough(ctx, s, teamsKey, s.primary.LoadTeams)
}

func (s *CachedStore) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	return readThrough(ctx, s, playersKey, s.primary.LoadPlayers)
}

func (s *CachedStore) LoadSettings(ctx context.Context) (model.Settings, error) {
	return readThrough(ctx, s, settingsKey, s.primary.LoadSettings)
}

// --- Cache helpers ---

func readThrough[T any](ctx context.Context, s *CachedStore, key string, load func(context.Context) (T, error)) (T, error) {
	// Try cache.
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var v T
		if json.Unmarshal(data, &v) == nil {
			return v, nil
		}
	}

	// Cache miss: read from primary.
	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if data, err := json.Marshal(v); err == nil {
		s.rdb.Set(ctx, key, data, s.ttl)
	}
	return v, nil
}
