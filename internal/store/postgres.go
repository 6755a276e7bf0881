package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/auctiondesk/auction-engine/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Saves replace a whole collection inside one transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, logo_color, purse_remaining, players_bought,
		        captain_name, captain_mobile, vice_captain_name, vice_captain_mobile
		 FROM teams ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.LogoColor, &t.PurseRemaining, &t.PlayersBought,
			&t.CaptainName, &t.CaptainMobile, &t.ViceCaptainName, &t.ViceCaptainMobile); err != nil {
			return nil, err
		}
		if t.PlayersBought == nil {
			t.PlayersBought = []string{}
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *PostgresStore) SaveTeams(ctx context.Context, teams []model.Team) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return replaceTeams(ctx, tx, teams)
	})
}

func (s *PostgresStore) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, mobile_number, category, experience, base_price,
		        is_sold, sold_to_team_id, sold_price
		 FROM players ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		var p model.Player
		var soldTo *string
		var soldPrice *int64
		if err := rows.Scan(&p.ID, &p.Name, &p.MobileNumber, &p.Category, &p.Experience, &p.BasePrice,
			&p.IsSold, &soldTo, &soldPrice); err != nil {
			return nil, err
		}
		if soldTo != nil {
			p.SoldToTeamID = *soldTo
		}
		if soldPrice != nil {
			p.SoldPrice = *soldPrice
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *PostgresStore) SavePlayers(ctx context.Context, players []model.Player) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return replacePlayers(ctx, tx, players)
	})
}

func (s *PostgresStore) LoadSettings(ctx context.Context) (model.Settings, error) {
	var st model.Settings
	err := s.pool.QueryRow(ctx,
		`SELECT max_players_per_team, total_purse, default_base_price,
		        bid_increment_1, bid_increment_2, bid_increment_3
		 FROM auction_settings WHERE id = 1`).
		Scan(&st.MaxPlayersPerTeam, &st.TotalPurse, &st.DefaultBasePrice,
			&st.BidIncrement1, &st.BidIncrement2, &st.BidIncrement3)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Settings{}, ErrSettingsNotFound
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) SaveSettings(ctx context.Context, st model.Settings) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auction_settings (id, max_players_per_team, total_purse, default_base_price,
		                               bid_increment_1, bid_increment_2, bid_increment_3)
		 VALUES (1, $1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		     max_players_per_team = EXCLUDED.max_players_per_team,
		     total_purse          = EXCLUDED.total_purse,
		     default_base_price   = EXCLUDED.default_base_price,
		     bid_increment_1      = EXCLUDED.bid_increment_1,
		     bid_increment_2      = EXCLUDED.bid_increment_2,
		     bid_increment_3      = EXCLUDED.bid_increment_3`,
		st.MaxPlayersPerTeam, st.TotalPurse, st.DefaultBasePrice,
		st.BidIncrement1, st.BidIncrement2, st.BidIncrement3,
	)
	return err
}

// SaveRoster writes teams and players in a single transaction.
func (s *PostgresStore) SaveRoster(ctx context.Context, teams []model.Team, players []model.Player) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := replaceTeams(ctx, tx, teams); err != nil {
			return err
		}
		return replacePlayers(ctx, tx, players)
	})
}

func replaceTeams(ctx context.Context, tx pgx.Tx, teams []model.Team) error {
	if _, err := tx.Exec(ctx, `DELETE FROM teams`); err != nil {
		return fmt.Errorf("clear teams: %w", err)
	}

	batch := &pgx.Batch{}
	for i, t := range teams {
		bought := t.PlayersBought
		if bought == nil {
			bought = []string{}
		}
		batch.Queue(
			`INSERT INTO teams (id, name, logo_color, purse_remaining, players_bought,
			                    captain_name, captain_mobile, vice_captain_name, vice_captain_mobile, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, t.Name, t.LogoColor, t.PurseRemaining, bought,
			t.CaptainName, t.CaptainMobile, t.ViceCaptainName, t.ViceCaptainMobile, i,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert teams: %w", err)
	}
	return nil
}

func replacePlayers(ctx context.Context, tx pgx.Tx, players []model.Player) error {
	if _, err := tx.Exec(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}

	batch := &pgx.Batch{}
	for i, p := range players {
		var soldTo *string
		var soldPrice *int64
		if p.IsSold {
			soldTo, soldPrice = &p.SoldToTeamID, &p.SoldPrice
		}
		batch.Queue(
			`INSERT INTO players (id, name, mobile_number, category, experience, base_price,
			                      is_sold, sold_to_team_id, sold_price, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.ID, p.Name, p.MobileNumber, p.Category, p.Experience, p.BasePrice,
			p.IsSold, soldTo, soldPrice, i,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert players: %w", err)
	}
	return nil
}
