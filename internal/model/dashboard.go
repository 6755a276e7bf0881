package model

import "github.com/shopspring/decimal"

// TeamStanding summarises one team's spending for the dashboard.
type TeamStanding struct {
	TeamID          string          `json:"team_id"`
	Name            string          `json:"name"`
	PurseRemaining  int64           `json:"purse_remaining"`
	PurseLabel      string          `json:"purse_label"`
	Spent           int64           `json:"spent"`
	SpendPercentage decimal.Decimal `json:"spend_percentage"`
	LowPurse        bool            `json:"low_purse"` // under 20% of the total purse left
	RosterSize      int             `json:"roster_size"`
	MaxBid          int64           `json:"max_bid"`
	MaxBidLabel     string          `json:"max_bid_label"`
}

// Dashboard aggregates auction-wide statistics.
type Dashboard struct {
	TotalPurse     int64          `json:"total_purse"`     // teams × settings.TotalPurse
	PurseRemaining int64          `json:"purse_remaining"` // Σ team purses
	MoneySpent     int64          `json:"money_spent"`
	PlayersTotal   int            `json:"players_total"`
	PlayersSold    int            `json:"players_sold"`
	PlayersUnsold  int            `json:"players_unsold"`
	Teams          []TeamStanding `json:"teams"`
}
