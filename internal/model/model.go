// Package model defines the core domain types shared across the auction engine.
// All currency values are whole rupees held in int64, never float64.
package model

import "slices"

// FixedSlots is the number of roster places every team fills outside the
// auction: the captain and the vice-captain.
const FixedSlots = 2

// Team is a bidding franchise with a purse and the players it bought.
type Team struct {
	ID                string   `json:"id" db:"id"`
	Name              string   `json:"name" db:"name"`
	LogoColor         string   `json:"logo_color" db:"logo_color"`
	PurseRemaining    int64    `json:"purse_remaining" db:"purse_remaining"`
	PlayersBought     []string `json:"players_bought"` // player IDs won at auction
	CaptainName       string   `json:"captain_name" db:"captain_name"`
	CaptainMobile     string   `json:"captain_mobile,omitempty" db:"captain_mobile"`
	ViceCaptainName   string   `json:"vice_captain_name,omitempty" db:"vice_captain_name"`
	ViceCaptainMobile string   `json:"vice_captain_mobile,omitempty" db:"vice_captain_mobile"`
}

// RosterSize counts every filled roster place, fixed members included.
func (t *Team) RosterSize() int {
	return len(t.PlayersBought) + FixedSlots
}

// Owns reports whether playerID is in the team's bought list.
func (t *Team) Owns(playerID string) bool {
	return slices.Contains(t.PlayersBought, playerID)
}

// Clone returns a deep copy of the team.
func (t Team) Clone() Team {
	t.PlayersBought = slices.Clone(t.PlayersBought)
	if t.PlayersBought == nil {
		t.PlayersBought = []string{}
	}
	return t
}

// Player roles and experience levels accepted by the registry.
const (
	RoleRightHandedBatsman = "Right Handed Batsman"
	RoleLeftHandedBatsman  = "Left Handed Batsman"
	RoleBowler             = "Bowler"
	RoleAllRounder         = "All Rounder"
	RoleWicketKeeper       = "Wicket Keeper"

	ExperienceBeginner     = "Beginner"
	ExperienceIntermediate = "Intermediate"
	ExperienceAdvance      = "Advance"
)

// Player is an auction lot. SoldToTeamID and SoldPrice are set iff IsSold.
type Player struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	MobileNumber string `json:"mobile_number,omitempty" db:"mobile_number"`
	Category     string `json:"category,omitempty" db:"category"`
	Experience   string `json:"experience,omitempty" db:"experience"`
	BasePrice    int64  `json:"base_price" db:"base_price"` // 0 → settings default
	IsSold       bool   `json:"is_sold" db:"is_sold"`
	SoldToTeamID string `json:"sold_to_team_id,omitempty" db:"sold_to_team_id"`
	SoldPrice    int64  `json:"sold_price,omitempty" db:"sold_price"`
}

// MarkSold records the sale on the player.
func (p *Player) MarkSold(teamID string, price int64) {
	p.IsSold = true
	p.SoldToTeamID = teamID
	p.SoldPrice = price
}

// MarkUnsold clears every trace of a sale.
func (p *Player) MarkUnsold() {
	p.IsSold = false
	p.SoldToTeamID = ""
	p.SoldPrice = 0
}

// Settings holds the business rules of one auction.
type Settings struct {
	MaxPlayersPerTeam int   `json:"max_players_per_team"` // includes the fixed slots
	TotalPurse        int64 `json:"total_purse"`
	DefaultBasePrice  int64 `json:"default_base_price"`
	BidIncrement1     int64 `json:"bid_increment_1"` // bids below 2 lakh
	BidIncrement2     int64 `json:"bid_increment_2"` // 2 lakh up to 5 lakh
	BidIncrement3     int64 `json:"bid_increment_3"` // 5 lakh and above
}

// DefaultSettings is used when nothing has been saved yet.
func DefaultSettings() Settings {
	return Settings{
		MaxPlayersPerTeam: 9,
		TotalPurse:        1_000_000,
		DefaultBasePrice:  30_000,
		BidIncrement1:     10_000,
		BidIncrement2:     20_000,
		BidIncrement3:     30_000,
	}
}

// StartingBid is the opening amount for p under s.
func (s Settings) StartingBid(p Player) int64 {
	if p.BasePrice > 0 {
		return p.BasePrice
	}
	return s.DefaultBasePrice
}

// SaleRecord is one completed sale kept for undo.
type SaleRecord struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id"`
	Price    int64  `json:"price"`
}

// Roster is a consistent snapshot of the auction data: the teams, the
// players in auction order, and the settings they are judged against.
type Roster struct {
	Teams    []Team   `json:"teams"`
	Players  []Player `json:"players"`
	Settings Settings `json:"settings"`
}

// Clone returns a deep copy so transitions never alias the caller's data.
func (r Roster) Clone() Roster {
	out := Roster{
		Teams:    make([]Team, len(r.Teams)),
		Players:  slices.Clone(r.Players),
		Settings: r.Settings,
	}
	if out.Players == nil {
		out.Players = []Player{}
	}
	for i, t := range r.Teams {
		out.Teams[i] = t.Clone()
	}
	return out
}

// TeamIndex returns the index of the team with id, or -1.
func (r *Roster) TeamIndex(id string) int {
	return slices.IndexFunc(r.Teams, func(t Team) bool { return t.ID == id })
}

// PlayerIndex returns the index of the player with id, or -1.
func (r *Roster) PlayerIndex(id string) int {
	return slices.IndexFunc(r.Players, func(p Player) bool { return p.ID == id })
}

// FirstUnsold returns the player currently up for auction, if any.
func (r *Roster) FirstUnsold() (Player, bool) {
	for _, p := range r.Players {
		if !p.IsSold {
			return p, true
		}
	}
	return Player{}, false
}
