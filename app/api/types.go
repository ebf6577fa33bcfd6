package api

import "time"

// LeaderboardEntry is one leaderboard row.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Level       int    `json:"level"`
	Retirements int    `json:"retirements"`
	TotalExp    int64  `json:"total_exp"`
}

// Player is a player's public profile.
type Player struct {
	UserID                 string          `json:"user_id"`
	Username               string          `json:"username"`
	Level                  int             `json:"level"`
	Exp                    int64           `json:"exp"`
	ExpToNext              int64           `json:"exp_to_next"`
	TotalExp               int64           `json:"total_exp"`
	Gold                   int64           `json:"gold"`
	HeirloomPoints         int64           `json:"heirloom_points"`
	Retirements            int             `json:"retirements"`
	DailyMultiplier        float64         `json:"daily_multiplier"`
	GenerationalMultiplier float64         `json:"generational_multiplier"`
	Gambling               *GamblingRecord `json:"gambling,omitempty"`
}

// GamblingRecord is a player's coin-flip record.
type GamblingRecord struct {
	UserID      string `json:"user_id,omitempty"`
	GamesPlayed int64  `json:"games_played"`
	Wins        int64  `json:"wins"`
	Losses      int64  `json:"losses"`
	NetWinnings int64  `json:"net_winnings"`
}

// Lottery is the open round.
type Lottery struct {
	RoundID      string     `json:"round_id"`
	Pot          int64      `json:"pot"`
	TotalTickets int        `json:"total_tickets"`
	TicketPrice  int64      `json:"ticket_price"`
	OpenedAt     time.Time  `json:"opened_at"`
	NextDraw     *time.Time `json:"next_draw,omitempty"`
}

// DrawnRound is a finished lottery round.
type DrawnRound struct {
	RoundID      string    `json:"round_id"`
	Pot          int64     `json:"pot"`
	TotalTickets int       `json:"total_tickets"`
	WinnerUserID string    `json:"winner_user_id,omitempty"`
	DrawnAt      time.Time `json:"drawn_at"`
}

// ShopItem is a catalog entry.
type ShopItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	Kind        string `json:"kind"`
}

// MaltaTime is the in-world clock.
type MaltaTime struct {
	Display string `json:"display"`
	Season  string `json:"season"`
	Minutes int64  `json:"minutes"`
}

// Weather is a region's latest report.
type Weather struct {
	Region      string    `json:"region"`
	Condition   string    `json:"condition"`
	Label       string    `json:"label"`
	Temperature float64   `json:"temperature"`
	CloudCover  int       `json:"cloud_cover"`
	WindSpeed   int       `json:"wind_speed"`
	Narrative   string    `json:"narrative"`
	MaltaTime   MaltaTime `json:"malta_time"`
	UpdatedAt   time.Time `json:"updated_at"`
}
