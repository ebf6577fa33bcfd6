// Package api serves the read-only JSON API under /api/v1.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	gamblingservice "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/application"
	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	shopservice "github.com/Black-And-White-Club/malta-bot/app/modules/shop/application"
	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	"github.com/Black-And-White-Club/malta-bot/internal/httpserver"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/go-chi/chi/v5"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Handlers reads from the module services.
type Handlers struct {
	Progression progressionservice.Service
	Gambling    gamblingservice.Service
	Lottery     lotteryservice.Service
	Shop        shopservice.Service
	Weather     weatherservice.Service
	Queue       queue.QueueService
	Logger      *slog.Logger
}

// Routes registers every endpoint on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/leaderboard", h.GetLeaderboard)
	r.Get("/players/{userID}", h.GetPlayer)
	r.Get("/gambling/top", h.GetTopGamblers)
	r.Get("/lottery", h.GetLottery)
	r.Get("/lottery/history", h.GetLotteryHistory)
	r.Get("/shop/items", h.GetShopItems)
	r.Get("/weather", h.GetWeather)
	r.Get("/weather/{region}", h.GetRegionWeather)
	r.Get("/time", h.GetMaltaTime)
	r.Get("/jobs", h.GetJobs)
}

// GetLeaderboard lists the top players by level.
func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Progression.Leaderboard(r.Context(), limitParam(r))
	if err != nil {
		h.fail(w, r, "leaderboard", err)
		return
	}
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{Rank: e.Rank, UserID: e.UserID, Username: e.Username, Level: e.Level, Retirements: e.Retirements, TotalExp: e.TotalExp}
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

// GetPlayer returns one player's progression and gambling record.
func (h *Handlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	stats, err := h.Progression.GetStats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, progressiondb.ErrNotFound) {
			httpserver.WriteError(w, http.StatusNotFound, "player not found")
			return
		}
		h.fail(w, r, "player", err)
		return
	}

	out := Player{
		UserID:                 stats.UserID,
		Username:               stats.Username,
		Level:                  stats.Level,
		Exp:                    stats.Exp,
		ExpToNext:              stats.ExpToNext,
		TotalExp:               stats.TotalExp,
		Gold:                   stats.Gold,
		HeirloomPoints:         stats.HeirloomPoints,
		Retirements:            stats.Retirements,
		DailyMultiplier:        stats.DailyMultiplier,
		GenerationalMultiplier: stats.GenerationalMultiplier,
	}
	if h.Gambling != nil {
		record, err := h.Gambling.GetStats(r.Context(), userID)
		if err != nil {
			h.fail(w, r, "player gambling", err)
			return
		}
		out.Gambling = &GamblingRecord{
			GamesPlayed: record.GamesPlayed,
			Wins:        record.Wins,
			Losses:      record.Losses,
			NetWinnings: record.NetWinnings,
		}
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

// GetTopGamblers lists the biggest net winners.
func (h *Handlers) GetTopGamblers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Gambling.TopWinners(r.Context(), limitParam(r))
	if err != nil {
		h.fail(w, r, "gambling top", err)
		return
	}
	out := make([]GamblingRecord, len(rows))
	for i, s := range rows {
		out[i] = GamblingRecord{UserID: s.UserID, GamesPlayed: s.GamesPlayed, Wins: s.Wins, Losses: s.Losses, NetWinnings: s.NetWinnings}
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

// GetLottery describes the open round.
func (h *Handlers) GetLottery(w http.ResponseWriter, r *http.Request) {
	info, err := h.Lottery.Info(r.Context(), "")
	if err != nil {
		h.fail(w, r, "lottery", err)
		return
	}
	out := Lottery{
		RoundID:      info.RoundID.String(),
		Pot:          info.Pot,
		TotalTickets: info.TotalTickets,
		TicketPrice:  h.Lottery.Rules().TicketPrice,
		OpenedAt:     info.OpenedAt,
	}
	if !info.NextDraw.IsZero() {
		next := info.NextDraw
		out.NextDraw = &next
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

// GetLotteryHistory lists drawn rounds, newest first.
func (h *Handlers) GetLotteryHistory(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.Lottery.History(r.Context(), limitParam(r))
	if err != nil {
		h.fail(w, r, "lottery history", err)
		return
	}
	out := make([]DrawnRound, len(rounds))
	for i, rd := range rounds {
		out[i] = DrawnRound{RoundID: rd.ID.String(), Pot: rd.Pot, TotalTickets: rd.TotalTickets, WinnerUserID: rd.WinnerUserID, DrawnAt: rd.DrawnAt}
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

// GetShopItems lists the catalog.
func (h *Handlers) GetShopItems(w http.ResponseWriter, _ *http.Request) {
	items := h.Shop.Catalog()
	out := make([]ShopItem, len(items))
	for i, it := range items {
		out[i] = ShopItem{ID: it.ID, Name: it.Name, Description: it.Description, Price: it.Price, Currency: string(it.Currency), Kind: string(it.Kind)}
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

// GetWeather returns every region's latest report.
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Weather.All(r.Context())
	if err != nil {
		h.fail(w, r, "weather", err)
		return
	}
	out := make([]Weather, len(reports))
	for i, rep := range reports {
		out[i] = weatherFrom(rep)
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

// GetRegionWeather returns one region's latest report.
func (h *Handlers) GetRegionWeather(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Weather.Current(r.Context(), chi.URLParam(r, "region"))
	switch {
	case errors.Is(err, weatherdomain.ErrUnknownRegion):
		httpserver.WriteError(w, http.StatusNotFound, "unknown region")
		return
	case errors.Is(err, weatherservice.ErrNoReading):
		httpserver.WriteError(w, http.StatusNotFound, "no weather recorded yet")
		return
	case err != nil:
		h.fail(w, r, "region weather", err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, weatherFrom(rep))
}

// GetMaltaTime returns the in-world clock.
func (h *Handlers) GetMaltaTime(w http.ResponseWriter, _ *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, timeFrom(h.Weather.MaltaTime()))
}

// GetJobs lists pending background jobs.
func (h *Handlers) GetJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Queue.PendingJobs(r.Context())
	if err != nil {
		h.fail(w, r, "jobs", err)
		return
	}
	if jobs == nil {
		jobs = []queue.JobInfo{}
	}
	httpserver.WriteJSON(w, http.StatusOK, jobs)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.Logger.ErrorContext(r.Context(), "API request failed",
		attr.String("endpoint", what),
		attr.Error(err),
	)
	httpserver.WriteError(w, http.StatusInternalServerError, "failed to load "+what)
}

func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultLimit
	}
	return min(n, maxLimit)
}

func weatherFrom(rep weatherservice.Report) Weather {
	return Weather{
		Region:      rep.Region,
		Condition:   string(rep.Condition),
		Label:       rep.Condition.Label(),
		Temperature: rep.Temperature,
		CloudCover:  rep.CloudCover,
		WindSpeed:   rep.WindSpeed,
		Narrative:   rep.Narrative,
		MaltaTime:   timeFrom(rep.MaltaTime),
		UpdatedAt:   rep.UpdatedAt,
	}
}

func timeFrom(mt weatherdomain.MaltaTime) MaltaTime {
	return MaltaTime{Display: mt.String(), Season: string(mt.Season()), Minutes: mt.Minutes}
}
