package lotteryservice

import (
	"context"
	"time"

	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	lotterydb "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/google/uuid"
)

// Service defines the contract for the lottery.
type Service interface {
	// Buy debits gold for n tickets in the open round.
	Buy(ctx context.Context, userID string, n int) (Purchase, error)

	// Info describes the open round from userID's point of view.
	Info(ctx context.Context, userID string) (RoundInfo, error)

	// History returns the last drawn rounds, newest first.
	History(ctx context.Context, limit int) ([]lotterydb.Round, error)

	// Draw closes the open round, pays the winner and opens the next round.
	Draw(ctx context.Context) (DrawResult, error)

	// Rules returns the ticket price and cap in force.
	Rules() lotterydomain.Rules
}

// Schedule yields the next weekly draw time.
type Schedule interface {
	Next(time.Time) time.Time
}

// Purchase describes a ticket purchase.
type Purchase struct {
	RoundID     uuid.UUID
	Bought      int
	Cost        int64
	UserTickets int
	Balance     int64
	Pot         int64
}

// RoundInfo is the open round as one player sees it.
type RoundInfo struct {
	RoundID      uuid.UUID
	Pot          int64
	TotalTickets int
	UserTickets  int
	Odds         float64
	OpenedAt     time.Time
	NextDraw     time.Time
}

// DrawResult describes a finished round.
type DrawResult struct {
	RoundID     uuid.UUID
	NextRoundID uuid.UUID
	Draw        lotterydomain.Draw
	Pot         int64
	RolledOver  bool
	DrawnAt     time.Time
	// WinnerGold is the winner's balance after the payout.
	WinnerGold int64
}

// Event is the lottery.drawn.v1 event for the result.
func (r DrawResult) Event() eventbus.Result {
	return eventbus.Result{
		Topic: events.LotteryDrawnV1,
		Payload: events.LotteryDrawnPayloadV1{
			RoundID:       r.RoundID.String(),
			WinnerUserID:  r.Draw.WinnerUserID,
			Pot:           r.Pot,
			TotalTickets:  r.Draw.TotalTickets,
			WinnerTickets: r.Draw.WinnerTickets,
			Participants:  r.Draw.Participants,
			RolledOver:    r.RolledOver,
			DrawnAt:       r.DrawnAt,
		},
	}
}
