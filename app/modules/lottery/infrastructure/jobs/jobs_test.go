package lotteryjobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	"github.com/Black-And-White-Club/malta-bot/internal/discord/discordtest"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	lotteryservice.Service
	drawFunc func(ctx context.Context) (lotteryservice.DrawResult, error)
}

func (s *stubService) Draw(ctx context.Context) (lotteryservice.DrawResult, error) {
	return s.drawFunc(ctx)
}

func newJob(args DrawArgs) *river.Job[DrawArgs] {
	return &river.Job[DrawArgs]{JobRow: &rivertype.JobRow{ID: 1}, Args: args}
}

func TestDrawWorker(t *testing.T) {
	tests := []struct {
		name          string
		drawErr       error
		publishErr    error
		wantErr       bool
		wantPublished int
	}{
		{name: "publishes the result", wantPublished: 1},
		{name: "draw failure is retried", drawErr: errors.New("db down"), wantErr: true},
		{name: "publish failure is not retried", publishErr: errors.New("bus closed"), wantPublished: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{drawFunc: func(context.Context) (lotteryservice.DrawResult, error) {
				if tt.drawErr != nil {
					return lotteryservice.DrawResult{}, tt.drawErr
				}
				return lotteryservice.DrawResult{
					RoundID: uuid.New(),
					Draw:    lotterydomain.Draw{WinnerUserID: "9", TotalTickets: 3, Participants: 2},
					Pot:     150,
				}, nil
			}}
			pub := &discordtest.FakePublisher{Err: tt.publishErr}

			err := NewDrawWorker(svc, pub, slog.Default()).Work(context.Background(), newJob(DrawArgs{Reason: ReasonWeekly}))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.Len(t, pub.Published, tt.wantPublished)
			if tt.wantPublished > 0 {
				assert.Equal(t, events.LotteryDrawnV1, pub.Published[0].Topic)
			}
		})
	}
}

func TestDrawArgs_Kind(t *testing.T) {
	assert.Equal(t, "lottery_draw", DrawArgs{}.Kind())
}
