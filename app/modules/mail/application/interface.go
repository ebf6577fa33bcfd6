package mailservice

import (
	"context"

	maildomain "github.com/Black-And-White-Club/malta-bot/app/modules/mail/domain"
)

// Service polls the applications mailbox.
type Service interface {
	// Poll forwards every new matching email once and marks it read.
	Poll(ctx context.Context) (PollResult, error)
}

// Forwarder posts one application to Discord.
type Forwarder interface {
	Forward(ctx context.Context, app maildomain.Application) error
}

// PollResult counts what one poll did.
type PollResult struct {
	Matched    int
	Forwarded  int
	Duplicates int
	Failed     int
}
