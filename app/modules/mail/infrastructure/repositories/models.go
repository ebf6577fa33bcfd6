package maildb

import (
	"time"

	"github.com/uptrace/bun"
)

// Forward records an email already posted to Discord.
type Forward struct {
	bun.BaseModel `bun:"table:mail_forwards,alias:mf"`

	MessageKey  string    `bun:"message_key,pk"`
	Subject     string    `bun:"subject,notnull"`
	Sender      string    `bun:"sender,notnull"`
	ReceivedAt  time.Time `bun:"received_at,nullzero"`
	ForwardedAt time.Time `bun:"forwarded_at,nullzero,notnull,default:current_timestamp"`
}
