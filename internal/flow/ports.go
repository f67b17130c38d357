package flow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/ratebot/internal/currency"
)

// RateStore is the persistence the flows read and write.
type RateStore interface {
	Exists(ctx context.Context, code currency.Code) (bool, error)
	Get(ctx context.Context, code currency.Code) (decimal.Decimal, error)
	List(ctx context.Context) ([]currency.Record, error)
	Insert(ctx context.Context, rec currency.Record) error
	Update(ctx context.Context, rec currency.Record) error
	Delete(ctx context.Context, code currency.Code) (int64, error)
}

// AccessPolicy decides whether a user may run privileged commands.
type AccessPolicy interface {
	IsPrivileged(ctx context.Context, userID int64) (bool, error)
}

// Message is one inbound text from a user.
type Message struct {
	UserID int64
	Text   string
}

// Keyboard describes reply buttons to attach to an outbound message.
// Remove asks the client to hide a previously shown keyboard.
type Keyboard struct {
	Rows   [][]string
	Remove bool
}

// Reply is the outbound answer to a Message. An empty Text means no answer.
type Reply struct {
	Text     string
	Keyboard *Keyboard
	// Handler names the command or state that produced the reply, for logs.
	Handler string
}

// Empty reports whether nothing should be sent.
func (r Reply) Empty() bool { return r.Text == "" }
