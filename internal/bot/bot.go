// Package bot adapts Telegram updates to the conversation flows.
package bot

import (
	"context"
	"fmt"

	tg "github.com/m3rciful/ratebot/core/telegram"
	tghelpers "github.com/m3rciful/ratebot/core/telegram/helpers"
	"github.com/m3rciful/ratebot/core/telegram/keyboard"
	"github.com/m3rciful/ratebot/internal/flow"

	tele "gopkg.in/telebot.v4"
)

const msgRateLimited = "Слишком много сообщений, подождите немного."

// FlowRouter is the part of flow.Router the adapter depends on.
type FlowRouter interface {
	Dispatch(ctx context.Context, msg flow.Message) (flow.Reply, error)
}

// Handler turns text updates into flow messages and sends the replies back.
type Handler struct {
	flows FlowRouter
}

// NewHandler returns a Handler backed by flows.
func NewHandler(flows FlowRouter) *Handler {
	return &Handler{flows: flows}
}

// Dispatch satisfies router.Dispatcher. Flow errors are returned without
// answering the user; the route logs them.
func (h *Handler) Dispatch(c tele.Context) (string, error) {
	ctx := tghelpers.BuildContext(c)
	reply, err := h.flows.Dispatch(ctx, flow.Message{
		UserID: tghelpers.SenderID(c),
		Text:   c.Text(),
	})
	if err != nil {
		return reply.Handler, err
	}
	if reply.Empty() {
		return reply.Handler, nil
	}
	tghelpers.WithHandler(c, reply.Handler)
	if err := tghelpers.SendText(c, reply.Text, Markup(reply.Keyboard)); err != nil {
		return reply.Handler, fmt.Errorf("send reply: %w", err)
	}
	return reply.Handler, nil
}

// Markup converts a flow keyboard into Telegram reply markup; nil means no markup.
func Markup(kb *flow.Keyboard) *tele.ReplyMarkup {
	switch {
	case kb == nil:
		return nil
	case kb.Remove:
		return keyboard.RemoveKeyboard()
	default:
		return keyboard.ReplyButtons(kb.Rows...)
	}
}

// NewRegistry publishes the flow command table as the bot command menu.
func NewRegistry() (*tg.Registry, error) {
	reg := tg.NewRegistry()
	for _, spec := range flow.Commands() {
		err := reg.RegisterCommand("/"+spec.Name, tg.Command{
			Description: spec.Description,
			AdminOnly:   spec.AdminOnly,
			Hidden:      spec.Hidden,
		})
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// RateLimited answers updates dropped by the rate limiter.
func RateLimited(c tele.Context) error {
	return tghelpers.SendText(c, msgRateLimited, nil)
}
