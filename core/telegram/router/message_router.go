package router

import (
	"time"

	tg "github.com/m3rciful/ratebot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// Dispatcher handles a single text update and reports which handler served it.
// An empty handler name means nothing matched the text.
type Dispatcher interface {
	Dispatch(c tele.Context) (handler string, err error)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(c tele.Context) (string, error)

// Dispatch calls f(c).
func (f DispatcherFunc) Dispatch(c tele.Context) (string, error) { return f(c) }

// TextOptions controls fallback behaviour for unmatched text.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes binds every text update, commands included, to the dispatcher.
// Commands arrive through OnText because no per-command endpoints are registered.
func TextRoutes(d Dispatcher, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if d == nil {
			logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
			return nil
		}

		name, err := d.Dispatch(c)
		if name == "" && err == nil {
			if opts.UnknownText != nil {
				return handleWithSummary(c, "unknown_text", start, "", "", func() error {
					return opts.UnknownText(c)
				})
			}
			logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
			return nil
		}

		logHandlerSummary(c, normalizeHandlerName(name), start, "", "", err)
		return err
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: handler},
	}
}
