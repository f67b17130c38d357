package helpers

import (
	"log/slog"

	"github.com/m3rciful/ratebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// SendText sends raw text (no parse mode) to the current chat with optional reply markup.
// Replies are sent inline so that consecutive answers keep their order.
func SendText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	var err error
	if markup != nil {
		err = c.Send(text, &tele.SendOptions{ReplyMarkup: markup})
	} else {
		err = c.Send(text)
	}
	if err != nil {
		logger.Warn(BuildContext(c), logger.CompTG, "send.failed",
			slog.String("status", "fail"),
			slog.Bool("kb", markup != nil),
			slog.String("err", err.Error()),
		)
	}
	return err
}
