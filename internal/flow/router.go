package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/ratebot/core/logger"
	"github.com/m3rciful/ratebot/core/telegram/state"
	"github.com/m3rciful/ratebot/internal/currency"
)

// Router owns the userID -> session mapping and dispatches every inbound text:
// an active session gets the raw text, otherwise the text must be a known command.
type Router struct {
	sessions state.Manager
	machine  *Machine
	rates    RateStore
	policy   AccessPolicy
}

// NewRouter wires the router to its collaborators.
func NewRouter(sessions state.Manager, rates RateStore, policy AccessPolicy) *Router {
	return &Router{
		sessions: sessions,
		machine:  NewMachine(rates),
		rates:    rates,
		policy:   policy,
	}
}

// Dispatch handles one message. Unmatched text without an active session yields an empty reply.
func (r *Router) Dispatch(ctx context.Context, msg Message) (Reply, error) {
	sess, err := r.sessions.Get(ctx, msg.UserID)
	if err != nil {
		return Reply{}, fmt.Errorf("load session: %w", err)
	}
	if sess.Active() {
		return r.step(ctx, msg, sess)
	}

	cmd, ok := ParseCommand(msg.Text)
	if !ok {
		logger.Debug(ctx, logger.CompFlow, "flow.unmatched",
			slog.String("status", "skip"),
			slog.Int("len", len(msg.Text)),
		)
		return Reply{}, nil
	}
	reply, err := r.command(ctx, msg, cmd)
	reply.Handler = cmd.String()
	return reply, err
}

func (r *Router) step(ctx context.Context, msg Message, sess *state.Session) (Reply, error) {
	ctx = logger.WithFlowID(ctx, sess.FlowID)
	from := sess.State

	reply, err := r.machine.Step(ctx, sess, msg.Text)
	reply.Handler = string(from)
	if err != nil {
		if !sess.Active() {
			if clearErr := r.sessions.Clear(ctx, msg.UserID); clearErr != nil {
				err = errors.Join(err, fmt.Errorf("clear session: %w", clearErr))
			}
		}
		return reply, err
	}

	if err := r.sessions.Save(ctx, msg.UserID, sess); err != nil {
		return reply, fmt.Errorf("save session: %w", err)
	}
	logger.Info(ctx, logger.CompFlow, "flow.step",
		slog.String("status", "ok"),
		slog.String("state", string(from)),
		slog.String("next_state", string(sess.State)),
	)
	return reply, nil
}

func (r *Router) command(ctx context.Context, msg Message, cmd Command) (Reply, error) {
	switch cmd {
	case CommandStart, CommandHelp:
		privileged, err := r.policy.IsPrivileged(ctx, msg.UserID)
		if err != nil {
			return Reply{}, fmt.Errorf("check access: %w", err)
		}
		if cmd == CommandStart {
			return Reply{Text: startText(privileged)}, nil
		}
		return Reply{Text: helpText(privileged)}, nil

	case CommandGetCurrencies:
		records, err := r.rates.List(ctx)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: ratesText(records)}, nil

	case CommandSaveCurrency:
		if err := r.begin(ctx, msg.UserID, StateWaitingCurrency); err != nil {
			return Reply{}, err
		}
		return Reply{Text: msgAskCode}, nil

	case CommandConvert:
		records, err := r.rates.List(ctx)
		if err != nil {
			return Reply{}, err
		}
		if len(records) == 0 {
			return Reply{Text: msgNoRates}, nil
		}
		if err := r.begin(ctx, msg.UserID, StateWaitingConvertCurrency); err != nil {
			return Reply{}, err
		}
		return Reply{Text: convertPrompt(records)}, nil

	case CommandManageCurrency:
		err := r.authorize(ctx, msg.UserID)
		if errors.Is(err, currency.ErrAccessDenied) {
			logger.Info(ctx, logger.CompFlow, "flow.denied",
				slog.String("status", "skip"),
				slog.String("command", cmd.String()),
			)
			return Reply{Text: msgAccessDenied}, nil
		}
		if err != nil {
			return Reply{}, err
		}
		if err := r.begin(ctx, msg.UserID, StateWaitingManageAction); err != nil {
			return Reply{}, err
		}
		return Reply{Text: msgChooseAction, Keyboard: manageKeyboard()}, nil
	}
	return Reply{}, fmt.Errorf("flow: unhandled command %d", cmd)
}

func (r *Router) authorize(ctx context.Context, userID int64) error {
	ok, err := r.policy.IsPrivileged(ctx, userID)
	if err != nil {
		return fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return currency.ErrAccessDenied
	}
	return nil
}

// begin stores a fresh session so the next message goes to st.
func (r *Router) begin(ctx context.Context, userID int64, st state.State) error {
	sess := state.NewSession(st)
	if err := r.sessions.Save(ctx, userID, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	logger.Info(logger.WithFlowID(ctx, sess.FlowID), logger.CompFlow, "flow.begin",
		slog.String("status", "ok"),
		slog.String("next_state", string(st)),
	)
	return nil
}
