package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/ratebot/core/telegram/state"
	"github.com/m3rciful/ratebot/internal/currency"
)

// errMissingScratch means a session reached a second step without the value
// collected in the first one, e.g. after a manual edit of the session store.
var errMissingScratch = errors.New("flow: session is missing collected currency")

// Machine advances a conversation session by one user input.
// It mutates the session in place; a session left in state.StateIdle is cleared by the caller.
type Machine struct {
	rates RateStore
}

// NewMachine builds a Machine over the rate store.
func NewMachine(rates RateStore) *Machine {
	return &Machine{rates: rates}
}

// Step handles text for the session's current state.
// Storage failures are returned as errors and leave the session untouched.
func (m *Machine) Step(ctx context.Context, sess *state.Session, text string) (Reply, error) {
	switch sess.State {
	case StateWaitingCurrency:
		return m.enterNewCode(ctx, sess, text, StateWaitingRate)
	case StateWaitingRate:
		return m.saveRate(ctx, sess, text)
	case StateWaitingConvertCurrency:
		return m.chooseConvertCurrency(ctx, sess, text)
	case StateWaitingConvertAmount:
		return m.convertAmount(ctx, sess, text)
	case StateWaitingManageAction:
		return m.chooseAction(sess, text), nil
	case StateWaitingAddCurrency:
		return m.enterNewCode(ctx, sess, text, StateWaitingAddRate)
	case StateWaitingAddRate:
		return m.addRate(ctx, sess, text)
	case StateWaitingDeleteCurrency:
		return m.deleteCurrency(ctx, sess, text)
	case StateWaitingUpdateCurrency:
		return m.chooseUpdateCurrency(ctx, sess, text)
	case StateWaitingUpdateRate:
		return m.updateRate(ctx, sess, text)
	default:
		unknown := sess.State
		sess.State = state.StateIdle
		return Reply{}, fmt.Errorf("flow: unknown state %q", unknown)
	}
}

// enterNewCode is shared by the save and add flows: invalid codes retry, known codes abort.
func (m *Machine) enterNewCode(ctx context.Context, sess *state.Session, text string, next state.State) (Reply, error) {
	code, err := currency.ParseCode(text)
	if err != nil {
		return Reply{Text: msgInvalidCode}, nil
	}
	exists, err := m.rates.Exists(ctx, code)
	if err != nil {
		return Reply{}, err
	}
	if exists {
		sess.State = state.StateIdle
		return Reply{Text: msgAlreadyExists}, nil
	}
	sess.SetValue(keyCurrency, code.String())
	sess.State = next
	return Reply{Text: askRateText(code)}, nil
}

// saveRate aborts the flow on a non-numeric rate.
func (m *Machine) saveRate(ctx context.Context, sess *state.Session, text string) (Reply, error) {
	rate, err := currency.ParseNumber(text)
	if err != nil {
		sess.State = state.StateIdle
		return Reply{Text: msgInvalidRate}, nil
	}
	rec, err := m.insert(ctx, sess, rate)
	if errors.Is(err, currency.ErrConflict) {
		return Reply{Text: msgAlreadyExists}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: savedText(rec)}, nil
}

// addRate retries on a non-numeric rate.
func (m *Machine) addRate(ctx context.Context, sess *state.Session, text string) (Reply, error) {
	rate, err := currency.ParseNumber(text)
	if err != nil {
		return Reply{Text: msgInvalidRate}, nil
	}
	rec, err := m.insert(ctx, sess, rate)
	if errors.Is(err, currency.ErrConflict) {
		return Reply{Text: msgAlreadyExists}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: addedText(rec.Code)}, nil
}

// insert stores the collected code with rate and clears the session unless storage failed.
func (m *Machine) insert(ctx context.Context, sess *state.Session, rate decimal.Decimal) (currency.Record, error) {
	code, err := scratchCode(sess, keyCurrency)
	if err != nil {
		return currency.Record{}, err
	}
	rec := currency.Record{Code: code, Rate: rate}
	err = m.rates.Insert(ctx, rec)
	if err != nil && !errors.Is(err, currency.ErrConflict) {
		return rec, err
	}
	sess.State = state.StateIdle
	return rec, err
}

func (m *Machine) chooseConvertCurrency(ctx context.Context, sess *state.Session, text string) (Reply, error) {
	code := currency.NormalizeCode(text)
	exists, err := m.rates.Exists(ctx, code)
	if err != nil {
		return Reply{}, err
	}
	if !exists {
		return Reply{Text: msgConvertNotFound}, nil
	}
	sess.SetValue(keyConvertCurrency, code.String())
	sess.State = StateWaitingConvertAmount
	return Reply{Text: askAmountText(code)}, nil
}

// convertAmount reads the rate at the moment the amount arrives.
func (m *Machine) convertAmount(ctx context.Context, sess *state.Session, text string) (Reply, error) {
	amount, err := currency.ParseNumber(text)
	if err != nil {
		return Reply{Text: msgInvalidAmount}, nil
	}
	code, err := scratchCode(sess, keyConvertCurrency)
	if err != nil {
		return Reply{}, err
	}
	rate, err := m.rates.Get(ctx, code)
	switch {
	case errors.Is(err, currency.ErrNotFound):
		sess.State = state.StateIdle
		return Reply{Text: msgNotFound}, nil
	case err != nil:
		return Reply{}, err
	}
	sess.State = state.StateIdle
	return Reply{Text: conversionText(code, amount, currency.Convert(amount, rate), rate)}, nil
}

func (m *Machine) chooseAction(sess *state.Session, text string) Reply {
	switch text {
	case LabelAdd:
		sess.State = StateWaitingAddCurrency
	case LabelDelete:
		sess.State = StateWaitingDeleteCurrency
	case LabelUpdate:
		sess.State = StateWaitingUpdateCurrency
	default:
		return Reply{Text: msgChooseAction, Keyboard: manageKeyboard()}
	}
	return Reply{Text: msgAskCodeShort, Keyboard: removeKeyboard()}
}

func (m *Machine) deleteCurrency(ctx context.Context, sess *state.Session, text string) (Reply, error) {
	code := currency.NormalizeCode(text)
	affected, err := m.rates.Delete(ctx, code)
	if err != nil {
		return Reply{}, err
	}
	sess.State = state.StateIdle
	if affected == 0 {
		return Reply{Text: msgNotFound}, nil
	}
	return Reply{Text: deletedText(code)}, nil
}

func (m *Machine) chooseUpdateCurrency(ctx context.Context, sess *state.Session, text string) (Reply, error) {
	code := currency.NormalizeCode(text)
	exists, err := m.rates.Exists(ctx, code)
	if err != nil {
		return Reply{}, err
	}
	if !exists {
		sess.State = state.StateIdle
		return Reply{Text: msgNotFound}, nil
	}
	sess.SetValue(keyCurrency, code.String())
	sess.State = StateWaitingUpdateRate
	return Reply{Text: askNewRateText(code)}, nil
}

func (m *Machine) updateRate(ctx context.Context, sess *state.Session, text string) (Reply, error) {
	rate, err := currency.ParseNumber(text)
	if err != nil {
		return Reply{Text: msgInvalidRate}, nil
	}
	code, err := scratchCode(sess, keyCurrency)
	if err != nil {
		return Reply{}, err
	}
	rec := currency.Record{Code: code, Rate: rate}
	err = m.rates.Update(ctx, rec)
	switch {
	case errors.Is(err, currency.ErrNotFound):
		sess.State = state.StateIdle
		return Reply{Text: msgNotFound}, nil
	case err != nil:
		return Reply{}, err
	}
	sess.State = state.StateIdle
	return Reply{Text: updatedText(rec)}, nil
}

func scratchCode(sess *state.Session, key string) (currency.Code, error) {
	v, ok := sess.Value(key)
	if !ok || v == "" {
		sess.State = state.StateIdle
		return "", errMissingScratch
	}
	return currency.Code(v), nil
}
