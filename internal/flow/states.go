package flow

import "github.com/m3rciful/ratebot/core/telegram/state"

// Conversation states. Idle is state.StateIdle, i.e. no stored session.
const (
	StateWaitingCurrency        state.State = "waiting_currency"
	StateWaitingRate            state.State = "waiting_rate"
	StateWaitingConvertCurrency state.State = "waiting_convert_currency"
	StateWaitingConvertAmount   state.State = "waiting_convert_amount"
	StateWaitingManageAction    state.State = "waiting_manage_action"
	StateWaitingAddCurrency     state.State = "waiting_add_currency"
	StateWaitingAddRate         state.State = "waiting_add_rate"
	StateWaitingDeleteCurrency  state.State = "waiting_delete_currency"
	StateWaitingUpdateCurrency  state.State = "waiting_update_currency"
	StateWaitingUpdateRate      state.State = "waiting_update_rate"
)

// Scratch keys kept in the session between steps.
const (
	keyCurrency        = "currency"
	keyConvertCurrency = "convert_currency"
)
