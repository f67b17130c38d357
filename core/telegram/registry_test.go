package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type recordingSetter struct {
	calls [][]interface{}
}

func (r *recordingSetter) SetCommands(opts ...interface{}) error {
	r.calls = append(r.calls, opts)
	return nil
}

func testRegistry(t *testing.T) *Registry {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/start", Command{Description: "start"}))
	require.NoError(t, reg.RegisterCommand("/manage", Command{Description: "manage", AdminOnly: true}))
	require.NoError(t, reg.RegisterCommand("/secret", Command{Description: "secret", Hidden: true}))
	return reg
}

func TestRegistryRejectsInvalid(t *testing.T) {
	reg := testRegistry(t)
	assert.Error(t, reg.RegisterCommand("start", Command{Description: "x"}))
	assert.Error(t, reg.RegisterCommand("/start", Command{Description: "x"}))
	assert.Error(t, reg.RegisterCommand("/empty", Command{}))
}

func TestRegistryListAndLookup(t *testing.T) {
	reg := testRegistry(t)

	assert.Equal(t, []tele.Command{{Text: "start", Description: "start"}}, reg.ListCommands(false))
	assert.Equal(t, []tele.Command{
		{Text: "start", Description: "start"},
		{Text: "manage", Description: "manage"},
	}, reg.ListCommands(true))

	name, cmd, ok := reg.LookupCommand("secret")
	assert.True(t, ok)
	assert.Equal(t, "/secret", name)
	assert.True(t, cmd.Hidden)
	assert.Equal(t, []string{"/manage", "/secret", "/start"}, reg.Names())
}

func TestInitBotCommandsScopesPrivilegedChats(t *testing.T) {
	reg := testRegistry(t)
	setter := &recordingSetter{}

	require.NoError(t, InitBotCommands(setter, reg, 42))
	require.Len(t, setter.calls, 2)
	assert.Len(t, setter.calls[0], 1)
	require.Len(t, setter.calls[1], 2)
	assert.Equal(t, tele.CommandScope{Type: tele.CommandScopeChat, ChatID: 42}, setter.calls[1][1])
}
