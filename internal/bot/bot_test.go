package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ratebot/internal/flow"

	tele "gopkg.in/telebot.v4"
)

type sent struct {
	text   string
	markup *tele.ReplyMarkup
}

type fakeContext struct {
	tele.Context
	upd   tele.Update
	store map[string]interface{}
	sent  []sent
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		upd: tele.Update{ID: 3, Message: &tele.Message{
			Text:   text,
			Sender: &tele.User{ID: userID},
			Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		}},
		store: make(map[string]interface{}),
	}
}

func (f *fakeContext) Update() tele.Update           { return f.upd }
func (f *fakeContext) Sender() *tele.User            { return f.upd.Message.Sender }
func (f *fakeContext) Chat() *tele.Chat              { return f.upd.Message.Chat }
func (f *fakeContext) Text() string                  { return f.upd.Message.Text }
func (f *fakeContext) Get(key string) interface{}    { return f.store[key] }
func (f *fakeContext) Set(key string, v interface{}) { f.store[key] = v }
func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	s := sent{text: what.(string)}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			s.markup = so.ReplyMarkup
		}
	}
	f.sent = append(f.sent, s)
	return nil
}

type fakeFlows struct {
	got   []flow.Message
	reply flow.Reply
	err   error
}

func (f *fakeFlows) Dispatch(_ context.Context, msg flow.Message) (flow.Reply, error) {
	f.got = append(f.got, msg)
	return f.reply, f.err
}

func TestHandlerSendsReply(t *testing.T) {
	flows := &fakeFlows{reply: flow.Reply{
		Text:     "Выберите действие:",
		Keyboard: &flow.Keyboard{Rows: [][]string{{"Добавить", "Удалить", "Изменить"}}},
		Handler:  "manage_currency",
	}}
	c := newFakeContext(5, "/manage_currency")

	name, err := NewHandler(flows).Dispatch(c)
	require.NoError(t, err)
	assert.Equal(t, "manage_currency", name)
	assert.Equal(t, []flow.Message{{UserID: 5, Text: "/manage_currency"}}, flows.got)

	require.Len(t, c.sent, 1)
	assert.Equal(t, "Выберите действие:", c.sent[0].text)
	require.NotNil(t, c.sent[0].markup)
	require.Len(t, c.sent[0].markup.ReplyKeyboard, 1)
	assert.Len(t, c.sent[0].markup.ReplyKeyboard[0], 3)
}

func TestHandlerSilentOnEmptyReply(t *testing.T) {
	c := newFakeContext(5, "hello")
	name, err := NewHandler(&fakeFlows{}).Dispatch(c)
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Empty(t, c.sent)
}

func TestHandlerDoesNotAnswerOnError(t *testing.T) {
	boom := errors.New("connection refused")
	c := newFakeContext(5, "/get_currencies")
	name, err := NewHandler(&fakeFlows{reply: flow.Reply{Handler: "get_currencies"}, err: boom}).Dispatch(c)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "get_currencies", name)
	assert.Empty(t, c.sent)
}

func TestMarkup(t *testing.T) {
	assert.Nil(t, Markup(nil))
	assert.True(t, Markup(&flow.Keyboard{Remove: true}).RemoveKeyboard)
	m := Markup(&flow.Keyboard{Rows: [][]string{{"a"}, {"b"}}})
	assert.Len(t, m.ReplyKeyboard, 2)
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	public := reg.ListCommands(false)
	names := make([]string, 0, len(public))
	for _, c := range public {
		names = append(names, c.Text)
	}
	assert.Equal(t, []string{"start", "get_currencies", "convert", "help"}, names)
	assert.Len(t, reg.ListCommands(true), 5)

	_, cmd, ok := reg.LookupCommand("save_currency")
	require.True(t, ok)
	assert.True(t, cmd.Hidden)
}

func TestRateLimited(t *testing.T) {
	c := newFakeContext(5, "/start")
	require.NoError(t, RateLimited(c))
	require.Len(t, c.sent, 1)
	assert.Equal(t, msgRateLimited, c.sent[0].text)
}
