package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	upd   tele.Update
	store map[string]interface{}
}

func newFakeContext(text string) *fakeContext {
	return &fakeContext{
		upd: tele.Update{ID: 1, Message: &tele.Message{
			Text:   text,
			Sender: &tele.User{ID: 10},
			Chat:   &tele.Chat{ID: 10, Type: tele.ChatPrivate},
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

func TestTextRoutesDispatch(t *testing.T) {
	var seen []string
	d := DispatcherFunc(func(c tele.Context) (string, error) {
		seen = append(seen, c.Text())
		return "convert", nil
	})

	routes := TextRoutes(d, TextOptions{})
	require.Len(t, routes, 1)
	assert.Equal(t, tele.OnText, routes[0].Endpoint)

	c := newFakeContext("/convert")
	require.NoError(t, routes[0].Handler(c))
	assert.Equal(t, []string{"/convert"}, seen)
}

func TestTextRoutesPropagatesError(t *testing.T) {
	boom := errors.New("db down")
	d := DispatcherFunc(func(tele.Context) (string, error) { return "get_currencies", boom })

	err := TextRoutes(d, TextOptions{})[0].Handler(newFakeContext("/get_currencies"))
	assert.ErrorIs(t, err, boom)
}

func TestTextRoutesUnknownText(t *testing.T) {
	d := DispatcherFunc(func(tele.Context) (string, error) { return "", nil })

	// Unmatched text is skipped silently without a fallback.
	require.NoError(t, TextRoutes(d, TextOptions{})[0].Handler(newFakeContext("hello")))

	called := false
	opts := TextOptions{UnknownText: func(tele.Context) error {
		called = true
		return nil
	}}
	require.NoError(t, TextRoutes(d, opts)[0].Handler(newFakeContext("hello")))
	assert.True(t, called)
}

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "unknown", normalizeHandlerName(" "))
	assert.Equal(t, "manage_currency", normalizeHandlerName("/Manage_Currency"))
}

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "rate not found" }

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "", deriveErrorCode(nil))
	assert.Equal(t, "RATE_NOT_FOUND", deriveErrorCode(codedErr{}))
	assert.Equal(t, "ERRORSTRING", deriveErrorCode(errors.New("x")))
}
