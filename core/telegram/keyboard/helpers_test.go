package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtons(t *testing.T) {
	m := ReplyButtons([]string{"a", "b", "c"}, nil, []string{"d"})

	assert.True(t, m.ResizeKeyboard)
	require.Len(t, m.ReplyKeyboard, 2)
	require.Len(t, m.ReplyKeyboard[0], 3)
	assert.Equal(t, "b", m.ReplyKeyboard[0][1].Text)
	assert.Equal(t, "d", m.ReplyKeyboard[1][0].Text)
}

func TestRemoveKeyboard(t *testing.T) {
	assert.True(t, RemoveKeyboard().RemoveKeyboard)
}
