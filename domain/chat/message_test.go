package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mschat/errors"
)

func TestNewMessage_ValidatesAndTrims(t *testing.T) {
	req := require.New(t)

	_, err := NewMessage("", "alice", "hello", nil)
	req.ErrorIs(err, errors.ErrValidation)

	_, err = NewMessage("m1", "", "hello", nil)
	req.ErrorIs(err, errors.ErrValidation)

	_, err = NewMessage("m1", "alice", "   ", nil)
	req.ErrorIs(err, errors.ErrValidation)

	msg, err := NewMessage("m1", "alice", "  hello  ", nil)
	req.NoError(err)
	req.Equal("hello", msg.Content())
	req.False(msg.Timestamp().Time().IsZero())
}

func TestNewMessage_ContentLengthBound(t *testing.T) {
	req := require.New(t)

	_, err := NewMessage("m1", "alice", strings.Repeat("a", 500), nil)
	req.NoError(err)

	_, err = NewMessage("m1", "alice", strings.Repeat("a", 501), nil)
	req.ErrorIs(err, errors.ErrValidation)

	// The limit counts runes, not bytes
	_, err = NewMessage("m1", "alice", strings.Repeat("é", 500), nil)
	req.NoError(err)
}

func TestMessage_EmotesAreCopied(t *testing.T) {
	req := require.New(t)

	kappa, err := NewEmote("Kappa", "https://cdn.example.com/kappa.png")
	req.NoError(err)
	emotes := []Emote{kappa}

	msg, err := NewMessage("m1", "alice", "Kappa", emotes)
	req.NoError(err)

	emotes[0] = Emote{}
	req.True(msg.HasEmote("Kappa"))
	req.False(msg.HasEmote("PogChamp"))

	snapshot := msg.Emotes()
	snapshot[0] = Emote{}
	req.True(msg.HasEmote("Kappa"))
}

func TestMessage_IsRecentWithin(t *testing.T) {
	req := require.New(t)

	fresh, err := NewMessage("m1", "alice", "hello", nil)
	req.NoError(err)
	req.True(fresh.IsRecentWithin(time.Minute))

	old := RestoreMessage("m2", "alice", "old", RestoreTimestamp(time.Now().Add(-time.Hour).UnixMilli()), nil)
	req.False(old.IsRecentWithin(time.Minute))
}
