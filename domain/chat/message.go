package chat

import (
	"fmt"
	"strings"
	"time"

	"mschat/errors"
)

const maxContentLength = 500

// Message is one posted chat line. It is owned exclusively by the room that
// created it and immutable after creation.
type Message struct {
	id        string
	userID    string
	content   string
	timestamp Timestamp
	emotes    []Emote
}

// NewMessage validates and builds a message stamped with the current instant.
// Content is trimmed; the emote list is copied defensively.
func NewMessage(id, userID, content string, emotes []Emote) (Message, error) {
	if strings.TrimSpace(id) == "" {
		return Message{}, fmt.Errorf("%w: message id cannot be empty", errors.ErrValidation)
	}
	if strings.TrimSpace(userID) == "" {
		return Message{}, fmt.Errorf("%w: message user id cannot be empty", errors.ErrValidation)
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Message{}, fmt.Errorf("%w: message content cannot be empty", errors.ErrValidation)
	}
	if len([]rune(content)) > maxContentLength {
		return Message{}, fmt.Errorf("%w: message content exceeds %d characters", errors.ErrValidation, maxContentLength)
	}
	copied := make([]Emote, len(emotes))
	copy(copied, emotes)
	return Message{
		id:        id,
		userID:    userID,
		content:   trimmed,
		timestamp: Now(),
		emotes:    copied,
	}, nil
}

// RestoreMessage rebuilds a previously validated message from storage.
// Persistence mapping only: it bypasses creation-time validation on purpose,
// the stored state already passed it.
func RestoreMessage(id, userID, content string, timestamp Timestamp, emotes []Emote) Message {
	copied := make([]Emote, len(emotes))
	copy(copied, emotes)
	return Message{
		id:        id,
		userID:    userID,
		content:   content,
		timestamp: timestamp,
		emotes:    copied,
	}
}

func (m Message) ID() string           { return m.id }
func (m Message) UserID() string       { return m.userID }
func (m Message) Content() string      { return m.content }
func (m Message) Timestamp() Timestamp { return m.timestamp }

func (m Message) Emotes() []Emote {
	copied := make([]Emote, len(m.emotes))
	copy(copied, m.emotes)
	return copied
}

func (m Message) HasEmote(code string) bool {
	for _, emote := range m.emotes {
		if emote.code == code {
			return true
		}
	}
	return false
}

// IsRecentWithin reports whether the message was posted at most window ago.
func (m Message) IsRecentWithin(window time.Duration) bool {
	return time.Since(m.timestamp.Time()) <= window
}
