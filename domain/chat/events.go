package chat

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is an immutable fact produced by the aggregate, consumed by
// broadcast and persistence collaborators.
type DomainEvent interface {
	RoomID() string
	OccurredAt() time.Time
}

// MessageSent carries the full published message.
type MessageSent struct {
	ID      uuid.UUID
	Room    string
	Message Message
	At      time.Time
}

func (e MessageSent) RoomID() string        { return e.Room }
func (e MessageSent) OccurredAt() time.Time { return e.At }

// UserModerated records a ban or timeout applied by a moderator.
// Duration is zero for a ban.
type UserModerated struct {
	ID          uuid.UUID
	Room        string
	UserID      string
	ModeratorID string
	Action      Action
	Duration    time.Duration
	At          time.Time
}

func (e UserModerated) RoomID() string        { return e.Room }
func (e UserModerated) OccurredAt() time.Time { return e.At }
