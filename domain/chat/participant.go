package chat

import (
	"fmt"
	"strings"

	"mschat/errors"
)

// Participant is a connected user's chat-relevant identity.
// It is an immutable value: changing the moderator flag or the badge set
// means replacing the participant, never mutating in place.
type Participant struct {
	userID    string
	moderator bool
	badges    []Badge
}

func NewParticipant(userID string, moderator bool, badges []Badge) (Participant, error) {
	if strings.TrimSpace(userID) == "" {
		return Participant{}, fmt.Errorf("%w: participant user id cannot be empty", errors.ErrValidation)
	}
	copied := make([]Badge, len(badges))
	copy(copied, badges)
	return Participant{userID: userID, moderator: moderator, badges: copied}, nil
}

func (p Participant) UserID() string {
	return p.userID
}

func (p Participant) CanModerate() bool {
	return p.moderator
}

func (p Participant) Badges() []Badge {
	copied := make([]Badge, len(p.badges))
	copy(copied, p.badges)
	return copied
}

func (p Participant) HasBadge(name string) bool {
	for _, badge := range p.badges {
		if badge.name == name {
			return true
		}
	}
	return false
}
