package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mschat/errors"
)

func TestNewParticipant_RequiresUserID(t *testing.T) {
	req := require.New(t)

	_, err := NewParticipant("", false, nil)
	req.ErrorIs(err, errors.ErrValidation)

	_, err = NewParticipant("  ", true, nil)
	req.ErrorIs(err, errors.ErrValidation)
}

func TestParticipant_BadgesAreImmutable(t *testing.T) {
	req := require.New(t)

	mod, err := NewBadge("mod", "https://cdn.example.com/mod.png")
	req.NoError(err)
	badges := []Badge{mod}

	alice, err := NewParticipant("alice", true, badges)
	req.NoError(err)
	req.True(alice.CanModerate())
	req.True(alice.HasBadge("mod"))

	// Mutating the input or the snapshot never touches the participant
	badges[0] = Badge{}
	req.True(alice.HasBadge("mod"))

	snapshot := alice.Badges()
	snapshot[0] = Badge{}
	req.True(alice.HasBadge("mod"))
	req.False(alice.HasBadge("vip"))
}
