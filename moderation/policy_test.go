package moderation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mschat/domain/chat"
	"mschat/errors"
)

func participant(t *testing.T, userID string, moderator bool) chat.Participant {
	t.Helper()
	p, err := chat.NewParticipant(userID, moderator, nil)
	require.NoError(t, err)
	return p
}

func TestPolicy_IsContentAllowed(t *testing.T) {
	policy := NewPolicy()

	cases := []struct {
		name    string
		content string
		allowed bool
	}{
		{"normal line", "hello everyone", true},
		{"empty", "", false},
		{"whitespace only", "   \t  ", false},
		{"long repeated run", "aaaaaaaaaaaa", false},
		{"repeated run inside", "wow " + strings.Repeat("!", 15) + " nice", false},
		{"short repetition is fine", "soooo good", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.allowed, policy.IsContentAllowed(tc.content))
		})
	}
}

func TestPolicyWithWords_RejectsBannedVocabulary(t *testing.T) {
	req := require.New(t)
	policy, err := NewPolicyWithWords([]string{"badger", "scam"})
	req.NoError(err)

	req.True(policy.IsContentAllowed("what a great stream"))
	req.False(policy.IsContentAllowed("this badger again"))
	// Obfuscation does not help
	req.False(policy.IsContentAllowed("B.4.d.g.€r incoming"))
	req.False(policy.IsContentAllowed("total $c4m"))
}

func TestPolicy_CheckModerationAllowed(t *testing.T) {
	req := require.New(t)
	policy := NewPolicy()

	mod := participant(t, "mod", true)
	viewer := participant(t, "viewer", false)

	// Non-moderators cannot act, whatever the action
	err := policy.CheckModerationAllowed(viewer, mod, chat.ActionBan, 0)
	req.ErrorIs(err, errors.ErrInsufficientPermission)

	// Self-moderation is rejected whatever the moderator flag
	err = policy.CheckModerationAllowed(mod, mod, chat.ActionTimeout, time.Minute)
	req.ErrorIs(err, errors.ErrSelfModeration)
	err = policy.CheckModerationAllowed(viewer, viewer, chat.ActionBan, 0)
	req.ErrorIs(err, errors.ErrSelfModeration)

	req.NoError(policy.CheckModerationAllowed(mod, viewer, chat.ActionBan, 0))
	req.NoError(policy.CheckModerationAllowed(mod, viewer, chat.ActionTimeout, time.Minute))
}

func TestPolicy_TimeoutDurationBounds(t *testing.T) {
	req := require.New(t)
	policy := NewPolicy()

	mod := participant(t, "mod", true)
	viewer := participant(t, "viewer", false)

	err := policy.CheckModerationAllowed(mod, viewer, chat.ActionTimeout, 0)
	req.ErrorIs(err, errors.ErrInvalidDuration)

	err = policy.CheckModerationAllowed(mod, viewer, chat.ActionTimeout, -time.Second)
	req.ErrorIs(err, errors.ErrInvalidDuration)

	err = policy.CheckModerationAllowed(mod, viewer, chat.ActionTimeout, MaxTimeout+time.Second)
	req.ErrorIs(err, errors.ErrDurationExceeded)

	// The boundary itself is allowed
	req.NoError(policy.CheckModerationAllowed(mod, viewer, chat.ActionTimeout, MaxTimeout))

	// Bans carry no duration, the bounds do not apply
	req.NoError(policy.CheckModerationAllowed(mod, viewer, chat.ActionBan, -time.Hour))
}
