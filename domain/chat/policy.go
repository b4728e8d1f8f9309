package chat

import "time"

// Action is a moderation action kind.
type Action string

const (
	ActionBan     Action = "ban"
	ActionTimeout Action = "timeout"
)

func (a Action) IsValid() bool {
	return a == ActionBan || a == ActionTimeout
}

// ModerationPolicy holds the stateless moderation rules. It is injected per
// call and never carries aggregate identity: the policy returns a decision,
// the aggregate alone builds events with the correct room id.
type ModerationPolicy interface {
	// IsContentAllowed decides whether a message content may be published.
	IsContentAllowed(content string) bool

	// CheckModerationAllowed decides whether moderator may apply action to
	// target with the given timeout duration (ignored for bans). It returns
	// nil or the specific violation.
	CheckModerationAllowed(moderator, target Participant, action Action, timeout time.Duration) error
}
