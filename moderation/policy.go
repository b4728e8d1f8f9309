// Package moderation implements the stateless chat moderation rules: content
// acceptance and permission/duration checks for moderation actions. The
// policy knows nothing about room identity.
package moderation

import (
	"fmt"
	"strings"
	"time"

	"mschat/domain/chat"
	"mschat/errors"
)

// MaxTimeout caps a single timeout action.
const MaxTimeout = 24 * time.Hour

// maxRepeatedRun is the anti-spam heuristic: a single character repeated this
// many times consecutively rejects the whole message.
const maxRepeatedRun = 10

// Policy is the default ModerationPolicy. The optional word filter realizes
// the banned-word extension point; a nil filter disables it.
type Policy struct {
	words *WordFilter
}

func NewPolicy() Policy {
	return Policy{}
}

// NewPolicyWithWords builds a policy that additionally rejects content
// containing any of the given dictionary words.
func NewPolicyWithWords(words []string) (Policy, error) {
	filter, err := NewWordFilter(words)
	if err != nil {
		return Policy{}, fmt.Errorf("building word filter: %w", err)
	}
	return Policy{words: filter}, nil
}

func (p Policy) IsContentAllowed(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	if hasRepeatedRun(content, maxRepeatedRun) {
		return false
	}
	if p.words != nil && len(p.words.Detect(content)) > 0 {
		return false
	}
	return true
}

func (p Policy) CheckModerationAllowed(moderator, target chat.Participant, action chat.Action, timeout time.Duration) error {
	// Self-moderation is rejected before the permission check: the rule holds
	// whether or not the caller is a moderator.
	if moderator.UserID() == target.UserID() {
		return fmt.Errorf("%w", errors.ErrSelfModeration)
	}
	if !moderator.CanModerate() {
		return fmt.Errorf("%w: user %s", errors.ErrInsufficientPermission, moderator.UserID())
	}
	if action == chat.ActionTimeout {
		if timeout <= 0 {
			return fmt.Errorf("%w", errors.ErrInvalidDuration)
		}
		if timeout > MaxTimeout {
			return fmt.Errorf("%w", errors.ErrDurationExceeded)
		}
	}
	return nil
}

func hasRepeatedRun(content string, limit int) bool {
	var previous rune
	run := 0
	for _, r := range content {
		if r == previous {
			run++
			if run >= limit {
				return true
			}
			continue
		}
		previous = r
		run = 1
	}
	return false
}
