// Package chat contains the chat-room aggregate and its collaborators.
// All business invariants live here: who may speak, how messages are bounded,
// how moderation changes room state and which events result. Transport and
// persistence never mutate a room directly.
package chat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"mschat/errors"
)

// maxMessages bounds the in-room log. Oldest entries are evicted first.
const maxMessages = 100

// ChatRoom is the aggregate root of one per-channel live chat room. It owns
// the message log, the connected roster, the banned set and the mute map, and
// is their sole mutator. Operations are synchronous and in-memory; callers
// serialize access per room id (see services.ChatService).
type ChatRoom struct {
	id        string
	channelID string

	messages  []Message
	connected map[string]Participant
	banned    map[string]struct{}
	// mutedUntil maps user id to the instant the mute expires. Entries are
	// checked lazily: an expired entry means "not muted" and is never swept.
	mutedUntil map[string]time.Time

	// nextSeq numbers messages independently of the current log length, so
	// ids stay unique across eviction cycles.
	nextSeq int

	outbox []DomainEvent
}

// NewChatRoom creates an empty room. Both identifiers must be non-empty after
// trimming.
func NewChatRoom(id, channelID string) (*ChatRoom, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: room id cannot be empty", errors.ErrValidation)
	}
	if strings.TrimSpace(channelID) == "" {
		return nil, fmt.Errorf("%w: channel id cannot be empty", errors.ErrValidation)
	}
	return &ChatRoom{
		id:         id,
		channelID:  channelID,
		connected:  make(map[string]Participant),
		banned:     make(map[string]struct{}),
		mutedUntil: make(map[string]time.Time),
	}, nil
}

// RestoreRoom rebuilds a room from its persisted state. Persistence mapping
// only: business operations are not replayed, the stored state already went
// through them. Expired mutes are restored as-is, cleanup stays lazy.
func RestoreRoom(id, channelID string, nextSeq int, messages []Message,
	participants []Participant, bannedUserIDs []string, mutedUntil map[string]time.Time) *ChatRoom {
	room := &ChatRoom{
		id:         id,
		channelID:  channelID,
		messages:   append([]Message(nil), messages...),
		connected:  make(map[string]Participant, len(participants)),
		banned:     make(map[string]struct{}, len(bannedUserIDs)),
		mutedUntil: make(map[string]time.Time, len(mutedUntil)),
		nextSeq:    nextSeq,
	}
	for _, p := range participants {
		room.connected[p.UserID()] = p
	}
	for _, userID := range bannedUserIDs {
		room.banned[userID] = struct{}{}
	}
	for userID, until := range mutedUntil {
		room.mutedUntil[userID] = until
	}
	return room
}

// PublishMessage posts a chat line on behalf of userID. Preconditions are
// checked in order, each with its own failure; nothing is mutated and no
// event is emitted unless all of them pass.
func (r *ChatRoom) PublishMessage(policy ModerationPolicy, userID, content string, emotes []Emote) (Message, error) {
	if _, ok := r.connected[userID]; !ok {
		return Message{}, fmt.Errorf("%w: user %s", errors.ErrNotConnected, userID)
	}
	if _, ok := r.banned[userID]; ok {
		return Message{}, fmt.Errorf("%w: user %s", errors.ErrBanned, userID)
	}
	if until, ok := r.mutedUntil[userID]; ok && time.Now().Before(until) {
		return Message{}, fmt.Errorf("%w: user %s until %s", errors.ErrMuted, userID, until.UTC().Format(time.RFC3339))
	}
	if !policy.IsContentAllowed(content) {
		return Message{}, fmt.Errorf("%w", errors.ErrPolicyViolation)
	}

	message, err := NewMessage(r.nextMessageID(), userID, content, emotes)
	if err != nil {
		return Message{}, err
	}

	r.messages = append(r.messages, message)
	r.nextSeq++
	r.record(MessageSent{
		ID:      uuid.New(),
		Room:    r.id,
		Message: message,
		At:      message.Timestamp().Time(),
	})

	// Housekeeping, not moderation: eviction is silent.
	if len(r.messages) > maxMessages {
		r.messages = r.messages[1:]
	}
	return message, nil
}

// Connect adds a participant to the roster. Reconnecting an already connected
// user is a no-op, not an error.
func (r *ChatRoom) Connect(participant Participant) error {
	if _, ok := r.banned[participant.UserID()]; ok {
		return fmt.Errorf("%w: user %s cannot connect", errors.ErrBanned, participant.UserID())
	}
	if _, ok := r.connected[participant.UserID()]; ok {
		return nil
	}
	r.connected[participant.UserID()] = participant
	return nil
}

// Disconnect removes the user from the roster if present.
func (r *ChatRoom) Disconnect(userID string) {
	delete(r.connected, userID)
}

// ApplyModeration bans or times out targetUserID on behalf of moderatorID.
// Both parties must currently be connected. Permission and duration rules are
// delegated to the policy; effects are applied atomically and a UserModerated
// event is recorded.
func (r *ChatRoom) ApplyModeration(policy ModerationPolicy, moderatorID, targetUserID string, action Action, timeout time.Duration) error {
	if !action.IsValid() {
		return fmt.Errorf("%w: unknown moderation action %q", errors.ErrValidation, action)
	}
	moderator, ok := r.connected[moderatorID]
	if !ok {
		return fmt.Errorf("%w: moderator %s", errors.ErrParticipantNotFound, moderatorID)
	}
	target, ok := r.connected[targetUserID]
	if !ok {
		return fmt.Errorf("%w: target %s", errors.ErrParticipantNotFound, targetUserID)
	}
	if err := policy.CheckModerationAllowed(moderator, target, action, timeout); err != nil {
		return err
	}

	var duration time.Duration
	switch action {
	case ActionBan:
		r.banned[targetUserID] = struct{}{}
		r.Disconnect(targetUserID)
	case ActionTimeout:
		// Overwrites any prior mute, no additive stacking.
		r.mutedUntil[targetUserID] = time.Now().Add(timeout)
		duration = timeout
	}

	r.record(UserModerated{
		ID:          uuid.New(),
		Room:        r.id,
		UserID:      targetUserID,
		ModeratorID: moderatorID,
		Action:      action,
		Duration:    duration,
		At:          time.Now().UTC(),
	})
	return nil
}

// FlushEvents drains the pending domain events. The caller must forward them
// to broadcast and persistence; after the call the outbox is empty.
func (r *ChatRoom) FlushEvents() []DomainEvent {
	flushed := r.outbox
	r.outbox = nil
	return flushed
}

func (r *ChatRoom) record(e DomainEvent) {
	r.outbox = append(r.outbox, e)
}

func (r *ChatRoom) nextMessageID() string {
	return fmt.Sprintf("%s-%d", r.id, r.nextSeq+1)
}

func (r *ChatRoom) ID() string        { return r.id }
func (r *ChatRoom) ChannelID() string { return r.channelID }

// Messages returns an immutable snapshot of the log in insertion order.
func (r *ChatRoom) Messages() []Message {
	return append([]Message(nil), r.messages...)
}

// Participants returns a roster snapshot sorted by user id.
func (r *ChatRoom) Participants() []Participant {
	roster := make([]Participant, 0, len(r.connected))
	for _, p := range r.connected {
		roster = append(roster, p)
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].UserID() < roster[j].UserID() })
	return roster
}

func (r *ChatRoom) ParticipantCount() int {
	return len(r.connected)
}

func (r *ChatRoom) IsConnected(userID string) bool {
	_, ok := r.connected[userID]
	return ok
}

// BannedUserIDs returns the banned set sorted for deterministic snapshots.
func (r *ChatRoom) BannedUserIDs() []string {
	ids := make([]string, 0, len(r.banned))
	for userID := range r.banned {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}

func (r *ChatRoom) IsBanned(userID string) bool {
	_, ok := r.banned[userID]
	return ok
}

// MutedUntil reports the mute expiry for userID. Expired entries are treated
// as absent on every check.
func (r *ChatRoom) MutedUntil(userID string) (time.Time, bool) {
	until, ok := r.mutedUntil[userID]
	if !ok || !time.Now().Before(until) {
		return time.Time{}, false
	}
	return until, true
}

// Mutes returns the raw mute map, expired entries included. Persistence
// mapping only: stale entries survive a save/load cycle by design.
func (r *ChatRoom) Mutes() map[string]time.Time {
	copied := make(map[string]time.Time, len(r.mutedUntil))
	for userID, until := range r.mutedUntil {
		copied[userID] = until
	}
	return copied
}

// NextSeq exposes the message counter for persistence mapping.
func (r *ChatRoom) NextSeq() int {
	return r.nextSeq
}
