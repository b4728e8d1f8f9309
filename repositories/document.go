package repositories

import (
	"time"

	"github.com/samber/lo"

	"mschat/domain/chat"
)

// RoomDocument is the persisted shape of a chat room: one JSON document per
// room, mirroring the aggregate's collections field by field. Exported so
// inspection tooling can decode raw values.
type RoomDocument struct {
	ID            string                `json:"_id"`
	ChannelID     string                `json:"channelId"`
	NextSeq       int                   `json:"nextSeq"`
	Messages      []MessageDocument     `json:"messages"`
	Participants  []ParticipantDocument `json:"connectedParticipants"`
	BannedUserIDs []string              `json:"bannedUserIds"`
	Muted         []MuteDocument        `json:"mutedUntil"`
}

type MessageDocument struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Content   string          `json:"content"`
	Timestamp int64           `json:"timestamp"`
	Emotes    []EmoteDocument `json:"emotes"`
}

type EmoteDocument struct {
	Code     string `json:"code"`
	ImageURL string `json:"imageUrl"`
}

type ParticipantDocument struct {
	UserID      string          `json:"userId"`
	IsModerator bool            `json:"isModerator"`
	Badges      []BadgeDocument `json:"badges"`
}

type BadgeDocument struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// MuteDocument stores one mute expiry in unix milliseconds. Expired entries
// are persisted as-is: expiry stays a read-time concern.
type MuteDocument struct {
	UserID    string `json:"userId"`
	ExpiresAt int64  `json:"expiresAt"`
}

func toDocument(room *chat.ChatRoom) RoomDocument {
	mutes := room.Mutes()
	muteDocs := make([]MuteDocument, 0, len(mutes))
	for userID, until := range mutes {
		muteDocs = append(muteDocs, MuteDocument{UserID: userID, ExpiresAt: until.UnixMilli()})
	}

	return RoomDocument{
		ID:            room.ID(),
		ChannelID:     room.ChannelID(),
		NextSeq:       room.NextSeq(),
		Messages:      lo.Map(room.Messages(), func(m chat.Message, _ int) MessageDocument { return toMessageDocument(m) }),
		Participants:  lo.Map(room.Participants(), func(p chat.Participant, _ int) ParticipantDocument { return toParticipantDocument(p) }),
		BannedUserIDs: room.BannedUserIDs(),
		Muted:         muteDocs,
	}
}

func toMessageDocument(m chat.Message) MessageDocument {
	return MessageDocument{
		ID:        m.ID(),
		UserID:    m.UserID(),
		Content:   m.Content(),
		Timestamp: m.Timestamp().UnixMilli(),
		Emotes: lo.Map(m.Emotes(), func(e chat.Emote, _ int) EmoteDocument {
			return EmoteDocument{Code: e.Code(), ImageURL: e.ImageURL()}
		}),
	}
}

func toParticipantDocument(p chat.Participant) ParticipantDocument {
	return ParticipantDocument{
		UserID:      p.UserID(),
		IsModerator: p.CanModerate(),
		Badges: lo.Map(p.Badges(), func(b chat.Badge, _ int) BadgeDocument {
			return BadgeDocument{Name: b.Name(), ImageURL: b.ImageURL()}
		}),
	}
}

// fromDocument rehydrates the aggregate through its restore constructor,
// never by replaying operations: replay would re-run preconditions against
// rules that may have changed since the state was written.
func fromDocument(doc RoomDocument) (*chat.ChatRoom, error) {
	messages := make([]chat.Message, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		emotes, err := toEmotes(m.Emotes)
		if err != nil {
			return nil, err
		}
		messages = append(messages, chat.RestoreMessage(
			m.ID, m.UserID, m.Content, chat.RestoreTimestamp(m.Timestamp), emotes))
	}

	participants := make([]chat.Participant, 0, len(doc.Participants))
	for _, p := range doc.Participants {
		badges := make([]chat.Badge, 0, len(p.Badges))
		for _, b := range p.Badges {
			badge, err := chat.NewBadge(b.Name, b.ImageURL)
			if err != nil {
				return nil, err
			}
			badges = append(badges, badge)
		}
		participant, err := chat.NewParticipant(p.UserID, p.IsModerator, badges)
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}

	mutedUntil := make(map[string]time.Time, len(doc.Muted))
	for _, m := range doc.Muted {
		mutedUntil[m.UserID] = time.UnixMilli(m.ExpiresAt).UTC()
	}

	return chat.RestoreRoom(doc.ID, doc.ChannelID, doc.NextSeq,
		messages, participants, doc.BannedUserIDs, mutedUntil), nil
}

func toEmotes(docs []EmoteDocument) ([]chat.Emote, error) {
	emotes := make([]chat.Emote, 0, len(docs))
	for _, e := range docs {
		emote, err := chat.NewEmote(e.Code, e.ImageURL)
		if err != nil {
			return nil, err
		}
		emotes = append(emotes, emote)
	}
	return emotes, nil
}
