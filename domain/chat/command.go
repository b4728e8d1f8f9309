package chat

import "time"

type Command interface {
	RoomID() string
}

// EmoteAttachment is the raw emote payload of a command, validated into an
// Emote by the use case before reaching the aggregate.
type EmoteAttachment struct {
	Code     string
	ImageURL string
}

type SendMessageCommand struct {
	Room    string
	UserID  string
	Content string
	Emotes  []EmoteAttachment
}

func (c SendMessageCommand) RoomID() string {
	return c.Room
}

type ModerateCommand struct {
	Room         string
	ModeratorID  string
	TargetUserID string
	Action       Action
	Timeout      time.Duration
}

func (c ModerateCommand) RoomID() string {
	return c.Room
}
