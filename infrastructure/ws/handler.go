// Package ws contains the WebSocket adapter: it connects a participant to a
// room, streams the room's domain events out, and feeds incoming lines into
// the send-message use case. Identity is taken from the caller as-is,
// authentication happens upstream.
package ws

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"mschat/contract"
	"mschat/domain/chat"
	"mschat/errors"
	"mschat/services"
	"mschat/sink"
)

// IncomingMessage is one chat line sent by the client.
type IncomingMessage struct {
	Content string `json:"content"`
	Emotes  []struct {
		Code     string `json:"code"`
		ImageURL string `json:"imageUrl"`
	} `json:"emotes"`
}

// OutgoingEvent is the wire form of a domain event pushed to the client.
type OutgoingEvent struct {
	Type        string `json:"type"` // "message" or "moderation"
	RoomID      string `json:"roomId"`
	MessageID   string `json:"messageId,omitempty"`
	UserID      string `json:"userId"`
	Content     string `json:"content,omitempty"`
	Timestamp   int64  `json:"timestamp"`
	ModeratorID string `json:"moderatorId,omitempty"`
	Action      string `json:"action,omitempty"`
	DurationMs  int64  `json:"durationMs,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Handler upgrades /ws/chat/:roomId?userId=...&moderator=true|false.
// One goroutine pumps outbound frames (events and error notices), the
// handler goroutine reads inbound lines; the connection is the only writer
// boundary so the two never write concurrently.
func Handler(log *slog.Logger, chatService services.IChatService,
	registry contract.IRegistry, bufferSize int) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		roomID := conn.Params("roomId")
		userID := conn.Query("userId")
		moderator := conn.Query("moderator") == "true"

		if userID == "" {
			_ = conn.WriteJSON(OutgoingEvent{Type: "error", Error: "userId query parameter is required"})
			_ = conn.Close()
			return
		}

		if err := chatService.Connect(roomID, userID, moderator, nil); err != nil {
			_ = conn.WriteJSON(OutgoingEvent{Type: "error", RoomID: roomID, UserID: userID, Error: err.Error()})
			_ = conn.Close()
			return
		}

		connectionSink := sink.NewConnectionSink(bufferSize)
		registry.Subscribe(userID, roomID, connectionSink)
		defer func() {
			registry.Unsubscribe(userID, roomID)
			if err := chatService.Disconnect(roomID, userID); err != nil {
				log.Warn("Disconnect failed", "room_id", roomID, "user_id", userID, "error", err)
			}
		}()

		log.Info("Participant connected", "room_id", roomID, "user_id", userID)

		notices := make(chan OutgoingEvent, bufferSize)
		done := make(chan struct{})
		defer close(done)

		go func() {
			for {
				select {
				case <-done:
					return
				case notice := <-notices:
					if err := conn.WriteJSON(notice); err != nil {
						return
					}
				case evt := <-connectionSink.Events:
					if err := conn.WriteJSON(toOutgoingEvent(evt)); err != nil {
						log.Warn("Failed to push event to connection",
							"room_id", roomID, "user_id", userID, "error", err)
						return
					}
				}
			}
		}()

		for {
			var incoming IncomingMessage
			if err := conn.ReadJSON(&incoming); err != nil {
				log.Info("Participant disconnected", "room_id", roomID, "user_id", userID)
				return
			}

			cmd := chat.SendMessageCommand{Room: roomID, UserID: userID, Content: incoming.Content}
			for _, e := range incoming.Emotes {
				cmd.Emotes = append(cmd.Emotes, chat.EmoteAttachment{Code: e.Code, ImageURL: e.ImageURL})
			}

			if err := chatService.SendMessage(context.Background(), cmd); err != nil {
				if !errors.IsDomain(err) {
					log.Error("Send message failed", "room_id", roomID, "user_id", userID, "error", err)
					err = fmt.Errorf("internal server error")
				}
				select {
				case notices <- OutgoingEvent{Type: "error", RoomID: roomID, UserID: userID, Error: err.Error()}:
				default:
				}
			}
		}
	})
}

func toOutgoingEvent(e chat.DomainEvent) OutgoingEvent {
	switch evt := e.(type) {
	case chat.MessageSent:
		return OutgoingEvent{
			Type:      "message",
			RoomID:    evt.Room,
			MessageID: evt.Message.ID(),
			UserID:    evt.Message.UserID(),
			Content:   evt.Message.Content(),
			Timestamp: evt.Message.Timestamp().UnixMilli(),
		}
	case chat.UserModerated:
		return OutgoingEvent{
			Type:        "moderation",
			RoomID:      evt.Room,
			UserID:      evt.UserID,
			ModeratorID: evt.ModeratorID,
			Action:      string(evt.Action),
			DurationMs:  evt.Duration.Milliseconds(),
			Timestamp:   evt.At.UnixMilli(),
		}
	default:
		return OutgoingEvent{Type: "unknown", RoomID: e.RoomID(), Timestamp: e.OccurredAt().UnixMilli()}
	}
}
