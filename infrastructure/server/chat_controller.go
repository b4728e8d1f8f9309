// Package server contains the HTTP adapter. It translates requests into use
// case calls and domain failures into client-visible status codes; it holds
// no state and enforces no invariant of its own.
package server

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"mschat/domain/chat"
	"mschat/errors"
	"mschat/services"
)

type ChatController struct {
	log         *slog.Logger
	chatService services.IChatService
	validate    *validator.Validate
}

func NewChatController(log *slog.Logger, chatService services.IChatService) *ChatController {
	return &ChatController{log: log, chatService: chatService, validate: validator.New()}
}

func (c *ChatController) Register(app *fiber.App) {
	api := app.Group("/api/chat")
	api.Post("/rooms", c.createRoom)
	api.Get("/rooms/:id", c.getRoom)
	api.Delete("/rooms/:id", c.deleteRoom)
	api.Get("/channels/:channelId", c.getRoomByChannel)
	api.Post("/message", c.sendMessage)
	api.Post("/moderate", c.moderate)
}

type CreateRoomRequest struct {
	ID        string `json:"id" validate:"required"`
	ChannelID string `json:"channelId" validate:"required"`
}

type EmoteRequest struct {
	Code     string `json:"code" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

type SendMessageRequest struct {
	RoomID  string         `json:"roomId" validate:"required"`
	UserID  string         `json:"userId" validate:"required"`
	Content string         `json:"content" validate:"required,max=500"`
	Emotes  []EmoteRequest `json:"emotes" validate:"dive"`
}

type ModerateRequest struct {
	RoomID       string `json:"roomId" validate:"required"`
	ModeratorID  string `json:"moderatorId" validate:"required"`
	TargetUserID string `json:"targetUserId" validate:"required"`
	Action       string `json:"action" validate:"required,oneof=ban timeout"`
	DurationMs   int64  `json:"durationMs" validate:"omitempty,min=1"`
}

func (c *ChatController) createRoom(ctx *fiber.Ctx) error {
	var req CreateRoomRequest
	if err := c.parse(ctx, &req); err != nil {
		return err
	}
	if err := c.chatService.CreateRoom(req.ID, req.ChannelID); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusCreated)
}

func (c *ChatController) getRoom(ctx *fiber.Ctx) error {
	room, err := c.chatService.Room(ctx.Params("id"))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(toRoomResponse(room))
}

func (c *ChatController) getRoomByChannel(ctx *fiber.Ctx) error {
	room, err := c.chatService.RoomByChannel(ctx.Params("channelId"))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(toRoomResponse(room))
}

func (c *ChatController) deleteRoom(ctx *fiber.Ctx) error {
	if err := c.chatService.DeleteRoom(ctx.Params("id")); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *ChatController) sendMessage(ctx *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.parse(ctx, &req); err != nil {
		return err
	}
	cmd := chat.SendMessageCommand{
		Room:    req.RoomID,
		UserID:  req.UserID,
		Content: req.Content,
		Emotes: lo.Map(req.Emotes, func(e EmoteRequest, _ int) chat.EmoteAttachment {
			return chat.EmoteAttachment{Code: e.Code, ImageURL: e.ImageURL}
		}),
	}
	if err := c.chatService.SendMessage(ctx.Context(), cmd); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusCreated)
}

func (c *ChatController) moderate(ctx *fiber.Ctx) error {
	var req ModerateRequest
	if err := c.parse(ctx, &req); err != nil {
		return err
	}
	cmd := chat.ModerateCommand{
		Room:         req.RoomID,
		ModeratorID:  req.ModeratorID,
		TargetUserID: req.TargetUserID,
		Action:       chat.Action(req.Action),
		Timeout:      time.Duration(req.DurationMs) * time.Millisecond,
	}
	if err := c.chatService.Moderate(ctx.Context(), cmd); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *ChatController) parse(ctx *fiber.Ctx, req any) error {
	if err := ctx.BodyParser(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := c.validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return nil
}

// fail maps domain errors to 400-class answers with the rule that was
// violated; anything else is a 500 with no internals leaked.
func (c *ChatController) fail(ctx *fiber.Ctx, err error) error {
	status := errors.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		c.log.Error("Request failed", "path", ctx.Path(), "error", err)
		return ctx.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type RoomResponse struct {
	ID           string                `json:"id"`
	ChannelID    string                `json:"channelId"`
	Messages     []MessageResponse     `json:"messages"`
	Participants []ParticipantResponse `json:"participants"`
	Banned       []string              `json:"banned"`
}

type MessageResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Content   string         `json:"content"`
	Timestamp int64          `json:"timestamp"`
	Emotes    []EmoteRequest `json:"emotes"`
}

type ParticipantResponse struct {
	UserID      string `json:"userId"`
	IsModerator bool   `json:"isModerator"`
}

func toRoomResponse(room *chat.ChatRoom) RoomResponse {
	return RoomResponse{
		ID:        room.ID(),
		ChannelID: room.ChannelID(),
		Messages: lo.Map(room.Messages(), func(m chat.Message, _ int) MessageResponse {
			return MessageResponse{
				ID:        m.ID(),
				UserID:    m.UserID(),
				Content:   m.Content(),
				Timestamp: m.Timestamp().UnixMilli(),
				Emotes: lo.Map(m.Emotes(), func(e chat.Emote, _ int) EmoteRequest {
					return EmoteRequest{Code: e.Code(), ImageURL: e.ImageURL()}
				}),
			}
		}),
		Participants: lo.Map(room.Participants(), func(p chat.Participant, _ int) ParticipantResponse {
			return ParticipantResponse{UserID: p.UserID(), IsModerator: p.CanModerate()}
		}),
		Banned: room.BannedUserIDs(),
	}
}
