// Package services hosts the transport-facing use cases. Each mutating call
// runs the load-mutate-save cycle against the repository and forwards the
// aggregate's pending events to the runtime pipeline. No business rule lives
// here.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"mschat/domain/chat"
	"mschat/errors"
	"mschat/repositories"
)

type IChatService interface {
	CreateRoom(id, channelID string) error
	DeleteRoom(id string) error
	Room(id string) (*chat.ChatRoom, error)
	RoomByChannel(channelID string) (*chat.ChatRoom, error)
	Connect(roomID, userID string, moderator bool, badges []chat.Badge) error
	Disconnect(roomID, userID string) error
	SendMessage(ctx context.Context, cmd chat.SendMessageCommand) error
	Moderate(ctx context.Context, cmd chat.ModerateCommand) error
}

// ChatService serializes every load-mutate-save cycle with one in-process
// lock per room id: the aggregate executes as if no other operation on the
// same room interleaves. This is deliberate single-writer-per-aggregate
// discipline, see the RoomRepository doc for the cross-process caveat.
type ChatService struct {
	log        *slog.Logger
	repository repositories.Repository
	policy     chat.ModerationPolicy
	events     chan<- chat.DomainEvent

	mu        sync.Mutex
	roomLocks map[string]*sync.Mutex
}

func NewChatService(log *slog.Logger, repository repositories.Repository,
	policy chat.ModerationPolicy, events chan<- chat.DomainEvent) *ChatService {
	return &ChatService{
		log:        log,
		repository: repository,
		policy:     policy,
		events:     events,
		roomLocks:  make(map[string]*sync.Mutex),
	}
}

func (s *ChatService) CreateRoom(id, channelID string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repository.FindByID(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", errors.ErrRoomExists, id)
	}

	room, err := chat.NewChatRoom(id, channelID)
	if err != nil {
		return err
	}
	return s.repository.Save(room)
}

func (s *ChatService) DeleteRoom(id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repository.FindByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", errors.ErrRoomNotFound, id)
	}
	return s.repository.Delete(id)
}

func (s *ChatService) Room(id string) (*chat.ChatRoom, error) {
	room, err := s.repository.FindByID(id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, id)
	}
	return room, nil
}

func (s *ChatService) RoomByChannel(channelID string) (*chat.ChatRoom, error) {
	room, err := s.repository.FindByChannel(channelID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: channel %s", errors.ErrRoomNotFound, channelID)
	}
	return room, nil
}

func (s *ChatService) Connect(roomID, userID string, moderator bool, badges []chat.Badge) error {
	participant, err := chat.NewParticipant(userID, moderator, badges)
	if err != nil {
		return err
	}
	return s.withRoom(context.Background(), roomID, func(room *chat.ChatRoom) error {
		return room.Connect(participant)
	})
}

func (s *ChatService) Disconnect(roomID, userID string) error {
	return s.withRoom(context.Background(), roomID, func(room *chat.ChatRoom) error {
		room.Disconnect(userID)
		return nil
	})
}

func (s *ChatService) SendMessage(ctx context.Context, cmd chat.SendMessageCommand) error {
	emotes := make([]chat.Emote, 0, len(cmd.Emotes))
	for _, attachment := range cmd.Emotes {
		emote, err := chat.NewEmote(attachment.Code, attachment.ImageURL)
		if err != nil {
			return err
		}
		emotes = append(emotes, emote)
	}
	return s.withRoom(ctx, cmd.Room, func(room *chat.ChatRoom) error {
		_, err := room.PublishMessage(s.policy, cmd.UserID, cmd.Content, emotes)
		return err
	})
}

func (s *ChatService) Moderate(ctx context.Context, cmd chat.ModerateCommand) error {
	return s.withRoom(ctx, cmd.Room, func(room *chat.ChatRoom) error {
		return room.ApplyModeration(s.policy, cmd.ModeratorID, cmd.TargetUserID, cmd.Action, cmd.Timeout)
	})
}

// withRoom is the single mutation path: lock the room id, load, mutate, save,
// then dispatch the drained outbox. A failed mutation leaves storage
// untouched and dispatches nothing.
func (s *ChatService) withRoom(ctx context.Context, roomID string, fn func(room *chat.ChatRoom) error) error {
	lock := s.lockFor(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.repository.FindByID(roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("%w: %s", errors.ErrRoomNotFound, roomID)
	}

	if err = fn(room); err != nil {
		return err
	}

	if err = s.repository.Save(room); err != nil {
		return fmt.Errorf("saving room %s: %w", roomID, err)
	}

	s.dispatch(ctx, room.FlushEvents())
	return nil
}

// dispatch hands events to the fanout channel without ever blocking a use
// case on a slow consumer.
func (s *ChatService) dispatch(ctx context.Context, events []chat.DomainEvent) {
	for _, evt := range events {
		select {
		case s.events <- evt:
		case <-ctx.Done():
			s.log.Warn("Context canceled while dispatching events", "room_id", evt.RoomID())
			return
		default:
			s.log.Warn("Event channel full, dropping event", "room_id", evt.RoomID())
		}
	}
}

func (s *ChatService) lockFor(roomID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		s.roomLocks[roomID] = lock
	}
	return lock
}
