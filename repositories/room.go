//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"mschat/domain/chat"
)

// Repository is the persistence contract of the chat-room aggregate.
// Find methods return (nil, nil) for absent rooms; deciding that absence is
// an error is the use case's job.
type Repository interface {
	FindByID(id string) (*chat.ChatRoom, error)
	FindByChannel(channelID string) (*chat.ChatRoom, error)
	Save(room *chat.ChatRoom) error
	Delete(id string) error
}

// RoomRepository persists rooms in BadgerDB as JSON documents.
//
// Keys:
//   - "room:{id}"           -> RoomDocument
//   - "channel:{channelId}" -> room id (secondary index for FindByChannel)
//
// The load-mutate-save cycle is read-modify-write: callers must serialize it
// per room id (services.ChatService holds one in-process lock per room).
// Across processes this store is last-write-wins, which is only safe in the
// single-instance deployment this project targets.
type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

func roomKey(id string) []byte {
	return []byte("room:" + id)
}

func channelKey(channelID string) []byte {
	return []byte("channel:" + channelID)
}

// Save writes the full document and its channel index in one transaction, so
// a reader never observes a room without its index.
func (r RoomRepository) Save(room *chat.ChatRoom) error {
	bytes, err := json.Marshal(toDocument(room))
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", room.ID(), err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(roomKey(room.ID()), bytes); err != nil {
			return err
		}
		return txn.Set(channelKey(room.ChannelID()), []byte(room.ID()))
	})
}

func (r RoomRepository) FindByID(id string) (*chat.ChatRoom, error) {
	var doc RoomDocument
	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		var innerErr error
		doc, found, innerErr = getDocument(txn, id)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return fromDocument(doc)
}

func (r RoomRepository) FindByChannel(channelID string) (*chat.ChatRoom, error) {
	var doc RoomDocument
	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(channelKey(channelID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		var roomID string
		if err = item.Value(func(val []byte) error {
			roomID = string(val)
			return nil
		}); err != nil {
			return err
		}
		doc, found, err = getDocument(txn, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return fromDocument(doc)
}

// Delete removes the room document and its channel index. Deleting an absent
// room is a no-op.
func (r RoomRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		doc, found, err := getDocument(txn, id)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		if err = txn.Delete(channelKey(doc.ChannelID)); err != nil {
			return err
		}
		return txn.Delete(roomKey(id))
	})
}

func getDocument(txn *badger.Txn, id string) (RoomDocument, bool, error) {
	var doc RoomDocument
	item, err := txn.Get(roomKey(id))
	if err == badger.ErrKeyNotFound {
		return doc, false, nil
	}
	if err != nil {
		return doc, false, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	})
	if err != nil {
		return doc, false, fmt.Errorf("unmarshal room %s: %w", id, err)
	}
	return doc, true, nil
}
