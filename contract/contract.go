//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"mschat/domain/chat"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself; supervision handles panics and restarts.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// for logging and supervision purposes, avoiding manual naming in Worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives domain events drained from an aggregate's outbox.
type EventSink interface {
	Consume(ctx context.Context, e chat.DomainEvent) error
}

// IRegistry tracks which participant connections listen to which room.
type IRegistry interface {
	GetSinksForRoom(roomID string) []EventSink
	Subscribe(participantID, roomID string, sink EventSink)
	Unsubscribe(participantID, roomID string)
}
