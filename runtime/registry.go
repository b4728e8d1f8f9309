// Package runtime wires event propagation between use cases and live
// connections. It orchestrates without containing domain rules.
package runtime

import (
	"sync"

	"mschat/contract"
)

type Set map[string]struct{}

type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]contract.EventSink // participant -> sink
	roomMembers map[string]Set                // room -> participants
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]contract.EventSink),
		roomMembers: make(map[string]Set),
	}
}

// GetSinksForRoom resolves the active sinks of a room in two steps:
// membership set first, then the session directory. A participant's
// connection lives in one place even if they join several rooms.
// Returns nil for an unknown or empty room.
func (r *Registry) GetSinksForRoom(roomID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for participantID := range members {
		if sink, exists := r.sessions[participantID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a participant's live connection and assigns it to a
// room, initializing the membership set on the fly.
func (r *Registry) Subscribe(participantID, roomID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[participantID] = sink

	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(Set)
	}
	r.roomMembers[roomID][participantID] = struct{}{}
}

// Unsubscribe drops the participant's session and room membership, removing
// emptied room entries so the map doesn't leak over time.
func (r *Registry) Unsubscribe(participantID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, participantID)

	if members, ok := r.roomMembers[roomID]; ok {
		delete(members, participantID)
		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}
