package core

import (
	"sync"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	sid     domain.SessionID
	mu      sync.Mutex
	members map[ConnID]SignalConnection
}

func NewRoomService(sid domain.SessionID) RoomService {
	return &roomImpl{
		sid:     sid,
		members: make(map[ConnID]SignalConnection),
	}
}

func (r *roomImpl) SessionID() domain.SessionID { return r.sid }

func (r *roomImpl) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *roomImpl) Members() []ConnID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ConnID, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	return out
}

func (r *roomImpl) Has(id ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[id]
	return ok
}

func (r *roomImpl) AddMember(id ConnID, conn SignalConnection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; ok {
		return false
	}
	r.members[id] = conn
	log.Debug().Str("module", "core.room").Str("session", string(r.sid)).Str("conn", string(id)).Msg("member added")
	return true
}

func (r *roomImpl) RemoveMember(id ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	log.Debug().Str("module", "core.room").Str("session", string(r.sid)).Str("conn", string(id)).Msg("member removed")
	return true
}

// Broadcast holds the room lock for the whole fan-out so that every member
// observes the room's frames in the same order.
func (r *roomImpl) Broadcast(exclude ConnID, data Frame) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := PublishResult{}
	for id, conn := range r.members {
		if exclude != "" && id == exclude {
			continue
		}
		if err := conn.TrySend(data); err != nil {
			log.Warn().Err(err).Str("module", "core.room").Str("session", string(r.sid)).Str("conn", string(id)).Msg("delivery failed")
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("session", string(r.sid)).Str("exclude", string(exclude)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
