package app

import (
	"sort"
	"sync"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

// Broadcaster maps session ids to rooms. Rooms exist only while they have
// members: Leave drops a room as soon as it empties.
type Broadcaster struct {
	mu    sync.RWMutex
	rooms map[domain.SessionID]core.RoomService
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{rooms: make(map[domain.SessionID]core.RoomService)}
}

// Join is idempotent; it reports whether membership actually changed.
func (b *Broadcaster) Join(sid domain.SessionID, id core.ConnID, conn core.SignalConnection) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.rooms[sid]
	if !ok {
		room = core.NewRoomService(sid)
		b.rooms[sid] = room
		log.Info().Str("module", "app.broadcaster").Str("session", string(sid)).Msg("room opened")
	}
	return room.AddMember(id, conn)
}

func (b *Broadcaster) Leave(sid domain.SessionID, id core.ConnID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.rooms[sid]
	if !ok {
		return false
	}
	removed := room.RemoveMember(id)
	if room.MemberCount() == 0 {
		delete(b.rooms, sid)
		log.Info().Str("module", "app.broadcaster").Str("session", string(sid)).Msg("room closed")
	}
	return removed
}

// Broadcast is best-effort and never fails; undeliverable members are
// reported in the result.
func (b *Broadcaster) Broadcast(sid domain.SessionID, data core.Frame, exclude core.ConnID) core.PublishResult {
	b.mu.RLock()
	room, ok := b.rooms[sid]
	b.mu.RUnlock()
	if !ok {
		return core.PublishResult{}
	}
	return room.Broadcast(exclude, data)
}

func (b *Broadcaster) Members(sid domain.SessionID) []core.ConnID {
	b.mu.RLock()
	room, ok := b.rooms[sid]
	b.mu.RUnlock()
	if !ok {
		return nil
	}
	return room.Members()
}

func (b *Broadcaster) MemberCount(sid domain.SessionID) int {
	b.mu.RLock()
	room, ok := b.rooms[sid]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	return room.MemberCount()
}

func (b *Broadcaster) RoomCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms)
}

func (b *Broadcaster) List() []core.RoomInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(b.rooms))
	for sid, r := range b.rooms {
		out = append(out, core.RoomInfo{SessionID: sid, MemberCount: r.MemberCount()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}
