package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (c *recordingConn) TrySend(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *recordingConn) Close() {}

func (c *recordingConn) got() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		out = append(out, string(f))
	}
	return out
}

func TestRoomAddRemove(t *testing.T) {
	room := NewRoomService("S1")
	a := &recordingConn{}

	assert.True(t, room.AddMember("a", a))
	assert.False(t, room.AddMember("a", a), "second add is a no-op")
	assert.Equal(t, 1, room.MemberCount())
	assert.True(t, room.Has("a"))

	assert.True(t, room.RemoveMember("a"))
	assert.False(t, room.RemoveMember("a"))
	assert.Equal(t, 0, room.MemberCount())
	assert.Empty(t, room.Members())
}

func TestRoomBroadcastExcludesSender(t *testing.T) {
	room := NewRoomService("S1")
	a, b, c := &recordingConn{}, &recordingConn{}, &recordingConn{}
	room.AddMember("a", a)
	room.AddMember("b", b)
	room.AddMember("c", c)

	res := room.Broadcast("a", Frame("hello"))
	assert.Equal(t, 2, res.SentTo)
	assert.Empty(t, res.Dropped)
	assert.Empty(t, a.got())
	assert.Equal(t, []string{"hello"}, b.got())
	assert.Equal(t, []string{"hello"}, c.got())

	res = room.Broadcast("", Frame("all"))
	assert.Equal(t, 3, res.SentTo)
	assert.Equal(t, []string{"all"}, a.got())
}

func TestRoomBroadcastContinuesPastFailures(t *testing.T) {
	room := NewRoomService("S1")
	dead := &recordingConn{err: ErrClosed}
	live := &recordingConn{}
	room.AddMember("dead", dead)
	room.AddMember("live", live)

	res := room.Broadcast("", Frame("x"))
	assert.Equal(t, 1, res.SentTo)
	assert.Equal(t, []ConnID{"dead"}, res.Dropped)
	assert.Equal(t, []string{"x"}, live.got())
}

func TestRoomBroadcastOrderIsSharedByAllMembers(t *testing.T) {
	room := NewRoomService("S1")
	a, b := &recordingConn{}, &recordingConn{}
	room.AddMember("a", a)
	room.AddMember("b", b)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room.Broadcast("", Frame([]byte{byte(i)}))
		}(i)
	}
	wg.Wait()

	require.Len(t, a.got(), 50)
	assert.Equal(t, a.got(), b.got())
}
