package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/stretchr/testify/assert"
)

type countingConn struct {
	mu sync.Mutex
	n  int
}

func (c *countingConn) TrySend(core.Frame) error {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return nil
}

func (c *countingConn) Close() {}

func (c *countingConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestBroadcasterJoinIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	assert.True(t, b.Join("S1", "c1", nopConn{}))
	assert.False(t, b.Join("S1", "c1", nopConn{}))
	assert.Equal(t, 1, b.MemberCount("S1"))
	assert.Equal(t, 1, b.RoomCount())
}

func TestBroadcasterDropsEmptyRooms(t *testing.T) {
	b := NewBroadcaster()
	b.Join("S1", "c1", nopConn{})
	b.Join("S1", "c2", nopConn{})

	assert.True(t, b.Leave("S1", "c1"))
	assert.Equal(t, 1, b.RoomCount())
	assert.True(t, b.Leave("S1", "c2"))
	assert.Equal(t, 0, b.RoomCount())
	assert.False(t, b.Leave("S1", "c2"))
	assert.Nil(t, b.Members("S1"))
}

func TestBroadcasterBroadcast(t *testing.T) {
	b := NewBroadcaster()
	a, c := &countingConn{}, &countingConn{}
	b.Join("S1", "a", a)
	b.Join("S1", "c", c)
	other := &countingConn{}
	b.Join("S2", "o", other)

	res := b.Broadcast("S1", core.Frame("x"), "a")
	assert.Equal(t, 1, res.SentTo)
	assert.Equal(t, 0, a.count())
	assert.Equal(t, 1, c.count())
	assert.Equal(t, 0, other.count())

	res = b.Broadcast("nope", core.Frame("x"), "")
	assert.Equal(t, 0, res.SentTo)
}

func TestBroadcasterConcurrentJoins(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Join("S1", core.ConnID(fmt.Sprintf("c%d", i)), nopConn{})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, b.MemberCount("S1"))

	list := b.List()
	assert.Equal(t, []core.RoomInfo{{SessionID: domain.SessionID("S1"), MemberCount: 100}}, list)
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, KickMember, PolicyFor(true).OnBackPressure("S1", "c1"))
	assert.Equal(t, NoAction, PolicyFor(false).OnBackPressure("S1", "c1"))
}
