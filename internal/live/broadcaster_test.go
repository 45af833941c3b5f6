package live

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu      sync.Mutex
	events  []Event
	fail    bool
	closed  bool
	writing bool
	overlap bool
	block   chan struct{}
}

func (f *fakeConn) WriteJSON(v any) error {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	if f.writing {
		f.overlap = true
	}
	f.writing = true
	f.mu.Unlock()

	time.Sleep(100 * time.Microsecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.writing = false
	if f.fail {
		return errors.New("broken pipe")
	}
	f.events = append(f.events, v.(Event))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func receivedN(t *testing.T, conn *fakeConn, n int) []Event {
	t.Helper()
	require.Eventually(t, func() bool { return len(conn.received()) == n }, time.Second, time.Millisecond)
	return conn.received()
}

func TestBroadcastReachesAllConnections(t *testing.T) {
	b := NewBroadcaster()
	a, c := &fakeConn{}, &fakeConn{}
	b.Register(a)
	b.Register(c)
	b.Register(a)
	assert.Equal(t, 2, b.Count())

	b.Broadcast(Event{Type: EventNewMessage, Data: 1})
	b.Broadcast(Event{Type: EventDeleteMessage, Data: 1})

	for _, conn := range []*fakeConn{a, c} {
		events := receivedN(t, conn, 2)
		assert.Equal(t, EventNewMessage, events[0].Type)
		assert.Equal(t, EventDeleteMessage, events[1].Type)
	}
}

func TestBroadcastDropsFailedConnection(t *testing.T) {
	b := NewBroadcaster()
	good, bad := &fakeConn{}, &fakeConn{fail: true}
	b.Register(good)
	b.Register(bad)

	b.Broadcast(Event{Type: EventNewMessage})

	require.Eventually(t, func() bool { return b.Count() == 1 && bad.isClosed() }, time.Second, time.Millisecond)
	assert.False(t, good.isClosed())

	b.Broadcast(Event{Type: EventNewMessage})
	receivedN(t, good, 2)
}

func TestBroadcastDropsStalledConnection(t *testing.T) {
	b := NewBroadcaster()
	fast := &fakeConn{}
	stalled := &fakeConn{block: make(chan struct{})}
	defer close(stalled.block)
	b.Register(fast)
	b.Register(stalled)

	// The stalled writer never finishes, so its buffer overflows while the
	// other connection keeps receiving every event.
	total := sendBuffer + 2
	for i := 1; i <= total; i++ {
		b.Broadcast(Event{Type: EventNewMessage, Data: i})
		receivedN(t, fast, i)
	}

	assert.Equal(t, 1, b.Count())
	assert.True(t, stalled.isClosed())
	assert.False(t, fast.isClosed())
}

func TestUnregisterStopsDelivery(t *testing.T) {
	b := NewBroadcaster()
	conn := &fakeConn{}
	b.Register(conn)
	b.Unregister(conn)
	b.Unregister(conn)

	b.Broadcast(Event{Type: EventNewMessage})
	assert.Zero(t, b.Count())
	assert.Empty(t, conn.received())
	assert.False(t, conn.isClosed())
}

func TestConcurrentBroadcastsDoNotInterleave(t *testing.T) {
	b := NewBroadcaster()
	conn := &fakeConn{}
	b.Register(conn)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Broadcast(Event{Type: EventNewMessage})
		}()
	}
	wg.Wait()

	receivedN(t, conn, 20)
	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.False(t, conn.overlap)
}

func TestHandlerRegistersUntilClientCloses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	b := NewBroadcaster()
	r := gin.New()
	r.GET("/ws", Handler(b))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return b.Count() == 1 }, time.Second, 10*time.Millisecond)

	b.Broadcast(Event{Type: EventNewMessage, Data: map[string]any{"id": 7}})
	var got map[string]any
	require.NoError(t, ws.ReadJSON(&got))
	assert.Equal(t, EventNewMessage, got["type"])
	assert.Equal(t, float64(7), got["data"].(map[string]any)["id"])

	require.NoError(t, ws.Close())
	require.Eventually(t, func() bool { return b.Count() == 0 }, time.Second, 10*time.Millisecond)
}
