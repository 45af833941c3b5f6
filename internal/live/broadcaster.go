package live

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	EventNewMessage    = "new_message"
	EventDeleteMessage = "delete_message"
)

// Outbound events buffered per connection. A connection whose buffer is full
// is dropped.
const sendBuffer = 32

// Event is the JSON frame pushed to every connected client.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Conn is the part of a websocket connection the broadcaster needs.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// client owns the only goroutine that writes to conn.
type client struct {
	conn     Conn
	sendCh   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

func newClient(conn Conn) *client {
	return &client{
		conn:   conn,
		sendCh: make(chan Event, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// enqueue reports false when the buffer is full.
func (c *client) enqueue(event Event) bool {
	select {
	case c.sendCh <- event:
		return true
	default:
		return false
	}
}

func (c *client) startSend(b *Broadcaster) {
	for {
		select {
		case <-c.done:
			return
		case event := <-c.sendCh:
			if err := c.conn.WriteJSON(event); err != nil {
				log.WithError(err).WithField("event", event.Type).Warn("dropping live connection")
				b.drop(c)
				return
			}
		}
	}
}

// Broadcaster fans events out to every registered connection.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[Conn]*client
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: map[Conn]*client{}}
}

func (b *Broadcaster) Register(conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[conn]; ok {
		return
	}
	c := newClient(conn)
	b.clients[conn] = c
	go c.startSend(b)
}

// Unregister removes conn and stops its writer. It does not close conn.
func (b *Broadcaster) Unregister(conn Conn) {
	b.mu.Lock()
	c, ok := b.clients[conn]
	delete(b.clients, conn)
	b.mu.Unlock()
	if ok {
		c.stop()
	}
}

// Count is the number of registered connections.
func (b *Broadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Broadcast queues event for every connection without waiting for any write.
func (b *Broadcaster) Broadcast(event Event) {
	b.mu.Lock()
	snapshot := make([]*client, 0, len(b.clients))
	for _, c := range b.clients {
		snapshot = append(snapshot, c)
	}
	b.mu.Unlock()

	for _, c := range snapshot {
		if !c.enqueue(event) {
			log.WithField("event", event.Type).Warn("live connection too slow, dropping it")
			b.drop(c)
		}
	}
}

// drop unregisters c if it is still the registered client for its conn, then
// closes the connection.
func (b *Broadcaster) drop(c *client) {
	b.mu.Lock()
	if b.clients[c.conn] == c {
		delete(b.clients, c.conn)
	}
	b.mu.Unlock()
	c.stop()
	_ = c.conn.Close()
}
