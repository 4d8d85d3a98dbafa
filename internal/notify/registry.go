// Package notify implements real-time notification fan-out: an in-process
// registry of live websocket connections and the dispatch coordinator that
// pairs durable inbox writes with best-effort pushes.
package notify

import (
	"sync"
	"time"

	"github.com/jaykukadiya/Issue-tracker/internal/identity"

	"go.uber.org/zap"
)

// writeTimeout bounds every channel write so a stalled peer cannot hold a
// sender forever.
const writeTimeout = 10 * time.Second

// textMessage is the RFC 6455 text frame opcode.
const textMessage = 1

// Conn is the write side of one live connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
}

// Channel wraps one connection and serializes all writes to it. The underlying
// websocket supports at most one concurrent writer, and both registry pushes
// and the read loop's pong replies go through here.
type Channel struct {
	mu   sync.Mutex
	conn Conn
}

// WriteJSON sends a JSON payload under the channel's write lock and deadline.
func (c *Channel) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// WriteText sends a text frame under the channel's write lock and deadline.
func (c *Channel) WriteText(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(textMessage, []byte(msg))
}

// Registry maps user identities to their open live channels. A user may hold
// several channels at once (tabs, devices). The registry mutex guards only the
// channel sets; network writes happen outside it so one stalled peer never
// blocks registration or delivery to anyone else.
type Registry struct {
	log *zap.SugaredLogger

	mu    sync.Mutex
	conns map[identity.ID]map[*Channel]struct{}
}

// NewRegistry constructs an empty registry. It is built once at startup and
// injected wherever live pushes are needed.
func NewRegistry(log *zap.SugaredLogger) *Registry {
	return &Registry{
		log:   log.Named("notify.registry"),
		conns: make(map[identity.ID]map[*Channel]struct{}),
	}
}

// Connect registers a connection under the user and returns its channel.
func (r *Registry) Connect(conn Conn, userID string) *Channel {
	uid := identity.Normalize(userID)
	ch := &Channel{conn: conn}

	r.mu.Lock()
	set, ok := r.conns[uid]
	if !ok {
		set = make(map[*Channel]struct{})
		r.conns[uid] = set
	}
	set[ch] = struct{}{}
	n := len(set)
	r.mu.Unlock()

	r.log.Infow("connected", "user_id", uid, "connections", n)
	return ch
}

// Disconnect removes a channel; the user entry is dropped with its last channel.
func (r *Registry) Disconnect(ch *Channel, userID string) {
	uid := identity.Normalize(userID)

	r.mu.Lock()
	if set, ok := r.conns[uid]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(r.conns, uid)
		}
	}
	r.mu.Unlock()

	r.log.Infow("disconnected", "user_id", uid)
}

// SendToUser delivers the payload to every channel registered for the user.
// No registered channels is a silent no-op: the recipient is simply offline.
// The channel set is snapshotted under the lock and written outside it; a
// channel that rejects the write is logged and pruned, and delivery continues
// to the remaining channels.
func (r *Registry) SendToUser(userID string, payload interface{}) {
	uid := identity.Normalize(userID)

	r.mu.Lock()
	set := r.conns[uid]
	channels := make([]*Channel, 0, len(set))
	for ch := range set {
		channels = append(channels, ch)
	}
	r.mu.Unlock()

	var failed []*Channel
	for _, ch := range channels {
		if err := ch.WriteJSON(payload); err != nil {
			r.log.Warnw("send failed, pruning channel", "user_id", uid, "error", err)
			failed = append(failed, ch)
		}
	}
	if len(failed) == 0 {
		return
	}

	r.mu.Lock()
	if set, ok := r.conns[uid]; ok {
		for _, ch := range failed {
			delete(set, ch)
		}
		if len(set) == 0 {
			delete(r.conns, uid)
		}
	}
	r.mu.Unlock()
}

// ConnectionCount reports how many channels the user currently holds.
func (r *Registry) ConnectionCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns[identity.Normalize(userID)])
}
