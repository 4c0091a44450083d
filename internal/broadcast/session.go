package broadcast

import (
	"sync"

	"github.com/gorilla/websocket"
)

// sendQueueSize bounds the per-connection outbound queue. A peer that cannot
// drain it this far behind loses messages instead of stalling the hub.
const sendQueueSize = 64

// session binds one websocket connection to the hub. All writes to the peer
// go through the out channel and a single writer goroutine, which keeps
// frames ordered and the websocket write side single-threaded.
type session struct {
	conn *websocket.Conn
	out  chan []byte
	once sync.Once
}

func newSession(conn *websocket.Conn) *session {
	return &session{conn: conn, out: make(chan []byte, sendQueueSize)}
}

// Send enqueues a payload for delivery. It never blocks; payloads are
// dropped when the queue is full.
func (s *session) Send(payload []byte) {
	select {
	case s.out <- payload:
	default:
	}
}

// writeLoop drains the outbound queue until close, then closes the peer.
func (s *session) writeLoop() {
	defer s.conn.Close()
	for payload := range s.out {
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// close stops the writer goroutine. Safe to call more than once.
func (s *session) close() {
	s.once.Do(func() { close(s.out) })
}
