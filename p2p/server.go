package p2p

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server accepts incoming WebSocket connections, enforcing
// max_connections (0 = unlimited) at accept time.
type Server struct {
	MaxConnections int32

	active int32

	// OnConnect is invoked for every accepted connection, before Start;
	// the callback should register handlers. Server calls Start on the
	// connection once the callback returns.
	OnConnect func(c *Conn)
	// OnDisconnect is passed through to each Conn as onDisconnect.
	OnDisconnect func(peerID string)

	connsMu sync.Mutex
	conns   map[string]*Conn
}

// NewServer builds a Server; maxConnections <= 0 means unlimited.
func NewServer(maxConnections int) *Server {
	return &Server{
		MaxConnections: int32(maxConnections),
		conns:          make(map[string]*Conn),
	}
}

// ServeHTTP upgrades the request to a WebSocket, rejecting it outright
// if max_connections is already reached.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.MaxConnections > 0 && atomic.LoadInt32(&s.active) >= s.MaxConnections {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("p2p: upgrade failed: %v", err)
		return
	}

	peerID := r.RemoteAddr
	atomic.AddInt32(&s.active, 1)

	conn := NewConn(peerID, ws, func(id string) {
		atomic.AddInt32(&s.active, -1)
		s.connsMu.Lock()
		delete(s.conns, id)
		s.connsMu.Unlock()
		if s.OnDisconnect != nil {
			s.OnDisconnect(id)
		}
	})

	s.connsMu.Lock()
	s.conns[peerID] = conn
	s.connsMu.Unlock()

	if s.OnConnect != nil {
		s.OnConnect(conn)
	}
	conn.Start()
}

// Connections returns a snapshot of currently active connections.
func (s *Server) Connections() []*Conn {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	out := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		out = append(out, c)
	}
	return out
}

// ErrTooManyConnections is returned by Dial-side callers that want a
// typed check; Server itself replies with a plain HTTP 503.
var ErrTooManyConnections = kerrors.New(kerrors.Network, "too many connections")
