package p2p

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/cryptape/kabletop-go-sdk/klog"
)

var log = klog.NewSubsystem("p2p")

const (
	// pingInterval is how often each side pings the other.
	pingInterval = 2 * time.Second
	// deadThreshold is how long without a pong before the connection is
	// considered dead.
	deadThreshold = 8 * time.Second
)

// HandlerFunc answers a Send from the peer: a server-callable method
// this side exposes.
type HandlerFunc func(ctx context.Context, peerID string, body json.RawMessage) (interface{}, error)

// pendingCall is an outstanding call awaiting its reply, keyed by
// method name. At most one call per method name may be in flight per
// direction at a time (see DESIGN.md).
type pendingCall struct {
	resultCh chan json.RawMessage
	errCh    chan error
}

// Conn is one bidirectional WebSocket connection, symmetric between
// client and server: both sides own a handler registry,
// a pending-call table, and a writer queue, and run the same reader/
// writer/heartbeat loops.
type Conn struct {
	PeerID string

	ws *websocket.Conn

	handlersMu sync.RWMutex
	handlers   map[string]HandlerFunc

	pendingMu sync.Mutex
	pending   map[string]*pendingCall

	outgoing chan []byte

	lastPongMu sync.Mutex
	lastPong   time.Time

	onDisconnect func(peerID string)
	disconnectOnce sync.Once

	shutdownCh chan struct{}
	doneCh     chan struct{}
}

// NewConn wraps an established *websocket.Conn. onDisconnect, if
// non-nil, fires exactly once when the connection is deemed dead or
// explicitly shut down.
func NewConn(peerID string, ws *websocket.Conn, onDisconnect func(peerID string)) *Conn {
	c := &Conn{
		PeerID:       peerID,
		ws:           ws,
		handlers:     make(map[string]HandlerFunc),
		pending:      make(map[string]*pendingCall),
		outgoing:     make(chan []byte, 64),
		lastPong:     time.Now(),
		onDisconnect: onDisconnect,
		shutdownCh:   make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
	ws.SetPongHandler(func(string) error {
		c.lastPongMu.Lock()
		c.lastPong = time.Now()
		c.lastPongMu.Unlock()
		return nil
	})
	return c
}

// RegisterHandler installs a server-callable method under name.
func (c *Conn) RegisterHandler(name string, fn HandlerFunc) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[name] = fn
}

// Start launches the reader, writer, and heartbeat loops. It returns
// immediately; call Wait to block until the connection terminates.
func (c *Conn) Start() {
	go c.writeLoop()
	go c.readLoop()
	go c.heartbeatLoop()
}

// Wait blocks until the connection has been torn down, i.e. until the
// disconnect callback has fired; the loops may still be exiting then.
func (c *Conn) Wait() {
	<-c.doneCh
}

// Shutdown enqueues a sentinel that closes the socket and exits every
// loop; idempotent.
func (c *Conn) Shutdown() {
	select {
	case <-c.shutdownCh:
	default:
		close(c.shutdownCh)
	}
	c.ws.Close()
	c.fireDisconnect()
}

func (c *Conn) fireDisconnect() {
	c.disconnectOnce.Do(func() {
		if c.onDisconnect != nil {
			c.onDisconnect(c.PeerID)
		}
		c.failAllPending(kerrors.New(kerrors.PeerDisconnected, "connection closed"))
		close(c.doneCh)
	})
}

func (c *Conn) failAllPending(err error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for name, p := range c.pending {
		p.errCh <- err
		delete(c.pending, name)
	}
}

// Call sends a Send frame for method name with body marshaled from req,
// blocks until the matching Reply arrives, and unmarshals its body into
// resp. Only one Call per method name may be outstanding at a time —
// a second concurrent Call with the same name returns
// kerrors.HandlerError without being sent.
func (c *Conn) Call(ctx context.Context, name string, req interface{}, resp interface{}) error {
	body, err := encodeBody(req)
	if err != nil {
		return err
	}

	p := &pendingCall{resultCh: make(chan json.RawMessage, 1), errCh: make(chan error, 1)}
	c.pendingMu.Lock()
	if _, exists := c.pending[name]; exists {
		c.pendingMu.Unlock()
		return kerrors.New(kerrors.HandlerError, "call already in flight for method "+name)
	}
	c.pending[name] = p
	c.pendingMu.Unlock()

	frame, err := encodeFrame(Wrapper{Send: &Payload{Name: name, Body: body}})
	if err != nil {
		c.removePending(name)
		return err
	}

	select {
	case c.outgoing <- frame:
	case <-c.shutdownCh:
		c.removePending(name)
		return kerrors.New(kerrors.PeerDisconnected, "connection shutting down")
	}

	select {
	case raw := <-p.resultCh:
		if resp != nil {
			if err := json.Unmarshal(raw, resp); err != nil {
				return kerrors.Wrap(kerrors.MalformedMessage, err)
			}
		}
		return nil
	case err := <-p.errCh:
		return err
	case <-ctx.Done():
		c.removePending(name)
		return kerrors.Wrap(kerrors.Timeout, ctx.Err())
	}
}

func (c *Conn) removePending(name string) {
	c.pendingMu.Lock()
	delete(c.pending, name)
	c.pendingMu.Unlock()
}

func (c *Conn) writeLoop() {
	defer c.ws.Close()
	for {
		select {
		case frame := <-c.outgoing:
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-c.shutdownCh:
			return
		}
	}
}

func (c *Conn) readLoop() {
	defer c.fireDisconnect()
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		w, err := decodeFrame(raw)
		if err != nil {
			log.Warnf("p2p: dropping malformed frame from %s: %v", c.PeerID, err)
			continue
		}
		switch {
		case w.Send != nil:
			go c.dispatchSend(*w.Send)
		case w.Reply != nil:
			c.dispatchReply(*w.Reply)
		}
	}
}

func (c *Conn) dispatchSend(payload Payload) {
	c.handlersMu.RLock()
	fn, ok := c.handlers[payload.Name]
	c.handlersMu.RUnlock()

	var replyBody string
	if !ok {
		replyBody = encodeErrorBody("no handler registered for " + payload.Name)
	} else {
		result, err := fn(context.Background(), c.PeerID, json.RawMessage(payload.Body))
		if err != nil {
			replyBody = encodeErrorBody(err.Error())
		} else {
			body, encErr := encodeBody(result)
			if encErr != nil {
				replyBody = encodeErrorBody(encErr.Error())
			} else {
				replyBody = body
			}
		}
	}

	frame, err := encodeFrame(Wrapper{Reply: &Payload{Name: payload.Name, Body: replyBody}})
	if err != nil {
		return
	}
	select {
	case c.outgoing <- frame:
	case <-c.shutdownCh:
	}
}

func (c *Conn) dispatchReply(payload Payload) {
	c.pendingMu.Lock()
	p, ok := c.pending[payload.Name]
	if ok {
		delete(c.pending, payload.Name)
	}
	c.pendingMu.Unlock()
	if !ok {
		return
	}
	if reason, isErr := decodeErrorBody(payload.Body); isErr {
		p.errCh <- kerrors.New(kerrors.HandlerError, reason)
		return
	}
	p.resultCh <- json.RawMessage(payload.Body)
}

func (c *Conn) heartbeatLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.fireDisconnect()
				return
			}
			c.lastPongMu.Lock()
			stale := time.Since(c.lastPong) > deadThreshold
			c.lastPongMu.Unlock()
			if stale {
				c.fireDisconnect()
				c.Shutdown()
				return
			}
		case <-c.shutdownCh:
			return
		}
	}
}
