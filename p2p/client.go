package p2p

import (
	"github.com/gorilla/websocket"

	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// Dial connects to a peer's WebSocket endpoint and returns a started
// Conn. onDisconnect fires exactly once when the connection dies.
func Dial(url, peerID string, onDisconnect func(peerID string)) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.Network, err)
	}
	conn := NewConn(peerID, ws, onDisconnect)
	conn.Start()
	return conn, nil
}
