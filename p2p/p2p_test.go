package p2p_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/cryptape/kabletop-go-sdk/p2p"
	"github.com/stretchr/testify/require"
)

type echoReq struct {
	N int `json:"n"`
}
type echoResp struct {
	N int `json:"n"`
}

func dialTestServer(t *testing.T, srv *p2p.Server) (*httptest.Server, *p2p.Conn) {
	ts := httptest.NewServer(srv)
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	clientConn, err := p2p.Dial(url, "client", nil)
	require.NoError(t, err)
	return ts, clientConn
}

func TestCallRoundtrip(t *testing.T) {
	srv := p2p.NewServer(0)
	srv.OnConnect = func(c *p2p.Conn) {
		c.RegisterHandler("echo", func(ctx context.Context, peerID string, body json.RawMessage) (interface{}, error) {
			var req echoReq
			require.NoError(t, json.Unmarshal(body, &req))
			return echoResp{N: req.N + 1}, nil
		})
	}

	ts, client := dialTestServer(t, srv)
	defer ts.Close()
	defer client.Shutdown()

	var resp echoResp
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := client.Call(ctx, "echo", echoReq{N: 41}, &resp)
	require.NoError(t, err)
	require.Equal(t, 42, resp.N)
}

// TestCallFIFO covers Property 8: sequential calls on the same method
// name block until their reply arrives and are answered in order.
func TestCallFIFO(t *testing.T) {
	srv := p2p.NewServer(0)
	var mu sync.Mutex
	var seen []int
	srv.OnConnect = func(c *p2p.Conn) {
		c.RegisterHandler("seq", func(ctx context.Context, peerID string, body json.RawMessage) (interface{}, error) {
			var req echoReq
			require.NoError(t, json.Unmarshal(body, &req))
			mu.Lock()
			seen = append(seen, req.N)
			mu.Unlock()
			return echoResp{N: req.N}, nil
		})
	}

	ts, client := dialTestServer(t, srv)
	defer ts.Close()
	defer client.Shutdown()

	for i := 0; i < 5; i++ {
		var resp echoResp
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := client.Call(ctx, "seq", echoReq{N: i}, &resp)
		cancel()
		require.NoError(t, err)
		require.Equal(t, i, resp.N)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestNoHandlerRegisteredReturnsError(t *testing.T) {
	srv := p2p.NewServer(0)
	ts, client := dialTestServer(t, srv)
	defer ts.Close()
	defer client.Shutdown()

	var resp echoResp
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := client.Call(ctx, "missing", echoReq{}, &resp)
	require.Error(t, err)
	require.True(t, kerrors.Is(err, kerrors.HandlerError))
}

// TestHandlerErrorReturnsHandlerErrorKind covers a registered handler
// that rejects the call: the reply's {"reason": string} error body must
// surface as kerrors.HandlerError, not a zero-valued, error-less result.
func TestHandlerErrorReturnsHandlerErrorKind(t *testing.T) {
	srv := p2p.NewServer(0)
	srv.OnConnect = func(c *p2p.Conn) {
		c.RegisterHandler("reject", func(ctx context.Context, peerID string, body json.RawMessage) (interface{}, error) {
			return nil, errors.New("malformed round")
		})
	}

	ts, client := dialTestServer(t, srv)
	defer ts.Close()
	defer client.Shutdown()

	var resp echoResp
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := client.Call(ctx, "reject", echoReq{N: 1}, &resp)
	require.Error(t, err)
	require.Contains(t, err.Error(), "malformed round")
	require.True(t, kerrors.Is(err, kerrors.HandlerError))
	require.Equal(t, echoResp{}, resp)
}

func TestMaxConnectionsRejectsExcess(t *testing.T) {
	srv := p2p.NewServer(1)
	ts := httptest.NewServer(srv)
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	c1, err := p2p.Dial(url, "one", nil)
	require.NoError(t, err)
	defer c1.Shutdown()

	time.Sleep(50 * time.Millisecond) // let the server register the first conn
	_, err = p2p.Dial(url, "two", nil)
	require.Error(t, err)
}
