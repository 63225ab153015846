package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/cryptape/kabletop-go-sdk/klog"
)

var log = klog.NewSubsystem("chain")

// Client is the interface every chain operation in this package uses. It is
// intentionally narrow: chain-node and indexer processes are external
// collaborators, so tests drive this purely through httptest servers,
// never a real node.
type Client interface {
	GetBlock(ctx context.Context, height uint64) (Block, error)
	GetTransaction(ctx context.Context, txHash codec.Blake256) (Transaction, error)
	GetTipBlockNumber(ctx context.Context) (uint64, error)
	GetLiveCells(ctx context.Context, key SearchKey, limit uint32, cursor string) (LiveCellsPage, error)
	GetTotalCapacity(ctx context.Context, lockArgs []byte) (uint64, error)
	SendTransaction(ctx context.Context, tx Transaction) (codec.Blake256, error)
	Genesis(ctx context.Context) (GenesisInfo, error)
}

// RPCClient speaks CKB-style JSON-RPC 2.0 over HTTP. Per §5, calls to
// the chain-node RPC are serialized with a mutex; the indexer RPC
// (GetLiveCells, GetTotalCapacity) uses a second, unlocked HTTP client.
type RPCClient struct {
	nodeURI    string
	indexerURI string

	nodeMu   sync.Mutex
	nodeHTTP *http.Client

	indexerHTTP *http.Client

	genesisOnce sync.Once
	genesisInfo GenesisInfo
	genesisErr  error
}

// NewRPCClient builds a Client against the given node and indexer URIs.
// Neither is dialed until the first call.
func NewRPCClient(nodeURI, indexerURI string) *RPCClient {
	return &RPCClient{
		nodeURI:     nodeURI,
		indexerURI:  indexerURI,
		nodeHTTP:    &http.Client{Timeout: 30 * time.Second},
		indexerHTTP: &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func call(ctx context.Context, httpClient *http.Client, uri, method string, params []interface{}, out interface{}) error {
	reqBody, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return kerrors.Wrap(kerrors.Network, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(reqBody))
	if err != nil {
		return kerrors.Wrap(kerrors.Network, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return kerrors.Wrap(kerrors.Network, err)
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return kerrors.Wrap(kerrors.Network, err)
	}
	if rpcResp.Error != nil {
		return &kerrors.Error{Kind: kerrors.RpcError, Detail: rpcResp.Error.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return kerrors.Wrap(kerrors.Network, err)
	}
	return nil
}

// GetBlock fetches a block by height, making up to 5 attempts on
// network failure (the only automatically-retried call per §7).
func (c *RPCClient) GetBlock(ctx context.Context, height uint64) (Block, error) {
	var out Block
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		c.nodeMu.Lock()
		err = call(ctx, c.nodeHTTP, c.nodeURI, "get_block_by_number", []interface{}{height}, &out)
		c.nodeMu.Unlock()
		if err == nil {
			return out, nil
		}
		if !kerrors.Is(err, kerrors.Network) {
			return Block{}, err
		}
		log.WithField("attempt", attempt+1).Warn("get_block retry")
	}
	return Block{}, err
}

// GetTransaction returns a transaction only if its chain status is
// committed; otherwise it fails with kerrors.NotConfirmed.
func (c *RPCClient) GetTransaction(ctx context.Context, txHash codec.Blake256) (Transaction, error) {
	var out TransactionWithStatus
	c.nodeMu.Lock()
	err := call(ctx, c.nodeHTTP, c.nodeURI, "get_transaction", []interface{}{txHash}, &out)
	c.nodeMu.Unlock()
	if err != nil {
		return Transaction{}, err
	}
	if out.Status != StatusCommitted {
		return Transaction{}, kerrors.New(kerrors.NotConfirmed,
			fmt.Sprintf("tx status is %s", out.Status))
	}
	return out.Transaction, nil
}

// GetTipBlockNumber returns the current chain tip height.
func (c *RPCClient) GetTipBlockNumber(ctx context.Context) (uint64, error) {
	var out uint64
	c.nodeMu.Lock()
	err := call(ctx, c.nodeHTTP, c.nodeURI, "get_tip_block_number", nil, &out)
	c.nodeMu.Unlock()
	return out, err
}

// GetLiveCells pages through the indexer's live-cell set. The indexer
// RPC is fully async (no mutex), per §5.
func (c *RPCClient) GetLiveCells(ctx context.Context, key SearchKey, limit uint32, cursor string) (LiveCellsPage, error) {
	var out LiveCellsPage
	params := []interface{}{key, limit}
	if cursor != "" {
		params = append(params, cursor)
	}
	err := call(ctx, c.indexerHTTP, c.indexerURI, "get_cells", params, &out)
	return out, err
}

// GetTotalCapacity sums the live sighash capacity locked to lockArgs.
func (c *RPCClient) GetTotalCapacity(ctx context.Context, lockArgs []byte) (uint64, error) {
	var out uint64
	err := call(ctx, c.indexerHTTP, c.indexerURI, "get_cells_capacity", []interface{}{lockArgs}, &out)
	return out, err
}

// SendTransaction submits tx and returns its hash.
func (c *RPCClient) SendTransaction(ctx context.Context, tx Transaction) (codec.Blake256, error) {
	var out codec.Blake256
	c.nodeMu.Lock()
	err := call(ctx, c.nodeHTTP, c.nodeURI, "send_transaction", []interface{}{tx}, &out)
	c.nodeMu.Unlock()
	return out, err
}

// Genesis derives and caches the system scripts from the genesis block:
// the sighash lock script (from the first output of the first genesis
// transaction) and the sighash/multisig dep groups (the first two
// outputs of the second genesis transaction that carry a type script,
// referenced by that transaction's hash).
func (c *RPCClient) Genesis(ctx context.Context) (GenesisInfo, error) {
	c.genesisOnce.Do(func() {
		c.genesisInfo, c.genesisErr = c.deriveGenesis(ctx)
	})
	return c.genesisInfo, c.genesisErr
}
