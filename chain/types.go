// Package chain is the client for the external chain node and indexer.
// Per the scope note in SPEC_FULL.md §1, the chain-node and indexer
// processes themselves are external collaborators — this package only
// defines the wire-level request/response contract and a thin JSON-RPC
// client over it; it never assumes a specific server implementation.
package chain

import "github.com/cryptape/kabletop-go-sdk/codec"

// HashType distinguishes the two script-matching rules a lock or type
// script can declare.
type HashType byte

const (
	HashTypeData HashType = iota
	HashTypeType
)

// Script identifies either a lock (who may spend a cell) or a type (the
// state-machine ruleset governing a cell).
type Script struct {
	CodeHash codec.Blake256
	HashType HashType
	Args     []byte
}

// Equal reports whether two scripts are byte-identical.
func (s Script) Equal(o Script) bool {
	if s.CodeHash != o.CodeHash || s.HashType != o.HashType {
		return false
	}
	if len(s.Args) != len(o.Args) {
		return false
	}
	for i := range s.Args {
		if s.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// OutPoint references a specific output of a specific transaction.
type OutPoint struct {
	TxHash codec.Blake256
	Index  uint32
}

// CellOutput is the capacity+scripts half of a cell; Data lives
// alongside it in CellWithData / Transaction.OutputsData.
type CellOutput struct {
	Capacity uint64
	Lock     Script
	Type     *Script
}

// CellWithData is a live, unspent cell as returned by the indexer: its
// output, its data blob, and the out point it lives at.
type CellWithData struct {
	Output   CellOutput
	Data     []byte
	OutPoint OutPoint
}

// CellInput spends a previous output, optionally subject to a relative
// or absolute lock expressed in Since (used by challenge/close to
// enforce the on-chain timeout).
type CellInput struct {
	PreviousOutput OutPoint
	Since          uint64
}

// DepType distinguishes a single referenced code cell from a dep group
// (a bundle of cells loaded together), per the original source's
// genesis-derived sighash/multisig dep groups.
type DepType byte

const (
	DepTypeCode DepType = iota
	DepTypeDepGroup
)

// CellDep is a dependency the transaction's scripts need loaded during
// execution.
type CellDep struct {
	OutPoint OutPoint
	Type     DepType
}

// Transaction is the UTXO-style transaction this SDK's builders produce.
type Transaction struct {
	Version     uint32
	CellDeps    []CellDep
	HeaderDeps  []codec.Blake256
	Inputs      []CellInput
	Outputs     []CellOutput
	OutputsData [][]byte
	Witnesses   [][]byte
}

// Header is the subset of block-header fields this SDK needs: the
// block hash (fed into package-reveal's lottery) and the
// height.
type Header struct {
	Hash   codec.Blake256
	Number uint64
}

// Block is the subset of a chain block this SDK needs.
type Block struct {
	Header       Header
	Transactions []Transaction
}

// TxStatus mirrors the chain's confirmation lifecycle for a submitted
// transaction.
type TxStatus string

const (
	StatusPending   TxStatus = "pending"
	StatusProposed  TxStatus = "proposed"
	StatusCommitted TxStatus = "committed"
	StatusRejected  TxStatus = "rejected"
)

// TransactionWithStatus is what GetTransaction returns.
type TransactionWithStatus struct {
	Transaction Transaction
	Status      TxStatus
}

// ScriptType selects whether a SearchKey matches cells by lock or by
// type script.
type ScriptType string

const (
	ScriptTypeLock ScriptType = "lock"
	ScriptTypeType ScriptType = "type"
)

// CellFilter narrows a live-cell search by script, data length, capacity,
// or block range; any nil range is unconstrained.
type CellFilter struct {
	Script          *Script
	DataLenRange    *[2]uint64
	CapacityRange   *[2]uint64
	BlockRange      *[2]uint64
}

// SearchKey is the indexer query for GetLiveCells.
type SearchKey struct {
	Script     Script
	ScriptType ScriptType
	Filter     *CellFilter
}

// LiveCellsPage is one page of a GetLiveCells query.
type LiveCellsPage struct {
	Cells      []CellWithData
	NextCursor string
}

// GenesisInfo exposes the system scripts derived from the genesis
// block: the sighash lock script template, and dep-group references for
// the sighash and multisig code bundles.
type GenesisInfo struct {
	SighashScript   Script
	SighashDepGroup CellDep
	MultisigDepGroup CellDep
}
