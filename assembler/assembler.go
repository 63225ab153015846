// Package assembler composes transactions from partial parts — inputs,
// outputs, outputs_data, cell_deps, header_deps, witnesses — and exposes
// named templates for each cell kind: config, wallet,
// payment, nft, channel, challenge, and settlement cells.
package assembler

import (
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
)

// shannonsPerByte is the per-byte price of CKB's cell occupancy rule:
// every byte a cell occupies costs 1 CKB, 1 CKB == 1e8 shannons. The
// bytes counted are those of CapacityExactMinimum. Recovered from
// _examples/original_source since spec.md only describes this as "a
// protocol-specified linear function of data size."
const shannonsPerByte = 100_000_000

// Builder accumulates the parts of a transaction under construction.
// Each With* method appends and returns the Builder for chaining, in
// the manner of a funding-tx assembly pass.
type Builder struct {
	tx chain.Transaction

	seenCellDeps   map[chain.OutPoint]bool
	seenHeaderDeps map[codec.Blake256]bool
}

// NewBuilder starts an empty transaction, version 0 (the only version
// this SDK emits).
func NewBuilder() *Builder {
	return &Builder{
		seenCellDeps:   make(map[chain.OutPoint]bool),
		seenHeaderDeps: make(map[codec.Blake256]bool),
	}
}

// AddInput appends a cell input.
func (b *Builder) AddInput(in chain.CellInput) *Builder {
	b.tx.Inputs = append(b.tx.Inputs, in)
	return b
}

// AddOutput appends an output and its data, keeping Outputs and
// OutputsData in lockstep as the rest of this package assumes.
func (b *Builder) AddOutput(out chain.CellOutput, data []byte) *Builder {
	b.tx.Outputs = append(b.tx.Outputs, out)
	b.tx.OutputsData = append(b.tx.OutputsData, data)
	return b
}

// AddCellDep inserts a cell dep, deduplicating by out point (Property 6
// — cell_deps contain no duplicates).
func (b *Builder) AddCellDep(dep chain.CellDep) *Builder {
	if b.seenCellDeps[dep.OutPoint] {
		return b
	}
	b.seenCellDeps[dep.OutPoint] = true
	b.tx.CellDeps = append(b.tx.CellDeps, dep)
	return b
}

// AddHeaderDep inserts a header dep, deduplicating by hash.
func (b *Builder) AddHeaderDep(h codec.Blake256) *Builder {
	if b.seenHeaderDeps[h] {
		return b
	}
	b.seenHeaderDeps[h] = true
	b.tx.HeaderDeps = append(b.tx.HeaderDeps, h)
	return b
}

// AddWitness appends a raw witness slot; the signer (package signer)
// fills in the lock field of witness 0 per lock group after assembly.
func (b *Builder) AddWitness(w []byte) *Builder {
	b.tx.Witnesses = append(b.tx.Witnesses, w)
	return b
}

// Transaction returns the transaction built so far.
func (b *Builder) Transaction() chain.Transaction {
	return b.tx
}

// CapacityExactMinimum returns the minimum capacity (in shannons) that
// an output carrying dataLen bytes of data and the given lock/type arg
// lengths must have to be "capacity-exact": covering its own footprint
// with no slack. It counts 42 fixed bytes plus dataLen and lockArgsLen,
// and a further 33 bytes plus typeArgsLen when typeArgsLen is non-zero.
func CapacityExactMinimum(dataLen, lockArgsLen, typeArgsLen int) uint64 {
	cellFieldBytes := 8 + 1 + 1 + 32 + dataLen + lockArgsLen
	if typeArgsLen > 0 {
		cellFieldBytes += 32 + 1 + typeArgsLen
	}
	return uint64(cellFieldBytes) * shannonsPerByte
}

// SumOutputCapacity supports the capacity
// conservation check (Property 4): Σ input.capacity == Σ
// output.capacity + fee. The assembler does not itself look up input
// capacities (that requires chain state); callers pass them in from the
// cells they selected.
func SumOutputCapacity(tx chain.Transaction) uint64 {
	var sum uint64
	for _, out := range tx.Outputs {
		sum += out.Capacity
	}
	return sum
}
