package chain

import (
	"context"

	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// deriveGenesis implements §4.B's genesis() derivation: the sighash lock
// script comes from the first output of the first genesis transaction;
// the sighash and multisig dep groups are the first two outputs of the
// second genesis transaction that carry a type script, and their out
// points use hashTransaction of that transaction as tx hash.
func (c *RPCClient) deriveGenesis(ctx context.Context) (GenesisInfo, error) {
	block, err := c.GetBlock(ctx, 0)
	if err != nil {
		return GenesisInfo{}, err
	}
	if len(block.Transactions) < 2 {
		return GenesisInfo{}, kerrors.New(kerrors.MalformedMessage,
			"genesis block must contain at least 2 transactions")
	}

	firstTx := block.Transactions[0]
	if len(firstTx.Outputs) == 0 {
		return GenesisInfo{}, kerrors.New(kerrors.MalformedMessage,
			"genesis transaction 0 has no outputs")
	}
	sighashScript := firstTx.Outputs[0].Lock

	secondTx := block.Transactions[1]
	secondTxHash := hashTransaction(secondTx)

	var sighashDep, multisigDep CellDep
	var foundSighash, foundMultisig bool
	for idx := range secondTx.Outputs {
		out := secondTx.Outputs[idx]
		// The dep-group outputs of the second genesis tx are
		// identified by order among the outputs carrying a type
		// script: the first is the sighash group, the second the
		// multisig group.
		op := OutPoint{TxHash: secondTxHash, Index: uint32(idx)}
		if out.Type != nil && !foundSighash {
			sighashDep = CellDep{OutPoint: op, Type: DepTypeDepGroup}
			foundSighash = true
			continue
		}
		if out.Type != nil && !foundMultisig {
			multisigDep = CellDep{OutPoint: op, Type: DepTypeDepGroup}
			foundMultisig = true
		}
	}
	if !foundSighash || !foundMultisig {
		return GenesisInfo{}, kerrors.New(kerrors.MalformedMessage,
			"genesis transaction 1 missing expected dep-group outputs")
	}

	return GenesisInfo{
		SighashScript:    sighashScript,
		SighashDepGroup:  sighashDep,
		MultisigDepGroup: multisigDep,
	}, nil
}

// HashTransaction computes a Blake2b-256 digest of a transaction (see
// hashTransaction for which fields it covers). Used both to locate
// genesis dep-group cells and, by package signer, as the tx_hash fed
// into the witness digest.
func HashTransaction(tx Transaction) codec.Blake256 {
	return hashTransaction(tx)
}

// hashTransaction computes the Blake2b-256 digest of the concatenation
// of the inputs' previous tx hashes, the outputs' lock and type code
// hashes and args, and the outputs data. It is not the chain's own
// serialization of the transaction: version, cell deps, header deps,
// input indices and since values, capacities, hash types and witnesses
// are not covered.
func hashTransaction(tx Transaction) codec.Blake256 {
	var buf []byte
	for _, in := range tx.Inputs {
		buf = append(buf, in.PreviousOutput.TxHash[:]...)
	}
	for _, out := range tx.Outputs {
		buf = append(buf, out.Lock.CodeHash[:]...)
		buf = append(buf, out.Lock.Args...)
		if out.Type != nil {
			buf = append(buf, out.Type.CodeHash[:]...)
			buf = append(buf, out.Type.Args...)
		}
	}
	for _, data := range tx.OutputsData {
		buf = append(buf, data...)
	}
	return codec.HashBlake256(buf)
}
