package signer

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// lockGroups partitions tx's inputs into maximal runs of adjacent
// inputs whose corresponding outputs (resolved by the caller via
// lockOf) share a lock-script hash. This assumes inputs belonging to
// the same group are already adjacent, matching every builder in
// package channel and package assembler.
func lockGroups(tx chain.Transaction, lockOf func(i int) chain.Script) [][2]int {
	var groups [][2]int
	start := 0
	for i := 1; i <= len(tx.Inputs); i++ {
		if i < len(tx.Inputs) && lockOf(i).Equal(lockOf(start)) {
			continue
		}
		groups = append(groups, [2]int{start, i})
		start = i
	}
	return groups
}

// SignTransaction signs every lock group for which shouldSign(lockOf(i))
// is true, in place, writing each group's signature into the lock field
// of its first witness (Property 7). tx.Witnesses must already contain
// one WitnessArgs-encoded slot per input; extraWitnesses trail the
// per-input ones and are included in every group's digest unchanged.
func SignTransaction(tx chain.Transaction, lockOf func(i int) chain.Script, priv *btcec.PrivateKey, shouldSign ShouldSign, extraWitnesses [][]byte) error {
	if len(tx.Witnesses) < len(tx.Inputs) {
		return kerrors.New(kerrors.SigningFailed, "fewer witnesses than inputs")
	}

	txHash := chain.HashTransaction(tx)
	groups := lockGroups(tx, lockOf)

	for _, g := range groups {
		start, end := g[0], g[1]
		var output chain.CellOutput
		output.Lock = lockOf(start)
		if !shouldSign(output) {
			continue
		}

		group := LockGroup{
			InputStart: start,
			Witnesses:  tx.Witnesses[start:end],
			Extra:      extraWitnesses,
		}
		digest, err := Digest(txHash, group)
		if err != nil {
			return err
		}
		sig, err := Sign(priv, digest)
		if err != nil {
			return err
		}

		args, err := codec.DecodeWitnessArgs(tx.Witnesses[start])
		if err != nil {
			return kerrors.Wrap(kerrors.SigningFailed, err)
		}
		args.Lock = append([]byte(nil), sig[:]...)
		tx.Witnesses[start] = args.Encode()
	}
	return nil
}
