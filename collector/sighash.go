// Package collector implements coin selection: greedily accumulating
// sighash cells to cover a required capacity, and NFT cells to cover a
// required id multiset. Structurally grounded on
// sweep/txgenerator.go's generateInputPartitionings/
// getPositiveYieldInputs paging-and-accumulate loop.
package collector

import (
	"context"

	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// sighashPageSize is the page size used when paging through live
// sighash cells.
const sighashPageSize = 5

// SighashScriptFor builds the lock script matching pkhash under the
// given sighash code template.
func SighashScriptFor(sighashCodeHash codec.Blake256, pkhash codec.Blake160) chain.Script {
	return chain.Script{
		CodeHash: sighashCodeHash,
		HashType: chain.HashTypeType,
		Args:     append([]byte(nil), pkhash[:]...),
	}
}

// SighashSelection is the result of SelectSighashCells: the inputs
// chosen and the change amount to return to the same lock.
type SighashSelection struct {
	Cells  []chain.CellWithData
	Change uint64
}

// SelectSighashCells pages through live cells locked to the sighash
// script for pkhash, greedily accumulating inputs until their summed
// capacity meets or exceeds target. It stops at the first satisfying
// prefix — it does not try to minimize the number of inputs used beyond
// that. On exhausting all pages without reaching target, it fails with
// kerrors.InsufficientCapacity.
func SelectSighashCells(ctx context.Context, client chain.Client, sighashScript chain.Script, target uint64) (SighashSelection, error) {
	key := chain.SearchKey{Script: sighashScript, ScriptType: chain.ScriptTypeLock}

	var (
		selected []chain.CellWithData
		sum      uint64
		cursor   string
	)

	for {
		page, err := client.GetLiveCells(ctx, key, sighashPageSize, cursor)
		if err != nil {
			return SighashSelection{}, err
		}

		for _, cell := range page.Cells {
			selected = append(selected, cell)
			sum += cell.Output.Capacity
			if sum >= target {
				return SighashSelection{
					Cells:  selected,
					Change: sum - target,
				}, nil
			}
		}

		if page.NextCursor == "" {
			return SighashSelection{}, kerrors.New(kerrors.InsufficientCapacity,
				"insufficient sighash capacity for target")
		}
		cursor = page.NextCursor
	}
}
