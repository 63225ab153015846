package collector

import (
	"context"

	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// NFTMode selects what happens to a consumed NFT cell's non-required
// ids.
type NFTMode int

const (
	// ModeTransfer carries a consumed cell's full id list forward into
	// the outputs.
	ModeTransfer NFTMode = iota
	// ModeDiscard carries forward only the ids that were not required.
	ModeDiscard
)

// NFTSelection is the result of SelectNFTCells.
type NFTSelection struct {
	Cells []chain.CellWithData
	// CarryForward is, per consumed cell (same order as Cells), the id
	// list that should reappear in an output: the full list in
	// ModeTransfer, or the leftover ids in ModeDiscard.
	CarryForward [][]codec.Blake160
}

// NFTScriptFor builds the type script of NFT cells composed under a
// wallet script: type.args is Blake256(wallet_script). It does not
// select an owner; SelectNFTCells narrows by the owner's lock.
func NFTScriptFor(nftCodeHash codec.Blake256, walletScriptHash codec.Blake256) chain.Script {
	return chain.Script{
		CodeHash: nftCodeHash,
		HashType: chain.HashTypeType,
		Args:     append([]byte(nil), walletScriptHash[:]...),
	}
}

// SelectNFTCells pages through live cells under the NFT type script
// whose lock is ownerSighashScript, consuming whole cells whose ids intersect the remaining requirement,
// until the requirement multiset is exhausted. Intersection is
// multiset-aware: removing one occurrence of an id from the requirement
// consumes exactly one occurrence from the cell, never "any" occurrence
// via a boolean set.
func SelectNFTCells(ctx context.Context, client chain.Client, ownerSighashScript chain.Script, nftTypeScript chain.Script, required []codec.Blake160, mode NFTMode) (NFTSelection, error) {
	remaining := make(map[codec.Blake160]int, len(required))
	for _, id := range required {
		remaining[id]++
	}
	total := len(required)

	key := chain.SearchKey{
		Script:     nftTypeScript,
		ScriptType: chain.ScriptTypeType,
		Filter:     &chain.CellFilter{Script: &ownerSighashScript},
	}

	var (
		out    NFTSelection
		cursor string
	)

	for total > 0 {
		page, err := client.GetLiveCells(ctx, key, sighashPageSize, cursor)
		if err != nil {
			return NFTSelection{}, err
		}
		if len(page.Cells) == 0 && page.NextCursor == "" {
			return NFTSelection{}, kerrors.InsufficientNFTsErr(total)
		}

		for _, cell := range page.Cells {
			ids := decodeNFTIDs(cell.Data)

			matched := 0
			leftover := make([]codec.Blake160, 0, len(ids))
			for _, id := range ids {
				if remaining[id] > 0 {
					remaining[id]--
					if remaining[id] == 0 {
						delete(remaining, id)
					}
					matched++
					total--
				} else {
					leftover = append(leftover, id)
				}
			}
			if matched == 0 {
				continue
			}

			out.Cells = append(out.Cells, cell)
			if mode == ModeTransfer {
				out.CarryForward = append(out.CarryForward, ids)
			} else {
				out.CarryForward = append(out.CarryForward, leftover)
			}

			if total == 0 {
				return out, nil
			}
		}

		if page.NextCursor == "" {
			return NFTSelection{}, kerrors.InsufficientNFTsErr(total)
		}
		cursor = page.NextCursor
	}

	return out, nil
}

// decodeNFTIDs splits an NFTCell's data blob into its 20-byte ids.
func decodeNFTIDs(data []byte) []codec.Blake160 {
	ids := make([]codec.Blake160, 0, len(data)/20)
	for off := 0; off+20 <= len(data); off += 20 {
		var id codec.Blake160
		copy(id[:], data[off:off+20])
		ids = append(ids, id)
	}
	return ids
}
