// Package reveal implements package-opening randomness: a
// deterministic lottery derived from a block header hash, used to pick
// which NFTs a purchased package contains. Implementations must match
// this exact iteration to stay verifiable by the on-chain script that
// re-derives the same lottery from the same hash.
package reveal

import (
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// Collection derives packageCount NFT picks from blockHash and an
// NFTConfig's rate table: iterating the hash two bytes at a time as a
// big-endian u16 lottery value `(b_i << 8) | b_j`, picking for each
// slot the first table entry whose cumulative Rate exceeds the
// lottery — falling back to the table's last entry if none does. The
// hash is reused cyclically if packageCount exceeds half its length.
func Collection(blockHash codec.Blake256, table []codec.NFTEntry, packageCount uint8) ([]codec.Blake160, error) {
	if len(table) == 0 {
		return nil, kerrors.New(kerrors.MalformedMessage, "nft table must be non-empty")
	}

	picks := make([]codec.Blake160, 0, packageCount)
	for slot := 0; slot < int(packageCount); slot++ {
		bi := blockHash[(2*slot)%32]
		bj := blockHash[(2*slot+1)%32]
		lottery := uint16(bi)<<8 | uint16(bj)

		picked := table[len(table)-1].ID
		for _, entry := range table {
			if lottery < entry.Rate {
				picked = entry.ID
				break
			}
		}
		picks = append(picks, picked)
	}
	return picks, nil
}
