package channel_test

import (
	"testing"

	"github.com/cryptape/kabletop-go-sdk/assembler"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/channel"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/collector"
	"github.com/stretchr/testify/require"
)

const ckb = 100_000_000

// TestOpenChannelScenarioA follows spec Scenario A: staking=500 CKB,
// bet=2000 CKB, deck_size=1, both users hold nft1.
func TestOpenChannelScenarioA(t *testing.T) {
	tmpl := assembler.ScriptTemplates{}
	nft1 := codec.Blake160{1}
	user1PK := codec.Blake160{0xA1}
	user2PK := codec.Blake160{0xA2}

	draft, err := channel.PrepareOpen(channel.PrepareOpenParams{
		Templates:    tmpl,
		StakingCKB:   500 * ckb,
		BetCKB:       2000 * ckb,
		DeckSize:     1,
		BeginBlock:   100,
		User1PKHash:  user1PK,
		User1NFTs:    []codec.Blake160{nft1},
		Sighash: collector.SighashSelection{
			Cells:  []chain.CellWithData{{OutPoint: chain.OutPoint{Index: 0}, Output: chain.CellOutput{Capacity: 2500 * ckb}}},
			Change: 0,
		},
		NFT: collector.NFTSelection{
			Cells: []chain.CellWithData{{OutPoint: chain.OutPoint{Index: 1}}},
		},
	})
	require.NoError(t, err)

	err = draft.CompleteOpen(channel.CompleteOpenParams{
		User2PKHash: user2PK,
		User2NFTs:   []codec.Blake160{nft1},
		Sighash: collector.SighashSelection{
			Cells:  []chain.CellWithData{{OutPoint: chain.OutPoint{Index: 2}, Output: chain.CellOutput{Capacity: 2500 * ckb}}},
			Change: 0,
		},
		NFT: collector.NFTSelection{
			Cells: []chain.CellWithData{{OutPoint: chain.OutPoint{Index: 3}}},
		},
	})
	require.NoError(t, err)

	tx := draft.Transaction()
	channelOut := tx.Outputs[len(tx.Outputs)-1]
	require.Equal(t, uint64(5000*ckb), channelOut.Capacity)

	require.Equal(t, uint8(1), draft.Args.DeckSize)
	require.Equal(t, []codec.Blake160{nft1}, draft.Args.User1NFTs)
	require.Equal(t, []codec.Blake160{nft1}, draft.Args.User2NFTs)
}

func TestPrepareOpenRejectsWrongDeckSize(t *testing.T) {
	_, err := channel.PrepareOpen(channel.PrepareOpenParams{
		DeckSize:  2,
		User1NFTs: []codec.Blake160{{1}},
	})
	require.Error(t, err)
}
