package channel_test

import (
	"testing"

	"github.com/cryptape/kabletop-go-sdk/assembler"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/channel"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/cryptape/kabletop-go-sdk/roundchain"
	"github.com/stretchr/testify/require"
)

func oneRound() []roundchain.SignedRound {
	return []roundchain.SignedRound{{
		Round:     codec.Round{UserType: 1, Operations: [][]byte{[]byte("draw")}},
		Signature: codec.Signature{1, 2, 3},
	}}
}

// TestBuildCloseScenarioC follows spec Scenario C: channel_capacity =
// 5000 CKB, staking=500, winner=1, from a challenge so since is set to
// the tip.
func TestBuildCloseScenarioC(t *testing.T) {
	args := codec.ChannelArgs{
		StakingCKB:  500 * ckb,
		User1PKHash: codec.Blake160{0xA1},
		User2PKHash: codec.Blake160{0xA2},
	}
	channelCell := chain.CellWithData{
		Output: chain.CellOutput{Capacity: 5000 * ckb},
	}

	tx, err := channel.BuildClose(channel.CloseParams{
		Templates:      assembler.ScriptTemplates{},
		Channel:        channelCell,
		Args:           args,
		Rounds:         oneRound(),
		Winner:         1,
		FromChallenge:  true,
		TipBlockNumber: 12345,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(2500*ckb), tx.Outputs[0].Capacity)
	require.Equal(t, uint64(500*ckb), tx.Outputs[1].Capacity)
	require.Equal(t, uint64(12345), tx.Inputs[0].Since)
}

func TestBuildCloseBrokenChannel(t *testing.T) {
	args := codec.ChannelArgs{StakingCKB: 3000 * ckb}
	channelCell := chain.CellWithData{Output: chain.CellOutput{Capacity: 5000 * ckb}}

	_, err := channel.BuildClose(channel.CloseParams{
		Channel: channelCell,
		Args:    args,
		Rounds:  oneRound(),
		Winner:  1,
	})
	require.Error(t, err)
	require.True(t, kerrors.Is(err, kerrors.BrokenChannel))
}

func TestBuildCloseBadWinner(t *testing.T) {
	args := codec.ChannelArgs{StakingCKB: 500 * ckb}
	channelCell := chain.CellWithData{Output: chain.CellOutput{Capacity: 5000 * ckb}}

	_, err := channel.BuildClose(channel.CloseParams{
		Channel: channelCell,
		Args:    args,
		Rounds:  oneRound(),
		Winner:  9,
	})
	require.Error(t, err)
	require.True(t, kerrors.Is(err, kerrors.BadWinner))
}

func TestBuildCloseEmptyRounds(t *testing.T) {
	_, err := channel.BuildClose(channel.CloseParams{Winner: 1})
	require.Error(t, err)
	require.True(t, kerrors.Is(err, kerrors.EmptyRounds))
}
