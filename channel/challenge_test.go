package channel_test

import (
	"testing"

	"github.com/cryptape/kabletop-go-sdk/assembler"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/channel"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/stretchr/testify/require"
)

func TestBuildChallengeUnderfunded(t *testing.T) {
	args := codec.ChannelArgs{}
	channelCell := chain.CellWithData{
		Output: chain.CellOutput{Capacity: 1}, // far below capacity-exact minimum
	}

	_, err := channel.BuildChallenge(channel.ChallengeParams{
		Templates: assembler.ScriptTemplates{},
		Channel:   channelCell,
		Args:      args,
		Rounds:    oneRound(),
	})
	require.Error(t, err)
	require.True(t, kerrors.Is(err, kerrors.ChallengeUnderfunded))
}

func TestBuildChallengeSufficientCapacity(t *testing.T) {
	args := codec.ChannelArgs{}
	channelCell := chain.CellWithData{
		OutPoint: chain.OutPoint{Index: 0},
		Output:   chain.CellOutput{Capacity: 10_000 * ckb},
	}

	tx, err := channel.BuildChallenge(channel.ChallengeParams{
		Templates: assembler.ScriptTemplates{},
		Channel:   channelCell,
		Args:      args,
		Rounds:    oneRound(),
	})
	require.NoError(t, err)
	require.Len(t, tx.Outputs, 1)
	require.Len(t, tx.Witnesses, 2) // one creation-hash witness + one round witness
}

func TestBuildChallengeEmptyRounds(t *testing.T) {
	_, err := channel.BuildChallenge(channel.ChallengeParams{})
	require.Error(t, err)
	require.True(t, kerrors.Is(err, kerrors.EmptyRounds))
}
