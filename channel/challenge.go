package channel

import (
	"github.com/cryptape/kabletop-go-sdk/assembler"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/cryptape/kabletop-go-sdk/roundchain"
)

// ChallengeParams describes a challenge_channel request: the last
// transcript the challenger holds, submitted as evidence that the
// counterparty has stopped cooperating.
type ChallengeParams struct {
	Templates  assembler.ScriptTemplates
	Channel    chain.CellWithData
	Args       codec.ChannelArgs
	Rounds     []roundchain.SignedRound
	RoundOffset uint8
}

// BuildChallenge builds a challenge_channel transaction: one input
// (the channel cell), one output with the same lock and capacity but
// now carrying Challenge data. Fails kerrors.ChallengeUnderfunded if the
// channel cell's capacity cannot also hold the larger challenge data.
func BuildChallenge(p ChallengeParams) (chain.Transaction, error) {
	if len(p.Rounds) == 0 {
		return chain.Transaction{}, kerrors.New(kerrors.EmptyRounds, "challenge requires at least one round")
	}

	last := p.Rounds[len(p.Rounds)-1]
	challenge := codec.Challenge{
		RoundOffset: p.RoundOffset,
		Signature:   last.Signature,
		Round:       last.Round,
	}

	out, data := assembler.ChallengeCell(p.Templates, p.Args, p.Channel.Output.Capacity, challenge)
	minCapacity := assembler.CapacityExactMinimum(len(data), len(out.Lock.Args), 0)
	if p.Channel.Output.Capacity < minCapacity {
		return chain.Transaction{}, kerrors.New(kerrors.ChallengeUnderfunded,
			"channel cell capacity cannot hold challenge evidence")
	}

	b := assembler.NewBuilder().
		AddInput(chain.CellInput{PreviousOutput: p.Channel.OutPoint}).
		AddOutput(out, data)

	for _, w := range closeWitnesses(p.Channel.OutPoint.TxHash, p.Rounds) {
		b.AddWitness(w)
	}

	return b.Transaction(), nil
}
