package channel

import (
	"github.com/cryptape/kabletop-go-sdk/assembler"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/cryptape/kabletop-go-sdk/roundchain"
)

// CloseParams describes a close_channel request: which channel cell is
// being consumed, who won, and (for a post-challenge close) the current
// tip used as the timeout's since value.
type CloseParams struct {
	Templates     assembler.ScriptTemplates
	Channel       chain.CellWithData
	Args          codec.ChannelArgs
	Rounds        []roundchain.SignedRound
	Winner        uint8 // 1 or 2
	FromChallenge bool
	TipBlockNumber uint64
}

// BuildClose consumes the channel
// cell and produces the two settlement outputs, awarding the pot to the
// declared winner. bet_ckb is derived from the channel's own capacity, not passed in,
// since channel_capacity = 2*(staking+bet) is the open-channel
// invariant.
func BuildClose(p CloseParams) (chain.Transaction, error) {
	if len(p.Rounds) == 0 {
		return chain.Transaction{}, kerrors.New(kerrors.EmptyRounds, "close requires at least one round")
	}
	if p.Winner != 1 && p.Winner != 2 {
		return chain.Transaction{}, kerrors.New(kerrors.BadWinner, "winner must be 1 or 2")
	}

	channelCapacity := p.Channel.Output.Capacity
	if channelCapacity <= 2*p.Args.StakingCKB {
		return chain.Transaction{}, kerrors.New(kerrors.BrokenChannel,
			"channel capacity does not cover twice the staking amount")
	}
	betCKB := channelCapacity/2 - p.Args.StakingCKB

	since := uint64(0)
	if p.FromChallenge {
		since = p.TipBlockNumber
	}

	b := assembler.NewBuilder().AddInput(chain.CellInput{
		PreviousOutput: p.Channel.OutPoint,
		Since:          since,
	})

	outs, _ := assembler.SettlementOutputs(p.Templates, p.Args.User1PKHash, p.Args.User2PKHash,
		p.Args.StakingCKB, betCKB, p.Winner == 1)
	b.AddOutput(outs[0], nil)
	b.AddOutput(outs[1], nil)

	for _, w := range closeWitnesses(p.Channel.OutPoint.TxHash, p.Rounds) {
		b.AddWitness(w)
	}

	return b.Transaction(), nil
}

// closeWitnesses lays out the witness vector: index 0
// carries output_type = the channel-creation tx hash (the lock field is
// left for the counterparty's cooperative-close signature, filled in by
// package signer); indices 1..n carry each round's signature in lock and
// its encoded Round in input_type.
func closeWitnesses(creationTxHash codec.Blake256, rounds []roundchain.SignedRound) [][]byte {
	witnesses := make([][]byte, 0, len(rounds)+1)
	witnesses = append(witnesses, codec.WitnessArgs{
		OutputType: append([]byte(nil), creationTxHash[:]...),
	}.Encode())

	for _, r := range rounds {
		sig := r.Signature
		witnesses = append(witnesses, codec.WitnessArgs{
			Lock:      append([]byte(nil), sig[:]...),
			InputType: r.Round.Encode(),
		}.Encode())
	}
	return witnesses
}
