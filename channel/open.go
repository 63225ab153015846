// Package channel builds the three on-chain transactions that drive a
// channel's lifecycle: open (three-step cooperative
// construction), challenge, and close. Each builder is a pure function
// from requested state transition plus already-collected chain state
// (sighash/NFT selections from package collector) to a transaction;
// none of them talk to the chain directly, matching lnwallet/
// reservation.go's ChannelReservation, which is filled in stages by
// the two sides of a funding flow before either signs.
package channel

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cryptape/kabletop-go-sdk/assembler"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/collector"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/cryptape/kabletop-go-sdk/signer"
)

// OpenDraft accumulates the open-channel transaction across its three
// cooperative steps. Exported fields are read by the side constructing
// the next step and by tests; callers should treat it as append-only.
type OpenDraft struct {
	Templates assembler.ScriptTemplates
	Args      codec.ChannelArgs

	StakingCKB uint64
	BetCKB     uint64

	builder *assembler.Builder

	// user1NFTOutputIdx and user2NFTOutputIdx record which output
	// index holds each user's NFT cell, as returned by
	// NFTOutputIndices; user2NFTOutputIdx is -1 until CompleteOpen runs.
	user1NFTOutputIdx int
	user2NFTOutputIdx int
}

// PrepareOpenParams is user 1's contribution to an open-channel
// transaction: their half of ChannelArgs plus the cells collector
// already selected to cover it.
type PrepareOpenParams struct {
	Templates    assembler.ScriptTemplates
	StakingCKB   uint64
	BetCKB       uint64
	DeckSize     uint8
	BeginBlock   uint64
	LockCodeHash codec.Blake256

	User1PKHash codec.Blake160
	User1NFTs   []codec.Blake160

	WalletScriptHash codec.Blake256
	Sighash          collector.SighashSelection
	NFT              collector.NFTSelection
}

// PrepareOpen is step 1: user 1 fills ChannelArgs with their half, adds
// their sighash and NFT cells as inputs, and emits their own NFT output
// (carried forward under their own sighash lock) plus sighash change.
// The channel output itself is added in CompleteOpen once user 2 has
// doubled the capacity.
func PrepareOpen(p PrepareOpenParams) (*OpenDraft, error) {
	if len(p.User1NFTs) != int(p.DeckSize) {
		return nil, kerrors.New(kerrors.MalformedMessage, "user1 nft count does not match deck size")
	}

	b := assembler.NewBuilder()
	for _, cell := range p.Sighash.Cells {
		b.AddInput(chain.CellInput{PreviousOutput: cell.OutPoint})
	}
	for _, cell := range p.NFT.Cells {
		b.AddInput(chain.CellInput{PreviousOutput: cell.OutPoint})
	}

	nftOut, nftData := assembler.NFTCell(p.Templates, p.User1PKHash, p.WalletScriptHash, p.User1NFTs)
	b.AddOutput(nftOut, nftData)
	nftOutIdx := len(b.Transaction().Outputs) - 1

	if p.Sighash.Change > 0 {
		changeOut, _ := assembler.PaymentCell(p.Templates, p.User1PKHash, p.Sighash.Change)
		b.AddOutput(changeOut, nil)
	}

	args := codec.ChannelArgs{
		StakingCKB:   p.StakingCKB,
		DeckSize:     p.DeckSize,
		BeginBlock:   p.BeginBlock,
		LockCodeHash: p.LockCodeHash,
		User1PKHash:  p.User1PKHash,
		User1NFTs:    p.User1NFTs,
	}

	return &OpenDraft{
		Templates:         p.Templates,
		Args:              args,
		StakingCKB:        p.StakingCKB,
		BetCKB:            p.BetCKB,
		builder:           b,
		user1NFTOutputIdx: nftOutIdx,
		user2NFTOutputIdx: -1,
	}, nil
}

// CompleteOpenParams is user 2's contribution.
type CompleteOpenParams struct {
	User2PKHash codec.Blake160
	User2NFTs   []codec.Blake160

	WalletScriptHash codec.Blake256
	Sighash          collector.SighashSelection
	NFT              collector.NFTSelection
}

// CompleteOpen is step 2: user 2 fills their half of ChannelArgs, adds
// their own sighash/NFT inputs and NFT output, and finally adds the
// channel cell itself at capacity 2*(staking+bet) — the output-capacity
// invariant from spec Scenario A.
func (d *OpenDraft) CompleteOpen(p CompleteOpenParams) error {
	if d.user2NFTOutputIdx != -1 {
		return kerrors.New(kerrors.MalformedMessage, "open draft already completed")
	}
	if len(p.User2NFTs) != int(d.Args.DeckSize) {
		return kerrors.New(kerrors.MalformedMessage, "user2 nft count does not match deck size")
	}

	for _, cell := range p.Sighash.Cells {
		d.builder.AddInput(chain.CellInput{PreviousOutput: cell.OutPoint})
	}
	for _, cell := range p.NFT.Cells {
		d.builder.AddInput(chain.CellInput{PreviousOutput: cell.OutPoint})
	}

	nftOut, nftData := assembler.NFTCell(d.Templates, p.User2PKHash, p.WalletScriptHash, p.User2NFTs)
	d.builder.AddOutput(nftOut, nftData)
	d.user2NFTOutputIdx = len(d.builder.Transaction().Outputs) - 1

	if p.Sighash.Change > 0 {
		changeOut, _ := assembler.PaymentCell(d.Templates, p.User2PKHash, p.Sighash.Change)
		d.builder.AddOutput(changeOut, nil)
	}

	d.Args.User2PKHash = p.User2PKHash
	d.Args.User2NFTs = p.User2NFTs

	channelCapacity := 2 * (d.StakingCKB + d.BetCKB)
	channelOut, channelData := assembler.ChannelCell(d.Templates, d.Args, channelCapacity)
	d.builder.AddOutput(channelOut, channelData)

	// one witness slot per input, filled in by SignOpenTx.
	for range d.builder.Transaction().Inputs {
		d.builder.AddWitness(codec.WitnessArgs{}.Encode())
	}

	return nil
}

// Transaction returns the transaction built so far.
func (d *OpenDraft) Transaction() chain.Transaction {
	return d.builder.Transaction()
}

// NFTOutputIndices returns the output indices holding user1's and
// user2's NFT cells, for callers checking the NFT-membership invariant
// (each user's configured NFTs must be exactly coverable by the cell
// under their own sighash lock).
func (d *OpenDraft) NFTOutputIndices() (user1, user2 int) {
	return d.user1NFTOutputIdx, d.user2NFTOutputIdx
}

// SignOpenTx is step 3: each user signs only the input lock groups
// whose lock args equal their own pkhash, leaving the other user's
// groups for them to fill in with their own call to SignOpenTx.
func (d *OpenDraft) SignOpenTx(priv *btcec.PrivateKey, ownerPKHash codec.Blake160, lockOf func(i int) chain.Script) error {
	tx := d.Transaction()
	shouldSign := func(out chain.CellOutput) bool {
		return bytes.Equal(out.Lock.Args, ownerPKHash[:])
	}
	return signer.SignTransaction(tx, lockOf, priv, shouldSign, nil)
}
