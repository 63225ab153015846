package assembler

import (
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
)

// ScriptTemplates names the code hashes every named cell template
// resolves its lock/type scripts against. Callers fill this in once from their TOML configuration
// (package config) and reuse it for every builder call in the process.
type ScriptTemplates struct {
	WalletCodeHash  codec.Blake256
	PaymentCodeHash codec.Blake256
	NFTCodeHash     codec.Blake256
	ChannelCodeHash codec.Blake256
	SighashCodeHash codec.Blake256
}

// ConfigCell builds the config cell: wallet-locked, payment-typed,
// carrying an NFTConfig. Both lock and type args are the composer's
// pkhash.
func ConfigCell(t ScriptTemplates, composerPKHash codec.Blake160, cfg codec.NFTConfig) (chain.CellOutput, []byte) {
	data := cfg.Encode()
	lock := chain.Script{CodeHash: t.WalletCodeHash, HashType: chain.HashTypeType, Args: append([]byte(nil), composerPKHash[:]...)}
	typ := chain.Script{CodeHash: t.PaymentCodeHash, HashType: chain.HashTypeType, Args: append([]byte(nil), composerPKHash[:]...)}
	out := chain.CellOutput{
		Lock: lock,
		Type: &typ,
	}
	out.Capacity = CapacityExactMinimum(len(data), len(lock.Args), len(typ.Args))
	return out, data
}

// WalletCell builds the wallet cell for a user: wallet-locked (by the
// composer), payment-typed (by the user), carrying the unopened-package
// counter.
func WalletCell(t ScriptTemplates, composerPKHash, userPKHash codec.Blake160, packageCount uint8) (chain.CellOutput, []byte) {
	data := []byte{packageCount}
	lock := chain.Script{CodeHash: t.WalletCodeHash, HashType: chain.HashTypeType, Args: append([]byte(nil), composerPKHash[:]...)}
	typ := chain.Script{CodeHash: t.PaymentCodeHash, HashType: chain.HashTypeType, Args: append([]byte(nil), userPKHash[:]...)}
	out := chain.CellOutput{Lock: lock, Type: &typ}
	out.Capacity = CapacityExactMinimum(len(data), len(lock.Args), len(typ.Args))
	return out, data
}

// PaymentCell builds a plain sighash-owned payment output: no NFT
// contents, capacity set by the caller (it carries real economic
// value, not merely capacity-exact minimum).
func PaymentCell(t ScriptTemplates, ownerPKHash codec.Blake160, capacity uint64) (chain.CellOutput, []byte) {
	lock := chain.Script{CodeHash: t.SighashCodeHash, HashType: chain.HashTypeType, Args: append([]byte(nil), ownerPKHash[:]...)}
	return chain.CellOutput{Lock: lock, Capacity: capacity}, nil
}

// NFTCell builds an NFT cell: sighash-locked by the owner, NFT-typed
// with args = Blake256(wallet_script), data = concatenated 20-byte ids.
func NFTCell(t ScriptTemplates, ownerPKHash codec.Blake160, walletScriptHash codec.Blake256, ids []codec.Blake160) (chain.CellOutput, []byte) {
	data := make([]byte, 0, len(ids)*20)
	for _, id := range ids {
		data = append(data, id[:]...)
	}
	lock := chain.Script{CodeHash: t.SighashCodeHash, HashType: chain.HashTypeType, Args: append([]byte(nil), ownerPKHash[:]...)}
	typ := chain.Script{CodeHash: t.NFTCodeHash, HashType: chain.HashTypeType, Args: append([]byte(nil), walletScriptHash[:]...)}
	out := chain.CellOutput{Lock: lock, Type: &typ}
	out.Capacity = CapacityExactMinimum(len(data), len(lock.Args), len(typ.Args))
	return out, data
}

// ChannelCell builds the channel cell: channel-locked by ChannelArgs,
// no type script, empty data, capacity set explicitly by the caller
// (it is 2*(staking+bet), not capacity-exact minimum).
func ChannelCell(t ScriptTemplates, args codec.ChannelArgs, capacity uint64) (chain.CellOutput, []byte) {
	lock := chain.Script{CodeHash: t.ChannelCodeHash, HashType: chain.HashTypeType, Args: args.Encode()}
	return chain.CellOutput{Lock: lock, Capacity: capacity}, nil
}

// ChallengeCell builds the challenge cell: same lock/capacity as the
// channel cell it replaces, carrying Challenge evidence as data. The
// caller must ensure capacity is sufficient for the larger data blob
// (kerrors.ChallengeUnderfunded otherwise — enforced by package
// channel, not here).
func ChallengeCell(t ScriptTemplates, args codec.ChannelArgs, capacity uint64, ch codec.Challenge) (chain.CellOutput, []byte) {
	data := ch.Encode()
	lock := chain.Script{CodeHash: t.ChannelCodeHash, HashType: chain.HashTypeType, Args: args.Encode()}
	return chain.CellOutput{Lock: lock, Capacity: capacity}, data
}

// SettlementOutputs builds the two close-channel outputs: loser gets
// staking_ckb back, winner gets staking_ckb+bet_ckb, both sighash-owned
// by their respective pkhash. Order is (user1, user2) regardless of who
// won; the caller picks which index is winner/loser.
func SettlementOutputs(t ScriptTemplates, user1PKHash, user2PKHash codec.Blake160, stakingCKB, betCKB uint64, user1Wins bool) ([2]chain.CellOutput, [2][]byte) {
	var outs [2]chain.CellOutput
	user1Cap := stakingCKB
	user2Cap := stakingCKB
	if user1Wins {
		user1Cap += betCKB
	} else {
		user2Cap += betCKB
	}
	outs[0], _ = PaymentCell(t, user1PKHash, user1Cap)
	outs[1], _ = PaymentCell(t, user2PKHash, user2Cap)
	return outs, [2][]byte{nil, nil}
}
