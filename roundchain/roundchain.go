// Package roundchain implements the per-round cumulative digest that is
// the heart of the channel protocol: each round's digest
// folds in the previous digest, the previous round's signature, and the
// new round's bytes, in that exact order — transposing the order breaks
// on-chain compatibility. A receiver re-derives the prefix digest and
// checks a claimed tip against it, signing and verifying over secp256k1.
package roundchain

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/cryptape/kabletop-go-sdk/signer"
)

// SignedRound pairs a round with the counterparty signature over the
// digest it produced.
type SignedRound struct {
	Round     codec.Round
	Signature codec.Signature
}

// Digest recomputes D_n for the full prefix transcript rounds[0..n],
// given the channel's identity (script hash, capacity). D_0 folds in
// the channel identity instead of a prior digest/signature; D_i (i>=1)
// folds in D_{i-1} and S_{i-1} ahead of round i's bytes.
func Digest(rounds []SignedRound, channelScriptHash codec.Blake256, channelCapacity uint64) (codec.Blake256, error) {
	if len(rounds) == 0 {
		return codec.Blake256{}, kerrors.New(kerrors.EmptyRounds, "round chain is empty")
	}

	var capBuf [8]byte
	binary.LittleEndian.PutUint64(capBuf[:], channelCapacity)

	var buf []byte
	buf = append(buf, channelScriptHash[:]...)
	buf = append(buf, capBuf[:]...)
	buf = append(buf, rounds[0].Round.Encode()...)
	d := codec.HashBlake256(buf)

	for i := 1; i < len(rounds); i++ {
		buf = buf[:0]
		buf = append(buf, d[:]...)
		buf = append(buf, rounds[i-1].Signature[:]...)
		buf = append(buf, rounds[i].Round.Encode()...)
		d = codec.HashBlake256(buf)
	}
	return d, nil
}

// digestForNext computes D_n for prev (the already-signed prefix) plus
// unsigned, without unsigned's own signature — sign_next's target
// digest only ever feeds in prior signatures, never the round being signed.
func digestForNext(prev []SignedRound, unsigned codec.Round, channelScriptHash codec.Blake256, channelCapacity uint64) (codec.Blake256, error) {
	if len(prev) == 0 {
		var capBuf [8]byte
		binary.LittleEndian.PutUint64(capBuf[:], channelCapacity)
		var buf []byte
		buf = append(buf, channelScriptHash[:]...)
		buf = append(buf, capBuf[:]...)
		buf = append(buf, unsigned.Encode()...)
		return codec.HashBlake256(buf), nil
	}

	dPrev, err := Digest(prev, channelScriptHash, channelCapacity)
	if err != nil {
		return codec.Blake256{}, err
	}
	sPrev := prev[len(prev)-1].Signature

	var buf []byte
	buf = append(buf, dPrev[:]...)
	buf = append(buf, sPrev[:]...)
	buf = append(buf, unsigned.Encode()...)
	return codec.HashBlake256(buf), nil
}

// SignNext computes D_n for prev+unsigned and signs it with priv,
// returning S_n: the only way a new round becomes binding.
func SignNext(prev []SignedRound, unsigned codec.Round, channelScriptHash codec.Blake256, channelCapacity uint64, priv *btcec.PrivateKey) (codec.Signature, error) {
	d, err := digestForNext(prev, unsigned, channelScriptHash, channelCapacity)
	if err != nil {
		return codec.Signature{}, err
	}
	return signer.Sign(priv, d)
}

// Verify recomputes D_{n-1} and S_{n-1} from rounds[:n-1], re-derives
// D_n via digestForNext, and asserts that recovering rounds[n-1]'s
// signature against D_n hashes to expectedCounterpartyPKHash. Returns
// false (not an error) for a verification mismatch; only an empty
// input is an error.
func Verify(rounds []SignedRound, channelScriptHash codec.Blake256, channelCapacity uint64, expectedCounterpartyPKHash codec.Blake160) (bool, error) {
	if len(rounds) == 0 {
		return false, kerrors.New(kerrors.EmptyRounds, "round chain is empty")
	}

	n := len(rounds)
	last := rounds[n-1]
	dn, err := digestForNext(rounds[:n-1], last.Round, channelScriptHash, channelCapacity)
	if err != nil {
		return false, err
	}

	return signer.Verify(last.Signature, dn, expectedCounterpartyPKHash)
}
