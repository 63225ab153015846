// Package signer computes and verifies the canonical per-lock-group
// signature digest, and the compact-recoverable
// secp256k1 signatures that go in a witness's lock field: collect a
// digest, sign it, verify the counterparty's signature against the
// same digest.
package signer

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/cryptape/kabletop-go-sdk/chain"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// LockGroup is a maximal run of adjacent transaction inputs sharing a
// lock-script hash, together with the witnesses already attached to
// those positions and any extra (non-input) witnesses that trail the
// witness vector.
type LockGroup struct {
	InputStart int
	Witnesses  [][]byte
	Extra      [][]byte
}

// Digest computes the canonical signing digest for one lock group of a
// transaction: Blake2b-256 over tx_hash, the group's
// first witness with its lock field zeroed, the remaining group
// witnesses, and the extra witnesses — each length-prefixed with
// le64(len).
func Digest(txHash codec.Blake256, group LockGroup) (codec.Blake256, error) {
	if len(group.Witnesses) == 0 {
		return codec.Blake256{}, kerrors.New(kerrors.SigningFailed, "lock group has no witnesses")
	}

	var buf []byte
	buf = append(buf, txHash[:]...)

	zeroed := zeroLockField(group.Witnesses[0])
	buf = appendLenPrefixed(buf, zeroed)

	for _, w := range group.Witnesses[1:] {
		buf = appendLenPrefixed(buf, w)
	}
	for _, e := range group.Extra {
		buf = appendLenPrefixed(buf, e)
	}

	return codec.HashBlake256(buf), nil
}

func appendLenPrefixed(buf, data []byte) []byte {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(data)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, data...)
}

// zeroLockField decodes witness0 as a codec.WitnessArgs and re-encodes
// it with its lock field replaced by 65 zero bytes — same length it
// will have once signed — leaving input_type/output_type untouched.
// An undecodable witness0 (not yet WitnessArgs-shaped) is returned as
// an unchanged copy.
func zeroLockField(witness0 []byte) []byte {
	args, err := codec.DecodeWitnessArgs(witness0)
	if err != nil {
		out := make([]byte, len(witness0))
		copy(out, witness0)
		return out
	}
	args.Lock = make([]byte, 65)
	return args.Encode()
}

// ShouldSign is the caller-supplied predicate selecting which input
// groups to sign; groups it rejects are passed through unsigned.
type ShouldSign func(output chain.CellOutput) bool

// Sign produces the 65-byte recoverable signature over digest using
// priv: a 64-byte compact signature
// followed by a 1-byte recovery id (btcec's SignCompact places the
// recovery-and-compression header byte first; Sign rotates it to the
// tail and strips the compression bit).
func Sign(priv *btcec.PrivateKey, digest codec.Blake256) (codec.Signature, error) {
	compact := ecdsa.SignCompact(priv, digest[:], true)
	if len(compact) != 65 {
		return codec.Signature{}, kerrors.New(kerrors.SigningFailed, "unexpected compact signature length")
	}
	header := compact[0]
	recID := (header - 27) & ^byte(4)

	var out codec.Signature
	copy(out[:64], compact[1:])
	out[64] = recID
	return out, nil
}

// Recover recovers the public key that produced sig over digest, and
// returns its Blake160 pubkey hash.
func Recover(sig codec.Signature, digest codec.Blake256) (codec.Blake160, error) {
	compact := make([]byte, 65)
	compact[0] = 27 + 4 + (sig[64] & 3)
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return codec.Blake160{}, kerrors.Wrap(kerrors.SigningFailed, err)
	}
	return codec.HashBlake160(pub.SerializeCompressed()), nil
}

// Verify reports whether sig over digest recovers to expected.
func Verify(sig codec.Signature, digest codec.Blake256, expected codec.Blake160) (bool, error) {
	got, err := Recover(sig, digest)
	if err != nil {
		return false, err
	}
	return got == expected, nil
}
