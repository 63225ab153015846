package signer_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/signer"
	"github.com/stretchr/testify/require"
)

func genKey(t *testing.T) *btcec.PrivateKey {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv
}

func TestSignAndRecoverRoundtrip(t *testing.T) {
	priv := genKey(t)
	digest := codec.HashBlake256([]byte("hello channel"))

	sig, err := signer.Sign(priv, digest)
	require.NoError(t, err)

	pkhash := codec.HashBlake160(priv.PubKey().SerializeCompressed())
	ok, err := signer.Verify(sig, digest, pkhash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyFailsForWrongKey(t *testing.T) {
	priv := genKey(t)
	other := genKey(t)
	digest := codec.HashBlake256([]byte("hello channel"))

	sig, err := signer.Sign(priv, digest)
	require.NoError(t, err)

	wrongHash := codec.HashBlake160(other.PubKey().SerializeCompressed())
	ok, err := signer.Verify(sig, digest, wrongHash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDigestZeroesOnlyLockField(t *testing.T) {
	txHash := codec.HashBlake256([]byte("tx"))
	w0 := codec.WitnessArgs{Lock: make([]byte, 65), InputType: []byte("ch1")}.Encode()

	group := signer.LockGroup{Witnesses: [][]byte{w0}}
	d1, err := signer.Digest(txHash, group)
	require.NoError(t, err)

	nonZeroLock := make([]byte, 65)
	for i := range nonZeroLock {
		nonZeroLock[i] = byte(i + 1)
	}
	w0Signed := codec.WitnessArgs{Lock: nonZeroLock, InputType: []byte("ch1")}.Encode()
	group2 := signer.LockGroup{Witnesses: [][]byte{w0Signed}}
	d2, err := signer.Digest(txHash, group2)
	require.NoError(t, err)

	require.Equal(t, d1, d2)
}

func TestDigestChangesWithExtraWitnesses(t *testing.T) {
	txHash := codec.HashBlake256([]byte("tx"))
	w0 := codec.WitnessArgs{Lock: make([]byte, 65)}.Encode()

	d1, err := signer.Digest(txHash, signer.LockGroup{Witnesses: [][]byte{w0}})
	require.NoError(t, err)
	d2, err := signer.Digest(txHash, signer.LockGroup{Witnesses: [][]byte{w0}, Extra: [][]byte{[]byte("extra")}})
	require.NoError(t, err)

	require.NotEqual(t, d1, d2)
}
