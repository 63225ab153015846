package roundchain_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/roundchain"
	"github.com/stretchr/testify/require"
)

func genKey(t *testing.T) *btcec.PrivateKey {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv
}

func pkhashOf(priv *btcec.PrivateKey) codec.Blake160 {
	return codec.HashBlake160(priv.PubKey().SerializeCompressed())
}

// TestRoundChainScenarioB follows spec Scenario B: two rounds, each
// authored by the opposite user from its signer.
func TestRoundChainScenarioB(t *testing.T) {
	scriptHash := codec.HashBlake256([]byte("channel-script"))
	const capacity = 500_000_000_000 // 5000 CKB in shannons

	user1 := genKey(t)
	user2 := genKey(t)

	r0 := codec.Round{UserType: 1, Operations: [][]byte{[]byte("draw")}}
	s0, err := roundchain.SignNext(nil, r0, scriptHash, capacity, user2)
	require.NoError(t, err)

	rounds := []roundchain.SignedRound{{Round: r0, Signature: s0}}
	ok, err := roundchain.Verify(rounds, scriptHash, capacity, pkhashOf(user2))
	require.NoError(t, err)
	require.True(t, ok)

	r1 := codec.Round{UserType: 2, Operations: [][]byte{[]byte("draw")}}
	s1, err := roundchain.SignNext(rounds, r1, scriptHash, capacity, user1)
	require.NoError(t, err)

	rounds = append(rounds, roundchain.SignedRound{Round: r1, Signature: s1})
	ok, err = roundchain.Verify(rounds, scriptHash, capacity, pkhashOf(user1))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyFailsForWrongCounterparty(t *testing.T) {
	scriptHash := codec.HashBlake256([]byte("channel-script"))
	const capacity = 500_000_000_000

	user2 := genKey(t)
	impostor := genKey(t)

	r0 := codec.Round{UserType: 1, Operations: [][]byte{[]byte("draw")}}
	s0, err := roundchain.SignNext(nil, r0, scriptHash, capacity, user2)
	require.NoError(t, err)

	rounds := []roundchain.SignedRound{{Round: r0, Signature: s0}}
	ok, err := roundchain.Verify(rounds, scriptHash, capacity, pkhashOf(impostor))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyEmptyRoundsFails(t *testing.T) {
	_, err := roundchain.Verify(nil, codec.Blake256{}, 0, codec.Blake160{})
	require.Error(t, err)
}

// TestDigestProgresses checks Property 2: distinct round sequences
// produce distinct digests.
func TestDigestProgresses(t *testing.T) {
	scriptHash := codec.HashBlake256([]byte("channel-script"))
	const capacity = 123

	r0 := codec.Round{UserType: 1, Operations: [][]byte{[]byte("a")}}
	r0Alt := codec.Round{UserType: 1, Operations: [][]byte{[]byte("b")}}

	d0, err := roundchain.Digest([]roundchain.SignedRound{{Round: r0}}, scriptHash, capacity)
	require.NoError(t, err)
	d0Alt, err := roundchain.Digest([]roundchain.SignedRound{{Round: r0Alt}}, scriptHash, capacity)
	require.NoError(t, err)

	require.NotEqual(t, d0, d0Alt)
}
