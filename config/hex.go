package config

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// parseBlake256 decodes a hex-encoded 32-byte hash, tolerating an
// optional "0x" prefix as the TOML file's hashes carry one.
func parseBlake256(hexStr string) (codec.Blake256, error) {
	var out codec.Blake256
	b, err := decodeHex(hexStr)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, kerrors.New(kerrors.MalformedMessage, "expected 32-byte hash")
	}
	copy(out[:], b)
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.MalformedMessage, err)
	}
	return b, nil
}

// ParsePrivateKey decodes a hex-encoded 32-byte secp256k1 scalar, as
// stored in common.user1_privkey / user2_privkey.
func ParsePrivateKey(hexStr string) (*btcec.PrivateKey, error) {
	b, err := decodeHex(hexStr)
	if err != nil {
		return nil, err
	}
	if len(b) != 32 {
		return nil, kerrors.New(kerrors.MalformedMessage, "expected 32-byte private key")
	}
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv, nil
}
