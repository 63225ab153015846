package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cryptape/kabletop-go-sdk/config"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "Kabletop.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	valid := `
[common]
chain_uri = "http://127.0.0.1:8114"
indexer_uri = "http://127.0.0.1:8116"
user1_privkey = "0000000000000000000000000000000000000000000000000000000000000001"
user2_privkey = "0000000000000000000000000000000000000000000000000000000000000002"

[nft]
tx_hash = "0x11"
code_hash = "0x22"

[wallet]
tx_hash = "0x33"
code_hash = "0x44"

[payment]
tx_hash = "0x55"
code_hash = "0x66"

[kabletop]
tx_hash = "0x77"
code_hash = "0x88"

[[luacodes]]
tx_hash = "0x99"
data_hash = "0xaa"
`
	path := writeFixture(t, valid)

	v, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8114", v.Common.ChainURI)
	require.Len(t, v.LuaCodes, 1)
	require.Equal(t, "0x99", v.LuaCodes[0].TxHash)
}

func TestLoadMissingRequiredFieldFails(t *testing.T) {
	missing := `
[common]
chain_uri = "http://127.0.0.1:8114"
indexer_uri = "http://127.0.0.1:8116"
user1_privkey = "01"
user2_privkey = "02"

[nft]
tx_hash = "0x11"
code_hash = "0x22"
`
	path := writeFixture(t, missing)

	_, err := config.Load(path)
	require.Error(t, err)
	require.True(t, kerrors.Is(err, kerrors.MalformedMessage))
}

func TestParseCodeHashRoundtrips(t *testing.T) {
	c := config.Contract{CodeHash: "0x" + "11223344556677889900aabbccddeeff11223344556677889900aabbccddeeff"}
	hash, err := c.ParseCodeHash()
	require.NoError(t, err)
	require.Equal(t, byte(0x11), hash[0])
}
