// Package config loads the process-wide TOML configuration: chain and
// indexer endpoints, the two participant private keys, and the
// on-chain code-cell references for each named contract. Absent
// required keys abort startup with an explicit error rather than a
// zero-value default.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/cryptape/kabletop-go-sdk/codec"
	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// Common holds the chain endpoints and the two participants' private
// keys (hex-encoded 32-byte secp256k1 scalars in the TOML file).
type Common struct {
	ChainURI     string `toml:"chain_uri"`
	IndexerURI   string `toml:"indexer_uri"`
	User1PrivKey string `toml:"user1_privkey"`
	User2PrivKey string `toml:"user2_privkey"`
}

// Contract is one named on-chain script reference: the tx hash whose
// output cell carries its code, and the code's own hash (used as
// lock/type code_hash in the cell templates of package assembler).
type Contract struct {
	TxHash   string `toml:"tx_hash"`
	CodeHash string `toml:"code_hash"`
}

// CodeCellRef is one entry of the optional luacodes array: a reference
// to an auxiliary Lua game-logic code cell, recovered from
// original_source (the distilled spec elides it, but the original
// config loads an arbitrary list of these alongside the four named
// contracts).
type CodeCellRef struct {
	TxHash   string `toml:"tx_hash"`
	DataHash string `toml:"data_hash"`
}

// Vars is the full parsed configuration, one process-lifetime value
// loaded once at startup.
type Vars struct {
	Common   Common        `toml:"common"`
	NFT      Contract      `toml:"nft"`
	Wallet   Contract      `toml:"wallet"`
	Payment  Contract      `toml:"payment"`
	Kabletop Contract      `toml:"kabletop"`
	LuaCodes []CodeCellRef `toml:"luacodes"`
}

// Load parses the TOML file at path. Missing required sections abort
// with kerrors.MalformedMessage; luacodes is the only optional section.
func Load(path string) (Vars, error) {
	var v Vars
	if _, err := toml.DecodeFile(path, &v); err != nil {
		return v, kerrors.Wrap(kerrors.MalformedMessage, err)
	}
	if err := v.validate(); err != nil {
		return v, err
	}
	return v, nil
}

func (v Vars) validate() error {
	if v.Common.ChainURI == "" {
		return kerrors.New(kerrors.MalformedMessage, "common.chain_uri is required")
	}
	if v.Common.IndexerURI == "" {
		return kerrors.New(kerrors.MalformedMessage, "common.indexer_uri is required")
	}
	if v.Common.User1PrivKey == "" || v.Common.User2PrivKey == "" {
		return kerrors.New(kerrors.MalformedMessage, "common.user1_privkey and user2_privkey are required")
	}
	for name, c := range map[string]Contract{
		"nft": v.NFT, "wallet": v.Wallet, "payment": v.Payment, "kabletop": v.Kabletop,
	} {
		if c.TxHash == "" || c.CodeHash == "" {
			return kerrors.New(kerrors.MalformedMessage, name+" contract requires tx_hash and code_hash")
		}
	}
	return nil
}

// ParseCodeHash parses a Contract's hex code_hash field into a
// Blake256, for plugging directly into assembler.ScriptTemplates.
func (c Contract) ParseCodeHash() (codec.Blake256, error) {
	return parseBlake256(c.CodeHash)
}
