package codec

import "github.com/cryptape/kabletop-go-sdk/kerrors"

// ChannelArgs is the lock-script args of the channel cell — the
// canonical, on-chain identifier of a channel. Layout (little-endian,
// no delimiters):
//
//	staking_ckb:     u64
//	deck_size:       u8
//	begin_block:     u64
//	lock_code_hash:  [32]byte
//	user1_pkhash:    [20]byte
//	user1_nfts_len:  u8
//	user1_nfts:      user1_nfts_len * [20]byte
//	user2_pkhash:    [20]byte
//	user2_nfts_len:  u8
//	user2_nfts:      user2_nfts_len * [20]byte
//
// Each NFT vector carries its own 1-byte count prefix (not just the
// shared deck_size): for deck_size=1 the args are 8+1+8+32+20+(1+20)+
// 20+(1+20) = 131 bytes.
type ChannelArgs struct {
	StakingCKB    uint64
	DeckSize      uint8
	BeginBlock    uint64
	LockCodeHash  Blake256
	User1PKHash   Blake160
	User1NFTs     []Blake160
	User2PKHash   Blake160
	User2NFTs     []Blake160
}

// Encode serializes a ChannelArgs. The caller is responsible for the
// invariant len(User1NFTs) == len(User2NFTs) == DeckSize; Encode does
// not itself validate it so that malformed-but-constructed values can
// still round-trip through Decode for inspection.
func (a ChannelArgs) Encode() []byte {
	out := make([]byte, 0, 8+1+8+32+20+1+len(a.User1NFTs)*20+20+1+len(a.User2NFTs)*20)

	buf8 := make([]byte, 8)
	putUint64(buf8, a.StakingCKB)
	out = append(out, buf8...)

	out = append(out, byte(a.DeckSize))

	putUint64(buf8, a.BeginBlock)
	out = append(out, buf8...)

	out = append(out, a.LockCodeHash[:]...)
	out = append(out, a.User1PKHash[:]...)
	out = append(out, encodeNFTVec(a.User1NFTs)...)
	out = append(out, a.User2PKHash[:]...)
	out = append(out, encodeNFTVec(a.User2NFTs)...)
	return out
}

// DecodeChannelArgs parses the layout above. deck_size is read from the
// stream itself, so the NFT vectors are consumed accordingly; a
// truncated input yields kerrors.MalformedMessage.
func DecodeChannelArgs(buf []byte) (ChannelArgs, error) {
	var a ChannelArgs

	if err := need(buf, 8, "staking_ckb"); err != nil {
		return a, err
	}
	a.StakingCKB = getUint64(buf)
	buf = buf[8:]

	if err := need(buf, 1, "deck_size"); err != nil {
		return a, err
	}
	a.DeckSize = buf[0]
	buf = buf[1:]

	if err := need(buf, 8, "begin_block"); err != nil {
		return a, err
	}
	a.BeginBlock = getUint64(buf)
	buf = buf[8:]

	if err := need(buf, 32, "lock_code_hash"); err != nil {
		return a, err
	}
	copy(a.LockCodeHash[:], buf[:32])
	buf = buf[32:]

	if err := need(buf, 20, "user1_pkhash"); err != nil {
		return a, err
	}
	copy(a.User1PKHash[:], buf[:20])
	buf = buf[20:]

	nfts, rest, err := decodeNFTVec(buf)
	if err != nil {
		return a, err
	}
	a.User1NFTs = nfts
	buf = rest

	if err := need(buf, 20, "user2_pkhash"); err != nil {
		return a, err
	}
	copy(a.User2PKHash[:], buf[:20])
	buf = buf[20:]

	nfts, rest, err = decodeNFTVec(buf)
	if err != nil {
		return a, err
	}
	a.User2NFTs = nfts
	buf = rest

	if len(buf) != 0 {
		return a, kerrors.New(kerrors.MalformedMessage,
			"trailing bytes after channel args")
	}

	return a, nil
}

// encodeNFTVec writes a 1-byte count prefix followed by count*[20]byte
// entries.
func encodeNFTVec(nfts []Blake160) []byte {
	out := make([]byte, 1, 1+len(nfts)*20)
	out[0] = byte(len(nfts))
	for _, nft := range nfts {
		out = append(out, nft[:]...)
	}
	return out
}

// decodeNFTVec reads a 1-byte count prefix followed by count*[20]byte
// entries.
func decodeNFTVec(buf []byte) ([]Blake160, []byte, error) {
	if err := need(buf, 1, "nft vector length"); err != nil {
		return nil, nil, err
	}
	count := int(buf[0])
	buf = buf[1:]

	if err := need(buf, count*20, "nft vector"); err != nil {
		return nil, nil, err
	}
	nfts := make([]Blake160, count)
	for i := 0; i < count; i++ {
		copy(nfts[i][:], buf[i*20:i*20+20])
	}
	return nfts, buf[count*20:], nil
}
