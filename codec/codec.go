// Package codec implements the fixed-layout, little-endian, on-chain
// binary encoding shared by every schema entity that crosses the wire or
// gets hashed into a round-chain digest: ChannelArgs, Round, Challenge,
// and NFTConfig. The layout is layout-sensitive, not self-describing,
// because on-chain scripts re-parse the same bytes — so encode/decode
// here must byte-for-byte match the on-chain reader.
//
// Every decoder returns a *kerrors.Error of Kind=MalformedMessage on
// short or overflowing input. Encoding is total: encode never fails and
// is injective (decode(encode(x)) == x) by construction, matching the
// style of lnwire's readElements/writeElements pair.
package codec

import (
	"encoding/binary"

	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// Blake160 is the first 20 bytes of a Blake2b-256 digest; used as a
// public-key hash and as an NFT identifier.
type Blake160 [20]byte

// Blake256 is a full 32-byte Blake2b-256 digest.
type Blake256 [32]byte

func putUint64(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }
func getUint64(src []byte) uint64    { return binary.LittleEndian.Uint64(src) }
func putUint32(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }
func getUint32(src []byte) uint32    { return binary.LittleEndian.Uint32(src) }
func putUint16(dst []byte, v uint16) { binary.LittleEndian.PutUint16(dst, v) }
func getUint16(src []byte) uint16    { return binary.LittleEndian.Uint16(src) }

// need asserts that buf has at least n bytes remaining, returning a
// MalformedMessage error otherwise. Callers slice buf[n:] after a
// successful check.
func need(buf []byte, n int, what string) error {
	if len(buf) < n {
		return kerrors.New(kerrors.MalformedMessage,
			"truncated "+what)
	}
	return nil
}

// encodeBytesVec writes a u32 count prefix followed by each element as a
// u32 length prefix plus raw bytes — the "vec<bytes>" convention used by
// Round.operations.
func encodeBytesVec(items [][]byte) []byte {
	out := make([]byte, 4)
	putUint32(out, uint32(len(items)))
	for _, item := range items {
		lenPrefix := make([]byte, 4)
		putUint32(lenPrefix, uint32(len(item)))
		out = append(out, lenPrefix...)
		out = append(out, item...)
	}
	return out
}

func decodeBytesVec(buf []byte) ([][]byte, []byte, error) {
	if err := need(buf, 4, "vec count"); err != nil {
		return nil, nil, err
	}
	count := getUint32(buf)
	buf = buf[4:]
	// Bound the count against the remaining buffer so a corrupt huge
	// count fails fast instead of allocating unboundedly.
	if uint64(count) > uint64(len(buf)) {
		return nil, nil, kerrors.New(kerrors.MalformedMessage,
			"vec count overflow")
	}
	items := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if err := need(buf, 4, "vec element length"); err != nil {
			return nil, nil, err
		}
		elemLen := getUint32(buf)
		buf = buf[4:]
		if err := need(buf, int(elemLen), "vec element"); err != nil {
			return nil, nil, err
		}
		item := make([]byte, elemLen)
		copy(item, buf[:elemLen])
		items = append(items, item)
		buf = buf[elemLen:]
	}
	return items, buf, nil
}
