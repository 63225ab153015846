package codec

import "github.com/cryptape/kabletop-go-sdk/kerrors"

// NFTEntry is one row of an NFTConfig's rate table: an NFT identity and
// the cumulative lottery rate at which it is chosen during package
// reveal (see package reveal). Rates are non-decreasing across the
// table — invariant enforced by Validate, not by Decode, so that
// malformed-but-decodable configs can still be inspected.
type NFTEntry struct {
	ID   Blake160
	Rate uint16
}

// NFTConfig is the on-chain config-cell data describing package
// pricing and contents.
//
// Layout: package_price:u64 | package_capacity:u8 | (nft:[20]byte | rate:u16)*
// The entry count is implicit in the remaining buffer length (20+2
// bytes per entry) rather than an explicit prefix, matching the
// original source's config cell, which is sized to fit exactly.
type NFTConfig struct {
	PackagePrice    uint64
	PackageCapacity uint8
	Table           []NFTEntry
}

const nftEntrySize = 20 + 2

// Encode serializes an NFTConfig.
func (c NFTConfig) Encode() []byte {
	out := make([]byte, 0, 8+1+len(c.Table)*nftEntrySize)
	buf8 := make([]byte, 8)
	putUint64(buf8, c.PackagePrice)
	out = append(out, buf8...)
	out = append(out, c.PackageCapacity)
	for _, e := range c.Table {
		out = append(out, e.ID[:]...)
		buf2 := make([]byte, 2)
		putUint16(buf2, e.Rate)
		out = append(out, buf2...)
	}
	return out
}

// DecodeNFTConfig parses the layout above.
func DecodeNFTConfig(buf []byte) (NFTConfig, error) {
	var c NFTConfig
	if err := need(buf, 9, "package_price+capacity"); err != nil {
		return c, err
	}
	c.PackagePrice = getUint64(buf)
	c.PackageCapacity = buf[8]
	buf = buf[9:]

	if len(buf)%nftEntrySize != 0 {
		return c, kerrors.New(kerrors.MalformedMessage,
			"nft table is not a whole number of entries")
	}
	count := len(buf) / nftEntrySize
	c.Table = make([]NFTEntry, count)
	for i := 0; i < count; i++ {
		off := i * nftEntrySize
		var e NFTEntry
		copy(e.ID[:], buf[off:off+20])
		e.Rate = getUint16(buf[off+20 : off+22])
		c.Table[i] = e
	}
	return c, nil
}

// Validate checks the invariants from the data model: price >= 1,
// capacity in [1,32], table non-empty, rates non-decreasing.
func (c NFTConfig) Validate() error {
	if c.PackagePrice < 1 {
		return kerrors.New(kerrors.MalformedMessage, "package_price must be >= 1")
	}
	if c.PackageCapacity < 1 || c.PackageCapacity > 32 {
		return kerrors.New(kerrors.MalformedMessage, "package_capacity must be in [1,32]")
	}
	if len(c.Table) == 0 {
		return kerrors.New(kerrors.MalformedMessage, "nft table must be non-empty")
	}
	var prev uint16
	for i, e := range c.Table {
		if i > 0 && e.Rate < prev {
			return kerrors.New(kerrors.MalformedMessage, "nft table rates must be non-decreasing")
		}
		prev = e.Rate
	}
	return nil
}
