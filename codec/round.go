package codec

import "github.com/cryptape/kabletop-go-sdk/kerrors"

// Round is one turn in a channel's game, authored by UserType. Operations
// is an ordered list of opaque game-action payloads; the codec treats
// them as bytes, the domain as game VM script lines.
//
// Layout: user_type:u8 | operations:vec<bytes>
type Round struct {
	UserType   uint8
	Operations [][]byte
}

// Encode serializes a Round byte-stably; this exact byte sequence is
// what gets fed into the round hash chain's digest, so any change here
// changes every downstream digest.
func (r Round) Encode() []byte {
	out := make([]byte, 0, 1+len(r.Operations)*4)
	out = append(out, r.UserType)
	out = append(out, encodeBytesVec(r.Operations)...)
	return out
}

// DecodeRound parses the layout above.
func DecodeRound(buf []byte) (Round, error) {
	var r Round
	if err := need(buf, 1, "user_type"); err != nil {
		return r, err
	}
	r.UserType = buf[0]
	buf = buf[1:]

	ops, rest, err := decodeBytesVec(buf)
	if err != nil {
		return r, err
	}
	r.Operations = ops
	buf = rest

	if len(buf) != 0 {
		return r, kerrors.New(kerrors.MalformedMessage,
			"trailing bytes after round")
	}
	return r, nil
}
