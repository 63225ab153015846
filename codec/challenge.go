package codec

// Challenge is the evidence a party submits on-chain when it believes
// its peer is stalling: the offset into the round sequence at which the
// evidence trail stops being cooperatively extended, the counterparty's
// signature over that round, and the round itself.
//
// Layout: round_offset:u8 | signature:[65]byte | round:Round
type Challenge struct {
	RoundOffset uint8
	Signature   Signature
	Round       Round
}

// Encode serializes a Challenge; this is the data payload of a
// ChallengeCell.
func (c Challenge) Encode() []byte {
	out := make([]byte, 0, 1+65+16)
	out = append(out, c.RoundOffset)
	out = append(out, c.Signature.Encode()...)
	out = append(out, c.Round.Encode()...)
	return out
}

// DecodeChallenge parses the layout above.
func DecodeChallenge(buf []byte) (Challenge, error) {
	var c Challenge
	if err := need(buf, 1, "round_offset"); err != nil {
		return c, err
	}
	c.RoundOffset = buf[0]
	buf = buf[1:]

	sig, err := DecodeSignature(buf)
	if err != nil {
		return c, err
	}
	c.Signature = sig
	buf = buf[65:]

	round, err := DecodeRound(buf)
	if err != nil {
		return c, err
	}
	c.Round = round
	return c, nil
}
