package codec

// Signature is a 65-byte recoverable secp256k1 signature: a 64-byte
// compact signature plus a 1-byte recovery id. Recovering against a
// 32-byte digest yields a public key, hence a PubKeyHash.
type Signature [65]byte

// ZeroSignature is the all-zero signature value. No code in this module
// references it: the witness signer zeroes lock fields with its own
// 65-byte buffer, and SignNext's digest includes no signature for the
// round being signed.
var ZeroSignature Signature

// Encode returns the raw 65 bytes.
func (s Signature) Encode() []byte {
	out := make([]byte, 65)
	copy(out, s[:])
	return out
}

// DecodeSignature parses exactly 65 bytes into a Signature.
func DecodeSignature(buf []byte) (Signature, error) {
	var s Signature
	if err := need(buf, 65, "signature"); err != nil {
		return s, err
	}
	copy(s[:], buf[:65])
	return s, nil
}
