package codec

import "golang.org/x/crypto/blake2b"

// HashBlake256 computes the Blake2b-256 digest of data.
func HashBlake256(data []byte) Blake256 {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for an invalid key length, and we
		// never pass one.
		panic(err)
	}
	h.Write(data)
	var out Blake256
	copy(out[:], h.Sum(nil))
	return out
}

// HashBlake160 is the first 20 bytes of a Blake2b-256 digest, used
// throughout as PubKeyHash = Blake160(serialized_public_key).
func HashBlake160(data []byte) Blake160 {
	full := HashBlake256(data)
	var out Blake160
	copy(out[:], full[:20])
	return out
}
