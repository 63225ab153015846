package codec

import "github.com/cryptape/kabletop-go-sdk/kerrors"

// WitnessArgs is the three-slot witness structure every channel
// transaction witness uses: a lock
// field carrying a signature, and two free-form type fields used to
// smuggle channel-protocol data (the creation tx hash at witness 0's
// output_type, an encoded Round at witness i's input_type). Any field
// may be absent, encoded as a zero-length byte string.
//
// Layout: lock:bytes | input_type:bytes | output_type:bytes, each a
// u32 length prefix followed by raw bytes.
type WitnessArgs struct {
	Lock       []byte
	InputType  []byte
	OutputType []byte
}

// Encode serializes a WitnessArgs.
func (w WitnessArgs) Encode() []byte {
	var out []byte
	out = append(out, encodeBytes(w.Lock)...)
	out = append(out, encodeBytes(w.InputType)...)
	out = append(out, encodeBytes(w.OutputType)...)
	return out
}

// DecodeWitnessArgs parses the layout above.
func DecodeWitnessArgs(buf []byte) (WitnessArgs, error) {
	var w WitnessArgs

	lock, rest, err := decodeBytes(buf)
	if err != nil {
		return w, err
	}
	w.Lock = lock
	buf = rest

	inputType, rest, err := decodeBytes(buf)
	if err != nil {
		return w, err
	}
	w.InputType = inputType
	buf = rest

	outputType, rest, err := decodeBytes(buf)
	if err != nil {
		return w, err
	}
	w.OutputType = outputType
	buf = rest

	if len(buf) != 0 {
		return w, kerrors.New(kerrors.MalformedMessage, "trailing bytes after witness args")
	}
	return w, nil
}

// encodeBytes writes a u32 length prefix followed by raw bytes.
func encodeBytes(b []byte) []byte {
	out := make([]byte, 4)
	putUint32(out, uint32(len(b)))
	return append(out, b...)
}

func decodeBytes(buf []byte) ([]byte, []byte, error) {
	if err := need(buf, 4, "byte-string length"); err != nil {
		return nil, nil, err
	}
	n := getUint32(buf)
	buf = buf[4:]
	if uint64(n) > uint64(len(buf)) {
		return nil, nil, kerrors.New(kerrors.MalformedMessage, "byte-string length overflow")
	}
	if n == 0 {
		return nil, buf, nil
	}
	out := make([]byte, n)
	copy(out, buf[:n])
	return out, buf[n:], nil
}
