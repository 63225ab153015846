// Package p2p implements the bidirectional, heartbeat-supervised
// request/reply WebSocket transport carrying round messages and
// cooperative signatures, framed as a JSON envelope.
package p2p

import (
	"bytes"
	"encoding/json"

	"github.com/cryptape/kabletop-go-sdk/kerrors"
)

// Payload is the inner content of every frame: a method name and a
// JSON-encoded body. body is itself JSON so that it may carry an error
// shape ({"reason": string}) without a second wire-level tag.
type Payload struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// Wrapper is the tagged envelope every frame carries: exactly one of
// Send or Reply is non-nil.
type Wrapper struct {
	Send  *Payload `json:"Send,omitempty"`
	Reply *Payload `json:"Reply,omitempty"`
}

// encodeFrame marshals a Wrapper to the text bytes sent over the socket.
func encodeFrame(w Wrapper) ([]byte, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.MalformedMessage, err)
	}
	return b, nil
}

// decodeFrame unmarshals a received text frame.
func decodeFrame(b []byte) (Wrapper, error) {
	var w Wrapper
	if err := json.Unmarshal(b, &w); err != nil {
		return w, kerrors.Wrap(kerrors.MalformedMessage, err)
	}
	return w, nil
}

// errorBody is body's shape when a handler or remote call failed.
type errorBody struct {
	Reason string `json:"reason"`
}

func encodeBody(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", kerrors.Wrap(kerrors.MalformedMessage, err)
	}
	return string(b), nil
}

func encodeErrorBody(reason string) string {
	b, _ := json.Marshal(errorBody{Reason: reason})
	return string(b)
}

// decodeErrorBody reports whether body is exactly the {"reason": string}
// error shape produced by encodeErrorBody, returning its reason if so.
// DisallowUnknownFields rejects any ordinary result body that merely
// happens to also carry a "reason" field among others.
func decodeErrorBody(body string) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()
	var eb errorBody
	if err := dec.Decode(&eb); err != nil {
		return "", false
	}
	if eb.Reason == "" {
		return "", false
	}
	return eb.Reason, true
}
