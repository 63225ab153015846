// Package kerrors defines the single error taxonomy shared by every
// subsystem of the channel SDK (codec, chain, collector, assembler,
// signer, roundchain, channel, p2p).
package kerrors

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind tags an Error with the category a caller should switch on. The set
// is closed and mirrors the taxonomy in the channel-protocol design.
type Kind int

const (
	// Network covers transport-level failures talking to a chain node
	// or indexer.
	Network Kind = iota
	// RpcError wraps a server-reported error message verbatim.
	RpcError
	// NotConfirmed is returned when a transaction exists but has not
	// reached committed status.
	NotConfirmed
	// NotFound is returned when a referenced cell, transaction, or
	// block cannot be located; also surfaced when a previously-live
	// cell has since been consumed.
	NotFound
	// MalformedMessage is returned by codec decoders on short or
	// overflowing input.
	MalformedMessage
	// InsufficientCapacity is returned when sighash cell selection
	// cannot meet the requested capacity.
	InsufficientCapacity
	// InsufficientNFTs is returned when NFT cell selection cannot
	// cover the requested id multiset. Detail carries k_left.
	InsufficientNFTs
	// MismatchedChannelArgs is returned when a channel cell's args do
	// not match the expected identity.
	MismatchedChannelArgs
	// BrokenChannel is returned when channel capacity cannot cover
	// twice the staking amount.
	BrokenChannel
	// BadWinner is returned when a requested winner is not a valid
	// user (1 or 2).
	BadWinner
	// EmptyRounds is returned when an operation requires at least one
	// round but none were supplied.
	EmptyRounds
	// SigningFailed is returned when a witness signature cannot be
	// produced.
	SigningFailed
	// ChallengeUnderfunded is returned when a challenge cell's
	// capacity cannot hold the challenge evidence.
	ChallengeUnderfunded
	// Timeout is returned when a bounded wait elapses.
	Timeout
	// PeerDisconnected is returned to pending calls when a transport
	// connection is torn down.
	PeerDisconnected
	// HandlerError wraps a remote handler's returned error string.
	HandlerError
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "Network"
	case RpcError:
		return "RpcError"
	case NotConfirmed:
		return "NotConfirmed"
	case NotFound:
		return "NotFound"
	case MalformedMessage:
		return "MalformedMessage"
	case InsufficientCapacity:
		return "InsufficientCapacity"
	case InsufficientNFTs:
		return "InsufficientNFTs"
	case MismatchedChannelArgs:
		return "MismatchedChannelArgs"
	case BrokenChannel:
		return "BrokenChannel"
	case BadWinner:
		return "BadWinner"
	case EmptyRounds:
		return "EmptyRounds"
	case SigningFailed:
		return "SigningFailed"
	case ChallengeUnderfunded:
		return "ChallengeUnderfunded"
	case Timeout:
		return "Timeout"
	case PeerDisconnected:
		return "PeerDisconnected"
	case HandlerError:
		return "HandlerError"
	default:
		return "Unknown"
	}
}

// Error is the concrete type returned by every exported operation in this
// module that can fail. Detail carries a Kind-specific payload (the
// server message for RpcError, the formatted k_left for InsufficientNFTs).
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind with a stack-carrying wrap of
// msg, for errors first observed at a trust boundary (RPC, decode, sign).
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Detail: msg, Err: goerrors.New(msg)}
}

// Wrap attaches a Kind to an underlying error, preserving it via Unwrap.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Detail: err.Error(), Err: goerrors.Wrap(err, 1)}
}

// InsufficientNFTsErr builds the InsufficientNFTs error carrying the
// remaining unmatched count.
func InsufficientNFTsErr(kLeft int) *Error {
	return &Error{Kind: InsufficientNFTs, Detail: fmt.Sprintf("%d ids unmatched", kLeft)}
}

// Is reports whether err (or anything it wraps) is a *kerrors.Error of
// the given kind.
func Is(err error, kind Kind) bool {
	var kerr *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			kerr = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return kerr != nil && kerr.Kind == kind
}
