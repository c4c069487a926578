package hyperlane

import (
	"encoding/hex"
)

// ProtocolVersion is the message format version stamped into every dispatched message.
const ProtocolVersion uint8 = 1

type (
	// Domain identifies a chain/ledger participating in cross-domain messaging.
	Domain uint64
	// Account is an opaque account or contract identifier on the host ledger.
	Account string
	// MessageID is the SHA-256 identifier derived from a message's canonical encoding.
	MessageID [32]byte
	// Nonce is the per-origin-domain dispatch counter.
	Nonce uint32
)

func (id MessageID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether the identifier is the zero value, i.e. no message.
func (id MessageID) IsZero() bool {
	return id == MessageID{}
}

// CallContext carries the host-ledger execution environment of a single call:
// the invoking account and the current ledger height. When a component calls
// into another component it substitutes its own name as Caller, mirroring
// contract-to-contract call semantics.
type CallContext struct {
	Caller Account
	Height uint64
}

// WithCaller returns a copy of the context with the caller replaced,
// preserving the execution height.
func (ctx CallContext) WithCaller(caller Account) CallContext {
	return CallContext{Caller: caller, Height: ctx.Height}
}

// Event is a typed record emitted by a component for external observers
// (relayers, indexers). Implementations are plain structs with fixed fields.
type Event interface {
	EventName() string
}

// EventSink receives events emitted by components. Sinks must not call back
// into the emitting component.
type EventSink interface {
	Emit(event Event)
}

type nopEventSink struct{}

func (nopEventSink) Emit(Event) {}

// NopEventSink returns a sink that discards all events.
func NopEventSink() EventSink {
	return nopEventSink{}
}
