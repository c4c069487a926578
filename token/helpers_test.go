package token

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	hyperlane "github.com/xian-network/hyperlane-xian"
	"github.com/xian-network/hyperlane-xian/codec"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// recordingSink collects emitted events for assertions.
type recordingSink struct {
	events []hyperlane.Event
}

func (s *recordingSink) Emit(event hyperlane.Event) {
	s.events = append(s.events, event)
}

func (s *recordingSink) named(name string) []hyperlane.Event {
	var out []hyperlane.Event
	for _, e := range s.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

// dispatchCall records one Dispatch invocation on the fake mailbox.
type dispatchCall struct {
	ctx         hyperlane.CallContext
	destination hyperlane.Domain
	recipient   hyperlane.Account
	body        string
}

// fakeDispatcher is a scripted mailbox front for XTransfer tests.
type fakeDispatcher struct {
	calls []dispatchCall
	err   error
}

func (d *fakeDispatcher) Dispatch(
	ctx hyperlane.CallContext,
	destination hyperlane.Domain,
	recipient hyperlane.Account,
	body string,
) (hyperlane.MessageID, error) {
	d.calls = append(d.calls, dispatchCall{ctx: ctx, destination: destination, recipient: recipient, body: body})
	if d.err != nil {
		return hyperlane.MessageID{}, d.err
	}
	msg := codec.BuildMessage(0, ctx.Caller, destination, recipient, body, hyperlane.Nonce(len(d.calls)-1), hyperlane.ProtocolVersion)
	return codec.DeriveID(msg), nil
}

var errDispatchRejected = errors.New("dispatch rejected")

// dispatcherHandle defers mailbox wiring so a token and a mailbox that uses
// that token as its fee ledger can reference each other.
type dispatcherHandle struct {
	target Dispatcher
}

func (h *dispatcherHandle) Dispatch(
	ctx hyperlane.CallContext,
	destination hyperlane.Domain,
	recipient hyperlane.Account,
	body string,
) (hyperlane.MessageID, error) {
	return h.target.Dispatch(ctx, destination, recipient, body)
}
