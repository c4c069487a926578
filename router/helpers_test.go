package router

import (
	"io"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	hyperlane "github.com/xian-network/hyperlane-xian"
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

// processCall records one Process invocation on the fake mailbox.
type processCall struct {
	ctx      hyperlane.CallContext
	metadata string
	id       hyperlane.MessageID
}

// fakeMailbox is a scripted MailboxClient.
type fakeMailbox struct {
	calls []processCall
	err   error
}

func (m *fakeMailbox) Process(ctx hyperlane.CallContext, metadata string, id hyperlane.MessageID) error {
	m.calls = append(m.calls, processCall{ctx: ctx, metadata: metadata, id: id})
	return m.err
}

// mintCall records one HandleRemoteMint invocation on the fake minter.
type mintCall struct {
	ctx       hyperlane.CallContext
	sender    hyperlane.Account
	recipient hyperlane.Account
	amount    math.Int
}

// fakeMinter is a scripted RemoteMinter.
type fakeMinter struct {
	name  hyperlane.Account
	calls []mintCall
	err   error
}

func (f *fakeMinter) Name() hyperlane.Account { return f.name }

func (f *fakeMinter) HandleRemoteMint(ctx hyperlane.CallContext, sender, recipient hyperlane.Account, amount math.Int) error {
	f.calls = append(f.calls, mintCall{ctx: ctx, sender: sender, recipient: recipient, amount: amount})
	return f.err
}
