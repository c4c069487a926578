package mailbox

import (
	hyperlane "github.com/xian-network/hyperlane-xian"
)

// EventDispatch is emitted for every successfully dispatched message. Nonce
// is the counter value assigned to the message (pre-increment).
type EventDispatch struct {
	Sender            hyperlane.Account
	OriginDomain      hyperlane.Domain
	DestinationDomain hyperlane.Domain
	Recipient         hyperlane.Account
	MessageID         hyperlane.MessageID
	Nonce             hyperlane.Nonce
}

func (EventDispatch) EventName() string { return "Dispatch" }

// EventProcess is emitted the first (and only) time a message is delivered.
type EventProcess struct {
	MessageID   hyperlane.MessageID
	Processor   hyperlane.Account
	BlockNumber uint64
}

func (EventProcess) EventName() string { return "Process" }

type EventDefaultIsmSet struct {
	Module string
}

func (EventDefaultIsmSet) EventName() string { return "DefaultIsmSet" }

type EventDefaultHookSet struct {
	Hook string
}

func (EventDefaultHookSet) EventName() string { return "DefaultHookSet" }

type EventRequiredHookSet struct {
	Hook string
}

func (EventRequiredHookSet) EventName() string { return "RequiredHookSet" }
