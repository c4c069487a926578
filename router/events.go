package router

import (
	hyperlane "github.com/xian-network/hyperlane-xian"
)

// EventRouterMessage is emitted for every inbound bridging message accepted
// by the mailbox, before the mint is forwarded.
type EventRouterMessage struct {
	MessageBody   string
	SenderDomain  hyperlane.Domain
	SenderAddress hyperlane.Account
}

func (EventRouterMessage) EventName() string { return "RouterMessage" }
