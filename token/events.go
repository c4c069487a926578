package token

import (
	"cosmossdk.io/math"

	hyperlane "github.com/xian-network/hyperlane-xian"
)

type EventMint struct {
	To     hyperlane.Account
	Amount math.Int
}

func (EventMint) EventName() string { return "Mint" }

type EventBurn struct {
	From   hyperlane.Account
	Amount math.Int
}

func (EventBurn) EventName() string { return "Burn" }

// EventRemoteTransfer is emitted on the origin domain when a bridging
// transfer is burned and dispatched.
type EventRemoteTransfer struct {
	OriginDomain      hyperlane.Domain
	DestinationDomain hyperlane.Domain
	Sender            hyperlane.Account
	Recipient         hyperlane.Account
	Amount            math.Int
	MessageID         hyperlane.MessageID
}

func (EventRemoteTransfer) EventName() string { return "RemoteTransfer" }

// EventReceiveRemoteTransfer is emitted on the destination domain when a
// bridged amount is minted.
type EventReceiveRemoteTransfer struct {
	Sender hyperlane.Account
	Amount math.Int
}

func (EventReceiveRemoteTransfer) EventName() string { return "ReceiveRemoteTransfer" }
