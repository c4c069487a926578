package codec

import (
	"fmt"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	hyperlane "github.com/xian-network/hyperlane-xian"
)

// PayloadSeparator delimits the four fields of the bridging payload.
const PayloadSeparator = "|"

const payloadFieldCount = 4

var (
	ErrMalformedPayload = errorsmod.Register("codec", 2, "malformed bridging payload")
	ErrInvalidAmount    = errorsmod.Register("codec", 3, "invalid payload amount")
	ErrInvalidDomain    = errorsmod.Register("codec", 4, "invalid payload origin domain")
)

// TransferPayload is the token-transfer instruction carried in a message body.
type TransferPayload struct {
	Sender    hyperlane.Account
	Recipient hyperlane.Account
	Amount    math.Int
	Origin    hyperlane.Domain
}

// Encode renders the payload as the wire string
// "{sender}|{recipient}|{amount}|{originDomain}", amount as an unsigned
// decimal string.
func (p TransferPayload) Encode() string {
	return fmt.Sprintf("%s|%s|%s|%d", p.Sender, p.Recipient, p.Amount, p.Origin)
}

// ParseTransferPayload decodes a message body into a transfer payload.
// Exactly four pipe-delimited fields are required; the amount must be an
// unsigned decimal integer and the origin domain an unsigned integer.
func ParseTransferPayload(body string) (TransferPayload, error) {
	parts := strings.Split(body, PayloadSeparator)
	if len(parts) != payloadFieldCount {
		return TransferPayload{}, errorsmod.Wrapf(
			ErrMalformedPayload, "expected %d fields, got %d", payloadFieldCount, len(parts))
	}

	amount, ok := math.NewIntFromString(parts[2])
	if !ok {
		return TransferPayload{}, errorsmod.Wrapf(ErrInvalidAmount, "%q is not a decimal integer", parts[2])
	}
	if amount.IsNegative() {
		return TransferPayload{}, errorsmod.Wrapf(ErrInvalidAmount, "amount %s is signed", amount)
	}

	origin, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return TransferPayload{}, errorsmod.Wrapf(ErrInvalidDomain, "%q is not an unsigned integer", parts[3])
	}

	return TransferPayload{
		Sender:    hyperlane.Account(parts[0]),
		Recipient: hyperlane.Account(parts[1]),
		Amount:    amount,
		Origin:    hyperlane.Domain(origin),
	}, nil
}
