// Package codec builds canonical cross-domain message records, derives their
// identifiers, and encodes the token-bridging payload carried in message
// bodies.
package codec

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	hyperlane "github.com/xian-network/hyperlane-xian"
)

// Message is the ephemeral record assembled for each dispatch. It is never
// stored; only the identifier derived from it is.
type Message struct {
	Version     uint8
	Nonce       hyperlane.Nonce
	Origin      hyperlane.Domain
	Sender      hyperlane.Account
	Destination hyperlane.Domain
	Recipient   hyperlane.Account
	Body        string
}

// BuildMessage assembles a message record from its fields. Pure construction,
// no side effects.
func BuildMessage(
	origin hyperlane.Domain,
	sender hyperlane.Account,
	destination hyperlane.Domain,
	recipient hyperlane.Account,
	body string,
	nonce hyperlane.Nonce,
	version uint8,
) Message {
	return Message{
		Version:     version,
		Nonce:       nonce,
		Origin:      origin,
		Sender:      sender,
		Destination: destination,
		Recipient:   recipient,
		Body:        body,
	}
}

// DeriveID returns SHA256 over the canonical encoding of all seven message
// fields. Numeric fields are fixed-width big-endian; the three string fields
// are length-prefixed with a 4-byte big-endian size so no field value can
// make two distinct messages share an encoding. Identical field tuples always
// yield identical identifiers.
func DeriveID(msg Message) hyperlane.MessageID {
	var b [8]byte
	buf := bytes.NewBuffer(nil)

	buf.WriteByte(msg.Version)

	binary.BigEndian.PutUint32(b[:4], uint32(msg.Nonce))
	buf.Write(b[:4])

	binary.BigEndian.PutUint64(b[:], uint64(msg.Origin))
	buf.Write(b[:])

	writeLengthPrefixed(buf, string(msg.Sender))

	binary.BigEndian.PutUint64(b[:], uint64(msg.Destination))
	buf.Write(b[:])

	writeLengthPrefixed(buf, string(msg.Recipient))

	writeLengthPrefixed(buf, msg.Body)

	return sha256.Sum256(buf.Bytes())
}

func writeLengthPrefixed(buf *bytes.Buffer, s string) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(len(s)))
	buf.Write(b[:])
	buf.WriteString(s)
}
