// Package router implements the inbound side of the token bridge: it marks
// relayed messages delivered through the mailbox, decodes the bridging
// payload, and forwards the mint instruction to the interchain token
// registered for its local domain.
package router

import (
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	hyperlane "github.com/xian-network/hyperlane-xian"
	"github.com/xian-network/hyperlane-xian/codec"
)

var (
	ErrNotOwner         = errorsmod.Register("router", 2, "only the contract owner can call this method")
	ErrNoTokenForDomain = errorsmod.Register("router", 3, "no interchain token configured for domain")
)

// MailboxClient is the mailbox surface the router needs for inbound
// processing. Process must reject an already-delivered message identifier.
type MailboxClient interface {
	Process(ctx hyperlane.CallContext, metadata string, id hyperlane.MessageID) error
}

// RemoteMinter is the token surface the router mints through after a message
// has been accepted by the mailbox.
type RemoteMinter interface {
	Name() hyperlane.Account
	HandleRemoteMint(ctx hyperlane.CallContext, sender, recipient hyperlane.Account, amount math.Int) error
}

// Router maps remote domains to the local interchain token responsible for
// them and processes inbound bridging messages. All public operations are
// serialized by an internal mutex.
type Router struct {
	mu sync.Mutex

	// Dependencies
	mailbox MailboxClient
	sink    hyperlane.EventSink

	// Identity
	name        hyperlane.Account
	owner       hyperlane.Account
	localDomain hyperlane.Domain

	// domain -> token registered to receive minted value for that domain
	tokensByDomain map[hyperlane.Domain]RemoteMinter

	logger zerolog.Logger
}

// New constructs a router with an empty registry.
func New(
	name hyperlane.Account,
	owner hyperlane.Account,
	localDomain hyperlane.Domain,
	mailbox MailboxClient,
	sink hyperlane.EventSink,
	logger zerolog.Logger,
) *Router {
	return &Router{
		mailbox:        mailbox,
		sink:           sink,
		name:           name,
		owner:          owner,
		localDomain:    localDomain,
		tokensByDomain: make(map[hyperlane.Domain]RemoteMinter),
		logger:         logger,
	}
}

func (r *Router) Name() hyperlane.Account { return r.name }

func (r *Router) LocalDomain() hyperlane.Domain { return r.localDomain }

// SetTokenForDomain registers the interchain token handling bridging traffic
// for domain. Owner only; overwrites any previous registration.
func (r *Router) SetTokenForDomain(ctx hyperlane.CallContext, domain hyperlane.Domain, token RemoteMinter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctx.Caller != r.owner {
		return errorsmod.Wrapf(ErrNotOwner, "caller %s", ctx.Caller)
	}
	r.tokensByDomain[domain] = token
	r.logger.Info().
		Uint64("domain", uint64(domain)).
		Str("token", string(token.Name())).
		Msg("Registered token for domain")
	return nil
}

// GetTokenForDomain returns the token registered for domain, if any.
func (r *Router) GetTokenForDomain(domain hyperlane.Domain) (RemoteMinter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokensByDomain[domain]
	return token, ok
}

// Process handles a relayed inbound message: it first marks the message
// delivered through the mailbox (a replay is rejected there and propagated
// verbatim, with no further action here), then parses the bridging payload
// and forwards the mint to the token registered for this router's own local
// domain. A payload that fails to parse, or a missing registration, aborts
// with nothing minted; the mailbox delivery mark for the identifier remains,
// as it is the single source of truth against replays.
func (r *Router) Process(ctx hyperlane.CallContext, body string, id hyperlane.MessageID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.mailbox.Process(ctx.WithCaller(r.name), body, id); err != nil {
		r.logger.Warn().
			Str("message_id", id.String()).
			Err(err).
			Msg("Mailbox rejected message")
		return err
	}

	payload, err := codec.ParseTransferPayload(body)
	if err != nil {
		r.logger.Warn().
			Str("message_id", id.String()).
			Err(err).
			Msg("Rejecting message with malformed payload")
		return err
	}

	r.sink.Emit(EventRouterMessage{
		MessageBody:   body,
		SenderDomain:  payload.Origin,
		SenderAddress: payload.Sender,
	})

	localToken, ok := r.tokensByDomain[r.localDomain]
	if !ok {
		return errorsmod.Wrapf(ErrNoTokenForDomain, "domain %d", r.localDomain)
	}

	r.logger.Info().
		Str("message_id", id.String()).
		Uint64("origin_domain", uint64(payload.Origin)).
		Str("sender", string(payload.Sender)).
		Str("recipient", string(payload.Recipient)).
		Str("amount", payload.Amount.String()).
		Msg("Forwarding remote mint")

	return localToken.HandleRemoteMint(ctx.WithCaller(r.name), payload.Sender, payload.Recipient, payload.Amount)
}
