// Package mailbox implements the cross-domain message dispatch and delivery
// state machine. Outbound messages receive a strictly increasing nonce and a
// canonical identifier; inbound messages are marked delivered exactly once.
package mailbox

import (
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	hyperlane "github.com/xian-network/hyperlane-xian"
	"github.com/xian-network/hyperlane-xian/codec"
)

var (
	ErrNotOwner         = errorsmod.Register("mailbox", 2, "only the contract owner can call this method")
	ErrAlreadyDelivered = errorsmod.Register("mailbox", 3, "already delivered")
	ErrFeeCollection    = errorsmod.Register("mailbox", 4, "dispatch fee collection failed")
)

// Ledger is the external fungible ledger the mailbox collects dispatch fees
// from. TransferFrom debits main's balance and its allowance toward
// ctx.Caller, and credits to; it fails on insufficient balance or allowance
// with no state change.
type Ledger interface {
	BalanceOf(account hyperlane.Account) math.Int
	TransferFrom(ctx hyperlane.CallContext, amount math.Int, to, main hyperlane.Account) error
}

// Delivery is the per-message-identifier delivery record. The zero value
// means "not yet delivered"; once BlockNumber > 0 the record is immutable.
type Delivery struct {
	Processor   hyperlane.Account
	BlockNumber uint64
}

// Mailbox owns dispatch and delivery state for one local domain. All public
// operations are serialized by an internal mutex; a returned error implies no
// state was mutated.
type Mailbox struct {
	mu sync.Mutex

	// Dependencies
	ledger Ledger
	sink   hyperlane.EventSink

	// Identity
	name        hyperlane.Account
	owner       hyperlane.Account
	localDomain hyperlane.Domain

	// Dispatch state
	nonce              hyperlane.Nonce
	latestDispatchedID hyperlane.MessageID

	// Delivery state, keyed by message identifier. Absent key == undelivered.
	deliveries map[hyperlane.MessageID]Delivery

	// Configuration, owner-mutable
	defaultIsm   string
	defaultHook  string
	requiredHook string
	dispatchFee  math.Int

	logger zerolog.Logger
}

// New seeds a mailbox with zero nonce, zero latest-dispatched identifier, a
// zero dispatch fee, and the default ISM/hook names. name is the account the
// mailbox acts as when calling the fee ledger; owner is the only account
// allowed to change configuration.
func New(
	name hyperlane.Account,
	owner hyperlane.Account,
	localDomain hyperlane.Domain,
	ledger Ledger,
	sink hyperlane.EventSink,
	logger zerolog.Logger,
) *Mailbox {
	return &Mailbox{
		ledger:       ledger,
		sink:         sink,
		name:         name,
		owner:        owner,
		localDomain:  localDomain,
		nonce:        0,
		deliveries:   make(map[hyperlane.MessageID]Delivery),
		defaultIsm:   "defaultIsm",
		defaultHook:  "defaultHook",
		requiredHook: "requiredHook",
		dispatchFee:  math.ZeroInt(),
		logger:       logger,
	}
}

// SetDispatchFee overwrites the per-dispatch fee. Owner only. The value is
// stored as given; Dispatch only collects strictly positive fees.
func (m *Mailbox) SetDispatchFee(ctx hyperlane.CallContext, amount math.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.onlyOwner(ctx); err != nil {
		return err
	}
	m.dispatchFee = amount
	return nil
}

// SetDefaultIsm overwrites the default interchain security module name. Owner only.
func (m *Mailbox) SetDefaultIsm(ctx hyperlane.CallContext, module string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.onlyOwner(ctx); err != nil {
		return err
	}
	m.defaultIsm = module
	m.sink.Emit(EventDefaultIsmSet{Module: module})
	return nil
}

// SetDefaultHook overwrites the default hook name. Owner only.
func (m *Mailbox) SetDefaultHook(ctx hyperlane.CallContext, hook string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.onlyOwner(ctx); err != nil {
		return err
	}
	m.defaultHook = hook
	m.sink.Emit(EventDefaultHookSet{Hook: hook})
	return nil
}

// SetRequiredHook overwrites the required hook name. Owner only.
func (m *Mailbox) SetRequiredHook(ctx hyperlane.CallContext, hook string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.onlyOwner(ctx); err != nil {
		return err
	}
	m.requiredHook = hook
	m.sink.Emit(EventRequiredHookSet{Hook: hook})
	return nil
}

// Dispatch registers an outbound message to destination and returns its
// identifier. If a positive dispatch fee is configured it is debited from the
// caller to the owner through the fee ledger first; a failed debit aborts the
// dispatch and consumes no nonce. The assigned nonce is the pre-increment
// counter value.
func (m *Mailbox) Dispatch(
	ctx hyperlane.CallContext,
	destination hyperlane.Domain,
	recipient hyperlane.Account,
	body string,
) (hyperlane.MessageID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dispatchFee.IsPositive() {
		if err := m.ledger.TransferFrom(ctx.WithCaller(m.name), m.dispatchFee, m.owner, ctx.Caller); err != nil {
			m.logger.Warn().
				Str("sender", string(ctx.Caller)).
				Str("fee", m.dispatchFee.String()).
				Err(err).
				Msg("Rejecting dispatch, fee collection failed")
			return hyperlane.MessageID{}, errorsmod.Wrap(ErrFeeCollection, err.Error())
		}
	}

	msg := codec.BuildMessage(
		m.localDomain, ctx.Caller, destination, recipient, body,
		m.nonce, hyperlane.ProtocolVersion,
	)
	id := codec.DeriveID(msg)

	assignedNonce := m.nonce
	m.nonce++
	m.latestDispatchedID = id

	m.logger.Info().
		Str("message_id", id.String()).
		Uint64("origin_domain", uint64(m.localDomain)).
		Uint64("destination_domain", uint64(destination)).
		Str("sender", string(ctx.Caller)).
		Uint32("nonce", uint32(assignedNonce)).
		Msg("Dispatched message")

	m.sink.Emit(EventDispatch{
		Sender:            ctx.Caller,
		OriginDomain:      m.localDomain,
		DestinationDomain: destination,
		Recipient:         recipient,
		MessageID:         id,
		Nonce:             assignedNonce,
	})

	return id, nil
}

// Process marks an inbound message as delivered, recording the caller as its
// processor and the current height as the delivery height. A message already
// delivered is rejected with ErrAlreadyDelivered before any side effect; the
// delivery record is written exactly once and never again. Callers must pass
// the real execution height: ledger heights start at 1, and a record written
// with ctx.Height == 0 still reads as undelivered and is not terminal.
// metadata is accepted for interchain-security verification, which is an
// external collaborator and not interpreted here.
func (m *Mailbox) Process(ctx hyperlane.CallContext, metadata string, id hyperlane.MessageID) error {
	_ = metadata // verification is delegated to the ISM layer

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.deliveries[id]; ok && existing.BlockNumber > 0 {
		m.logger.Warn().
			Str("message_id", id.String()).
			Str("processor", string(existing.Processor)).
			Uint64("delivered_at", existing.BlockNumber).
			Msg("Rejecting replayed message")
		return errorsmod.Wrapf(ErrAlreadyDelivered, "message %s", id)
	}

	m.deliveries[id] = Delivery{
		Processor:   ctx.Caller,
		BlockNumber: ctx.Height,
	}

	m.logger.Info().
		Str("message_id", id.String()).
		Str("processor", string(ctx.Caller)).
		Uint64("block_number", ctx.Height).
		Msg("Processed message")

	m.sink.Emit(EventProcess{
		MessageID:   id,
		Processor:   ctx.Caller,
		BlockNumber: ctx.Height,
	})

	return nil
}

// Delivered reports whether the message has been processed.
func (m *Mailbox) Delivered(id hyperlane.MessageID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveries[id].BlockNumber > 0
}

// Processor returns the account that processed the message, or the empty
// account if it has not been delivered.
func (m *Mailbox) Processor(id hyperlane.MessageID) hyperlane.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveries[id].Processor
}

// ProcessedAt returns the ledger height at which the message was delivered,
// or 0 if it has not been.
func (m *Mailbox) ProcessedAt(id hyperlane.MessageID) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveries[id].BlockNumber
}

func (m *Mailbox) DispatchFee() math.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatchFee
}

func (m *Mailbox) LocalDomain() hyperlane.Domain { return m.localDomain }

func (m *Mailbox) Owner() hyperlane.Account { return m.owner }

func (m *Mailbox) Nonce() hyperlane.Nonce {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nonce
}

func (m *Mailbox) LatestDispatchedID() hyperlane.MessageID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latestDispatchedID
}

func (m *Mailbox) DefaultIsm() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaultIsm
}

func (m *Mailbox) DefaultHook() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaultHook
}

func (m *Mailbox) RequiredHook() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requiredHook
}

func (m *Mailbox) onlyOwner(ctx hyperlane.CallContext) error {
	if ctx.Caller != m.owner {
		return errorsmod.Wrapf(ErrNotOwner, "caller %s", ctx.Caller)
	}
	return nil
}
