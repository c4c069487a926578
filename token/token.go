// Package token implements the bridgeable fungible-balance ledger. Balances
// move between domains by burning locally and dispatching a transfer
// instruction through the mailbox; the counterpart token mints after the
// message is relayed and processed on the destination domain.
package token

import (
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	hyperlane "github.com/xian-network/hyperlane-xian"
	"github.com/xian-network/hyperlane-xian/codec"
)

// BurnedAccount is the reserved pseudo-account that accumulates all amounts
// burned for bridging. Bookkeeping only; nothing can spend it.
const BurnedAccount hyperlane.Account = "BRIDGE_BURNED"

var (
	ErrNotRouter             = errorsmod.Register("token", 2, "only the configured router can call this method")
	ErrNonPositiveAmount     = errorsmod.Register("token", 3, "amount must be positive")
	ErrInsufficientBalance   = errorsmod.Register("token", 4, "insufficient balance")
	ErrInsufficientAllowance = errorsmod.Register("token", 5, "insufficient allowance")
)

// Dispatcher is the mailbox surface the token needs for outbound transfers.
type Dispatcher interface {
	Dispatch(ctx hyperlane.CallContext, destination hyperlane.Domain, recipient hyperlane.Account, body string) (hyperlane.MessageID, error)
}

// Config carries the construction parameters of an interchain token:
// the owning account, the token's local domain, the local router account
// allowed to mint, the mailbox to dispatch through, and the account name of
// the router instance on remote domains (the recipient of outbound messages).
type Config struct {
	Owner        hyperlane.Account
	LocalDomain  hyperlane.Domain
	Router       hyperlane.Account
	Mailbox      Dispatcher
	RemoteRouter hyperlane.Account
}

// InterchainToken is a fungible ledger whose supply can move across domains.
// All public operations are serialized by an internal mutex; a returned error
// implies no state was mutated. XTransfer releases the mutex across the
// mailbox call so the token can double as that mailbox's fee currency.
type InterchainToken struct {
	mu sync.Mutex

	// Dependencies
	mailbox Dispatcher
	sink    hyperlane.EventSink

	// Identity & configuration
	name         hyperlane.Account
	owner        hyperlane.Account
	localDomain  hyperlane.Domain
	router       hyperlane.Account
	remoteRouter hyperlane.Account

	balances   map[hyperlane.Account]math.Int
	allowances map[hyperlane.Account]map[hyperlane.Account]math.Int

	logger zerolog.Logger
}

// New constructs an interchain token with empty balances.
func New(name hyperlane.Account, cfg Config, sink hyperlane.EventSink, logger zerolog.Logger) *InterchainToken {
	return &InterchainToken{
		mailbox:      cfg.Mailbox,
		sink:         sink,
		name:         name,
		owner:        cfg.Owner,
		localDomain:  cfg.LocalDomain,
		router:       cfg.Router,
		remoteRouter: cfg.RemoteRouter,
		balances:     make(map[hyperlane.Account]math.Int),
		allowances:   make(map[hyperlane.Account]map[hyperlane.Account]math.Int),
		logger:       logger,
	}
}

func (t *InterchainToken) Name() hyperlane.Account { return t.name }

func (t *InterchainToken) LocalDomain() hyperlane.Domain { return t.localDomain }

// BalanceOf returns the account's balance, zero for unknown accounts.
func (t *InterchainToken) BalanceOf(account hyperlane.Account) math.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balanceOf(account)
}

// Allowance returns how much spender may still transfer out of owner's balance.
func (t *InterchainToken) Allowance(owner, spender hyperlane.Account) math.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allowanceOf(owner, spender)
}

// Transfer moves amount from the caller to to. Fails atomically on a
// non-positive amount or insufficient balance.
func (t *InterchainToken) Transfer(ctx hyperlane.CallContext, amount math.Int, to hyperlane.Account) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrNonPositiveAmount, "transfer of %s", amount)
	}
	if t.balanceOf(ctx.Caller).LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientBalance,
			"%s holds %s, tried to send %s", ctx.Caller, t.balanceOf(ctx.Caller), amount)
	}

	t.debit(ctx.Caller, amount)
	t.credit(to, amount)
	return nil
}

// Approve increases the caller's allowance toward spender by amount and
// returns the new allowance. Allowances accumulate; approving twice sums.
func (t *InterchainToken) Approve(ctx hyperlane.CallContext, amount math.Int, spender hyperlane.Account) (math.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !amount.IsPositive() {
		return math.Int{}, errorsmod.Wrapf(ErrNonPositiveAmount, "approval of %s", amount)
	}

	next := t.allowanceOf(ctx.Caller, spender).Add(amount)
	t.setAllowance(ctx.Caller, spender, next)
	return next, nil
}

// TransferFrom moves amount from main to to, spending the caller's allowance
// from main. Fails atomically on a non-positive amount, insufficient
// allowance, or insufficient balance. The signature satisfies mailbox.Ledger
// so the token can serve as a dispatch-fee currency.
func (t *InterchainToken) TransferFrom(ctx hyperlane.CallContext, amount math.Int, to, main hyperlane.Account) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrNonPositiveAmount, "transfer of %s", amount)
	}
	if t.allowanceOf(main, ctx.Caller).LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientAllowance,
			"%s approved %s to %s, tried to spend %s", main, t.allowanceOf(main, ctx.Caller), ctx.Caller, amount)
	}
	if t.balanceOf(main).LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientBalance,
			"%s holds %s, tried to send %s", main, t.balanceOf(main), amount)
	}

	t.setAllowance(main, ctx.Caller, t.allowanceOf(main, ctx.Caller).Sub(amount))
	t.debit(main, amount)
	t.credit(to, amount)
	return nil
}

// Mint credits to by amount. Only the configured router may mint; there is no
// supply cap at this layer.
func (t *InterchainToken) Mint(ctx hyperlane.CallContext, to hyperlane.Account, amount math.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.onlyRouter(ctx); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrNonPositiveAmount, "mint of %s", amount)
	}

	t.credit(to, amount)
	t.logger.Info().
		Str("to", string(to)).
		Str("amount", amount.String()).
		Msg("Minted tokens")
	t.sink.Emit(EventMint{To: to, Amount: amount})
	return nil
}

// Burn debits the caller by amount and credits the reserved burn-accounting
// account. Any account may burn its own balance.
func (t *InterchainToken) Burn(ctx hyperlane.CallContext, amount math.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.burn(ctx, amount)
}

// XTransfer bridges amount from the caller to recipient on the destination
// domain: it burns locally, then dispatches the transfer instruction to the
// remote router through the mailbox and returns the message identifier. The
// burn and the remote mint are not atomic; until the message is relayed and
// processed on the destination, the amount is in flight and stays burned.
func (t *InterchainToken) XTransfer(
	ctx hyperlane.CallContext,
	destination hyperlane.Domain,
	recipient hyperlane.Account,
	amount math.Int,
) (hyperlane.MessageID, error) {
	t.mu.Lock()

	if !amount.IsPositive() {
		t.mu.Unlock()
		return hyperlane.MessageID{}, errorsmod.Wrapf(ErrNonPositiveAmount, "burn of %s", amount)
	}
	if bal := t.balanceOf(ctx.Caller); bal.LT(amount) {
		t.mu.Unlock()
		return hyperlane.MessageID{}, errorsmod.Wrapf(ErrInsufficientBalance,
			"%s holds %s, tried to burn %s", ctx.Caller, bal, amount)
	}

	// Move the amount into the burn account before releasing the lock so
	// nothing can spend it while the mailbox runs; events wait until the
	// dispatch outcome is known.
	t.debit(ctx.Caller, amount)
	t.credit(BurnedAccount, amount)

	body := codec.TransferPayload{
		Sender:    ctx.Caller,
		Recipient: recipient,
		Amount:    amount,
		Origin:    t.localDomain,
	}.Encode()

	// The mailbox may call back into this token to collect its dispatch fee,
	// so the lock must not be held across the call.
	t.mu.Unlock()
	id, err := t.mailbox.Dispatch(ctx.WithCaller(t.name), destination, t.remoteRouter, body)
	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		// Dispatch failed: restore the caller so the operation stays
		// all-or-nothing within this domain.
		t.debit(BurnedAccount, amount)
		t.credit(ctx.Caller, amount)
		return hyperlane.MessageID{}, err
	}

	t.logger.Info().
		Str("message_id", id.String()).
		Uint64("destination_domain", uint64(destination)).
		Str("sender", string(ctx.Caller)).
		Str("recipient", string(recipient)).
		Str("amount", amount.String()).
		Msg("Dispatched remote transfer")

	t.sink.Emit(EventBurn{From: ctx.Caller, Amount: amount})
	t.sink.Emit(EventRemoteTransfer{
		OriginDomain:      t.localDomain,
		DestinationDomain: destination,
		Sender:            ctx.Caller,
		Recipient:         recipient,
		Amount:            amount,
		MessageID:         id,
	})

	return id, nil
}

// HandleRemoteMint credits recipient with a bridged amount. Only the
// configured router may call it, and the router does so only after the
// mailbox accepted the message, so delivery status is not re-checked here.
func (t *InterchainToken) HandleRemoteMint(ctx hyperlane.CallContext, sender, recipient hyperlane.Account, amount math.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.onlyRouter(ctx); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrNonPositiveAmount, "remote mint of %s", amount)
	}

	t.credit(recipient, amount)
	t.logger.Info().
		Str("sender", string(sender)).
		Str("recipient", string(recipient)).
		Str("amount", amount.String()).
		Msg("Received remote transfer")
	t.sink.Emit(EventReceiveRemoteTransfer{Sender: sender, Amount: amount})
	return nil
}

func (t *InterchainToken) burn(ctx hyperlane.CallContext, amount math.Int) error {
	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrNonPositiveAmount, "burn of %s", amount)
	}
	if t.balanceOf(ctx.Caller).LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientBalance,
			"%s holds %s, tried to burn %s", ctx.Caller, t.balanceOf(ctx.Caller), amount)
	}

	t.debit(ctx.Caller, amount)
	t.credit(BurnedAccount, amount)
	t.logger.Info().
		Str("from", string(ctx.Caller)).
		Str("amount", amount.String()).
		Msg("Burned tokens")
	t.sink.Emit(EventBurn{From: ctx.Caller, Amount: amount})
	return nil
}

func (t *InterchainToken) onlyRouter(ctx hyperlane.CallContext) error {
	if ctx.Caller != t.router {
		return errorsmod.Wrapf(ErrNotRouter, "caller %s", ctx.Caller)
	}
	return nil
}

func (t *InterchainToken) balanceOf(account hyperlane.Account) math.Int {
	if bal, ok := t.balances[account]; ok {
		return bal
	}
	return math.ZeroInt()
}

func (t *InterchainToken) allowanceOf(owner, spender hyperlane.Account) math.Int {
	if perSpender, ok := t.allowances[owner]; ok {
		if allowance, ok := perSpender[spender]; ok {
			return allowance
		}
	}
	return math.ZeroInt()
}

func (t *InterchainToken) setAllowance(owner, spender hyperlane.Account, amount math.Int) {
	perSpender, ok := t.allowances[owner]
	if !ok {
		perSpender = make(map[hyperlane.Account]math.Int)
		t.allowances[owner] = perSpender
	}
	perSpender[spender] = amount
}

func (t *InterchainToken) credit(account hyperlane.Account, amount math.Int) {
	t.balances[account] = t.balanceOf(account).Add(amount)
}

func (t *InterchainToken) debit(account hyperlane.Account, amount math.Int) {
	t.balances[account] = t.balanceOf(account).Sub(amount)
}
