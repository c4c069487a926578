package mailbox

import (
	"errors"
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

var errNotEnoughApproved = errors.New("not enough coins approved to send")

// fakeLedger is a minimal allowance-based fungible ledger for fee collection.
type fakeLedger struct {
	balances   map[hyperlane.Account]math.Int
	allowances map[hyperlane.Account]map[hyperlane.Account]math.Int
	transfers  int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances:   make(map[hyperlane.Account]math.Int),
		allowances: make(map[hyperlane.Account]map[hyperlane.Account]math.Int),
	}
}

func (l *fakeLedger) setBalance(account hyperlane.Account, amount int64) {
	l.balances[account] = math.NewInt(amount)
}

func (l *fakeLedger) approve(main, spender hyperlane.Account, amount int64) {
	if l.allowances[main] == nil {
		l.allowances[main] = make(map[hyperlane.Account]math.Int)
	}
	l.allowances[main][spender] = math.NewInt(amount)
}

func (l *fakeLedger) BalanceOf(account hyperlane.Account) math.Int {
	if bal, ok := l.balances[account]; ok {
		return bal
	}
	return math.ZeroInt()
}

func (l *fakeLedger) TransferFrom(ctx hyperlane.CallContext, amount math.Int, to, main hyperlane.Account) error {
	allowance := math.ZeroInt()
	if l.allowances[main] != nil {
		if a, ok := l.allowances[main][ctx.Caller]; ok {
			allowance = a
		}
	}
	if allowance.LT(amount) || l.BalanceOf(main).LT(amount) {
		return errNotEnoughApproved
	}

	l.allowances[main][ctx.Caller] = allowance.Sub(amount)
	l.balances[main] = l.BalanceOf(main).Sub(amount)
	l.balances[to] = l.BalanceOf(to).Add(amount)
	l.transfers++
	return nil
}
