// Package ledger moves balances between accounts when the matching engine
// confirms a fill. It stands in for the token-transfer bookkeeping the
// engine's deployment environment provides; the engine only ever sees the
// Ledger interface.
package ledger

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrInsufficientBalance is returned when either leg of a settlement cannot
// be covered. Nothing moves on failure.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger settles a confirmed match: baseQty of the traded asset moves from
// seller to buyer and quoteNotional of the quote asset moves from buyer to
// seller, atomically, or nothing changes and an error is returned.
type Ledger interface {
	Settle(buyer, seller string, baseQty, quoteNotional decimal.Decimal) error
}

type balance struct {
	base  decimal.Decimal
	quote decimal.Decimal
}

// MemLedger is an in-memory Ledger keeping per-account base and quote
// balances. Accounts are created on first deposit.
type MemLedger struct {
	mu       sync.RWMutex
	accounts map[string]*balance
}

func NewMemLedger() *MemLedger {
	return &MemLedger{
		accounts: make(map[string]*balance),
	}
}

// Deposit credits an account. Used to fund accounts before trading.
func (l *MemLedger) Deposit(account string, baseQty, quoteQty decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.account(account)
	b.base = b.base.Add(baseQty)
	b.quote = b.quote.Add(quoteQty)
}

// Balance returns an account's (base, quote) holdings.
func (l *MemLedger) Balance(account string) (decimal.Decimal, decimal.Decimal) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.accounts[account]
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	return b.base, b.quote
}

// Settle implements Ledger. Both legs are checked before either moves, so a
// failure leaves every balance untouched. A same-account settlement is a net
// no-op and only verifies the account can cover both legs.
func (l *MemLedger) Settle(buyer, seller string, baseQty, quoteNotional decimal.Decimal) error {
	if baseQty.IsNegative() || quoteNotional.IsNegative() {
		return ErrInsufficientBalance
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	buyerAcc := l.account(buyer)
	sellerAcc := l.account(seller)

	if sellerAcc.base.LessThan(baseQty) || buyerAcc.quote.LessThan(quoteNotional) {
		return ErrInsufficientBalance
	}
	if buyer == seller {
		return nil
	}

	sellerAcc.base = sellerAcc.base.Sub(baseQty)
	buyerAcc.base = buyerAcc.base.Add(baseQty)
	buyerAcc.quote = buyerAcc.quote.Sub(quoteNotional)
	sellerAcc.quote = sellerAcc.quote.Add(quoteNotional)
	return nil
}

func (l *MemLedger) account(name string) *balance {
	b, ok := l.accounts[name]
	if !ok {
		b = &balance{base: decimal.Zero, quote: decimal.Zero}
		l.accounts[name] = b
	}
	return b
}
