package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestSettleMovesBothLegs(t *testing.T) {
	l := NewMemLedger()
	l.Deposit("buyer", d("0"), d("1000"))
	l.Deposit("seller", d("50"), d("0"))

	err := l.Settle("buyer", "seller", d("10"), d("300"))
	assert.NoError(t, err)

	base, quote := l.Balance("buyer")
	assert.True(t, base.Equal(d("10")), "buyer base=%s", base)
	assert.True(t, quote.Equal(d("700")), "buyer quote=%s", quote)

	base, quote = l.Balance("seller")
	assert.True(t, base.Equal(d("40")), "seller base=%s", base)
	assert.True(t, quote.Equal(d("300")), "seller quote=%s", quote)
}

func TestSettleInsufficientChangesNothing(t *testing.T) {
	l := NewMemLedger()
	l.Deposit("buyer", d("0"), d("100"))
	l.Deposit("seller", d("5"), d("0"))

	// seller cannot cover the base leg
	err := l.Settle("buyer", "seller", d("10"), d("50"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// buyer cannot cover the quote leg
	err = l.Settle("buyer", "seller", d("5"), d("500"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	base, quote := l.Balance("buyer")
	assert.True(t, base.IsZero() && quote.Equal(d("100")))
	base, quote = l.Balance("seller")
	assert.True(t, base.Equal(d("5")) && quote.IsZero())
}

func TestSettleSelfIsNoOp(t *testing.T) {
	l := NewMemLedger()
	l.Deposit("acc", d("10"), d("100"))

	assert.NoError(t, l.Settle("acc", "acc", d("10"), d("100")))
	base, quote := l.Balance("acc")
	assert.True(t, base.Equal(d("10")) && quote.Equal(d("100")))

	// still checked against the balance
	assert.ErrorIs(t, l.Settle("acc", "acc", d("11"), d("1")), ErrInsufficientBalance)
}

func TestSettleUnknownAccount(t *testing.T) {
	l := NewMemLedger()
	assert.ErrorIs(t, l.Settle("a", "b", d("1"), d("1")), ErrInsufficientBalance)
}
