package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newChecking(t *testing.T, number int, balance, limit string) *CheckingAccount {
	t.Helper()
	a, err := NewCheckingAccount(AccountParams{
		Number:     number,
		PIN:        1234,
		Balance:    dec(balance),
		BankCode:   "MA2424",
		CustomerID: 123456,
	}, dec(limit))
	require.NoError(t, err)
	return a
}

func newSavings(number int, balance, rate string) *SavingsAccount {
	return NewSavingsAccount(AccountParams{
		Number:     number,
		PIN:        1234,
		Balance:    dec(balance),
		BankCode:   "MA2424",
		CustomerID: 123456,
	}, dec(rate))
}

func assertBalance(t *testing.T, want string, a Account) {
	t.Helper()
	assert.True(t, dec(want).Equal(a.Balance()), "balance = %s, want %s", a.Balance(), want)
}

func TestChecking_Deposit(t *testing.T) {
	a := newChecking(t, 4711, "100", "1000")
	a.Deposit(dec("50"))
	assertBalance(t, "150", a)
}

func TestChecking_WithdrawWithinLimit(t *testing.T) {
	a := newChecking(t, 4711, "100", "1000")
	assert.False(t, a.IsOverdrawn())

	require.NoError(t, a.Withdraw(dec("500")))
	assertBalance(t, "-400", a)
	assert.True(t, a.IsOverdrawn())
}

func TestChecking_OverdraftBoundary(t *testing.T) {
	a := newChecking(t, 4711, "100", "1000")
	require.NoError(t, a.Withdraw(dec("1100")))
	assertBalance(t, "0", a)

	b := newChecking(t, 4712, "100", "1000")
	err := b.Withdraw(dec("1100.01"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assertBalance(t, "100", b)
	assert.False(t, b.IsOverdrawn())

	var ife *InsufficientFundsError
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, 4712, ife.Number)
	assert.Equal(t, "MA2424", ife.BankCode)
	assert.Equal(t, "1100", ife.Available.String())
}

func TestChecking_NegativeLimitRejected(t *testing.T) {
	_, err := NewCheckingAccount(AccountParams{Number: 1, BankCode: "X"}, dec("-1"))
	require.ErrorIs(t, err, ErrNegativeLimit)

	a := newChecking(t, 1, "0", "10")
	require.ErrorIs(t, a.SetOverdraftLimit(dec("-5")), ErrNegativeLimit)
	assert.Equal(t, "10", a.OverdraftLimit().String())
	require.NoError(t, a.SetOverdraftLimit(dec("25")))
	assert.Equal(t, "25", a.OverdraftLimit().String())
}

func TestSavings_Boundary(t *testing.T) {
	a := newSavings(4711, "100", "0.03")
	require.NoError(t, a.Withdraw(dec("100")))
	assertBalance(t, "0", a)

	b := newSavings(4712, "100", "0.03")
	err := b.Withdraw(dec("100.01"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assertBalance(t, "100", b)

	// A later valid withdrawal still works.
	require.NoError(t, b.Withdraw(dec("50")))
	assertBalance(t, "50", b)
}

func TestSavings_AccrueInterest(t *testing.T) {
	a := newSavings(4711, "100", "0.03")
	interest := a.AccrueInterest()
	assert.Equal(t, "3", interest.String())
	assertBalance(t, "103", a)
}

func TestSavings_SetInterestRate(t *testing.T) {
	a := newSavings(4711, "200", "0.03")
	a.SetInterestRate(dec("0.015"))
	assert.Equal(t, "0.015", a.InterestRate().String())
	assert.Equal(t, "3", a.AccrueInterest().String())
	assertBalance(t, "203", a)
}

func TestSavings_AccrueInterestRounds(t *testing.T) {
	a := newSavings(1, "0.33333", "0.011")
	interest := a.AccrueInterest()
	// 0.33333 * 0.011 = 0.00366663
	assert.Equal(t, "0.00367", interest.StringFixed(5))
	assertBalance(t, "0.337", a)
}

func TestSavings_OverdrawnOnlyByDirectManipulation(t *testing.T) {
	a := newSavings(1, "10", "0")
	require.Error(t, a.Withdraw(dec("10.5")))
	assert.False(t, a.IsOverdrawn())

	a.SetBalance(dec("-1.0000049"))
	assertBalance(t, "-1", a)
	assert.True(t, a.IsOverdrawn())
}

func TestDeposit_RoundsToFivePlaces(t *testing.T) {
	a := newChecking(t, 1, "0", "0")
	a.Deposit(dec("0.123456"))
	assertBalance(t, "0.12346", a)
	a.Deposit(dec("0.000004"))
	assertBalance(t, "0.12346", a)
}

func TestDeposit_NegativeAmountNotRejected(t *testing.T) {
	a := newSavings(1, "10", "0")
	a.Deposit(dec("-20"))
	assertBalance(t, "-10", a)
}

func TestCheckPassword(t *testing.T) {
	a := newChecking(t, 1, "0", "0")
	assert.True(t, a.CheckPassword(1234))
	assert.False(t, a.CheckPassword(4321))
	a.SetPIN(4321)
	assert.True(t, a.CheckPassword(4321))
}

func TestAccountKinds(t *testing.T) {
	accts := []Account{newChecking(t, 1, "0", "0"), newSavings(2, "0", "0")}
	assert.Equal(t, KindChecking, accts[0].Kind())
	assert.Equal(t, KindSavings, accts[1].Kind())
	assert.Equal(t, 123456, accts[1].CustomerID())
	assert.Equal(t, "MA2424", accts[1].BankCode())
}

func TestConcurrentDeposits(t *testing.T) {
	a := newChecking(t, 1, "0", "0")
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Deposit(dec("0.01"))
		}()
	}
	wg.Wait()
	assertBalance(t, "1", a)
}
