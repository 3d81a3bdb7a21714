package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHolder() *AccountHolder {
	return NewAccountHolder(123456, "Max", "Mustermann", "Bahnhofstraße 1", "68159", "Mannheim")
}

func testLedger(t *testing.T) (*Ledger, *Bank, *AccountHolder) {
	t.Helper()
	l := New()
	b := NewBank("MA2424", "VR Bank Rhein-Neckar")
	require.NoError(t, l.AddBank(b))

	h := testHolder()
	require.NoError(t, b.Open(h, newChecking(t, 8321, "500.14", "1000")))
	require.NoError(t, b.Open(h, newSavings(4711, "50.14", "0.03")))
	return l, b, h
}

func TestLedger_AddBankDuplicate(t *testing.T) {
	l := New()
	require.NoError(t, l.AddBank(NewBank("19087", "Berliner Bank")))
	err := l.AddBank(NewBank("19087", "Other"))
	require.ErrorIs(t, err, ErrDuplicateBank)
	assert.Len(t, l.Banks(), 1)
}

func TestLedger_BanksKeepInsertionOrder(t *testing.T) {
	l := New()
	for _, code := range []string{"MA2424", "19087", "Zock7777"} {
		require.NoError(t, l.AddBank(NewBank(code, code)))
	}
	banks := l.Banks()
	require.Len(t, banks, 3)
	assert.Equal(t, "MA2424", banks[0].RoutingCode())
	assert.Equal(t, "19087", banks[1].RoutingCode())
	assert.Equal(t, "Zock7777", banks[2].RoutingCode())

	assert.True(t, l.RemoveBank("19087"))
	assert.False(t, l.RemoveBank("19087"))
	_, ok := l.FindBankByRoutingCode("19087")
	assert.False(t, ok)
	assert.Len(t, l.Banks(), 2)
}

func TestBank_OpenAndLookup(t *testing.T) {
	l, b, h := testLedger(t)

	got, ok := l.FindBankByRoutingCode("MA2424")
	require.True(t, ok)
	assert.Same(t, b, got)

	acct, ok := b.FindAccountByNumber(4711)
	require.True(t, ok)
	assert.Equal(t, KindSavings, acct.Kind())

	holder, ok := b.HolderOf(acct)
	require.True(t, ok)
	assert.Same(t, h, holder)
	assert.Len(t, h.Accounts(), 2)

	accts := b.Accounts()
	require.Len(t, accts, 2)
	assert.Equal(t, 8321, accts[0].Number())
	assert.Equal(t, 4711, accts[1].Number())
	assert.Equal(t, 2, l.AccountCount())

	_, ok = b.FindCustomerByID(999)
	assert.False(t, ok)
}

func TestBank_OpenRejects(t *testing.T) {
	_, b, h := testLedger(t)

	err := b.Open(h, newChecking(t, 8321, "0", "0"))
	require.ErrorIs(t, err, ErrDuplicateAccount)

	other := newSavings(1, "0", "0")
	other.bankCode = "19087"
	require.ErrorIs(t, b.Open(h, other), ErrWrongBank)

	stranger := NewAccountHolder(42, "Erika", "Musterfrau", "Weg 2", "10115", "Berlin")
	require.ErrorIs(t, b.Open(stranger, newSavings(2, "0", "0")), ErrWrongHolder)

	twin := testHolder()
	require.ErrorIs(t, b.Open(twin, newSavings(3, "0", "0")), ErrWrongHolder)

	assert.Len(t, b.Accounts(), 2)
}

func TestBank_RemoveAccount(t *testing.T) {
	_, b, h := testLedger(t)

	removed, ok := b.RemoveAccount(8321)
	require.True(t, ok)
	assert.Equal(t, 8321, removed.Number())
	assert.Len(t, h.Accounts(), 1)
	_, ok = b.FindCustomerByID(h.CustomerID)
	assert.True(t, ok, "holder still has an account")

	_, ok = b.RemoveAccount(4711)
	require.True(t, ok)
	_, ok = b.FindCustomerByID(h.CustomerID)
	assert.False(t, ok, "holder without accounts is forgotten")
	assert.Empty(t, b.Customers())

	_, ok = b.RemoveAccount(4711)
	assert.False(t, ok)
}

func TestLedger_FindAccountAndAuthenticate(t *testing.T) {
	l, _, _ := testLedger(t)

	_, err := l.FindAccount("nope", 1)
	require.ErrorIs(t, err, ErrBankNotFound)
	_, err = l.FindAccount("MA2424", 1)
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = l.Authenticate("MA2424", 8321, 9999)
	require.ErrorIs(t, err, ErrAuthentication)

	acct, err := l.Authenticate("MA2424", 8321, 1234)
	require.NoError(t, err)
	assert.Equal(t, 8321, acct.Number())
}

func TestAccountHolder(t *testing.T) {
	h := testHolder()
	assert.Equal(t, "Max Mustermann", h.FullName())

	a := newSavings(1, "0", "0")
	h.AddAccount(a)
	assert.True(t, h.RemoveAccount(a))
	assert.False(t, h.RemoveAccount(a))
	assert.Empty(t, h.Accounts())

	h.City = "Heidelberg"
	assert.Equal(t, "Heidelberg", h.City)
}
