package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/geldautomat/ledger/internal/money"
)

// Kind discriminates the two account variants.
type Kind string

const (
	KindChecking Kind = "checking"
	KindSavings  Kind = "savings"
)

// Account is implemented by *CheckingAccount and *SavingsAccount only.
// The bank and the holder are referenced by key; resolve them through
// Ledger.FindBankByRoutingCode and Bank.HolderOf.
type Account interface {
	Number() int
	BankCode() string
	CustomerID() int
	Kind() Kind
	Balance() decimal.Decimal
	// SetBalance overwrites the balance (rounded) without any policy check.
	SetBalance(balance decimal.Decimal)
	Deposit(amount decimal.Decimal)
	Withdraw(amount decimal.Decimal) error
	IsOverdrawn() bool
	CheckPassword(pin int) bool
	SetPIN(pin int)

	core() *account
	// withdrawLocked applies the variant's withdrawal rule. Caller holds core().mu.
	withdrawLocked(amount decimal.Decimal) error
}

// AccountParams holds the fields shared by both account variants.
type AccountParams struct {
	Number     int
	PIN        int
	Balance    decimal.Decimal
	BankCode   string
	CustomerID int
}

type account struct {
	mu         sync.Mutex
	number     int
	pin        int
	balance    decimal.Decimal
	bankCode   string
	customerID int
}

func (a *account) assign(p AccountParams) {
	a.number = p.Number
	a.pin = p.PIN
	a.balance = p.Balance
	a.bankCode = p.BankCode
	a.customerID = p.CustomerID
}

func (a *account) core() *account { return a }

// Number returns the account number, unique within its bank.
func (a *account) Number() int { return a.number }

// BankCode returns the routing code of the bank holding the account.
func (a *account) BankCode() string { return a.bankCode }

// CustomerID returns the id of the account holder within the bank.
func (a *account) CustomerID() int { return a.customerID }

// Balance returns the current balance.
func (a *account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// SetBalance overwrites the balance, rounded, without any limit check.
func (a *account) SetBalance(balance decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = money.Round5(balance)
}

// Deposit adds amount to the balance. The sign of amount is not checked.
func (a *account) Deposit(amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.credit(amount)
}

// IsOverdrawn reports whether the balance is below zero.
func (a *account) IsOverdrawn() bool {
	return a.Balance().IsNegative()
}

// CheckPassword reports whether pin matches the account's pin exactly.
func (a *account) CheckPassword(pin int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pin == pin
}

// SetPIN replaces the pin.
func (a *account) SetPIN(pin int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pin = pin
}

func (a *account) credit(amount decimal.Decimal) {
	a.balance = money.Round5(a.balance.Add(amount))
}

func (a *account) debit(amount decimal.Decimal) {
	a.balance = money.Round5(a.balance.Sub(amount))
}

func (a *account) insufficient(requested, available decimal.Decimal) error {
	return &InsufficientFundsError{
		BankCode:  a.bankCode,
		Number:    a.number,
		Requested: requested,
		Available: available,
	}
}

// CheckingAccount may be overdrawn down to -OverdraftLimit.
type CheckingAccount struct {
	account
	overdraftLimit decimal.Decimal
}

// NewCheckingAccount creates a checking account. The balance is stored as given.
func NewCheckingAccount(p AccountParams, overdraftLimit decimal.Decimal) (*CheckingAccount, error) {
	if overdraftLimit.IsNegative() {
		return nil, ErrNegativeLimit
	}
	c := &CheckingAccount{overdraftLimit: overdraftLimit}
	c.assign(p)
	return c, nil
}

// Kind returns KindChecking.
func (c *CheckingAccount) Kind() Kind { return KindChecking }

// OverdraftLimit returns how far below zero the balance may go.
func (c *CheckingAccount) OverdraftLimit() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overdraftLimit
}

// SetOverdraftLimit replaces the limit. A negative limit is rejected with
// ErrNegativeLimit.
func (c *CheckingAccount) SetOverdraftLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return ErrNegativeLimit
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overdraftLimit = limit
	return nil
}

// Withdraw succeeds iff amount <= balance + overdraft limit.
func (c *CheckingAccount) Withdraw(amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.withdrawLocked(amount)
}

func (c *CheckingAccount) withdrawLocked(amount decimal.Decimal) error {
	available := c.balance.Add(c.overdraftLimit)
	if amount.GreaterThan(available) {
		return c.insufficient(amount, available)
	}
	c.debit(amount)
	return nil
}

// SavingsAccount never goes below zero through Withdraw and earns interest.
type SavingsAccount struct {
	account
	interestRate decimal.Decimal
}

// NewSavingsAccount creates a savings account. interestRate is fractional:
// 0.03 means 3% per period.
func NewSavingsAccount(p AccountParams, interestRate decimal.Decimal) *SavingsAccount {
	s := &SavingsAccount{interestRate: interestRate}
	s.assign(p)
	return s
}

// Kind returns KindSavings.
func (s *SavingsAccount) Kind() Kind { return KindSavings }

// InterestRate returns the fractional rate per period.
func (s *SavingsAccount) InterestRate() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interestRate
}

// SetInterestRate replaces the fractional rate used by AccrueInterest.
func (s *SavingsAccount) SetInterestRate(rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interestRate = rate
}

// Withdraw succeeds iff amount <= balance.
func (s *SavingsAccount) Withdraw(amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withdrawLocked(amount)
}

func (s *SavingsAccount) withdrawLocked(amount decimal.Decimal) error {
	if amount.GreaterThan(s.balance) {
		return s.insufficient(amount, s.balance)
	}
	s.debit(amount)
	return nil
}

// AccrueInterest credits Round5(balance * rate) and returns the credited
// amount. The stored rate is used as-is, without a further division by 100.
func (s *SavingsAccount) AccrueInterest() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	interest := money.Round5(s.balance.Mul(s.interestRate))
	s.credit(interest)
	return interest
}
