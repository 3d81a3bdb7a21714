// Package session drives a logged-in customer's operations against a ledger
// and keeps an audit trail of every outcome.
package session

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/geldautomat/ledger/internal/auditlog"
	"github.com/geldautomat/ledger/internal/ledger"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrNotSavings    = errors.New("interest applies to savings accounts only")
)

// Operation names used in results and the audit log.
const (
	OpLogin    = "login"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
	OpInterest = "interest"
	OpSelect   = "select"
)

// MissingFieldsError lists the login fields that were left empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing fields: " + strings.Join(e.Fields, ", ")
}

// Result is the outcome of one session operation.
type Result struct {
	ID           uuid.UUID
	Time         time.Time
	Operation    string
	RoutingCode  string
	Number       int
	Amount       decimal.Decimal
	Balance      decimal.Decimal
	Counterparty string
	Err          error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

func (r Result) entry() auditlog.Entry {
	outcome := "ok"
	if r.Err != nil {
		outcome = r.Err.Error()
	}
	return auditlog.Entry{
		ID:            r.ID,
		Timestamp:     r.Time,
		Operation:     r.Operation,
		RoutingCode:   r.RoutingCode,
		AccountNumber: r.Number,
		Amount:        r.Amount,
		Balance:       r.Balance,
		Counterparty:  r.Counterparty,
		Outcome:       outcome,
	}
}

// Session holds the account a customer is logged into. It is not safe for
// concurrent use; the accounts it touches are.
type Session struct {
	ledger  *ledger.Ledger
	logger  *log.Logger
	now     func() time.Time
	account ledger.Account
	entries []auditlog.Entry
}

// New creates a logged-out session. A nil logger discards output and a nil
// clock means time.Now.
func New(l *ledger.Ledger, logger *log.Logger, now func() time.Time) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if now == nil {
		now = time.Now
	}
	return &Session{ledger: l, logger: logger, now: now}
}

// Account returns the current account, or nil when logged out.
func (s *Session) Account() ledger.Account { return s.account }

// Entries returns the audit entries recorded so far.
func (s *Session) Entries() []auditlog.Entry {
	out := make([]auditlog.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Login authenticates with the raw values a customer typed. Empty fields are
// reported together; otherwise the bank, the account and the pin are checked
// in that order.
func (s *Session) Login(routingCode, number, pin string) error {
	routingCode = strings.TrimSpace(routingCode)
	number = strings.TrimSpace(number)
	pin = strings.TrimSpace(pin)

	var missing []string
	if routingCode == "" {
		missing = append(missing, "routing code")
	}
	if number == "" {
		missing = append(missing, "account number")
	}
	if pin == "" {
		missing = append(missing, "pin")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		return fmt.Errorf("%w: account number %q", ErrInvalidInput, number)
	}
	p, err := strconv.Atoi(pin)
	if err != nil {
		return fmt.Errorf("%w: pin", ErrInvalidInput)
	}

	res := s.begin(OpLogin)
	res.RoutingCode, res.Number = routingCode, n

	acct, err := s.ledger.Authenticate(routingCode, n, p)
	if err != nil {
		s.account = nil
		_, err = s.finish(res, err)
		return err
	}
	s.account = acct
	res.Balance = acct.Balance()
	_, err = s.finish(res, nil)
	return err
}

// Logout forgets the current account.
func (s *Session) Logout() {
	s.account = nil
}

// Select switches to another account of the logged-in customer at the same
// bank.
func (s *Session) Select(number int) (Result, error) {
	if s.account == nil {
		return Result{}, ErrNotLoggedIn
	}
	res := s.stamp(s.begin(OpSelect))

	bank, ok := s.ledger.FindBankByRoutingCode(s.account.BankCode())
	if !ok {
		return s.finish(res, ledger.ErrBankNotFound)
	}
	holder, ok := bank.HolderOf(s.account)
	if !ok {
		return s.finish(res, ledger.ErrAccountNotFound)
	}
	for _, a := range holder.Accounts() {
		if a.Number() == number {
			s.account = a
			res = s.stamp(res)
			return s.finish(res, nil)
		}
	}
	res.Counterparty = strconv.Itoa(number)
	return s.finish(res, fmt.Errorf("account %d of customer %d: %w", number, holder.CustomerID, ledger.ErrAccountNotFound))
}

// Deposit credits amount to the current account.
func (s *Session) Deposit(amount decimal.Decimal) (Result, error) {
	res, err := s.start(OpDeposit, amount)
	if err != nil {
		return res, err
	}
	s.account.Deposit(amount)
	res = s.stamp(res)
	return s.finish(res, nil)
}

// Withdraw pays amount out of the current account. A checking account that
// can only cover amount by going into overdraft needs confirmOverdraft.
func (s *Session) Withdraw(amount decimal.Decimal, confirmOverdraft bool) (Result, error) {
	res, err := s.start(OpWithdraw, amount)
	if err != nil {
		return res, err
	}
	if !confirmOverdraft && ledger.CanOverdraw(s.account, amount) {
		err := fmt.Errorf("withdraw from %s/%d: %w", s.account.BankCode(), s.account.Number(), ledger.ErrOverdraftNeedsConfirmation)
		res = s.stamp(res)
		return s.finish(res, err)
	}
	err = s.account.Withdraw(amount)
	res = s.stamp(res)
	return s.finish(res, err)
}

// Transfer moves amount from the current account to the account toNumber at
// the bank toCode.
func (s *Session) Transfer(toCode string, toNumber int, amount decimal.Decimal, confirmOverdraft bool) (Result, error) {
	res, err := s.start(OpTransfer, amount)
	if err != nil {
		return res, err
	}
	res.Counterparty = fmt.Sprintf("%s/%d", toCode, toNumber)

	recipient, err := s.ledger.FindAccount(toCode, toNumber)
	if err != nil {
		if errors.Is(err, ledger.ErrBankNotFound) {
			err = fmt.Errorf("%w: %w", ledger.ErrAccountNotFound, err)
		}
		res = s.stamp(res)
		return s.finish(res, fmt.Errorf("recipient %s: %w", res.Counterparty, err))
	}

	err = ledger.Transfer(s.account, recipient, amount, confirmOverdraft)
	res = s.stamp(res)
	return s.finish(res, err)
}

// AccrueInterest credits one period of interest to the current savings
// account. The result's Amount is the interest credited.
func (s *Session) AccrueInterest() (Result, error) {
	if s.account == nil {
		return Result{}, ErrNotLoggedIn
	}
	res := s.stamp(s.begin(OpInterest))

	savings, ok := s.account.(*ledger.SavingsAccount)
	if !ok {
		return s.finish(res, fmt.Errorf("account %s/%d: %w", s.account.BankCode(), s.account.Number(), ErrNotSavings))
	}
	res.Amount = savings.AccrueInterest()
	res = s.stamp(res)
	return s.finish(res, nil)
}

// start validates the common preconditions of a money movement.
func (s *Session) start(op string, amount decimal.Decimal) (Result, error) {
	if s.account == nil {
		return Result{}, ErrNotLoggedIn
	}
	res := s.stamp(s.begin(op))
	res.Amount = amount
	if !amount.IsPositive() {
		return s.finish(res, fmt.Errorf("%w: %s", ErrInvalidAmount, amount.String()))
	}
	return res, nil
}

func (s *Session) begin(op string) Result {
	return Result{ID: uuid.New(), Time: s.now(), Operation: op}
}

// stamp copies the current account's identity and balance into res.
func (s *Session) stamp(res Result) Result {
	res.RoutingCode = s.account.BankCode()
	res.Number = s.account.Number()
	res.Balance = s.account.Balance()
	return res
}

// finish logs and records res with its outcome.
func (s *Session) finish(res Result, err error) (Result, error) {
	res.Err = err
	s.entries = append(s.entries, res.entry())

	kv := []any{
		"id", res.ID,
		"account", fmt.Sprintf("%s/%d", res.RoutingCode, res.Number),
		"amount", res.Amount.String(),
		"balance", res.Balance.String(),
	}
	if res.Counterparty != "" {
		kv = append(kv, "counterparty", res.Counterparty)
	}
	if err != nil {
		s.logger.Warn(res.Operation+" failed", append(kv, "err", err)...)
		return res, err
	}
	s.logger.Info(res.Operation, kv...)
	return res, nil
}
