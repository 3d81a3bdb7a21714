package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds is the normal business outcome of a withdrawal or
	// transfer the account cannot cover. Balances are left unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOverdraftNeedsConfirmation means the transfer is only possible by
	// overdrawing a checking account and the caller has not confirmed that.
	ErrOverdraftNeedsConfirmation = errors.New("overdraft requires confirmation")

	ErrSameAccount      = errors.New("sender and recipient are the same account")
	ErrDuplicateBank    = errors.New("duplicate routing code")
	ErrDuplicateAccount = errors.New("duplicate account number")
	ErrBankNotFound     = errors.New("bank not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrAuthentication   = errors.New("wrong pin")
	ErrNegativeLimit    = errors.New("overdraft limit must not be negative")
	ErrWrongBank        = errors.New("account belongs to another bank")
	ErrWrongHolder      = errors.New("account belongs to another customer")
)

// InsufficientFundsError reports a denied withdrawal.
type InsufficientFundsError struct {
	BankCode  string
	Number    int
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %s/%d: %v: requested %s, available %s",
		e.BankCode, e.Number, ErrInsufficientFunds, e.Requested.String(), e.Available.String())
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }
