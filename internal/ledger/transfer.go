package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CanOverdraw reports whether sender cannot cover amount from its balance but
// could by overdrawing: it is a checking account and its limit covers the
// shortfall. Callers use it to decide whether to ask for confirmation.
func CanOverdraw(sender Account, amount decimal.Decimal) bool {
	c := sender.core()
	c.mu.Lock()
	defer c.mu.Unlock()
	return canOverdrawLocked(sender, amount)
}

func canOverdrawLocked(sender Account, amount decimal.Decimal) bool {
	balance := sender.core().balance
	if balance.GreaterThanOrEqual(amount) {
		return false
	}
	checking, ok := sender.(*CheckingAccount)
	if !ok {
		return false
	}
	return checking.overdraftLimit.GreaterThanOrEqual(amount.Sub(balance))
}

// Transfer moves amount from sender to recipient. The recipient must already
// be resolved by the caller.
//
// If the sender's balance covers amount the transfer is executed. If only an
// overdraft covers it, the transfer is executed when confirmOverdraft is set
// and otherwise fails with ErrOverdraftNeedsConfirmation. In every other case
// it fails with ErrInsufficientFunds. A failed transfer changes no balance.
func Transfer(sender, recipient Account, amount decimal.Decimal, confirmOverdraft bool) error {
	if sender == recipient {
		return fmt.Errorf("transfer from %s/%d: %w", sender.BankCode(), sender.Number(), ErrSameAccount)
	}

	first, second := sender.core(), recipient.core()
	if lockAfter(first, second) {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	s := sender.core()
	if s.balance.LessThan(amount) {
		if !canOverdrawLocked(sender, amount) {
			return s.insufficient(amount, available(sender))
		}
		if !confirmOverdraft {
			return fmt.Errorf("transfer from %s/%d: %w", s.bankCode, s.number, ErrOverdraftNeedsConfirmation)
		}
	}

	if err := sender.withdrawLocked(amount); err != nil {
		return err
	}
	recipient.core().credit(amount)
	return nil
}

// available returns what sender could pay out. Caller holds the lock.
func available(sender Account) decimal.Decimal {
	if c, ok := sender.(*CheckingAccount); ok {
		return c.balance.Add(c.overdraftLimit)
	}
	return sender.core().balance
}

// lockAfter orders accounts by routing code, then number.
func lockAfter(a, b *account) bool {
	if a.bankCode != b.bankCode {
		return a.bankCode > b.bankCode
	}
	return a.number > b.number
}
