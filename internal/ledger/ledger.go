// Package ledger is the in-memory entity model: banks, account holders and
// the two account variants, plus the transfer operation between accounts.
//
// Navigation goes downward only. Accounts refer to their bank and holder by
// key (routing code, customer id) and are resolved through the Ledger and
// Bank indices.
package ledger

import "fmt"

// Ledger is the registry of banks for one session, in first-seen order.
type Ledger struct {
	banks  []*Bank
	byCode map[string]*Bank
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{byCode: make(map[string]*Bank)}
}

// AddBank registers b. Routing codes are unique within a Ledger.
func (l *Ledger) AddBank(b *Bank) error {
	if _, ok := l.byCode[b.RoutingCode()]; ok {
		return fmt.Errorf("adding bank %q: %w", b.RoutingCode(), ErrDuplicateBank)
	}
	l.banks = append(l.banks, b)
	l.byCode[b.RoutingCode()] = b
	return nil
}

// RemoveBank drops the bank with the given routing code.
func (l *Ledger) RemoveBank(routingCode string) bool {
	b, ok := l.byCode[routingCode]
	if !ok {
		return false
	}
	delete(l.byCode, routingCode)
	for i, existing := range l.banks {
		if existing == b {
			l.banks = append(l.banks[:i], l.banks[i+1:]...)
			break
		}
	}
	return true
}

// Banks returns all banks in insertion order.
func (l *Ledger) Banks() []*Bank {
	out := make([]*Bank, len(l.banks))
	copy(out, l.banks)
	return out
}

// FindBankByRoutingCode returns the bank with the given routing code.
func (l *Ledger) FindBankByRoutingCode(routingCode string) (*Bank, bool) {
	b, ok := l.byCode[routingCode]
	return b, ok
}

// FindAccount resolves an account by routing code and account number.
func (l *Ledger) FindAccount(routingCode string, number int) (Account, error) {
	b, ok := l.FindBankByRoutingCode(routingCode)
	if !ok {
		return nil, fmt.Errorf("routing code %q: %w", routingCode, ErrBankNotFound)
	}
	a, ok := b.FindAccountByNumber(number)
	if !ok {
		return nil, fmt.Errorf("account %s/%d: %w", routingCode, number, ErrAccountNotFound)
	}
	return a, nil
}

// Authenticate resolves the account and checks its pin.
func (l *Ledger) Authenticate(routingCode string, number, pin int) (Account, error) {
	a, err := l.FindAccount(routingCode, number)
	if err != nil {
		return nil, err
	}
	if !a.CheckPassword(pin) {
		return nil, fmt.Errorf("account %s/%d: %w", routingCode, number, ErrAuthentication)
	}
	return a, nil
}

// AccountCount returns the number of accounts across all banks.
func (l *Ledger) AccountCount() int {
	n := 0
	for _, b := range l.banks {
		n += len(b.accounts)
	}
	return n
}
