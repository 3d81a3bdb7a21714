package ledger

import "fmt"

// Bank owns an ordered set of accounts, indexed by account number, and the
// holders of those accounts, indexed by customer id.
type Bank struct {
	Name string

	routingCode string
	accounts    []Account
	byNumber    map[int]Account
	holders     map[int]*AccountHolder
	holderOrder []int
}

// NewBank creates an empty bank.
func NewBank(routingCode, name string) *Bank {
	return &Bank{
		Name:        name,
		routingCode: routingCode,
		byNumber:    make(map[int]Account),
		holders:     make(map[int]*AccountHolder),
	}
}

// RoutingCode returns the bank's key within a Ledger.
func (b *Bank) RoutingCode() string { return b.routingCode }

// Accounts returns all accounts in insertion order.
func (b *Bank) Accounts() []Account {
	out := make([]Account, len(b.accounts))
	copy(out, b.accounts)
	return out
}

// Customers returns the holders of the bank's accounts in first-seen order.
func (b *Bank) Customers() []*AccountHolder {
	out := make([]*AccountHolder, 0, len(b.holderOrder))
	for _, id := range b.holderOrder {
		out = append(out, b.holders[id])
	}
	return out
}

// Open attaches acct to the bank and to holder. The account must carry this
// bank's routing code and the holder's customer id, its number must be new,
// and holder must be the bank's only holder with that customer id.
func (b *Bank) Open(holder *AccountHolder, acct Account) error {
	if acct.BankCode() != b.routingCode {
		return fmt.Errorf("opening account %d at %s: %w", acct.Number(), b.routingCode, ErrWrongBank)
	}
	if acct.CustomerID() != holder.CustomerID {
		return fmt.Errorf("opening account %d for customer %d: %w", acct.Number(), holder.CustomerID, ErrWrongHolder)
	}
	if _, ok := b.byNumber[acct.Number()]; ok {
		return fmt.Errorf("opening account %d at %s: %w", acct.Number(), b.routingCode, ErrDuplicateAccount)
	}
	if existing, ok := b.holders[holder.CustomerID]; ok && existing != holder {
		return fmt.Errorf("customer %d is already registered at %s with different data: %w",
			holder.CustomerID, b.routingCode, ErrWrongHolder)
	}

	if _, ok := b.holders[holder.CustomerID]; !ok {
		b.holders[holder.CustomerID] = holder
		b.holderOrder = append(b.holderOrder, holder.CustomerID)
	}
	holder.AddAccount(acct)
	b.accounts = append(b.accounts, acct)
	b.byNumber[acct.Number()] = acct
	return nil
}

// RemoveAccount detaches the account from the bank and its holder. A holder
// left without accounts is forgotten by the bank.
func (b *Bank) RemoveAccount(number int) (Account, bool) {
	acct, ok := b.byNumber[number]
	if !ok {
		return nil, false
	}
	delete(b.byNumber, number)
	for i, a := range b.accounts {
		if a == acct {
			b.accounts = append(b.accounts[:i], b.accounts[i+1:]...)
			break
		}
	}

	if h, ok := b.holders[acct.CustomerID()]; ok {
		h.RemoveAccount(acct)
		if len(h.accounts) == 0 {
			b.forgetHolder(h.CustomerID)
		}
	}
	return acct, true
}

func (b *Bank) forgetHolder(customerID int) {
	delete(b.holders, customerID)
	for i, id := range b.holderOrder {
		if id == customerID {
			b.holderOrder = append(b.holderOrder[:i], b.holderOrder[i+1:]...)
			return
		}
	}
}

// FindAccountByNumber returns the account with the given number.
func (b *Bank) FindAccountByNumber(number int) (Account, bool) {
	a, ok := b.byNumber[number]
	return a, ok
}

// FindCustomerByID returns the holder with the given customer id.
func (b *Bank) FindCustomerByID(customerID int) (*AccountHolder, bool) {
	h, ok := b.holders[customerID]
	return h, ok
}

// HolderOf resolves the holder of acct.
func (b *Bank) HolderOf(acct Account) (*AccountHolder, bool) {
	return b.FindCustomerByID(acct.CustomerID())
}
