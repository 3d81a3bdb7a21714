package ledger

// AccountHolder is a customer of one bank. CustomerID is unique within that
// bank only.
type AccountHolder struct {
	CustomerID int
	FirstName  string
	LastName   string
	Street     string
	PostalCode string
	City       string

	accounts []Account
}

// NewAccountHolder creates a holder without accounts.
func NewAccountHolder(customerID int, firstName, lastName, street, postalCode, city string) *AccountHolder {
	return &AccountHolder{
		CustomerID: customerID,
		FirstName:  firstName,
		LastName:   lastName,
		Street:     street,
		PostalCode: postalCode,
		City:       city,
	}
}

// Accounts returns the held accounts in the order they were added.
func (h *AccountHolder) Accounts() []Account {
	out := make([]Account, len(h.accounts))
	copy(out, h.accounts)
	return out
}

// AddAccount appends acct to the holder's accounts.
func (h *AccountHolder) AddAccount(acct Account) {
	h.accounts = append(h.accounts, acct)
}

// RemoveAccount removes acct and reports whether it was held.
func (h *AccountHolder) RemoveAccount(acct Account) bool {
	for i, a := range h.accounts {
		if a == acct {
			h.accounts = append(h.accounts[:i], h.accounts[i+1:]...)
			return true
		}
	}
	return false
}

// FullName returns "FirstName LastName".
func (h *AccountHolder) FullName() string {
	return h.FirstName + " " + h.LastName
}
