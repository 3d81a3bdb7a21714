package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/geldautomat/ledger/internal/money"
)

const (
	numFields       = 14
	colBankName     = 0
	colRoutingCode  = 1
	colAccount      = 2
	colPIN          = 3
	colBalance      = 4
	colAccountType  = 5
	colInterestRate = 6
	colOverdraft    = 7
	colCustomerID   = 8
	colLastName     = 9
	colFirstName    = 10
	colStreet       = 11
	colPostalCode   = 12
	colCity         = 13
)

const (
	typeChecking = "Girokonto"
	typeSavings  = "Sparkonto"
)

// replacementChar is what a mis-decoded "ß" turns into.
const replacementChar = "�"

var hundred = decimal.NewFromInt(100)

// localeReplacer strips currency and percent glyphs, thousands separators and
// stray replacement characters, and turns the decimal comma into a point.
var localeReplacer = strings.NewReplacer(
	"€", "",
	"%", "",
	".", "",
	replacementChar, "",
	" ", "",
	"\u00a0", "",
	",", ".",
)

// record is one validated CSV row. Type-specific columns stay raw until the
// account type is known.
type record struct {
	BankName     string
	RoutingCode  string
	Number       int
	PIN          int
	Balance      decimal.Decimal
	AccountType  string
	InterestRate string
	Overdraft    string
	CustomerID   int
	LastName     string
	FirstName    string
	Street       string
	PostalCode   string
	City         string
}

// unmarshalRecord checks the field count and parses the integer and balance
// columns.
func unmarshalRecord(fields []string) (record, error) {
	if len(fields) < numFields {
		return record{}, fmt.Errorf("%w: expected at least %d fields, got %d", ErrFormat, numFields, len(fields))
	}

	number, err := parseInt("account number", fields[colAccount])
	if err != nil {
		return record{}, err
	}
	pin, err := parseInt("pin", fields[colPIN])
	if err != nil {
		return record{}, err
	}
	customerID, err := parseInt("customer id", fields[colCustomerID])
	if err != nil {
		return record{}, err
	}
	balance, err := parseLocaleDecimal("balance", fields[colBalance])
	if err != nil {
		return record{}, err
	}

	return record{
		BankName:     fields[colBankName],
		RoutingCode:  fields[colRoutingCode],
		Number:       number,
		PIN:          pin,
		Balance:      balance,
		AccountType:  fields[colAccountType],
		InterestRate: fields[colInterestRate],
		Overdraft:    fields[colOverdraft],
		CustomerID:   customerID,
		LastName:     fields[colLastName],
		FirstName:    fields[colFirstName],
		Street:       fixStreet(fields[colStreet]),
		PostalCode:   fields[colPostalCode],
		City:         fields[colCity],
	}, nil
}

func parseInt(column, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &NumericError{Column: column, Value: raw, Err: err}
	}
	return n, nil
}

// parseLocaleDecimal parses German-formatted amounts like "-8.000,50 €" or
// "1,1 %".
func parseLocaleDecimal(column, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(localeReplacer.Replace(strings.TrimSpace(raw)))
	if err != nil {
		return decimal.Zero, &NumericError{Column: column, Value: raw, Err: err}
	}
	return d, nil
}

// parseInterestRate turns a percent string into a fractional rate: "3,0%"
// becomes 0.03.
func parseInterestRate(raw string) (decimal.Decimal, error) {
	pct, err := parseLocaleDecimal("interest rate", raw)
	if err != nil {
		return decimal.Zero, err
	}
	return money.Round5(pct.Div(hundred)), nil
}

// fixStreet restores the "ß" that some exports lose to a replacement
// character. Only the street column gets this treatment.
func fixStreet(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, replacementChar, "ß"))
}
