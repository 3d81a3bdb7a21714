package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFormat               = errors.New("invalid record format")
	ErrNumericParse         = errors.New("invalid numeric value")
	ErrInconsistentBankName = errors.New("inconsistent bank name")
	ErrInconsistentCustomer = errors.New("inconsistent customer data")
	ErrDuplicateAccount     = errors.New("duplicate account number")
	ErrUnknownAccountType   = errors.New("unknown account type")
)

// RowError tags an import failure with the line it occurred on. The header
// is line 1.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// NumericError reports a value that could not be parsed as a number.
type NumericError struct {
	Column string
	Value  string
	Err    error
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("%v: %s %q: %v", ErrNumericParse, e.Column, e.Value, e.Err)
}

func (e *NumericError) Unwrap() []error { return []error{ErrNumericParse, e.Err} }

// BankNameError reports a routing code seen with two different bank names.
type BankNameError struct {
	RoutingCode string
	Is          string // name on the failing record
	ShouldBe    string // name first seen for the routing code
}

func (e *BankNameError) Error() string {
	return fmt.Sprintf("%v for routing code %q: is %q, should be %q",
		ErrInconsistentBankName, e.RoutingCode, e.Is, e.ShouldBe)
}

func (e *BankNameError) Unwrap() error { return ErrInconsistentBankName }

// FieldMismatch is one differing personal or address field.
type FieldMismatch struct {
	Field    string
	Is       string // value on the failing record
	ShouldBe string // value first seen for the customer
}

// CustomerMismatchError reports a customer id seen with different personal
// data within one bank. Fields lists every differing field.
type CustomerMismatchError struct {
	CustomerID  int
	RoutingCode string
	Fields      []FieldMismatch
}

func (e *CustomerMismatchError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: is %q, should be %q", f.Field, f.Is, f.ShouldBe)
	}
	return fmt.Sprintf("%v for customer %d at %q: %s",
		ErrInconsistentCustomer, e.CustomerID, e.RoutingCode, strings.Join(parts, "; "))
}

func (e *CustomerMismatchError) Unwrap() error { return ErrInconsistentCustomer }

// DuplicateAccountError reports an account number already present in a bank.
type DuplicateAccountError struct {
	RoutingCode string
	Number      int
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("%v: routing code %q, account %d", ErrDuplicateAccount, e.RoutingCode, e.Number)
}

func (e *DuplicateAccountError) Unwrap() error { return ErrDuplicateAccount }
