// Package auditlog keeps an append-only CSV trail of session operations.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one row in the audit log.
type Entry struct {
	ID            uuid.UUID
	Timestamp     time.Time
	Operation     string
	RoutingCode   string
	AccountNumber int
	Amount        decimal.Decimal
	Balance       decimal.Decimal // balance after the operation
	Counterparty  string          // "<routing code>/<number>" for transfers
	Outcome       string          // "ok" or the error text
}

// Header is the CSV header for the audit log.
const Header = "id,timestamp,operation,routing_code,account_number,amount,balance,counterparty,outcome"

const (
	numFields       = 9
	colID           = 0
	colTimestamp    = 1
	colOperation    = 2
	colRoutingCode  = 3
	colAccount      = 4
	colAmount       = 5
	colBalance      = 6
	colCounterparty = 7
	colOutcome      = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colID] = e.ID.String()
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colOperation] = e.Operation
	row[colRoutingCode] = e.RoutingCode
	row[colAccount] = strconv.Itoa(e.AccountNumber)
	row[colAmount] = e.Amount.String()
	row[colBalance] = e.Balance.String()
	row[colCounterparty] = e.Counterparty
	row[colOutcome] = e.Outcome
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := uuid.Parse(record[colID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	number, err := strconv.Atoi(record[colAccount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing account number %q: %w", record[colAccount], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	return Entry{
		ID:            id,
		Timestamp:     ts,
		Operation:     record[colOperation],
		RoutingCode:   record[colRoutingCode],
		AccountNumber: number,
		Amount:        amount,
		Balance:       balance,
		Counterparty:  record[colCounterparty],
		Outcome:       record[colOutcome],
	}, nil
}

// Append writes entries to path, creating parent directories, the file and
// its header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating audit log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from path. A missing file yields no entries.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
