// Package importer builds a ledger from a semicolon-separated bank export.
// Every row is validated against the rows before it; the first failing row
// aborts the import.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/geldautomat/ledger/internal/ledger"
)

// DefaultDelimiter separates fields in the bank export.
const DefaultDelimiter = ';'

// maxLineSize bounds a single export line.
const maxLineSize = 1 << 20

// Options configures an Importer.
type Options struct {
	Delimiter rune
	// Charset names the file encoding. Empty means UTF-8.
	Charset string
}

// Importer reads bank exports into a ledger.
type Importer struct {
	delimiter rune
	decoder   encoding.Encoding
	logger    *log.Logger
}

// New validates opts and returns an Importer. A nil logger discards output.
func New(opts Options, logger *log.Logger) (*Importer, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}
	if !validDelimiter(delim) {
		return nil, fmt.Errorf("invalid delimiter %q", delim)
	}
	dec, err := lookupCharset(opts.Charset)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Importer{delimiter: delim, decoder: dec, logger: logger}, nil
}

// ImportFile opens path and imports it.
func (im *Importer) ImportFile(path string) (*ledger.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return im.Import(f)
}

// Import reads the whole export from r. The first line is a header and is
// skipped. Each following line is one row, split on the delimiter with no
// quoting; a blank line is a row with too few fields. On any error the
// returned ledger is nil.
func (im *Importer) Import(r io.Reader) (*ledger.Ledger, error) {
	if im.decoder != nil {
		r = im.decoder.NewDecoder().Reader(r)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	sep := string(im.delimiter)

	l := ledger.New()
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		fields := strings.Split(sc.Text(), sep)
		if err := im.apply(l, fields, line); err != nil {
			im.logger.Debug("rejected row", "line", line, "err", err)
			return nil, &RowError{Line: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &RowError{Line: line + 1, Err: fmt.Errorf("%w: %v", ErrFormat, err)}
	}

	im.logger.Info("import complete", "banks", len(l.Banks()), "accounts", l.AccountCount())
	return l, nil
}

// apply validates one row against the ledger built so far and opens its
// account.
func (im *Importer) apply(l *ledger.Ledger, fields []string, line int) error {
	rec, err := unmarshalRecord(fields)
	if err != nil {
		return err
	}

	bank, ok := l.FindBankByRoutingCode(rec.RoutingCode)
	if ok {
		if bank.Name != rec.BankName {
			return &BankNameError{RoutingCode: rec.RoutingCode, Is: rec.BankName, ShouldBe: bank.Name}
		}
	} else {
		bank = ledger.NewBank(rec.RoutingCode, rec.BankName)
		if err := l.AddBank(bank); err != nil {
			return err
		}
	}

	holder, ok := bank.FindCustomerByID(rec.CustomerID)
	if ok {
		if diff := compareHolder(holder, rec); len(diff) > 0 {
			return &CustomerMismatchError{CustomerID: rec.CustomerID, RoutingCode: rec.RoutingCode, Fields: diff}
		}
	} else {
		holder = ledger.NewAccountHolder(rec.CustomerID, rec.FirstName, rec.LastName, rec.Street, rec.PostalCode, rec.City)
	}

	if _, exists := bank.FindAccountByNumber(rec.Number); exists {
		return &DuplicateAccountError{RoutingCode: rec.RoutingCode, Number: rec.Number}
	}

	acct, err := newAccount(rec)
	if err != nil {
		return err
	}
	if err := bank.Open(holder, acct); err != nil {
		return err
	}

	im.logger.Debug("imported account",
		"line", line,
		"bank", rec.RoutingCode,
		"account", rec.Number,
		"kind", acct.Kind(),
		"balance", acct.Balance().String(),
	)
	return nil
}

func newAccount(rec record) (ledger.Account, error) {
	p := ledger.AccountParams{
		Number:     rec.Number,
		PIN:        rec.PIN,
		Balance:    rec.Balance,
		BankCode:   rec.RoutingCode,
		CustomerID: rec.CustomerID,
	}

	kind := strings.TrimSpace(rec.AccountType)
	switch {
	case strings.EqualFold(kind, typeChecking):
		limit, err := parseLocaleDecimal("overdraft limit", rec.Overdraft)
		if err != nil {
			return nil, err
		}
		acct, err := ledger.NewCheckingAccount(p, limit)
		if err != nil {
			return nil, err
		}
		return acct, nil
	case strings.EqualFold(kind, typeSavings):
		rate, err := parseInterestRate(rec.InterestRate)
		if err != nil {
			return nil, err
		}
		return ledger.NewSavingsAccount(p, rate), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAccountType, rec.AccountType)
	}
}

func compareHolder(h *ledger.AccountHolder, rec record) []FieldMismatch {
	var diff []FieldMismatch
	check := func(field, existing, got string) {
		if existing != got {
			diff = append(diff, FieldMismatch{Field: field, Is: got, ShouldBe: existing})
		}
	}
	check("last name", h.LastName, rec.LastName)
	check("first name", h.FirstName, rec.FirstName)
	check("street", h.Street, rec.Street)
	check("postal code", h.PostalCode, rec.PostalCode)
	check("city", h.City, rec.City)
	return diff
}

func validDelimiter(r rune) bool {
	return r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}

// lookupCharset returns nil for UTF-8, which needs no decoding.
func lookupCharset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
}

// SupportedCharset reports whether name is an input encoding Import can
// decode.
func SupportedCharset(name string) bool {
	_, err := lookupCharset(name)
	return err == nil
}
