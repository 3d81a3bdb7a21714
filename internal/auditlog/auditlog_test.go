package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		ID:            uuid.MustParse("6f1c2a9e-3b7d-4c55-9a0e-1d2f3a4b5c6d"),
		Timestamp:     testTime,
		Operation:     "transfer",
		RoutingCode:   "MA2424",
		AccountNumber: 8321,
		Amount:        decimal.RequireFromString("100.5"),
		Balance:       decimal.RequireFromString("-400.36"),
		Counterparty:  "19087/1717",
		Outcome:       "ok",
	}
}

func logPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "logs", "audit-log.csv")
}

func TestAppend_NewFile(t *testing.T) {
	path := logPath(t)
	require.NoError(t, Append(path, []Entry{testEntry()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "transfer", entries[0].Operation)
}

func TestAppend_ExistingFile(t *testing.T) {
	path := logPath(t)
	require.NoError(t, Append(path, []Entry{testEntry()}))

	e2 := testEntry()
	e2.ID = uuid.New()
	e2.Operation = "deposit"
	e2.Counterparty = ""
	require.NoError(t, Append(path, []Entry{e2}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "transfer", entries[0].Operation)
	assert.Equal(t, "deposit", entries[1].Operation)
	assert.Equal(t, e2.ID, entries[1].ID)
}

func TestRead_RoundTrip(t *testing.T) {
	path := logPath(t)
	want := testEntry()
	want.Outcome = "insufficient funds: account 8321 at MA2424, requested 2000, available 600"
	require.NoError(t, Append(path, []Entry{want}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := entries[0]

	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, want.RoutingCode, got.RoutingCode)
	assert.Equal(t, want.AccountNumber, got.AccountNumber)
	assert.True(t, want.Amount.Equal(got.Amount))
	assert.True(t, want.Balance.Equal(got.Balance))
	assert.Equal(t, want.Counterparty, got.Counterparty)
	assert.Equal(t, want.Outcome, got.Outcome)
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(logPath(t))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_BadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")
	data := Header + "\nnot-a-uuid,2025-01-15T10:30:00Z,deposit,MA2424,1,1,1,,ok\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Read(path)
	assert.ErrorContains(t, err, "row 2")
	assert.ErrorContains(t, err, "parsing id")
}

func TestUnmarshalEntry_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.ErrorContains(t, err, "expected 9 fields, got 2")
}
