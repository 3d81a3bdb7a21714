package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/geldautomat/ledger/internal/ledger"
)

var overdrawnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // red

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <csv>",
		Short: "List banks and accounts from a bank export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runList(cmd.OutOrStdout(), e, args[0])
		},
	}
}

func runList(out io.Writer, e *env, path string) error {
	l, err := importLedger(e, path)
	if err != nil {
		return err
	}

	for _, b := range l.Banks() {
		fmt.Fprintf(out, "%s (%s)\n", b.Name, b.RoutingCode())

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ACCOUNT", "KIND", "HOLDER", "BALANCE", "LIMIT/RATE", "")
		for _, a := range b.Accounts() {
			t.Row(accountRow(b, a)...)
		}
		fmt.Fprintln(out, t.Render())
	}
	return nil
}

func accountRow(b *ledger.Bank, a ledger.Account) []string {
	holder := ""
	if h, ok := b.HolderOf(a); ok {
		holder = fmt.Sprintf("%s (%d)", h.FullName(), h.CustomerID)
	}

	terms := ""
	switch acct := a.(type) {
	case *ledger.CheckingAccount:
		terms = acct.OverdraftLimit().StringFixed(2)
	case *ledger.SavingsAccount:
		terms = acct.InterestRate().Shift(2).String() + "%"
	}

	status := ""
	if a.IsOverdrawn() {
		status = overdrawnStyle.Render("overdrawn")
	}

	return []string{
		fmt.Sprint(a.Number()),
		string(a.Kind()),
		holder,
		a.Balance().StringFixed(2),
		terms,
		status,
	}
}
