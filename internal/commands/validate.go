package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/geldautomat/ledger/internal/importer"
	"github.com/geldautomat/ledger/internal/ledger"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <csv>",
		Short: "Import a bank export and report the first invalid row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), e, args[0])
		},
	}
}

func runValidate(out io.Writer, e *env, path string) error {
	l, err := importLedger(e, path)
	if err != nil {
		return err
	}

	overdrawn := 0
	for _, b := range l.Banks() {
		for _, a := range b.Accounts() {
			if a.IsOverdrawn() {
				overdrawn++
			}
		}
	}

	fmt.Fprintf(out, "%s: %d banks, %d accounts, %d overdrawn\n",
		path, len(l.Banks()), l.AccountCount(), overdrawn)
	return nil
}

// importLedger reads a bank export with the configured import options.
func importLedger(e *env, path string) (*ledger.Ledger, error) {
	imp, err := importer.New(e.cfg.ImporterOptions(), e.logger)
	if err != nil {
		return nil, err
	}
	l, err := imp.ImportFile(path)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return l, nil
}
