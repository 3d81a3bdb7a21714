package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/geldautomat/ledger/internal/auditlog"
	"github.com/geldautomat/ledger/internal/session"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <csv> <plan.yaml>",
		Short: "Run a scripted session against a bank export",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runPlan(cmd.OutOrStdout(), e, args[0], args[1])
		},
	}
}

func runPlan(out io.Writer, e *env, csvPath, planPath string) error {
	l, err := importLedger(e, csvPath)
	if err != nil {
		return err
	}
	plan, err := session.LoadPlan(planPath)
	if err != nil {
		return err
	}

	s := session.New(l, e.logger, nil)
	results, runErr := s.RunPlan(plan)

	if entries := s.Entries(); e.cfg.Audit.Enabled && len(entries) > 0 {
		if err := auditlog.Append(e.cfg.Audit.Path, entries); err != nil {
			e.logger.Warn("failed to write audit log", "path", e.cfg.Audit.Path, "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	failed := 0
	for i, r := range results {
		outcome := "ok"
		if !r.OK() {
			outcome = "FAILED: " + r.Err.Error()
			failed++
		}
		fmt.Fprintf(out, "%d. %s %s/%d amount=%s balance=%s %s\n",
			i+1, r.Operation, r.RoutingCode, r.Number, r.Amount.String(), r.Balance.String(), outcome)
	}
	fmt.Fprintf(out, "%d operations, %d failed\n", len(results), failed)
	return nil
}
