package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(sweepCmd)
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Report accounts whose balance disagrees with their ledger",
	Long: `Compares every stored points balance with the sum of its ledger entries.
Exits non-zero when any account has drifted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		drifts, err := a.services.Points.Reconcile(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(drifts) == 0 {
			fmt.Fprintln(out, "All balances match the ledger.")
			return nil
		}
		fmt.Fprintf(out, "%-36s  %14s  %14s\n", "ACCOUNT", "STORED", "LEDGER SUM")
		for _, d := range drifts {
			fmt.Fprintf(out, "%-36s  %14d  %14d\n", d.AccountID, d.StoredBalance, d.LedgerSum)
		}
		return fmt.Errorf("%d account(s) drifted from the ledger", len(drifts))
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Clear expired priority listings once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		cleared, err := a.services.Listing.SweepExpiredPriorities(cmd.Context(), time.Now().UTC())
		if err != nil {
			return err
		}
		slog.Info("Priority sweep finished", slog.Int64("cleared", cleared))
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d expired priority listing(s).\n", cleared)
		return nil
	},
}
