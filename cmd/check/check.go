// Package check handles the input validation command
package check

import (
	"fmt"

	"fjacquet/osp-migrate/cmd/common"
	"fjacquet/osp-migrate/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the check command
var Cmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and every input file without converting",
	Long: `Check loads the configuration, the chart of accounts and every input
file exactly as convert would, and reports the first fatal problem. No
output file is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if root.AppContainer == nil {
			return fmt.Errorf("application is not initialized")
		}
		res, err := common.Check(root.AppContainer)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d subawards, %d invoices\n", res.Subawards, res.Invoices)
		return nil
	},
}
