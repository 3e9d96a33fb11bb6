package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

// checkCommand creates the check command, which reconciles without
// rendering.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <snapshot>",
		Short: "Check that a snapshot reconciles into a consistent graph",
		Long: `Check runs reconciliation only and prints a summary. It exits with status 2
when the snapshot violates a consistency rule and 1 on any other error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			snap, err := snapshot.ReadFile(input)
			if err != nil {
				return err
			}

			runner := c.newRunner(true)
			defer runner.Close()

			topo, err := runner.Reconcile(cmd.Context(), snap)
			if err != nil {
				if lgerrors.IsViolation(err) {
					printError("%s is inconsistent", input)
					printDetail("%s: %s", lgerrors.GetCode(err), lgerrors.UserMessage(err))
				}
				return err
			}

			stats := topo.Stats()
			printSuccess("%s is consistent", input)
			printKeyValue("Nodes", fmt.Sprint(stats.Nodes))
			printKeyValue("Complete", fmt.Sprint(stats.Complete))
			printKeyValue("One-sided", fmt.Sprint(stats.OneSided))
			if stats.DroppedLinks > 0 {
				printWarning("%d links without a neighbor were skipped", stats.DroppedLinks)
			}
			return nil
		},
	}
}
