// Command jobctl runs operator tasks against the JobX database.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "jobctl",
		Short:        "Operator commands for the JobX backend",
		SilenceUsage: true,
	}
	root.AddCommand(migrateCmd(), sweepCmd(), promoteAdminCmd(), gmailTokenCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRoot().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
