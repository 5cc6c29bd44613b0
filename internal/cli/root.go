package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hop/internal/errors"
)

// rootCmd is the base command all subcommands hang off.
var rootCmd = &cobra.Command{
	Use:   "hop",
	Short: "Find an AWS instance and open a shell to it",
	Long: `hop locates a running compute instance in your AWS account and opens
an interactive shell to it.

Two pipelines are available:

  hop ec2    Pick an environment role, then an instance, and connect.
  hop ecs    Pick a cluster, service, and task, then connect to the
             EC2 instance hosting it.

Both pipelines present fuzzy-filterable menus; press esc at any menu to
bail out without connecting. Selection state never persists between runs
except the per-environment role cache under ~/.cache/hop (delete a
<env>.roles file to force a refresh).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Flag parse failures are the one class of error that exits 2.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.WrapWithCode(err, errors.ErrFlag,
			"Illegal option",
			"Run '"+cmd.CommandPath()+" --help' for usage")
	})
}

// Execute runs the CLI and exits the process with the mapped status code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
