package cli

import (
	"github.com/spf13/cobra"
)

var ec2Opts struct {
	env  string
	show bool
}

var ec2Cmd = &cobra.Command{
	Use:   "ec2",
	Short: "Pick an EC2 instance by role and connect to it",
	Long: `Enumerate the roles running in an environment, pick one, pick an
instance carrying that role, and open a shell to it.

Role lists are cached per environment under the cache directory; delete
the <env>.roles file there to pick up newly deployed roles.`,
	Example: `  hop ec2
  hop ec2 -e staging
  hop ec2 --show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := ""
		if cmd.Flags().Changed("env") {
			env = ec2Opts.env
		}
		deps, err := setupPipeline(cmd.Context(), env)
		if err != nil {
			return err
		}
		target, ok, err := deps.session.EC2Target(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return deps.connect(target, "", ec2Opts.show)
	},
}

func init() {
	ec2Cmd.Flags().StringVarP(&ec2Opts.env, "env", "e", "prod", "environment tag value to search")
	ec2Cmd.Flags().BoolVar(&ec2Opts.show, "show", false, "print the connection details instead of connecting")
	rootCmd.AddCommand(ec2Cmd)
}
