package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hop/internal/errors"
)

var ecsOpts struct {
	justShow bool
	ssh      bool
	mssh     bool
}

var ecsCmd = &cobra.Command{
	Use:   "ecs",
	Short: "Pick an ECS task and connect to its host instance",
	Long: `Walk cluster, service, and task menus, then resolve the EC2 instance
hosting the chosen task and open a shell to it. The login user is
inferred from the instance's AMI (ubuntu images get "ubuntu", anything
else gets "ec2-user").

mssh connects through EC2 Instance Connect and needs the instance ID;
plain ssh uses the private IP. Without --ssh or --mssh the client comes
from the ssh_binary config key (or EC2_SSH_BINARY), falling back to
mssh when installed and ssh otherwise.`,
	Example: `  hop ecs
  hop ecs -j
  hop ecs --ssh`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		explicit, err := explicitClient(ecsOpts.ssh, ecsOpts.mssh)
		if err != nil {
			return err
		}
		deps, err := setupPipeline(cmd.Context(), "")
		if err != nil {
			return err
		}
		target, ok, err := deps.session.ECSTarget(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return deps.connect(target, explicit, ecsOpts.justShow)
	},
}

// explicitClient maps the --ssh/--mssh flags to a forced client name.
func explicitClient(ssh, mssh bool) (string, error) {
	switch {
	case ssh && mssh:
		return "", errors.New(errors.ErrUsage,
			"--ssh and --mssh are mutually exclusive",
			"Pass at most one of them")
	case ssh:
		return "ssh", nil
	case mssh:
		return "mssh", nil
	}
	return "", nil
}

func init() {
	ecsCmd.Flags().BoolVarP(&ecsOpts.justShow, "just-show", "j", false, "print the connection details instead of connecting")
	ecsCmd.Flags().BoolVar(&ecsOpts.ssh, "ssh", false, "connect with plain ssh")
	ecsCmd.Flags().BoolVar(&ecsOpts.mssh, "mssh", false, "connect with mssh (EC2 Instance Connect)")
	rootCmd.AddCommand(ecsCmd)
}
