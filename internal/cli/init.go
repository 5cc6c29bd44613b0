package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/hop/internal/config"
	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/ui"
)

var initOpts struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a starter config file to ` + "`~/.config/hop/config.yaml`" + `.

If a config file already exists you are asked before it is replaced;
--force skips the prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(initOpts.force)
	},
}

func runInit(force bool) error {
	path := config.Path()
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine config file path",
			"Check that your home directory is set")
	}

	if _, err := os.Stat(path); err == nil && !force {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Use --force to overwrite it")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
		force = true
	}

	if err := config.WriteDefault(path, force); err != nil {
		return err
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, path)
	fmt.Println("Next steps:")
	fmt.Println("  hop ec2     - connect to an EC2 instance by role")
	fmt.Println("  hop ecs     - connect to the instance hosting an ECS task")
	fmt.Println("  hop doctor  - check dependencies and credentials")
	return nil
}

func init() {
	initCmd.Flags().BoolVar(&initOpts.force, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
