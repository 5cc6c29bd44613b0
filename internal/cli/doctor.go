package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hop/internal/aws"
	"github.com/rileyhilliard/hop/internal/config"
	"github.com/rileyhilliard/hop/internal/dispatch"
	"github.com/rileyhilliard/hop/internal/doctor"
	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/ui"
	"github.com/rileyhilliard/hop/internal/util"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that hop's dependencies and credentials are in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		probe := dispatch.SystemProbe()
		checks := []doctor.Check{
			&doctor.BinaryCheck{Binary: "ssh", Required: true, Probe: probe},
			&doctor.BinaryCheck{Binary: "mssh", Probe: probe},
			&doctor.CacheDirCheck{Dir: settings.CacheDir},
			&doctor.SSHKeyCheck{},
			&doctor.SSHConfigCheck{},
		}
		clients, err := aws.NewClients(cmd.Context(), settings.Region)
		checks = append(checks, credentialsCheck(clients, err))

		results := doctor.RunAll(checks)
		failed := 0
		for _, r := range results {
			printResult(cmd, r)
			if r.Status == doctor.StatusFail {
				failed++
			}
		}
		if doctor.AnyFailed(results) {
			return errors.New(errors.ErrDeps,
				fmt.Sprintf("%d %s failed", failed, util.Pluralize(failed, "check", "checks")),
				"Fix the items marked "+ui.SymbolFail+" above")
		}
		return nil
	},
}

// credentialsCheck builds the credentials check. When the SDK config
// cannot even be loaded, the failure is recorded as a check result so the
// report never goes all-green with credentials unverified.
func credentialsCheck(clients *aws.Clients, err error) doctor.Check {
	if err != nil {
		return &doctor.StaticCheck{Result: doctor.CheckResult{
			Name:       "aws credentials",
			Status:     doctor.StatusFail,
			Message:    "failed to load AWS configuration",
			Suggestion: "Check your AWS_PROFILE / shared config, or run 'aws configure'",
		}}
	}
	return &doctor.CredentialsCheck{STS: clients.STS}
}

func printResult(cmd *cobra.Command, r doctor.CheckResult) {
	symbol := ui.Styled(ui.SymbolSuccess, ui.ColorSuccess)
	switch r.Status {
	case doctor.StatusWarn:
		symbol = ui.Styled(ui.SymbolWarn, ui.ColorWarning)
	case doctor.StatusFail:
		symbol = ui.Styled(ui.SymbolFail, ui.ColorError)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", symbol, r.Name, r.Message)
	if r.Suggestion != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.Styled(r.Suggestion, ui.ColorMuted))
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
