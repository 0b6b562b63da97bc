// This file contains the standalone verification command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackinit/internal/bootstrap"
	"stackinit/internal/execx"
)

// verifyCmd runs the verification step alone against an already
// bootstrapped workspace.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the runtime and installed packages",
	Long: `Prints the Python interpreter version and the installed packages
matching the plan's expected package names. Zero matches is reported, not
treated as an error.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}

	runner := execx.NewLocal(logger)
	runner.SetTimeout(timeout)

	pipeline := bootstrap.New(bootstrap.Config{
		Workspace: workspace,
		Plan:      plan,
		Runner:    runner,
		Logger:    logger,
		Out:       cmd.OutOrStdout(),
	})

	version, matches, err := pipeline.Verify(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Success.Render("✓ "+version))
	if len(matches) == 0 {
		fmt.Fprintln(out, styles.Muted.Render("no expected packages found"))
		return nil
	}
	for _, line := range matches {
		fmt.Fprintln(out, "  "+line)
	}
	return nil
}
