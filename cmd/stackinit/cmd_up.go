// This file contains the bootstrap and plan commands.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stackinit/internal/bootstrap"
	"stackinit/internal/config"
	"stackinit/internal/execx"
)

// upCmd runs the full seven-step bootstrap. It is also the root command's
// default action.
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run the full workspace bootstrap",
	Long: `Runs all bootstrap steps against the workspace in order.

A missing dependency manifest or .env.example is reported and skipped; a
missing Python runtime aborts the run with exit code 1 before anything is
created. Everything else is idempotent, so re-running after a failure is
always safe.`,
	RunE: runUp,
}

// planCmd prints the resolved plan so the path data can be inspected
// without touching the filesystem.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the resolved bootstrap plan",
	Long: `Resolves the plan (built-in defaults plus any stackinit.yaml
overrides) and prints it as YAML. Nothing is created.`,
	RunE: runPlan,
}

func loadPlan() (config.Plan, error) {
	path := planFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspace, planFile)
	}
	return config.Load(path)
}

func runUp(cmd *cobra.Command, args []string) error {
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

	_, err = pipeline.Run(cmd.Context())
	return err
}

func runPlan(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.Title.Render("Resolved bootstrap plan"))
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
