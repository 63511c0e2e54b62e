package main

import (
	"github.com/spf13/cobra"
)

func newPlanCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "plan [spec-path]",
		Short: "Show the changes apply would make, without touching the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Spec.Path = args[0]
			}
			opts.ConfigPath = root.configPath
			opts.Workers = root.workers
			opts.Verbose = root.verbose
			opts.DryRun = true
			// Plan output lists field diffs, which the interactive display
			// collapses, so always render the plain report.
			opts.NonInteractive = true

			if err := opts.Spec.validate(); err != nil {
				return err
			}
			return applyCmdRunner(opts)
		},
	}

	addSpecFlags(cmd, &opts.Spec)

	return cmd
}
