package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mosen/jamfsync/internal/jamf"
	"github.com/mosen/jamfsync/internal/logger"
	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/reconcile"
	"github.com/mosen/jamfsync/internal/tui"
)

type verifyOptions struct {
	Spec       specOptions
	ConfigPath string
	Verbose    bool
	JSON       bool
}

var verifyCmdRunner = runVerify

func newVerifyCmd(root *rootFlags) *cobra.Command {
	opts := verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify [spec-path]",
		Short: "Check whether server state matches the declared configuration",
		Long: `Verify performs read-only checks against the server. Returns exit code 0
when every object is already in its declared state, exit code 1 when any
change would be needed or when any object could not be checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Spec.Path = args[0]
			}
			opts.ConfigPath = root.configPath
			opts.Verbose = root.verbose

			if err := opts.Spec.validate(); err != nil {
				return err
			}
			return verifyCmdRunner(opts)
		},
	}

	addSpecFlags(cmd, &opts.Spec)
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output drift results in JSON format")

	return cmd
}

type driftEntry struct {
	Kind      string   `json:"kind"`
	Name      string   `json:"name"`
	Operation string   `json:"operation"`
	Fields    []string `json:"fields,omitempty"`
}

func runVerify(opts verifyOptions) error {
	if opts.ConfigPath == "" {
		return fmt.Errorf("a server connection configuration is required (--config)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: !opts.JSON})
	if err != nil {
		return err
	}

	cfg, err := jamf.LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	client, err := jamf.NewClient(*cfg, log)
	if err != nil {
		return err
	}

	objects, _, err := loadObjects(ctx, opts.Spec)
	if err != nil {
		return err
	}

	reconciler := reconcile.New(client, reconcile.Options{DryRun: true, Logger: log})
	report, err := reconciler.Run(ctx, objects)
	if err != nil {
		return err
	}

	drift := collectDrift(report)

	if opts.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(drift); err != nil {
			return err
		}
	} else {
		fmt.Fprint(os.Stdout, tui.RenderReport(report, opts.Verbose))
	}

	if unchecked := uncheckedObjects(report); len(unchecked) > 0 {
		return fmt.Errorf("could not verify %s", strings.Join(unchecked, ", "))
	}
	if len(drift) > 0 {
		os.Exit(1)
	}
	return nil
}

// collectDrift lists every object whose observed state differs from its
// declared state.
func collectDrift(report *model.RunReport) []driftEntry {
	var drift []driftEntry
	for _, res := range report.Results {
		if res.Operation == model.OpNoOp || res.Operation == "" {
			continue
		}
		entry := driftEntry{Kind: res.Kind, Name: res.Name, Operation: string(res.Operation)}
		for _, fd := range res.FieldDiffs {
			entry.Fields = append(entry.Fields, fd.Field)
		}
		drift = append(drift, entry)
	}
	return drift
}

// uncheckedObjects lists objects whose state could not be read, typically
// because the fetch failed. The drift listing says nothing about them, so
// a clean listing must not be mistaken for a clean verification.
func uncheckedObjects(report *model.RunReport) []string {
	var unchecked []string
	for _, res := range report.Results {
		if res.Status == model.StatusFailed || res.Status == model.StatusCancelled {
			unchecked = append(unchecked, res.Kind+"/"+res.Name)
		}
	}
	return unchecked
}
