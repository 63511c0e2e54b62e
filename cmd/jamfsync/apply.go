package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mosen/jamfsync/internal/jamf"
	"github.com/mosen/jamfsync/internal/logger"
	"github.com/mosen/jamfsync/internal/model"
	"github.com/mosen/jamfsync/internal/reconcile"
	"github.com/mosen/jamfsync/internal/tui"
)

type applyOptions struct {
	Spec           specOptions
	ConfigPath     string
	Workers        int
	Verbose        bool
	DryRun         bool
	NonInteractive bool
}

var applyCmdRunner = runApply

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply [spec-path]",
		Short: "Apply declared configuration to the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Spec.Path = args[0]
			}
			opts.ConfigPath = root.configPath
			opts.Workers = root.workers
			opts.Verbose = root.verbose
			opts.NonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))

			if err := opts.Spec.validate(); err != nil {
				return err
			}
			return applyCmdRunner(opts)
		},
	}

	addSpecFlags(cmd, &opts.Spec)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compute and report changes without applying them")

	return cmd
}

func runApply(opts applyOptions) error {
	if opts.ConfigPath == "" {
		return fmt.Errorf("a server connection configuration is required (--config)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
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

	objects, name, err := loadObjects(ctx, opts.Spec)
	if err != nil {
		return err
	}

	interactive := !opts.NonInteractive

	var program *tea.Program
	done := make(chan error, 1)
	if interactive {
		program = tea.NewProgram(tui.NewModel(name, objects).WithCancel(cancel))
		go func() {
			_, runErr := program.Run()
			done <- runErr
		}()
	}

	reconciler := reconcile.New(client, reconcile.Options{
		Workers: opts.Workers,
		DryRun:  opts.DryRun,
		Logger:  log,
		Notify: func(event reconcile.Event) {
			if program != nil {
				program.Send(tui.EventMsg{Event: event})
			}
		},
	})

	report, runErr := reconciler.Run(ctx, objects)

	if interactive {
		program.Send(tui.DoneMsg{Report: report})
		if programErr := <-done; programErr != nil {
			return programErr
		}
	} else {
		fmt.Fprint(os.Stdout, tui.RenderReport(report, opts.DryRun))
	}

	if runErr != nil {
		return runErr
	}
	if report.Outcome() == model.OutcomePartial {
		return fmt.Errorf("one or more objects could not be applied")
	}
	return nil
}
