package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		output string
		format string
		keep   bool
	)
	cmd := &cobra.Command{
		Use:   "run <definition>",
		Short: "Fill in a form interactively",
		Long: `Prompt for every visible step of the form definition and print the
collected answers once the last step is submitted. Saved answers from an
earlier run are restored first and removed after a successful submit
unless --keep is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := definition.LoadFile(args[0])
			if err != nil {
				return err
			}

			backend, err := a.openBackend()
			if err != nil {
				return err
			}
			defer closeBackend(backend, a.logger)

			opts := a.engineOptions()
			if backend != nil {
				opts = append(opts, engine.WithPersistence(a.newStore(backend, "")))
			}
			e := engine.New(form, opts...)

			if format == "" {
				format = a.cfg.TUI.OutputFormat
			}
			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr(), "")
			}
			renderer, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithBackNavigation(a.cfg.TUI.AllowBackNavigation),
				tui.WithPageSize(a.cfg.TUI.PageSize),
				tui.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			payload, err := renderer.Render(cmd.Context(), e)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, payload); err != nil {
				return err
			}
			if !keep {
				e.Reset()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, form, pretty (defaults to tui.output_format)")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the saved answers after submitting")
	return cmd
}

func writeOutput(cmd *cobra.Command, path string, payload []byte) error {
	if path == "" {
		printf(cmd.OutOrStdout(), "%s\n", payload)
		return nil
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printf(cmd.ErrOrStderr(), "Form data written to %s\n", path)
	return nil
}
