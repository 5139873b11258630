package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bgricker/uicheck/internal/cli"
	"github.com/bgricker/uicheck/internal/config"
	"github.com/bgricker/uicheck/internal/output"
	"github.com/bgricker/uicheck/internal/runner"
	"github.com/spf13/cobra"
)

func newAllCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run all tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, d, "")
		},
	}
	cmd.Flags().StringArray("only", nil, "run only tests matching pattern (substring or /regex/)")
	cmd.Flags().StringArray("skip", nil, "skip tests matching pattern (substring or /regex/)")
	return cmd
}

// runTests runs every selected test when name is empty, otherwise the named one.
func runTests(cmd *cobra.Command, d deps, name string) error {
	cfg, warnings, err := cli.LoadConfig(cmd, d.env)
	if err != nil {
		return err
	}
	printWarnings(cmd, warnings)

	format := strings.ToLower(cfg.Format)
	if format != config.FormatPretty && format != config.FormatJSON {
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	emitXML, err := cmd.Flags().GetBool("xml")
	if err != nil {
		return fmt.Errorf("parse --xml: %w", err)
	}

	logger := cli.NewLogger(cfg)
	opts, err := cli.RunnerOptions(cfg, d.launcher(cli.BrowserConfig(cfg)), logger)
	if err != nil {
		return err
	}
	r := runner.New(opts)

	var res runner.Result
	if name == "" {
		res, err = r.RunAll(cmd.Context(), emitXML)
	} else {
		res, err = r.RunOne(cmd.Context(), name, emitXML)
	}

	out := cmd.OutOrStdout()
	var notFound *runner.TestNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintf(out, "Error: Test '%s' not found.\n", notFound.Name)
		if err := output.NewPretty(out).RenderList(notFound.Available); err != nil {
			return err
		}
		return &cli.ExitError{Code: 1}
	}
	if err != nil {
		return err
	}

	sr := res.SuiteResult()
	switch format {
	case config.FormatPretty:
		if err := output.NewPretty(out).RenderResults(sr); err != nil {
			return err
		}
	case config.FormatJSON:
		summary := sr.Summary()
		if err := output.NewJSON(out).Render(output.Report{
			Suite:     sr.Name,
			Result:    &sr,
			Summary:   &summary,
			ReportDir: res.ReportDir,
			Warnings:  warnings,
		}); err != nil {
			return err
		}
	}

	if res.ReportDir != "" && format == config.FormatPretty {
		fmt.Fprintf(out, "XML report generated in: %s\n", res.ReportDir)
	}
	if !res.Success {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
