package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/bgricker/uicheck/internal/aggregate"
	"github.com/bgricker/uicheck/internal/cli"
	"github.com/bgricker/uicheck/internal/distribute"
	"github.com/bgricker/uicheck/internal/output"
	"github.com/bgricker/uicheck/internal/report"
	"github.com/bgricker/uicheck/internal/runner"
	"github.com/bgricker/uicheck/internal/workbook"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

var banner = strings.Repeat("=", 80)

func runReport(cmd *cobra.Command, d deps) error {
	cfg, warnings, err := cli.LoadConfig(cmd, d.env)
	if err != nil {
		return err
	}
	for _, msg := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}
	if !cmd.Flags().Changed("screenshots") {
		cfg.Screenshots.Enabled = true
	}

	flags := cmd.Flags()
	openReport, err := flags.GetBool("open")
	if err != nil {
		return fmt.Errorf("parse --open: %w", err)
	}
	download, err := flags.GetBool("download")
	if err != nil {
		return fmt.Errorf("parse --download: %w", err)
	}
	downloadsDir, err := flags.GetString("downloads-dir")
	if err != nil {
		return fmt.Errorf("parse --downloads-dir: %w", err)
	}

	out := cmd.OutOrStdout()
	logger := cli.NewLogger(cfg)

	fmt.Fprintln(out, banner)
	fmt.Fprintln(out, "RUNNING SELENIUM UI TESTS")
	fmt.Fprintln(out, banner)

	opts, err := cli.RunnerOptions(cfg, d.launcher(cli.BrowserConfig(cfg)), logger)
	if err != nil {
		return err
	}
	opts.Now = d.now
	res := runSuite(cmd, opts, cfg.Screenshots.Dir)
	if res.Status == report.StatusPassed {
		fmt.Fprintln(out, "\n✅ Selenium UI tests passed!")
	} else {
		fmt.Fprintln(out, "\n❌ Selenium UI tests failed.")
	}
	output.RenderTable(out, res)

	fmt.Fprintln(out, "\n"+banner)
	fmt.Fprintln(out, "GENERATING EXCEL REPORT")
	fmt.Fprintln(out, banner)

	path, err := workbook.Build(res).Save(cfg.ReportsDir, d.now())
	if err != nil {
		return err
	}
	size := ""
	if info, err := os.Stat(path); err == nil {
		size = fmt.Sprintf(" (%s)", units.HumanSize(float64(info.Size())))
	}
	fmt.Fprintf(out, "Excel report generated: %s%s\n", path, size)

	// Delivery failures are logged and leave the exit code alone.
	distribute.New(logger, downloadsDir, d.opener).Distribute(path, distribute.Options{
		Download: download,
		Open:     openReport,
	})

	fmt.Fprintln(out, "\n"+banner)
	fmt.Fprintf(out, "TESTING COMPLETE - Report: %s\n", path)
	fmt.Fprintln(out, banner)

	if res.ExitCode != 0 {
		return &cli.ExitError{Code: res.ExitCode}
	}
	return nil
}

// runSuite runs every test with XML output and aggregates the report. A run
// that cannot execute at all yields an ERROR result without cases.
func runSuite(cmd *cobra.Command, opts runner.Options, shotsDir string) report.SuiteResult {
	run, err := runner.New(opts).RunAll(cmd.Context(), true)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Error running Selenium tests: %s\n", err)
		return aggregate.RunFailed(aggregate.SuiteName)
	}

	cases := aggregate.New(opts.Logger).ParseDir(run.ReportDir, shotsDir)
	return aggregate.BuildSuiteResult(aggregate.SuiteName, run.Success, cases, shotsDir)
}
