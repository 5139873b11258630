package main

import (
	"fmt"
	"io"

	"github.com/bgricker/uicheck/internal/browser"
	"github.com/bgricker/uicheck/internal/cli"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/spf13/cobra"
)

// deps are the process boundaries the commands touch.
type deps struct {
	env      env.Repository
	launcher func(browser.Config) browser.Launcher
}

func defaultDeps() deps {
	return deps{
		env: env.NewRepository(),
		launcher: func(cfg browser.Config) browser.Launcher {
			return browser.NewRodLauncher(cfg)
		},
	}
}

func newRootCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "uirunner [test_name]",
		Short:         "uirunner runs the Contract Renewal login UI tests",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printUsage(cmd.OutOrStdout())
				return &cli.ExitError{Code: 1}
			}
			return runTests(cmd, d, args[0])
		},
	}

	cli.AddSharedFlags(cmd)
	cli.AddSuiteFlags(cmd)
	persistent := cmd.PersistentFlags()
	persistent.Bool("xml", false, "write a JUnit XML report")
	persistent.String("format", "pretty", "output format (pretty|json)")

	cmd.AddCommand(newListCmd(d))
	cmd.AddCommand(newAllCmd(d))

	return cmd
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  uirunner all [--xml]           Run all tests")
	fmt.Fprintln(out, "  uirunner list                  List available tests")
	fmt.Fprintln(out, "  uirunner <test_name> [--xml]   Run a specific test")
}
