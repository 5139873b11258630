package main

import (
	"time"

	"github.com/bgricker/uicheck/internal/browser"
	"github.com/bgricker/uicheck/internal/cli"
	"github.com/bgricker/uicheck/internal/distribute"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/spf13/cobra"
)

// deps are the process boundaries the report pipeline touches.
type deps struct {
	env      env.Repository
	launcher func(browser.Config) browser.Launcher
	opener   distribute.Opener
	now      func() time.Time
}

func defaultDeps() deps {
	return deps{
		env: env.NewRepository(),
		launcher: func(cfg browser.Config) browser.Launcher {
			return browser.NewRodLauncher(cfg)
		},
		now: time.Now,
	}
}

func newRootCmd(d deps) *cobra.Command {
	if d.now == nil {
		d.now = time.Now
	}
	cmd := &cobra.Command{
		Use:           "uireport",
		Short:         "uireport runs the UI tests and builds an xlsx report",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, d)
		},
	}

	cli.AddSharedFlags(cmd)
	cli.AddSuiteFlags(cmd)
	flags := cmd.Flags()
	flags.Bool("open", false, "open the report after generation")
	flags.Bool("download", false, "copy the report to the Downloads folder")
	flags.String("downloads-dir", "", "downloads folder (default: the user's Downloads directory)")

	return cmd
}
