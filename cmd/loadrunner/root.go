package main

import (
	"errors"
	"fmt"

	"github.com/bgricker/uicheck/internal/cli"
	"github.com/bgricker/uicheck/internal/loadtest"
	"github.com/bgricker/uicheck/internal/version"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/spf13/cobra"
)

type deps struct {
	env     env.Repository
	factory command.Factory
}

func defaultDeps() deps {
	repo := env.NewRepository()
	return deps{env: repo, factory: command.NewFactory(repo)}
}

func newRootCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "loadrunner",
		Short:         "loadrunner launches a locust load test against the application",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, d)
		},
	}

	cli.AddSharedFlags(cmd)
	cli.AddLoadFlags(cmd)
	flags := cmd.Flags()
	flags.Bool("headless", false, "run without the web UI and save CSV results")
	flags.Bool("web", false, "start the locust web UI")
	flags.Bool("check-host", false, "check that the target host answers before starting")
	cmd.MarkFlagsMutuallyExclusive("headless", "web")

	return cmd
}

func runLoad(cmd *cobra.Command, d deps) error {
	cfg, warnings, err := cli.LoadConfig(cmd, d.env)
	if err != nil {
		return err
	}
	for _, msg := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}
	checkHost, err := cmd.Flags().GetBool("check-host")
	if err != nil {
		return fmt.Errorf("parse --check-host: %w", err)
	}

	logger := cli.NewLogger(cfg)
	launcher := loadtest.New(loadtest.FromConfig(cfg.Load), loadtest.Options{
		Factory: d.factory,
		Logger:  logger,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})

	info, err := launcher.Version()
	switch {
	case err != nil && version.Missing(err):
		return fmt.Errorf("locust is not installed, install it with 'pip install locust': %w", err)
	case err != nil:
		logger.Warnf("Could not detect locust version: %s", err)
	default:
		logger.Debugf("Using %s %s", info.Name, info.Version)
	}

	if checkHost {
		if err := launcher.CheckHost(cmd.Context()); err != nil {
			logger.Warnf("Target host did not answer: %s", err)
		} else {
			logger.Donef("Target host %s is up", cfg.Load.Host)
		}
	}

	err = launcher.Run(cmd.Context())
	var subErr *loadtest.SubprocessError
	if errors.As(err, &subErr) {
		return &cli.ExitError{Code: subErr.ExitCode}
	}
	return err
}
