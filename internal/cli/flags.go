// Package cli holds the flag and configuration plumbing shared by the uicheck binaries.
package cli

import (
	"fmt"

	"github.com/bgricker/uicheck/internal/config"
	"github.com/spf13/cobra"
)

// AddSharedFlags registers the persistent flags every binary understands.
func AddSharedFlags(cmd *cobra.Command) {
	persistent := cmd.PersistentFlags()
	persistent.String("config", "", "path to a config file (default ./"+config.FileName+")")
	persistent.Bool("debug", false, "enable debug logging")
}

// AddSuiteFlags registers the flags that shape a UI suite run.
func AddSuiteFlags(cmd *cobra.Command) {
	persistent := cmd.PersistentFlags()
	persistent.String("base-url", "", "base URL of the application under test")
	persistent.String("reports-dir", "", "directory receiving XML and xlsx reports")
	persistent.Bool("screenshots", false, "capture checkpoint screenshots")
	persistent.String("screenshots-dir", "", "directory receiving screenshots")
	persistent.Bool("headless-browser", true, "run the browser without a window")
}

// AddLoadFlags registers the locust flags.
func AddLoadFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("host", "", "target host for the load test")
	flags.Int("users", 0, "number of simulated users")
	flags.Float64("spawn-rate", 0, "users spawned per second")
	flags.String("run-time", "", "duration of a headless run, e.g. 1m")
	flags.String("locustfile", "", "locustfile to run")
}

// GatherFlags captures the flags that were set explicitly on cmd. Flags cmd does
// not define are skipped.
func GatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	var (
		values config.FlagValues
		err    error
	)

	if values.BaseURL, err = stringFlag(cmd, "base-url"); err != nil {
		return values, err
	}
	if values.ReportsDir, err = stringFlag(cmd, "reports-dir"); err != nil {
		return values, err
	}
	if values.Format, err = stringFlag(cmd, "format"); err != nil {
		return values, err
	}
	if values.Debug, err = boolFlag(cmd, "debug"); err != nil {
		return values, err
	}
	if values.Only, err = sliceFlag(cmd, "only"); err != nil {
		return values, err
	}
	if values.Skip, err = sliceFlag(cmd, "skip"); err != nil {
		return values, err
	}
	if values.Screenshots, err = boolFlag(cmd, "screenshots"); err != nil {
		return values, err
	}
	if values.ScreenshotsDir, err = stringFlag(cmd, "screenshots-dir"); err != nil {
		return values, err
	}
	if values.HeadlessBrowser, err = boolFlag(cmd, "headless-browser"); err != nil {
		return values, err
	}

	if values.LoadHost, err = stringFlag(cmd, "host"); err != nil {
		return values, err
	}
	flags := cmd.Flags()
	if flags.Changed("users") {
		v, err := flags.GetInt("users")
		if err != nil {
			return values, fmt.Errorf("parse --users: %w", err)
		}
		if v <= 0 {
			return values, fmt.Errorf("invalid --users %d: must be a positive integer", v)
		}
		values.LoadUsers = config.IntFlag{Value: v, Set: true}
	}
	if flags.Changed("spawn-rate") {
		v, err := flags.GetFloat64("spawn-rate")
		if err != nil {
			return values, fmt.Errorf("parse --spawn-rate: %w", err)
		}
		if v <= 0 {
			return values, fmt.Errorf("invalid --spawn-rate %g: must be a positive number", v)
		}
		values.LoadSpawnRate = config.FloatFlag{Value: v, Set: true}
	}
	if values.LoadRunTime, err = stringFlag(cmd, "run-time"); err != nil {
		return values, err
	}
	if values.Locustfile, err = stringFlag(cmd, "locustfile"); err != nil {
		return values, err
	}

	// --headless and --web both drive the same setting.
	if values.LoadHeadless, err = boolFlag(cmd, "headless"); err != nil {
		return values, err
	}
	if cmd.Flags().Changed("web") {
		web, err := cmd.Flags().GetBool("web")
		if err != nil {
			return values, fmt.Errorf("parse --web: %w", err)
		}
		values.LoadHeadless = config.BoolFlag{Value: !web, Set: true}
	}

	return values, nil
}

func stringFlag(cmd *cobra.Command, name string) (config.StringFlag, error) {
	flags := cmd.Flags()
	if !flags.Changed(name) {
		return config.StringFlag{}, nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return config.StringFlag{}, fmt.Errorf("parse --%s: %w", name, err)
	}
	return config.StringFlag{Value: v, Set: true}, nil
}

func boolFlag(cmd *cobra.Command, name string) (config.BoolFlag, error) {
	flags := cmd.Flags()
	if !flags.Changed(name) {
		return config.BoolFlag{}, nil
	}
	v, err := flags.GetBool(name)
	if err != nil {
		return config.BoolFlag{}, fmt.Errorf("parse --%s: %w", name, err)
	}
	return config.BoolFlag{Value: v, Set: true}, nil
}

func sliceFlag(cmd *cobra.Command, name string) (config.SliceFlag, error) {
	flags := cmd.Flags()
	if !flags.Changed(name) {
		return config.SliceFlag{}, nil
	}
	v, err := flags.GetStringArray(name)
	if err != nil {
		return config.SliceFlag{}, fmt.Errorf("parse --%s: %w", name, err)
	}
	return config.SliceFlag{Values: append([]string{}, v...)}, nil
}
