package cli

import (
	"fmt"
	"os"

	"github.com/bgricker/uicheck/internal/browser"
	"github.com/bgricker/uicheck/internal/config"
	"github.com/bgricker/uicheck/internal/filter"
	"github.com/bgricker/uicheck/internal/runner"
	"github.com/bgricker/uicheck/internal/suite"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"
)

// LoadConfig resolves the configuration for cmd: defaults, then the config file
// (./.uicheck.yml or --config), then repo, then explicitly set flags. Environment
// values that could not be parsed are returned as warnings.
func LoadConfig(cmd *cobra.Command, repo env.Repository) (config.Config, []string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path = ""
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.LoadFile(path, true)
	} else {
		root, wdErr := os.Getwd()
		if wdErr != nil {
			return config.Config{}, nil, fmt.Errorf("determine working directory: %w", wdErr)
		}
		cfg, err = config.Load(root)
	}
	if err != nil {
		return config.Config{}, nil, err
	}

	warnings := config.ApplyEnv(&cfg, repo)

	flags, err := GatherFlags(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, warnings, nil
}

// NewLogger returns the process logger with debug output following cfg.
func NewLogger(cfg config.Config) log.Logger {
	logger := log.NewLogger()
	logger.EnableDebugLog(cfg.Debug)
	return logger
}

// BrowserConfig maps cfg onto browser launch options.
func BrowserConfig(cfg config.Config) browser.Config {
	b := browser.DefaultConfig()
	b.Headless = cfg.Browser.Headless
	b.Bin = cfg.Browser.Bin
	if cfg.Browser.Timeout > 0 {
		b.Timeout = cfg.Browser.Timeout
	}
	if cfg.Browser.Width > 0 {
		b.Width = cfg.Browser.Width
	}
	if cfg.Browser.Height > 0 {
		b.Height = cfg.Browser.Height
	}
	return b
}

// Credentials maps cfg onto the accounts the login cases submit.
func Credentials(cfg config.Config) suite.Credentials {
	return suite.Credentials{
		ValidUser:       cfg.Credentials.ValidUser,
		ValidPassword:   cfg.Credentials.ValidPassword,
		InvalidUser:     cfg.Credentials.InvalidUser,
		InvalidPassword: cfg.Credentials.InvalidPassword,
	}
}

// RunnerOptions builds runner options for the login suite from cfg.
func RunnerOptions(cfg config.Config, launcher browser.Launcher, logger log.Logger) (runner.Options, error) {
	only, err := filter.Compile(cfg.Only)
	if err != nil {
		return runner.Options{}, fmt.Errorf("parse --only: %w", err)
	}
	skip, err := filter.Compile(cfg.Skip)
	if err != nil {
		return runner.Options{}, fmt.Errorf("parse --skip: %w", err)
	}
	return runner.Options{
		Suite:    suite.ContractRenewal(Credentials(cfg)),
		Launcher: launcher,
		BaseURL:  cfg.BaseURL,
		Timeout:  BrowserConfig(cfg).Timeout,
		Screenshots: suite.Screenshots{
			Enabled: cfg.Screenshots.Enabled,
			Dir:     cfg.Screenshots.Dir,
		},
		ReportsDir: cfg.ReportsDir,
		Only:       only,
		Skip:       skip,
		Logger:     logger,
	}, nil
}
