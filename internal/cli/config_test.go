package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bgricker/uicheck/internal/config"
	"github.com/spf13/cobra"
)

func newTestCmd(t *testing.T, run func(cmd *cobra.Command)) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "root", SilenceErrors: true, SilenceUsage: true}
	AddSharedFlags(root)
	AddSuiteFlags(root)

	sub := &cobra.Command{
		Use: "sub",
		RunE: func(cmd *cobra.Command, args []string) error {
			run(cmd)
			return nil
		},
	}
	sub.Flags().StringArray("only", nil, "")
	sub.Flags().StringArray("skip", nil, "")
	AddLoadFlags(sub)
	sub.Flags().Bool("headless", false, "")
	sub.Flags().Bool("web", false, "")
	root.AddCommand(sub)
	return root
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	data := []byte("base_url: http://file.test\nreports_dir: file_reports\nbrowser:\n  timeout: 3s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var (
		cfg      config.Config
		warnings []string
		loadErr  error
	)
	cmd := newTestCmd(t, func(cmd *cobra.Command) {
		repo := config.MapEnv{
			config.EnvBaseURL:         "http://env.test",
			config.EnvTakeScreenshots: "true",
			config.EnvLocustUsers:     "many",
		}
		cfg, warnings, loadErr = LoadConfig(cmd, repo)
	})
	cmd.SetArgs([]string{"sub", "--config", path, "--base-url", "http://flag.test", "--only", "valid", "--users", "7", "--web"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if loadErr != nil {
		t.Fatalf("LoadConfig: %v", loadErr)
	}

	if cfg.BaseURL != "http://flag.test" {
		t.Fatalf("flag should win over env and file, got %q", cfg.BaseURL)
	}
	if cfg.ReportsDir != "file_reports" || cfg.Browser.Timeout != 3*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !cfg.Screenshots.Enabled {
		t.Fatalf("env screenshots not applied")
	}
	if len(cfg.Only) != 1 || cfg.Only[0] != "valid" {
		t.Fatalf("unexpected only: %v", cfg.Only)
	}
	if cfg.Load.Users != 7 || cfg.Load.Headless {
		t.Fatalf("unexpected load config: %+v", cfg.Load)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one env warning, got %v", warnings)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var loadErr error
	cmd := newTestCmd(t, func(cmd *cobra.Command) {
		_, _, loadErr = LoadConfig(cmd, config.MapEnv{})
	})
	cmd.SetArgs([]string{"sub", "--config", filepath.Join(t.TempDir(), "missing.yml")})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if loadErr == nil {
		t.Fatalf("expected error for missing --config file")
	}
}

func TestRunnerOptionsRejectsBadPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Only = []string{"/[/"}
	if _, err := RunnerOptions(cfg, nil, nil); err == nil {
		t.Fatalf("expected invalid regexp error")
	}
}

func TestBrowserConfigKeepsDefaultsForZeroValues(t *testing.T) {
	cfg := config.Default()
	cfg.Browser.Width = 0
	cfg.Browser.Timeout = 0
	cfg.Browser.Headless = false

	b := BrowserConfig(cfg)
	if b.Width != 1920 || b.Timeout != 10*time.Second || b.Headless {
		t.Fatalf("unexpected browser config: %+v", b)
	}
}

func TestGatherFlagsRejectsNonPositiveLoadValues(t *testing.T) {
	for _, args := range [][]string{
		{"sub", "--users", "0"},
		{"sub", "--users", "-5"},
		{"sub", "--spawn-rate", "0"},
		{"sub", "--spawn-rate", "-1.5"},
	} {
		t.Run(strings.Join(args[1:], "="), func(t *testing.T) {
			var gatherErr error
			cmd := newTestCmd(t, func(cmd *cobra.Command) {
				_, gatherErr = GatherFlags(cmd)
			})
			cmd.SetArgs(args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if gatherErr == nil || !strings.Contains(gatherErr.Error(), "must be a positive") {
				t.Fatalf("expected positive-value error, got %v", gatherErr)
			}
		})
	}
}
