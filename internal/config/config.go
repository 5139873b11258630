package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/env"
	"gopkg.in/yaml.v3"
)

// FileName is the optional repository-level configuration file.
const FileName = ".uicheck.yml"

// Config captures runner, report and load-test options sourced from the config file,
// the environment and flags, in that order of precedence.
type Config struct {
	BaseURL    string `yaml:"base_url"`
	ReportsDir string `yaml:"reports_dir"`
	Format     string `yaml:"format"`
	Debug      bool   `yaml:"debug"`

	Only []string `yaml:"only"`
	Skip []string `yaml:"skip"`

	Screenshots ScreenshotConfig  `yaml:"screenshots"`
	Browser     BrowserConfig     `yaml:"browser"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Load        LoadConfig        `yaml:"load"`
}

// ScreenshotConfig controls checkpoint screenshot capture.
type ScreenshotConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// BrowserConfig controls the browser sessions used by the suite.
type BrowserConfig struct {
	Headless bool          `yaml:"headless"`
	Timeout  time.Duration `yaml:"timeout"`
	Bin      string        `yaml:"bin"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
}

// CredentialsConfig holds the accounts the login cases submit.
type CredentialsConfig struct {
	ValidUser       string `yaml:"valid_user"`
	ValidPassword   string `yaml:"valid_password"`
	InvalidUser     string `yaml:"invalid_user"`
	InvalidPassword string `yaml:"invalid_password"`
}

// LoadConfig configures the external load-generation tool.
type LoadConfig struct {
	Binary     string  `yaml:"binary"`
	Locustfile string  `yaml:"locustfile"`
	Host       string  `yaml:"host"`
	Users      int     `yaml:"users"`
	SpawnRate  float64 `yaml:"spawn_rate"`
	RunTime    string  `yaml:"run_time"`
	Headless   bool    `yaml:"headless"`
	CSVPrefix  string  `yaml:"csv_prefix"`
	WebPort    int     `yaml:"web_port"`
}

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"
)

// Default returns the baseline configuration used when no file, env or flags specify values.
func Default() Config {
	return Config{
		BaseURL:    "http://localhost:8000",
		ReportsDir: "test_reports",
		Format:     FormatPretty,
		Screenshots: ScreenshotConfig{
			Dir: filepath.Join("test_reports", "screenshots"),
		},
		Browser: BrowserConfig{
			Headless: true,
			Timeout:  10 * time.Second,
			Width:    1920,
			Height:   1080,
		},
		Credentials: CredentialsConfig{
			ValidUser:       "testuser",
			ValidPassword:   "testpass123",
			InvalidUser:     "invalid_user",
			InvalidPassword: "invalid_password",
		},
		Load: LoadConfig{
			Binary:     "locust",
			Locustfile: "locustfile.py",
			Host:       "http://127.0.0.1:8000",
			Users:      10,
			SpawnRate:  1,
			RunTime:    "10s",
			Headless:   true,
			CSVPrefix:  "locust_results",
			WebPort:    8089,
		},
	}
}

// Load reads .uicheck.yml from root when present. Missing files are ignored.
func Load(root string) (Config, error) {
	return LoadFile(filepath.Join(root, FileName), false)
}

// LoadFile decodes path over the defaults. When required is false a missing file
// yields the defaults.
func LoadFile(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Environment variables consulted by ApplyEnv.
const (
	EnvTakeScreenshots = "TAKE_SCREENSHOTS"
	EnvScreenshotsDir  = "SCREENSHOTS_DIR"
	EnvBaseURL         = "UICHECK_BASE_URL"
	EnvReportsDir      = "UICHECK_REPORTS_DIR"
	EnvLocustHost      = "LOCUST_HOST"
	EnvLocustUsers     = "LOCUST_USERS"
	EnvLocustSpawnRate = "LOCUST_SPAWN_RATE"
	EnvLocustRunTime   = "LOCUST_RUN_TIME"
	EnvLocustFile      = "LOCUST_FILE"
	EnvLocustCSVPrefix = "LOCUST_CSV_PREFIX"
	EnvLocustWebPort   = "LOCUST_WEB_PORT"
)

// ApplyEnv overlays values found in repo onto cfg. Unparsable values are skipped and
// reported as warnings rather than errors.
func ApplyEnv(cfg *Config, repo env.Repository) []string {
	var warnings []string

	if v := strings.TrimSpace(repo.Get(EnvTakeScreenshots)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ignoring %s=%q: not a boolean", EnvTakeScreenshots, v))
		} else {
			cfg.Screenshots.Enabled = b
		}
	}
	if v := repo.Get(EnvScreenshotsDir); v != "" {
		cfg.Screenshots.Dir = v
	}
	if v := repo.Get(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := repo.Get(EnvReportsDir); v != "" {
		cfg.ReportsDir = v
	}

	if v := repo.Get(EnvLocustHost); v != "" {
		cfg.Load.Host = v
	}
	if v := strings.TrimSpace(repo.Get(EnvLocustUsers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			warnings = append(warnings, fmt.Sprintf("ignoring %s=%q: not a positive integer", EnvLocustUsers, v))
		} else {
			cfg.Load.Users = n
		}
	}
	if v := strings.TrimSpace(repo.Get(EnvLocustSpawnRate)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			warnings = append(warnings, fmt.Sprintf("ignoring %s=%q: not a positive number", EnvLocustSpawnRate, v))
		} else {
			cfg.Load.SpawnRate = f
		}
	}
	if v := repo.Get(EnvLocustRunTime); v != "" {
		cfg.Load.RunTime = v
	}
	if v := repo.Get(EnvLocustFile); v != "" {
		cfg.Load.Locustfile = v
	}
	if v := repo.Get(EnvLocustCSVPrefix); v != "" {
		cfg.Load.CSVPrefix = v
	}
	if v := strings.TrimSpace(repo.Get(EnvLocustWebPort)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 65535 {
			warnings = append(warnings, fmt.Sprintf("ignoring %s=%q: not a valid port", EnvLocustWebPort, v))
		} else {
			cfg.Load.WebPort = n
		}
	}

	return warnings
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.BaseURL.Set {
		cfg.BaseURL = flags.BaseURL.Value
	}
	if flags.ReportsDir.Set {
		cfg.ReportsDir = flags.ReportsDir.Value
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.Debug.Set {
		cfg.Debug = flags.Debug.Value
	}
	if len(flags.Only.Values) > 0 {
		cfg.Only = append([]string{}, flags.Only.Values...)
	}
	if len(flags.Skip.Values) > 0 {
		cfg.Skip = append([]string{}, flags.Skip.Values...)
	}
	if flags.Screenshots.Set {
		cfg.Screenshots.Enabled = flags.Screenshots.Value
	}
	if flags.ScreenshotsDir.Set {
		cfg.Screenshots.Dir = flags.ScreenshotsDir.Value
	}
	if flags.HeadlessBrowser.Set {
		cfg.Browser.Headless = flags.HeadlessBrowser.Value
	}
	if flags.LoadHost.Set {
		cfg.Load.Host = flags.LoadHost.Value
	}
	if flags.LoadUsers.Set {
		cfg.Load.Users = flags.LoadUsers.Value
	}
	if flags.LoadSpawnRate.Set {
		cfg.Load.SpawnRate = flags.LoadSpawnRate.Value
	}
	if flags.LoadRunTime.Set {
		cfg.Load.RunTime = flags.LoadRunTime.Value
	}
	if flags.LoadHeadless.Set {
		cfg.Load.Headless = flags.LoadHeadless.Value
	}
	if flags.Locustfile.Set {
		cfg.Load.Locustfile = flags.Locustfile.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	BaseURL         StringFlag
	ReportsDir      StringFlag
	Format          StringFlag
	Debug           BoolFlag
	Only            SliceFlag
	Skip            SliceFlag
	Screenshots     BoolFlag
	ScreenshotsDir  StringFlag
	HeadlessBrowser BoolFlag

	LoadHost      StringFlag
	LoadUsers     IntFlag
	LoadSpawnRate FloatFlag
	LoadRunTime   StringFlag
	LoadHeadless  BoolFlag
	Locustfile    StringFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}

// IntFlag represents an int flag and whether it was set.
type IntFlag struct {
	Value int
	Set   bool
}

// FloatFlag represents a float flag and whether it was set.
type FloatFlag struct {
	Value float64
	Set   bool
}
