// Package loadtest launches locust as a subprocess.
package loadtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/bgricker/uicheck/internal/config"
	"github.com/bgricker/uicheck/internal/version"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Config is one locust invocation.
type Config struct {
	Binary     string
	Locustfile string
	Host       string
	Users      int
	SpawnRate  float64
	RunTime    string
	Headless   bool
	CSVPrefix  string
	WebPort    int
	Dir        string
}

// FromConfig copies the load section of the application config.
func FromConfig(c config.LoadConfig) Config {
	return Config{
		Binary:     c.Binary,
		Locustfile: c.Locustfile,
		Host:       c.Host,
		Users:      c.Users,
		SpawnRate:  c.SpawnRate,
		RunTime:    c.RunTime,
		Headless:   c.Headless,
		CSVPrefix:  c.CSVPrefix,
		WebPort:    c.WebPort,
	}
}

// Args returns the locust command line without the binary.
func (c Config) Args() []string {
	args := []string{"-f", c.Locustfile}
	if c.Headless {
		args = append(args,
			"--headless",
			"--host", c.Host,
			"--users", strconv.Itoa(c.Users),
			"--spawn-rate", strconv.FormatFloat(c.SpawnRate, 'f', -1, 64),
			"--run-time", c.RunTime,
			"--csv="+c.CSVPrefix,
		)
		return args
	}
	return append(args, "--host", c.Host, "--web-port", strconv.Itoa(c.WebPort))
}

// CSVFiles lists the artifacts a headless run leaves behind.
func (c Config) CSVFiles() []string {
	return []string{
		c.CSVPrefix + "_stats.csv",
		c.CSVPrefix + "_failures.csv",
		c.CSVPrefix + "_history.csv",
	}
}

// WebURL is where the interactive UI listens.
func (c Config) WebURL() string {
	return fmt.Sprintf("http://localhost:%d", c.WebPort)
}

// SubprocessError reports a non-zero locust exit with whatever it printed.
type SubprocessError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("locust exited with code %d", e.ExitCode)
}

// Options wire the launcher's collaborators.
type Options struct {
	Factory    command.Factory
	Logger     log.Logger
	Stdout     io.Writer
	Stderr     io.Writer
	HTTPClient *retryablehttp.Client
}

// Launcher runs locust.
type Launcher struct {
	cfg  Config
	opts Options
}

// New creates a launcher.
func New(cfg Config, opts Options) *Launcher {
	if opts.Factory == nil {
		opts.Factory = command.NewFactory(env.NewRepository())
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger()
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.HTTPClient == nil {
		client := retryhttp.NewClient(opts.Logger)
		client.RetryMax = 2
		client.RetryWaitMin = 500 * time.Millisecond
		client.RetryWaitMax = 2 * time.Second
		client.ErrorHandler = retryablehttp.PassthroughErrorHandler
		opts.HTTPClient = client
	}
	return &Launcher{cfg: cfg, opts: opts}
}

// Version detects the installed locust.
func (l *Launcher) Version() (version.Info, error) {
	return version.NewDetector(l.opts.Factory).DetectLocust(l.cfg.Binary)
}

// CheckHost checks that the target host answers. Server errors count as down.
func (l *Launcher) CheckHost(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, l.cfg.Host, nil)
	if err != nil {
		return fmt.Errorf("build host check request: %w", err)
	}
	resp, err := l.opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("check host %s: %w", l.cfg.Host, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			l.opts.Logger.Warnf("Failed to close body: %s", err)
		}
	}()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("check host %s: unsuccessful status code: %d", l.cfg.Host, resp.StatusCode)
	}
	return nil
}

// Run starts locust and blocks until it exits. A non-zero exit is returned as
// *SubprocessError after its output has been printed.
func (l *Launcher) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.cfg.Headless {
		return l.runHeadless(ctx)
	}
	return l.runInteractive(ctx)
}

func (l *Launcher) commandLine() string {
	return strings.Join(append([]string{l.cfg.Binary}, l.cfg.Args()...), " ")
}

func (l *Launcher) runHeadless(ctx context.Context) error {
	out := l.opts.Stdout
	fmt.Fprintln(out, "Starting Locust in headless mode...")
	fmt.Fprintf(out, "Command: %s\n", l.commandLine())

	var stdout, stderr bytes.Buffer
	cmd := l.opts.Factory.Create(l.cfg.Binary, l.cfg.Args(), &command.Opts{
		Stdout: &stdout,
		Stderr: &stderr,
		Dir:    l.cfg.Dir,
	})
	code, err := cmd.RunAndReturnExitCode()
	stdoutText := stripansi.Strip(stdout.String())
	stderrText := stripansi.Strip(stderr.String())

	if stopped(ctx) {
		fmt.Fprintln(out, "Locust stopped by user")
		return nil
	}
	if err != nil {
		if code <= 0 {
			return fmt.Errorf("run %s: %w", cmd.PrintableCommandArgs(), err)
		}
		serr := &SubprocessError{ExitCode: code, Stdout: stdoutText, Stderr: stderrText}
		fmt.Fprintf(out, "Error running Locust (exit code %d):\n", code)
		fmt.Fprintf(out, "STDOUT: %s\n", stdoutText)
		fmt.Fprintf(out, "STDERR: %s\n", stderrText)
		return serr
	}

	fmt.Fprintln(out, "STDOUT:")
	fmt.Fprintln(out, stdoutText)
	if stderrText != "" {
		fmt.Fprintln(out, "STDERR:")
		fmt.Fprintln(out, stderrText)
	}
	fmt.Fprintln(out, "Locust test completed!")
	files := l.cfg.CSVFiles()
	fmt.Fprintf(out, "Results saved to %s, %s, and %s\n", files[0], files[1], files[2])
	return nil
}

func (l *Launcher) runInteractive(ctx context.Context) error {
	out := l.opts.Stdout
	fmt.Fprintln(out, "Starting Locust with web interface...")
	fmt.Fprintf(out, "Command: %s\n", l.commandLine())
	fmt.Fprintf(out, "Open %s in your browser to access the Locust web interface\n", l.cfg.WebURL())
	fmt.Fprintln(out, "Then enter the number of users and spawn rate to start the test")

	cmd := l.opts.Factory.Create(l.cfg.Binary, l.cfg.Args(), &command.Opts{
		Stdout: l.opts.Stdout,
		Stderr: l.opts.Stderr,
		Dir:    l.cfg.Dir,
	})
	code, err := cmd.RunAndReturnExitCode()
	if stopped(ctx) {
		fmt.Fprintln(out, "Locust stopped by user")
		return nil
	}
	if err != nil {
		if code <= 0 {
			return fmt.Errorf("run %s: %w", cmd.PrintableCommandArgs(), err)
		}
		fmt.Fprintf(out, "Error running Locust (exit code %d)\n", code)
		return &SubprocessError{ExitCode: code}
	}
	fmt.Fprintln(out, "Locust process ended")
	return nil
}

func stopped(ctx context.Context) bool {
	return ctx.Err() != nil
}
