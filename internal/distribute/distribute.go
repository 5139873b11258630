// Package distribute copies a finished report to the downloads folder and
// opens it. Every step is best effort.
package distribute

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/hashicorp/go-multierror"
)

// Options select the steps to run.
type Options struct {
	Download bool
	Open     bool
}

// Opener hands a file to the OS default application.
type Opener interface {
	Open(path string) error
}

// Outcome records what happened. Err collects every failed step.
type Outcome struct {
	Downloaded string
	Opened     string
	Err        error
}

// Failures returns the individual step failures.
func (o Outcome) Failures() []error {
	if o.Err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(o.Err, &merr) {
		return merr.Errors
	}
	return []error{o.Err}
}

// Distributor delivers a finished report to the user.
type Distributor struct {
	logger       log.Logger
	downloadsDir string
	opener       Opener
}

// New creates a distributor. An empty downloadsDir resolves the user's
// downloads folder; a nil opener uses the platform default.
func New(logger log.Logger, downloadsDir string, opener Opener) *Distributor {
	if logger == nil {
		logger = log.NewLogger()
	}
	if downloadsDir == "" {
		downloadsDir = xdg.UserDirs.Download
	}
	if opener == nil {
		opener = NewCommandOpener(command.NewFactory(env.NewRepository()), runtime.GOOS)
	}
	return &Distributor{logger: logger, downloadsDir: downloadsDir, opener: opener}
}

// Distribute runs the requested steps independently. With both steps the
// downloaded copy is opened when the copy succeeded, otherwise the original.
func (d *Distributor) Distribute(reportPath string, opts Options) Outcome {
	var (
		out  Outcome
		merr *multierror.Error
	)
	target := reportPath

	if opts.Download {
		copied, err := d.CopyToDownloads(reportPath)
		if err != nil {
			d.logger.Warnf("Error copying report to Downloads folder: %s", err)
			merr = multierror.Append(merr, err)
		} else {
			d.logger.Donef("Report copied to Downloads folder: %s", copied)
			out.Downloaded = copied
			target = copied
		}
	}

	if opts.Open {
		if err := d.opener.Open(target); err != nil {
			d.logger.Warnf("Could not open report automatically: %s", err)
			d.logger.Printf("Please open the file manually: %s", target)
			merr = multierror.Append(merr, err)
		} else {
			d.logger.Donef("Opened report: %s", target)
			out.Opened = target
		}
	}

	out.Err = merr.ErrorOrNil()
	return out
}

// CopyToDownloads copies reportPath into the downloads folder, keeping its
// modification time. The folder must already exist.
func (d *Distributor) CopyToDownloads(reportPath string) (string, error) {
	info, err := os.Stat(d.downloadsDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("downloads folder not found at %s", d.downloadsDir)
	}
	dest := filepath.Join(d.downloadsDir, filepath.Base(reportPath))
	same, err := sameFile(reportPath, dest)
	if err != nil {
		return "", err
	}
	if same {
		d.logger.Debugf("Report already in Downloads folder: %s", dest)
		return dest, nil
	}
	if err := copyFile(reportPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// sameFile reports whether dest already is src. A missing dest is not.
func sameFile(src, dest string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", src, err)
	}
	destInfo, err := os.Stat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", dest, err)
	}
	return os.SameFile(srcInfo, destInfo), nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}

// CommandOpener opens files with the platform's default-handler command.
type CommandOpener struct {
	factory command.Factory
	goos    string
}

// NewCommandOpener returns an opener that runs the OpenCommand for goos through
// factory.
func NewCommandOpener(factory command.Factory, goos string) CommandOpener {
	return CommandOpener{factory: factory, goos: goos}
}

// Open runs the handler command and waits for it to return.
func (o CommandOpener) Open(path string) error {
	name, args := OpenCommand(o.goos, path)
	cmd := o.factory.Create(name, args, nil)
	if out, err := cmd.RunAndReturnTrimmedCombinedOutput(); err != nil {
		if out != "" {
			return fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), out)
		}
		return fmt.Errorf("%s failed: %w", cmd.PrintableCommandArgs(), err)
	}
	return nil
}

// OpenCommand returns the command that opens path on goos.
func OpenCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}
