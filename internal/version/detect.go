package version

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"

	"github.com/bitrise-io/go-utils/v2/command"
)

// Info captures a tool version installed on the system.
type Info struct {
	Name    string
	Version string
}

var locustRegex = regexp.MustCompile(`(?i)locust\s+(\d+\.\d+(?:\.\d+)?)`)

// Detector runs tools through a command factory.
type Detector struct {
	factory command.Factory
}

// NewDetector creates a detector running tools through factory.
func NewDetector(factory command.Factory) Detector {
	return Detector{factory: factory}
}

// DetectLocust returns the locust version by calling `<bin> --version`.
func (d Detector) DetectLocust(bin string) (Info, error) {
	out, err := d.runCommand(bin, "--version")
	if err != nil {
		return Info{}, err
	}
	match := locustRegex.FindStringSubmatch(out)
	if len(match) < 2 {
		return Info{}, fmt.Errorf("unable to parse locust version from %q", out)
	}
	return Info{Name: "locust", Version: match[1]}, nil
}

func (d Detector) runCommand(name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("%s executable not found: %w", name, err)
	}
	cmd := d.factory.Create(name, args, nil)
	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s failed: %s: %w", cmd.PrintableCommandArgs(), out, err)
	}
	return out, nil
}

// Missing reports whether executing the command returns a not-found error.
// Explicit paths that do not exist count as missing too.
func Missing(cmdErr error) bool {
	return errors.Is(cmdErr, exec.ErrNotFound) || errors.Is(cmdErr, fs.ErrNotExist)
}
