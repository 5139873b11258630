package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoReports indicates that no XML report was found during discovery.
var ErrNoReports = errors.New("no xml reports discovered")

// LatestReport returns the most recently modified *.xml file in dir. Files with
// equal modification times are ordered by name and the last one wins.
func LatestReport(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("report dir %q: %w", dir, ErrNoReports)
		}
		return "", fmt.Errorf("stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("report dir %q is not a directory", dir)
	}

	pattern := filepath.Join(dir, "*.xml")
	found, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(found)

	var (
		latest    string
		latestMod int64
	)
	for _, path := range found {
		fi, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat %q: %w", path, err)
		}
		if fi.IsDir() {
			continue
		}
		if mod := fi.ModTime().UnixNano(); latest == "" || mod >= latestMod {
			latest, latestMod = path, mod
		}
	}
	if latest == "" {
		return "", fmt.Errorf("report dir %q: %w", dir, ErrNoReports)
	}
	return latest, nil
}

// Screenshots returns the *.png files in dir whose base name contains key,
// sorted by name. A missing dir or empty key yields no screenshots.
func Screenshots(dir, key string) ([]string, error) {
	if dir == "" || key == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %q: %w", dir, err)
	}

	pattern := filepath.Join(dir, "*.png")
	found, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var matches []string
	for _, path := range found {
		if strings.Contains(filepath.Base(path), key) {
			matches = append(matches, path)
		}
	}
	sort.Strings(matches)
	return matches, nil
}
