package version

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
)

func fakeTool(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDetectLocust(t *testing.T) {
	bin := fakeTool(t, "locust", `echo "locust 2.20.1 from /usr/lib/python3/site-packages/locust (python 3.11.4)"`)

	info, err := NewDetector(command.NewFactory(env.NewRepository())).DetectLocust(bin)
	if err != nil {
		t.Fatalf("DetectLocust: %v", err)
	}
	if info.Name != "locust" || info.Version != "2.20.1" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestDetectLocustUnparsable(t *testing.T) {
	bin := fakeTool(t, "locust", `echo "something else"`)

	if _, err := NewDetector(command.NewFactory(env.NewRepository())).DetectLocust(bin); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDetectLocustMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "locust")

	_, err := NewDetector(command.NewFactory(env.NewRepository())).DetectLocust(missing)
	if err == nil {
		t.Fatalf("expected error for missing executable")
	}
	if !Missing(err) {
		t.Fatalf("expected Missing(err) for %v", err)
	}
}
