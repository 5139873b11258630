package aggregate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bgricker/uicheck/internal/aggregate"
	"github.com/bgricker/uicheck/internal/report"
	"github.com/bgricker/uicheck/internal/runner"
	"github.com/bgricker/uicheck/internal/suite"
	"github.com/bgricker/uicheck/internal/suite/suitetest"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeXML(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseFileMixedStatuses(t *testing.T) {
	path := writeXML(t, t.TempDir(), "TEST-mixed.xml", `<?xml version="1.0" encoding="UTF-8"?>
<testsuites>
  <testsuite name="LoginTest" tests="4">
    <testcase classname="LoginTest" name="test_a" time="0.5"/>
    <testcase classname="LoginTest" name="test_b" time="1.0"><failure message="element not found">trace</failure></testcase>
    <testcase classname="LoginTest" name="test_c"><error message="session died"/></testcase>
    <testcase classname="LoginTest" name="test_d" time="n/a"><failure/></testcase>
  </testsuite>
</testsuites>`)

	got := aggregate.New(log.NewLogger()).ParseFile(path, "")
	want := []report.TestCaseResult{
		{QualifiedName: "LoginTest.test_a", Status: report.StatusPassed, DurationSeconds: 0.5},
		{QualifiedName: "LoginTest.test_b", Status: report.StatusFailed, DurationSeconds: 1.0, Reason: "element not found"},
		{QualifiedName: "LoginTest.test_c", Status: report.StatusError, Reason: "session died"},
		{QualifiedName: "LoginTest.test_d", Status: report.StatusFailed},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cases mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFileSinglePassingScenario(t *testing.T) {
	path := writeXML(t, t.TempDir(), "TEST-login.xml",
		`<testsuite name="LoginTest"><testcase classname="LoginTest" name="test_valid_login" time="1.23"/></testsuite>`)

	got := aggregate.New(log.NewLogger()).ParseFile(path, t.TempDir())
	require.Len(t, got, 1)
	assert.Equal(t, "LoginTest.test_valid_login", got[0].QualifiedName)
	assert.Equal(t, report.StatusPassed, got[0].Status)
	assert.Equal(t, 1.23, got[0].DurationSeconds)
	assert.Empty(t, got[0].Screenshots)
}

func TestParseFileZeroCases(t *testing.T) {
	path := writeXML(t, t.TempDir(), "TEST-empty.xml", `<testsuites><testsuite name="Empty" tests="0"/></testsuites>`)

	cases := aggregate.New(log.NewLogger()).ParseFile(path, "")
	require.NotNil(t, cases)
	assert.Empty(t, cases)

	sum := aggregate.BuildSuiteResult("Empty", true, cases, "").Summary()
	assert.Equal(t, report.Summary{}, sum)
}

func TestParseFileMalformedDegradesToEmpty(t *testing.T) {
	path := writeXML(t, t.TempDir(), "TEST-bad.xml", `<testsuites><testsuite name="x">`)

	cases := aggregate.New(log.NewLogger()).ParseFile(path, "")
	require.NotNil(t, cases)
	assert.Empty(t, cases)
}

func TestParseDirPicksLatestAndMissingDir(t *testing.T) {
	dir := t.TempDir()
	old := writeXML(t, dir, "TEST-old.xml", `<testsuite name="S"><testcase classname="S" name="test_old"/></testsuite>`)
	writeXML(t, dir, "TEST-new.xml", `<testsuite name="S"><testcase classname="S" name="test_new"/></testsuite>`)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	agg := aggregate.New(log.NewLogger())
	got := agg.ParseDir(dir, "")
	require.Len(t, got, 1)
	assert.Equal(t, "S.test_new", got[0].QualifiedName)

	assert.Empty(t, agg.ParseDir(filepath.Join(dir, "missing"), ""))
}

func TestScreenshotsAssociatedBySubstring(t *testing.T) {
	shots := t.TempDir()
	for _, name := range []string{
		"02_invalid_login_before_20240301-103000.png",
		"02_invalid_login_error_20240301-103001.png",
		"03_valid_login_before_20240301-103002.png",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(shots, name), []byte("png"), 0o644))
	}
	path := writeXML(t, t.TempDir(), "TEST-S.xml", `<testsuite name="S">
  <testcase classname="S" name="test_02_invalid_login"/>
  <testcase classname="S" name="test_03_valid_login"/>
  <testcase classname="S" name="test_01_login_page_elements"/>
</testsuite>`)

	got := aggregate.New(log.NewLogger()).ParseFile(path, shots)
	require.Len(t, got, 3)
	assert.Equal(t, []string{
		filepath.Join(shots, "02_invalid_login_before_20240301-103000.png"),
		filepath.Join(shots, "02_invalid_login_error_20240301-103001.png"),
	}, got[0].Screenshots)
	assert.Equal(t, []string{filepath.Join(shots, "03_valid_login_before_20240301-103002.png")}, got[1].Screenshots)
	assert.Empty(t, got[2].Screenshots)
}

func TestBuildSuiteResult(t *testing.T) {
	cases := []report.TestCaseResult{
		report.NewTestCaseResult("S.test_a", report.StatusPassed, 1, "", nil),
		report.NewTestCaseResult("S.test_b", report.StatusFailed, 1, "nope", nil),
	}

	passed := aggregate.BuildSuiteResult("S", true, cases[:1], "shots")
	assert.Equal(t, report.StatusPassed, passed.Status)
	assert.Equal(t, 0, passed.ExitCode)
	assert.Equal(t, "shots", passed.ScreenshotsDir)

	failed := aggregate.BuildSuiteResult("S", false, cases, "")
	assert.Equal(t, report.StatusFailed, failed.Status)
	assert.Equal(t, 1, failed.ExitCode)

	errored := aggregate.BuildSuiteResult("S", false,
		append(cases, report.NewTestCaseResult("S.test_c", report.StatusError, 0, "boom", nil)), "")
	assert.Equal(t, report.StatusFailed, errored.Status)
	assert.Equal(t, 1, errored.ExitCode)

	broken := aggregate.RunFailed(aggregate.SuiteName)
	assert.Equal(t, report.StatusError, broken.Status)
	assert.Equal(t, 1, broken.ExitCode)
	assert.Empty(t, broken.Cases)

	sum := errored.Summary()
	assert.Equal(t, sum.Total, len(errored.Cases))
	assert.Equal(t, sum.Total, sum.Passed+sum.Failed+sum.Error)
}

func TestRunnerReportRoundTrip(t *testing.T) {
	app := suitetest.LoginApp{BaseURL: "http://app.test", Creds: suitetest.DefaultCredentials, NoDashboard: true}
	shots := t.TempDir()
	r := runner.New(runner.Options{
		Suite:       suite.ContractRenewal(suitetest.DefaultCredentials),
		Launcher:    app.Launcher(),
		BaseURL:     app.BaseURL,
		Timeout:     time.Second,
		Screenshots: suite.Screenshots{Enabled: true, Dir: shots},
		ReportsDir:  t.TempDir(),
	})

	result, err := r.RunAll(context.Background(), true)
	require.NoError(t, err)

	got := aggregate.New(log.NewLogger()).ParseDir(result.ReportDir, shots)
	require.Len(t, got, len(result.Cases))
	for i, c := range result.Cases {
		assert.Equal(t, suite.ContractRenewalName+"."+c.Name, got[i].QualifiedName)
		assert.Equal(t, c.Status, got[i].Status)
		assert.Equal(t, c.Reason, got[i].Reason)
		assert.NotEmpty(t, got[i].Screenshots, "case %s should have screenshots", c.Name)
	}
	assert.Equal(t, report.StatusFailed, got[2].Status)
}
