package junit

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestParseTestSuitesRoot(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<testsuites>
  <testsuite name="S" tests="2" failures="1" errors="0" time="1.5">
    <properties><property name="run_id" value="abc"/></properties>
    <testcase classname="S" name="test_a" time="1.23"/>
    <testcase classname="S" name="test_b" time="0.27">
      <failure message="boom">trace</failure>
    </testcase>
  </testsuite>
</testsuites>`)

	suites, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, suites, 1)

	id, ok := suites[0].Property(RunIDProperty)
	require.True(t, ok)
	require.Equal(t, "abc", id)

	want := []TestCase{
		{Name: "test_a", ClassName: "S", Time: "1.23"},
		{Name: "test_b", ClassName: "S", Time: "0.27", Failure: &Failure{Message: "boom", Value: "trace"}},
	}
	if diff := cmp.Diff(want, suites[0].TestCases, cmpopts.IgnoreFields(TestCase{}, "XMLName")); diff != "" {
		t.Fatalf("test cases mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBareTestSuiteRoot(t *testing.T) {
	data := []byte(`<testsuite name="S"><testcase classname="S" name="test_a"><error message="crash"/></testcase></testsuite>`)

	suites, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, suites, 1)
	require.Equal(t, "S", suites[0].Name)
	require.NotNil(t, suites[0].TestCases[0].Error)
	require.Equal(t, "crash", suites[0].TestCases[0].Error.Message)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`<testsuites><testsuite>`))
	require.Error(t, err)
}

func TestWriteFileThenParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "TEST-S.xml")
	suite := TestSuite{
		Name:       "S",
		Tests:      1,
		Errors:     1,
		Properties: []Property{{Name: RunIDProperty, Value: "id-1"}},
		TestCases: []TestCase{
			{Name: "test_x", ClassName: "S", Time: "0.100", Error: &Error{Message: "no browser", Type: "error"}},
		},
	}
	require.NoError(t, WriteFile(path, suite))

	suites, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, suites, 1)
	if diff := cmp.Diff(suite, suites[0], cmpopts.IgnoreFields(TestSuite{}, "XMLName"), cmpopts.IgnoreFields(TestCase{}, "XMLName")); diff != "" {
		t.Fatalf("suite mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.xml"))
	require.Error(t, err)
}
