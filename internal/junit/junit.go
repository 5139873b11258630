// Package junit reads and writes JUnit XML reports.
package junit

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// RunIDProperty names the suite property carrying the run identifier.
const RunIDProperty = "run_id"

// TestSuites is the <testsuites> root.
type TestSuites struct {
	XMLName    xml.Name    `xml:"testsuites"`
	TestSuites []TestSuite `xml:"testsuite"`
}

// TestSuite is one <testsuite> element with its counters and cases.
type TestSuite struct {
	XMLName    xml.Name   `xml:"testsuite"`
	Name       string     `xml:"name,attr"`
	Tests      int        `xml:"tests,attr"`
	Failures   int        `xml:"failures,attr"`
	Errors     int        `xml:"errors,attr"`
	Time       float64    `xml:"time,attr"`
	Timestamp  string     `xml:"timestamp,attr,omitempty"`
	Properties []Property `xml:"properties>property,omitempty"`
	TestCases  []TestCase `xml:"testcase"`
}

// Property is a name/value pair from a suite's <properties> block.
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// TestCase is one <testcase>. A nil Failure and Error means it passed.
type TestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      string   `xml:"time,attr,omitempty"`
	Failure   *Failure `xml:"failure,omitempty"`
	Error     *Error   `xml:"error,omitempty"`
	SystemErr string   `xml:"system-err,omitempty"`
}

// Failure records a failed assertion inside a test case.
type Failure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// Error records an unexpected error raised inside a test case.
type Error struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// Property returns the value of the named suite property.
func (s TestSuite) Property(name string) (string, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Parse decodes data with a <testsuites> root, falling back to a bare <testsuite>.
func Parse(data []byte) ([]TestSuite, error) {
	var suites TestSuites
	suitesErr := xml.Unmarshal(data, &suites)
	if suitesErr == nil {
		return suites.TestSuites, nil
	}

	var suite TestSuite
	if err := xml.Unmarshal(data, &suite); err != nil {
		return nil, errors.Wrap(err, suitesErr.Error())
	}
	return []TestSuite{suite}, nil
}

// ParseFile reads and parses a report file.
func ParseFile(path string) ([]TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	suites, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return suites, nil
}

// Marshal encodes suites under a <testsuites> root with an XML header.
func Marshal(suites ...TestSuite) ([]byte, error) {
	body, err := xml.MarshalIndent(TestSuites{TestSuites: suites}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode junit report")
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile writes suites to path, creating the parent directory.
func WriteFile(path string, suites ...TestSuite) error {
	data, err := Marshal(suites...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create report dir %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
