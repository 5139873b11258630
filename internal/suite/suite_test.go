package suite_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bgricker/uicheck/internal/browser"
	"github.com/bgricker/uicheck/internal/suite"
	"github.com/bgricker/uicheck/internal/suite/suitetest"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://app.test"

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
}

func runCase(t *testing.T, app suitetest.LoginApp, name string, shots suite.Screenshots) (*suite.T, error) {
	t.Helper()
	s := suite.ContractRenewal(suitetest.DefaultCredentials)
	c, ok := s.Lookup(name)
	require.True(t, ok, "case %s not discovered", name)

	session, err := app.Launcher().Launch()
	require.NoError(t, err)
	defer session.Close()

	tc := suite.NewT(session, baseURL, time.Second, shots, log.NewLogger())
	return tc, c.Run(tc)
}

func loginApp() suitetest.LoginApp {
	return suitetest.LoginApp{BaseURL: baseURL, Creds: suitetest.DefaultCredentials}
}

func TestNamesDiscoversPrefixedCasesInOrder(t *testing.T) {
	s := suite.New("Example",
		suite.Case{Name: "test_b"},
		suite.Case{Name: "helper"},
		suite.Case{Name: "test_a"},
	)
	assert.Equal(t, []string{"test_a", "test_b"}, s.Names())

	_, ok := s.Lookup("helper")
	assert.False(t, ok, "non-prefixed names must not be runnable")
	_, ok = s.Lookup("test_missing")
	assert.False(t, ok)
}

func TestContractRenewalCases(t *testing.T) {
	s := suite.ContractRenewal(suitetest.DefaultCredentials)
	assert.Equal(t, []string{
		"test_01_login_page_elements",
		"test_02_invalid_login",
		"test_03_valid_login",
	}, s.Names())
	assert.Equal(t, suite.ContractRenewalName, s.Name)

	cases := s.Cases()
	require.Len(t, cases, 3)
	assert.Equal(t, "test_01_login_page_elements", cases[0].Name)
	assert.Equal(t, "Test login page UI elements", cases[0].Doc)
}

func TestLoginCasesPassAgainstHealthyApp(t *testing.T) {
	for _, name := range suite.ContractRenewal(suitetest.DefaultCredentials).Names() {
		t.Run(name, func(t *testing.T) {
			_, err := runCase(t, loginApp(), name, suite.Screenshots{})
			assert.NoError(t, err)
		})
	}
}

func TestScreenshotsCapturedWhenEnabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	tc, err := runCase(t, loginApp(), "test_03_valid_login", suite.Screenshots{Enabled: true, Dir: dir, Now: fixedNow})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "03_valid_login_before_20240301-103000.png"),
		filepath.Join(dir, "03_valid_login_dashboard_20240301-103000.png"),
	}
	assert.Equal(t, want, tc.Captured())
	for _, path := range want {
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	}
}

func TestScreenshotsSkippedWhenDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	tc, err := runCase(t, loginApp(), "test_01_login_page_elements", suite.Screenshots{Dir: dir})
	require.NoError(t, err)
	assert.Empty(t, tc.Captured())
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "dir should not be created when capture is disabled")
}

func TestWaitTimeoutBecomesAssertionWithScreenshot(t *testing.T) {
	dir := t.TempDir()
	app := loginApp()
	app.NoErrorMessage = true

	tc, err := runCase(t, app, "test_02_invalid_login", suite.Screenshots{Enabled: true, Dir: dir, Now: fixedNow})
	require.Error(t, err)

	var assertion *suite.AssertionError
	require.True(t, errors.As(err, &assertion))
	assert.Equal(t, "Error message not displayed after invalid login", assertion.Message)

	var timeout *browser.WaitTimeoutError
	assert.True(t, errors.As(err, &timeout), "cause should keep the wait timeout")

	captured := tc.Captured()
	require.NotEmpty(t, captured)
	assert.True(t, strings.HasPrefix(filepath.Base(captured[len(captured)-1]), "02_invalid_login_timeout_"))
}

func TestHiddenFieldFailsAssertion(t *testing.T) {
	app := loginApp()
	app.HiddenPassword = true

	_, err := runCase(t, app, "test_01_login_page_elements", suite.Screenshots{})
	var assertion *suite.AssertionError
	require.True(t, errors.As(err, &assertion))
	assert.Contains(t, assertion.Message, "name=password")
}

func TestWrongTitleFailsAssertion(t *testing.T) {
	app := loginApp()
	app.Title = "Welcome"

	_, err := runCase(t, app, "test_01_login_page_elements", suite.Screenshots{})
	var assertion *suite.AssertionError
	require.True(t, errors.As(err, &assertion))
	assert.Equal(t, `"Login" not found in "Welcome"`, assertion.Message)
}

func TestMissingElementIsNotAnAssertion(t *testing.T) {
	app := loginApp()
	app.NoButton = true

	_, err := runCase(t, app, "test_03_valid_login", suite.Screenshots{})
	require.Error(t, err)

	var assertion *suite.AssertionError
	assert.False(t, errors.As(err, &assertion))
	var notFound *browser.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
