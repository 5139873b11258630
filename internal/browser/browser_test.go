package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorCSS(t *testing.T) {
	tests := []struct {
		sel     Selector
		wantCSS string
		wantOK  bool
	}{
		{ByName("username"), `[name="username"]`, true},
		{ByID("dashboard"), "#dashboard", true},
		{ByClass("alert-danger"), ".alert-danger", true},
		{ByText("button", "Login"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.sel.String(), func(t *testing.T) {
			css, ok := tt.sel.CSS()
			assert.Equal(t, tt.wantCSS, css)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestByTextBuildsXPath(t *testing.T) {
	sel := ByText("button", "Login")
	assert.Equal(t, KindXPath, sel.Kind)
	assert.Equal(t, "//button[contains(text(), 'Login')]", sel.Value)
}

func TestWaitTimeoutError(t *testing.T) {
	var err error = &WaitTimeoutError{Selector: ByID("dashboard"), Timeout: 10 * time.Second}
	var timeout *WaitTimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, "element id=dashboard not present after 10s", err.Error())
}

func TestNewRodLauncherDefaultsTimeout(t *testing.T) {
	l := NewRodLauncher(Config{})
	assert.Equal(t, 10*time.Second, l.cfg.Timeout)
}

func TestRodSessionCloseCleansUpOnce(t *testing.T) {
	calls := 0
	s := &rodSession{cleanup: func() { calls++ }}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, calls)
}
