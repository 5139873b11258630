// Package suitetest models the Contract Renewal login page on the fake browser.
package suitetest

import (
	"strings"

	"github.com/bgricker/uicheck/internal/browser"
	"github.com/bgricker/uicheck/internal/browser/browsertest"
	"github.com/bgricker/uicheck/internal/suite"
)

// DefaultCredentials match config.Default().
var DefaultCredentials = suite.Credentials{
	ValidUser:       "testuser",
	ValidPassword:   "testpass123",
	InvalidUser:     "invalid_user",
	InvalidPassword: "invalid_password",
}

// LoginApp describes how the fake login page behaves.
type LoginApp struct {
	BaseURL string
	Creds   suite.Credentials
	Title   string

	NoErrorMessage bool // invalid logins never render .alert-danger
	NoDashboard    bool // valid logins never render #dashboard
	HiddenPassword bool // password field present but not displayed
	NoButton       bool // login button missing entirely
}

// Launcher returns a fake launcher serving the app.
func (a LoginApp) Launcher() *browsertest.Launcher {
	return &browsertest.Launcher{Site: a.Site()}
}

// Site builds fresh pages per session.
func (a LoginApp) Site() browsertest.Site {
	return func() map[string]*browsertest.Page {
		title := a.Title
		if title == "" {
			title = "Login | Contract Renewal"
		}
		page := browsertest.NewPage(title)
		user := page.Add(browser.ByName("username"), &browsertest.Element{})
		pass := page.Add(browser.ByName("password"), &browsertest.Element{Hidden: a.HiddenPassword})
		if !a.NoButton {
			page.Add(browser.ByText("button", "Login"), &browsertest.Element{
				OnClick: func(p *browsertest.Page) {
					if user.Value == a.Creds.ValidUser && pass.Value == a.Creds.ValidPassword {
						if !a.NoDashboard {
							p.Add(browser.ByID("dashboard"), &browsertest.Element{})
						}
						return
					}
					if !a.NoErrorMessage {
						p.Add(browser.ByClass("alert-danger"), &browsertest.Element{})
					}
				},
			})
		}
		return map[string]*browsertest.Page{
			strings.TrimRight(a.BaseURL, "/") + "/login/": page,
		}
	}
}
