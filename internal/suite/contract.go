package suite

import "github.com/bgricker/uicheck/internal/browser"

// ContractRenewalName is the suite (class) name recorded in reports.
const ContractRenewalName = "ContractRenewalSystemTest"

// Credentials are the accounts submitted by the login cases.
type Credentials struct {
	ValidUser       string
	ValidPassword   string
	InvalidUser     string
	InvalidPassword string
}

var (
	usernameField = browser.ByName("username")
	passwordField = browser.ByName("password")
	loginButton   = browser.ByText("button", "Login")
	loginError    = browser.ByClass("alert-danger")
	dashboard     = browser.ByID("dashboard")
)

// ContractRenewal returns the Contract Renewal System login suite.
func ContractRenewal(creds Credentials) *Suite {
	return New(ContractRenewalName,
		Case{
			Name: "test_01_login_page_elements",
			Doc:  "Test login page UI elements",
			Run:  loginPageElements,
		},
		Case{
			Name: "test_02_invalid_login",
			Doc:  "Test invalid login attempt",
			Run: func(t *T) error {
				return submitLogin(t, creds.InvalidUser, creds.InvalidPassword, "02_invalid_login",
					loginError, "error", "Error message not displayed after invalid login")
			},
		},
		Case{
			Name: "test_03_valid_login",
			Doc:  "Test valid login attempt",
			Run: func(t *T) error {
				return submitLogin(t, creds.ValidUser, creds.ValidPassword, "03_valid_login",
					dashboard, "dashboard", "Dashboard not displayed after valid login")
			},
		},
	)
}

func loginPageElements(t *T) error {
	if err := t.Open("/login/"); err != nil {
		return err
	}
	t.Screenshot("01_login_page")

	if err := t.AssertTitleContains("Login"); err != nil {
		return err
	}
	for _, sel := range []browser.Selector{usernameField, passwordField, loginButton} {
		if _, err := t.AssertDisplayed(sel); err != nil {
			return err
		}
	}

	t.Screenshot("01_login_page_elements")
	return nil
}

// submitLogin fills the login form, captures {label}_before, submits and waits for
// expect. Success captures {label}_{successLabel}; a timeout captures {label}_timeout.
func submitLogin(t *T, user, password, label string, expect browser.Selector, successLabel, timeoutMessage string) error {
	if err := t.Open("/login/"); err != nil {
		return err
	}
	if err := t.Type(usernameField, user); err != nil {
		return err
	}
	if err := t.Type(passwordField, password); err != nil {
		return err
	}
	t.Screenshot(label + "_before")

	if err := t.Click(loginButton); err != nil {
		return err
	}

	if _, err := t.WaitDisplayed(expect, label+"_timeout", timeoutMessage); err != nil {
		return err
	}
	t.Screenshot(label + "_" + successLabel)
	return nil
}
