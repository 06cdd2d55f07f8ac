package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

func (suite *E2ETestSuite) login(username, password string) {
	// Wait for login form
	err := suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "login form not visible")

	err = suite.page.Locator("input[name=username]").Fill(username)
	require.NoError(suite.T(), err, "failed to fill username")

	err = suite.page.Locator("input[name=password]").Fill(password)
	require.NoError(suite.T(), err, "failed to fill password")

	err = suite.page.Locator(".login-btn").Click()
	require.NoError(suite.T(), err, "failed to click login")

	// Successful login lands on the dashboard
	err = suite.expect.Locator(suite.page.Locator(".dashboard-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not reach dashboard after login")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	// Sign up a fresh user so the flow starts from empty states
	username := fmt.Sprintf("user%d", time.Now().UnixNano())

	err := suite.page.Locator("a[href='/signup']").Click()
	require.NoError(suite.T(), err, "failed to open signup page")

	err = suite.expect.Locator(suite.page.Locator(".signup-form")).ToBeVisible()
	require.NoError(suite.T(), err, "signup form not visible")

	err = suite.page.Locator("input[name=username]").Fill(username)
	require.NoError(suite.T(), err, "failed to fill username")
	err = suite.page.Locator("input[name=password]").Fill("secret123")
	require.NoError(suite.T(), err, "failed to fill password")
	err = suite.page.Locator(".signup-btn").Click()
	require.NoError(suite.T(), err, "failed to submit signup")

	// Dashboard shows the empty states for a brand new user
	err = suite.expect.Locator(suite.page.Locator(".dashboard-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not reach dashboard after signup")
	err = suite.expect.Locator(suite.page.Locator(".dashboard-screen")).ToContainText("No recent transactions.")
	require.NoError(suite.T(), err, "missing transactions empty state")
	err = suite.expect.Locator(suite.page.Locator(".dashboard-screen")).ToContainText("No outstanding loans.")
	require.NoError(suite.T(), err, "missing loans empty state")

	// Add a transaction
	err = suite.page.Locator("a[href='/transactions']").Click()
	require.NoError(suite.T(), err, "failed to open transactions page")
	err = suite.expect.Locator(suite.page.Locator("#transaction-form")).ToBeVisible()
	require.NoError(suite.T(), err, "transaction form not visible")

	err = suite.page.Locator("#transaction-form input[name=amount]").Fill("12.50")
	require.NoError(suite.T(), err, "failed to fill amount")
	err = suite.page.Locator("#transaction-form input[name=description]").Fill("Lunch Test")
	require.NoError(suite.T(), err, "failed to fill description")
	_, err = suite.page.Locator("#transaction-form select[name=type]").SelectOption(playwright.SelectOptionValues{
		Values: &[]string{"expense"},
	})
	require.NoError(suite.T(), err, "failed to select type")
	err = suite.page.Locator("#transaction-form button.submit").Click()
	require.NoError(suite.T(), err, "failed to submit transaction")

	err = suite.expect.Locator(suite.page.Locator(".transaction-item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "transaction item count mismatch")

	item := suite.page.Locator(".transaction-item").First()
	err = suite.expect.Locator(item.Locator(".description")).ToHaveText("Lunch Test")
	require.NoError(suite.T(), err, "description mismatch")
	err = suite.expect.Locator(item.Locator(".amount")).ToContainText("12.50")
	require.NoError(suite.T(), err, "amount mismatch")

	// Add a loan
	err = suite.page.Locator("a[href='/loans']").Click()
	require.NoError(suite.T(), err, "failed to open loans page")
	err = suite.expect.Locator(suite.page.Locator("#loan-form")).ToBeVisible()
	require.NoError(suite.T(), err, "loan form not visible")

	err = suite.page.Locator("#loan-form input[name=amount]").Fill("100.50")
	require.NoError(suite.T(), err, "failed to fill loan amount")
	err = suite.page.Locator("#loan-form input[name=description]").Fill("car")
	require.NoError(suite.T(), err, "failed to fill loan description")
	err = suite.page.Locator("#loan-form input[name=dueDate]").Fill("2025-01-15")
	require.NoError(suite.T(), err, "failed to fill due date")
	err = suite.page.Locator("#loan-form button.submit").Click()
	require.NoError(suite.T(), err, "failed to submit loan")

	err = suite.expect.Locator(suite.page.Locator(".loan-item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "loan item count mismatch")

	loan := suite.page.Locator(".loan-item").First()
	err = suite.expect.Locator(loan.Locator(".status")).ToHaveText("Outstanding")
	require.NoError(suite.T(), err, "new loan should be outstanding")

	// Mark the loan repaid
	err = loan.Locator(".repaid-btn").Click()
	require.NoError(suite.T(), err, "failed to click repaid button")

	loan = suite.page.Locator(".loan-item").First()
	err = suite.expect.Locator(loan.Locator(".status")).ToHaveText("Repaid")
	require.NoError(suite.T(), err, "loan should show as repaid")

	// Log out; the old session no longer reaches the dashboard
	err = suite.page.Locator(".logout-btn").Click()
	require.NoError(suite.T(), err, "failed to click logout")
	err = suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "did not land on login after logout")

	_, err = suite.page.Goto(appURL + "/dashboard")
	require.NoError(suite.T(), err, "could not navigate to dashboard")
	err = suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "logged-out user should be redirected to login")
}

func (suite *E2ETestSuite) TestAdminLogin() {
	// The server bootstraps this user from ADMIN_USER/ADMIN_PASSWORD
	suite.login("testuser", "testpass123")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
