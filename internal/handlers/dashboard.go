package handlers

import (
	"net/http"

	"finance-tracker/internal/models"
)

// How many transactions the dashboard shows.
const recentTransactionLimit = 5

// TransactionItem represents a transaction in a list view.
type TransactionItem struct {
	models.Transaction
	Sign string
	When string
}

func newTransactionItem(t models.Transaction) TransactionItem {
	sign := "+"
	if t.Kind == models.KindExpense {
		sign = "-"
	}
	return TransactionItem{
		Transaction: t,
		Sign:        sign,
		When:        t.CreatedAt.Format("Jan 02, 15:04"),
	}
}

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	Username           string
	RecentTransactions []TransactionItem
	OutstandingLoans   []models.Loan
}

// Dashboard renders the summary view: the last few transactions and the
// outstanding loans ordered by due date.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	transactions, err := h.db.RecentTransactions(user.ID, recentTransactionLimit)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to fetch recent transactions")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	loans, err := h.db.UnpaidLoans(user.ID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to fetch unpaid loans")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]TransactionItem, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, newTransactionItem(t))
	}

	h.render(w, "dashboard.html", DashboardViewModel{
		Username:           user.Username,
		RecentTransactions: items,
		OutstandingLoans:   loans,
	})
}
