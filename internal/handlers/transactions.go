package handlers

import (
	"net/http"

	"finance-tracker/internal/validate"
)

// TransactionsViewModel is the data passed to the transactions template.
type TransactionsViewModel struct {
	Username     string
	Transactions []TransactionItem
}

// ListTransactions renders the transaction list with the add form.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	transactions, err := h.db.ListTransactions(user.ID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to list transactions")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]TransactionItem, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, newTransactionItem(t))
	}

	h.render(w, "transactions.html", TransactionsViewModel{
		Username:     user.Username,
		Transactions: items,
	})
}

// CreateTransaction handles the add-transaction form submission.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	amount, err := validate.Amount(r.FormValue("amount"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	description, err := validate.Description(r.FormValue("description"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	kind, err := validate.Kind(r.FormValue("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// The category id is stored as submitted; there is no categories table yet.
	categoryID := r.FormValue("categoryId")

	if err := h.db.CreateTransaction(user.ID, amount, description, kind, categoryID); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to create transaction")
		http.Error(w, "Failed to add transaction", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/transactions", http.StatusFound)
}
