package handlers

import (
	"net/http"
	"strconv"

	"finance-tracker/internal/models"
	"finance-tracker/internal/validate"
)

// LoansViewModel is the data passed to the loans template.
type LoansViewModel struct {
	Username string
	Loans    []models.Loan
}

// ListLoans renders the loan list with the add form.
func (h *Handlers) ListLoans(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	loans, err := h.db.ListLoans(user.ID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to list loans")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "loans.html", LoansViewModel{
		Username: user.Username,
		Loans:    loans,
	})
}

// LoansAction dispatches the loans form submission on its intent field:
// "addLoan" records a new loan, "markRepaid" flips the repaid flag.
func (h *Handlers) LoansAction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	switch r.FormValue("_intent") {
	case "addLoan":
		h.addLoan(w, r, user.ID)
	case "markRepaid":
		h.markRepaid(w, r, user.ID)
	default:
		http.Error(w, "Invalid action intent", http.StatusBadRequest)
	}
}

func (h *Handlers) addLoan(w http.ResponseWriter, r *http.Request, userID int64) {
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
	dueDate, err := validate.DueDate(r.FormValue("dueDate"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.db.CreateLoan(userID, amount, description, dueDate); err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("failed to create loan")
		http.Error(w, "Failed to add loan", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/loans", http.StatusFound)
}

func (h *Handlers) markRepaid(w http.ResponseWriter, r *http.Request, userID int64) {
	loanID, err := strconv.ParseInt(r.FormValue("loanId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	// Scoped by user: a loan id belonging to someone else updates nothing.
	if err := h.db.MarkLoanRepaid(loanID, userID); err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("failed to mark loan repaid")
		http.Error(w, "Failed to mark loan as repaid", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/loans", http.StatusFound)
}
