package models

import "time"

// User represents a user account. Usernames are stored lowercase.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Transaction kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Transaction represents a single income or expense record.
// Transactions are immutable once created.
type Transaction struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Kind        string    `json:"type"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Loan represents money lent out, tracked until it is marked repaid.
// DueDate keeps the submitted YYYY-MM-DD string as-is.
type Loan struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	IsRepaid    bool      `json:"is_repaid"`
	CreatedAt   time.Time `json:"created_at"`
}
