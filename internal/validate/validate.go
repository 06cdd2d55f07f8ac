// Package validate holds the form field rules. Every rule is a pure function
// over the raw string value and returns either the typed value or the single
// message shown to the user. Handlers stop at the first failing rule.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Deliberately unanchored and calendar-blind: "0000-00-00" passes.
var dueDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

var (
	ErrAmount      = errors.New("Invalid amount")
	ErrDescription = errors.New("Description cannot be empty")
	ErrDueDate     = errors.New("Invalid due date format (YYYY-MM-DD)")
	ErrKind        = errors.New("Invalid type")
	ErrUsername    = errors.New("Username must be at least 3 characters long")
	ErrPassword    = errors.New("Password must be at least 6 characters long")
)

// Amount requires a parseable number strictly greater than zero. NaN fails
// the > 0 comparison; hex floats and underscored literals are not amounts
// even though strconv would parse them.
func Amount(raw string) (float64, error) {
	if strings.ContainsAny(raw, "xX_") {
		return 0, ErrAmount
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(amount > 0) {
		return 0, ErrAmount
	}
	return amount, nil
}

// Description requires at least one character. The raw value is kept as-is,
// so a single space is accepted.
func Description(raw string) (string, error) {
	if len(raw) < 1 {
		return "", ErrDescription
	}
	return raw, nil
}

// DueDate requires a YYYY-MM-DD shaped date.
func DueDate(raw string) (string, error) {
	if !dueDatePattern.MatchString(raw) {
		return "", ErrDueDate
	}
	return raw, nil
}

// Kind requires exactly "income" or "expense".
func Kind(raw string) (string, error) {
	if raw != "income" && raw != "expense" {
		return "", ErrKind
	}
	return raw, nil
}

// Username requires at least 3 characters.
func Username(raw string) (string, error) {
	if len(raw) < 3 {
		return "", ErrUsername
	}
	return raw, nil
}

// Password requires at least 6 characters.
func Password(raw string) (string, error) {
	if len(raw) < 6 {
		return "", ErrPassword
	}
	return raw, nil
}
