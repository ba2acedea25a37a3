package model

import "time"

// Expense is a single expense record owned by a user.
//
// Category is always a member of the category enumeration. AIPredicted is
// nil until a categorization run stores its prediction; once set it is only
// replaced by an explicit re-run, never by a manual category override.
type Expense struct {
	Date        time.Time // calendar day, no time component
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AIPredicted *Category
	UserID      string
	Description string
	Category    Category
	ID          int64
	Amount      Money
}

// DateKey formats the expense date the way the store persists it.
func (e *Expense) DateKey() string {
	return e.Date.Format("2006-01-02")
}
