package domain

import "time"

// Expense is a monetary record owned by exactly one account.
// Every read and write is scoped by OwnerID.
type Expense struct {
	ID          string
	OwnerID     string
	Description string
	Amount      float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
