package domain

import "time"

// Account represents a registered user of the tracker.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
