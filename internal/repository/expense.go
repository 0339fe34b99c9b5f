package repository

import (
	"context"

	"expense-ledger/internal/domain"
)

// ExpenseRepository exposes persistence operations for Expense records.
// Lookups, updates and deletes are always scoped by owner: a record that
// exists but belongs to someone else behaves exactly like a missing one.
type ExpenseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, expense *domain.Expense) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Expense, error)
	GetOwned(ctx context.Context, ownerID, id string) (*domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense) error
	DeleteOwned(ctx context.Context, ownerID, id string) error
}
