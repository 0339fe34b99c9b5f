package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"expense-ledger/internal/domain"
	"expense-ledger/internal/repository"
)

// ExpenseService coordinates ownership-scoped expense operations. The ownerID
// on every call is the authenticated account id; callers never reach another
// account's records through any code path here.
type ExpenseService interface {
	List(ctx context.Context, ownerID string) ([]domain.Expense, error)
	Create(ctx context.Context, ownerID, description string, amount float64) (*domain.Expense, error)
	Update(ctx context.Context, ownerID, expenseID, description string, amount float64) (*domain.Expense, error)
	Delete(ctx context.Context, ownerID, expenseID string) error
}

type expenseService struct {
	expenses repository.ExpenseRepository
}

func NewExpenseService(expenses repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenses: expenses}
}

func (s *expenseService) List(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	return s.expenses.ListByOwner(ctx, ownerID)
}

func (s *expenseService) Create(ctx context.Context, ownerID, description string, amount float64) (*domain.Expense, error) {
	if err := validateFields(description, amount); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Description: strings.TrimSpace(description),
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Update overwrites description and amount unconditionally. A miss on either
// the id or the owner scope reports not found.
func (s *expenseService) Update(ctx context.Context, ownerID, expenseID, description string, amount float64) (*domain.Expense, error) {
	if err := validateFields(description, amount); err != nil {
		return nil, err
	}

	expense, err := s.expenses.GetOwned(ctx, ownerID, expenseID)
	if err != nil {
		return nil, err
	}

	expense.Description = strings.TrimSpace(description)
	expense.Amount = amount

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, ownerID, expenseID string) error {
	return s.expenses.DeleteOwned(ctx, ownerID, expenseID)
}

func validateFields(description string, amount float64) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description is required: %w", domain.ErrValidation)
	}
	if amount == 0 {
		return fmt.Errorf("amount is required: %w", domain.ErrValidation)
	}
	return nil
}
