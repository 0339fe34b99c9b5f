package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"expense-ledger/internal/domain"
	"expense-ledger/internal/repository"
)

const createExpensesTable = `
CREATE TABLE IF NOT EXISTS expenses (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL REFERENCES accounts(id),
	description TEXT NOT NULL,
	amount REAL NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expenses_owner ON expenses(owner_id);
`

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) repository.ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createExpensesTable); err != nil {
		return fmt.Errorf("create expenses table: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	now := time.Now().UTC()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO expenses (id, owner_id, description, amount, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.OwnerID,
		expense.Description,
		expense.Amount,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, description, amount, created_at, updated_at
FROM expenses
WHERE owner_id = ?
ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Description,
			&e.Amount,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (r *ExpenseRepository) GetOwned(ctx context.Context, ownerID, id string) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, description, amount, created_at, updated_at
FROM expenses
WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)

	var e domain.Expense
	if err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Description,
		&e.Amount,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	return &e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	expense.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE expenses
SET description = ?, amount = ?, updated_at = ?
WHERE id = ? AND owner_id = ?`,
		expense.Description,
		expense.Amount,
		expense.UpdatedAt,
		expense.ID,
		expense.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *ExpenseRepository) DeleteOwned(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM expenses
WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense: %w", domain.ErrNotFound)
	}
	return nil
}
