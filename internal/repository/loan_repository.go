package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

const loanColumns = `id, client_id, principal_amount, interest_rate, interest_period, start_date, due_date, status, notes, created_at, updated_at, owner_id`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.ClientID,
		loan.PrincipalAmount,
		loan.InterestRate,
		loan.InterestPeriod,
		loan.StartDate,
		loan.DueDate,
		loan.Status,
		loan.Notes,
		loan.CreatedAt,
		loan.UpdatedAt,
		loan.OwnerID,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1 AND owner_id = $2
	`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id, ownerID); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	return r.selectLoans(ctx, query, ownerID)
}

func (r *loanRepository) ListByClient(ctx context.Context, ownerID, clientID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE owner_id = $1 AND client_id = $2
		ORDER BY created_at DESC
	`

	return r.selectLoans(ctx, query, ownerID, clientID)
}

func (r *loanRepository) ListByStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE owner_id = $1 AND status = $2
		ORDER BY due_date
	`

	return r.selectLoans(ctx, query, ownerID, status)
}

func (r *loanRepository) ListOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE owner_id = $1 AND status = 'active' AND due_date < $2
		ORDER BY due_date
	`

	return r.selectLoans(ctx, query, ownerID, now)
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET principal_amount = $3, interest_rate = $4, interest_period = $5, start_date = $6,
		    due_date = $7, status = $8, notes = $9, updated_at = $10
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.OwnerID,
		loan.PrincipalAmount,
		loan.InterestRate,
		loan.InterestPeriod,
		loan.StartDate,
		loan.DueDate,
		loan.Status,
		loan.Notes,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *loanRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *loanRepository) ListOwners(ctx context.Context) ([]uuid.UUID, error) {
	owners := []uuid.UUID{}
	if err := r.db.SelectContext(ctx, &owners, `SELECT DISTINCT owner_id FROM loans`); err != nil {
		return nil, err
	}

	return owners, nil
}

func (r *loanRepository) selectLoans(ctx context.Context, query string, args ...any) ([]*domain.Loan, error) {
	loans := []*domain.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}

	return loans, nil
}
