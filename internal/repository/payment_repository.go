package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = `id, loan_id, amount, payment_date, payment_type, notes, created_at, owner_id`

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.Amount,
		payment.PaymentDate,
		payment.PaymentType,
		payment.Notes,
		payment.CreatedAt,
		payment.OwnerID,
	)

	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = $1 AND owner_id = $2
	`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, id, ownerID); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE owner_id = $1
		ORDER BY payment_date DESC
	`

	payments := []*domain.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, ownerID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListByLoan(ctx context.Context, ownerID, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE owner_id = $1 AND loan_id = $2
		ORDER BY payment_date DESC
	`

	payments := []*domain.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, ownerID, loanID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	return requireAffected(result)
}
