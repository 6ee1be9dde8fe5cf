package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
)

const clientColumns = `id, name, document, phone, address, notes, created_at, updated_at, owner_id`

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES (:id, :name, :document, :phone, :address, :notes, :created_at, :updated_at, :owner_id)
	`

	_, err := r.db.NamedExecContext(ctx, query, client)
	return err
}

func (r *clientRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE id = $1 AND owner_id = $2
	`

	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, id, ownerID); err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE owner_id = $1
		ORDER BY name
	`

	clients := []*domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, ownerID); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) Search(ctx context.Context, ownerID uuid.UUID, term string) ([]*domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE owner_id = $1
		  AND (name ILIKE $2 OR document ILIKE $2 OR phone ILIKE $2)
		ORDER BY name
	`

	clients := []*domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, ownerID, "%"+term+"%"); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $3, document = $4, phone = $5, address = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.OwnerID,
		client.Name,
		client.Document,
		client.Phone,
		client.Address,
		client.Notes,
		client.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *clientRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *clientRepository) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clients WHERE owner_id = $1`, ownerID)
	return count, err
}
