package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ffelipeandres24/banco-maria/internal/domain"
	customError "github.com/ffelipeandres24/banco-maria/pkg/errors"
)

// Postgres error codes of interest
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, national_id, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.NationalID,
		client.Phone,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if isPgError(err, pgUniqueViolation) {
		return customError.WrapDuplicateNationalID(client.NationalID)
	}

	return err
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, name, national_id, phone, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var client domain.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapClientNotFound(id.String())
	}
	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, national_id = $3, phone = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.NationalID,
		client.Phone,
		time.Now(),
	)
	if isPgError(err, pgUniqueViolation) {
		return customError.WrapDuplicateNationalID(client.NationalID)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.WrapClientNotFound(client.ID.String())
	}

	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if isPgError(err, pgForeignKeyViolation) {
		return customError.WrapClientHasActiveLoans(id.String())
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.WrapClientNotFound(id.String())
	}

	return nil
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, name, national_id, phone, created_at, updated_at
		FROM clients
		ORDER BY name ASC
	`

	clients := []*domain.Client{}
	err := r.db.SelectContext(ctx, &clients, query)
	if err != nil {
		return nil, err
	}

	return clients, nil
}

func isPgError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
