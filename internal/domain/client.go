package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a registered client of the lender
type Client struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	NationalID string    `json:"national_id" db:"national_id"`
	Phone      string    `json:"phone" db:"phone"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type RegisterClientRequest struct {
	Name       string `json:"name" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

type UpdateClientRequest struct {
	Name       string `json:"name" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}
