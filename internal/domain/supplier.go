package domain

import (
	"time"
)

// Supplier representa um fornecedor cadastrado pelo estabelecimento.
type Supplier struct {
	ID                string    `json:"id"`
	BusinessProfileID string    `json:"business_profile_id"`
	Name              string    `json:"name"`
	ContactName       string    `json:"contact_name,omitempty"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
