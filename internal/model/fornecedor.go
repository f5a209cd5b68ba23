package model

import (
	"time"

	"github.com/google/uuid"
)

// Fornecedor represents a supplier with commercial data.
type Fornecedor struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NomeFantasia string    `gorm:"not null"`
	RazaoSocial  *string
	CNPJ         string `gorm:"column:cnpj;uniqueIndex;not null"`
	Email        *string
	Telefone     *string
	Ativo        bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Fornecedor) TableName() string { return "fornecedores" }
