package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto represents a sellable catalog item.
// Estoque is only ever mutated through the stock ledger (EstoqueService),
// which also appends a MovimentoEstoque for every change.
type Produto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome        string    `gorm:"index;not null"`
	Descricao   *string
	Preco       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecoCusto  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Estoque     int             `gorm:"not null;default:0;check:estoque >= 0"`
	EstoqueMinimo int           `gorm:"not null;default:5"`
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	Ativo       bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (Produto) TableName() string { return "produtos" }
