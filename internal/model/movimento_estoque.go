package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement kinds. SAIDA_VENDA carries a negative Quantidade; the
// others are signed by the caller (ENTRADA positive, adjustments either way).
const (
	MovEntrada        = "ENTRADA"
	MovSaidaVenda     = "SAIDA_VENDA"
	MovAjustePerda    = "AJUSTE_PERDA"
	MovAjusteContagem = "AJUSTE_CONTAGEM"
)

// MovimentoEstoque records every stock change of a product, append-only.
// Invariant: for any product, the sum of Quantidade over all movements
// equals its current Estoque. Rows are never updated or deleted.
type MovimentoEstoque struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo            string    `gorm:"type:varchar(20);not null"`
	Quantidade      int       `gorm:"not null"` // positive = entry, negative = exit
	EstoqueAnterior int       `gorm:"not null"`
	EstoqueNovo     int       `gorm:"not null"`
	Motivo          string
	UsuarioID       uuid.UUID `gorm:"type:uuid;not null"`
	// ReferenciaID links to the originating Venda or Devolucao, when any.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
