package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Devolucao is a partial (or total) return against a completed sale.
type Devolucao struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	SessaoID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null"`
	Motivo     string          `gorm:"not null"`
	ValorTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Venda *Venda          `gorm:"foreignKey:VendaID"`
	Itens []ItemDevolucao `gorm:"foreignKey:DevolucaoID;constraint:OnDelete:CASCADE"`
}

func (Devolucao) TableName() string { return "devolucoes" }

// ItemDevolucao returns part of one sale line.
// Invariant: the cumulative Quantidade over all ItemDevolucao rows of a
// given ItemVenda never exceeds the original ItemVenda.Quantidade.
type ItemDevolucao struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DevolucaoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ItemVendaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantidade  int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	ItemVenda *ItemVenda `gorm:"foreignKey:ItemVendaID"`
}

func (ItemDevolucao) TableName() string { return "itens_devolucao" }
