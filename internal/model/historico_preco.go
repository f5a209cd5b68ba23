package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoricoPreco records every price change of a product, append-only.
// Sale lines freeze their own unit price, so this log exists for audit
// and margin analysis only.
type HistoricoPreco struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PrecoAntes  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecoDepois decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CustoAntes  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CustoDepois decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt   time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (HistoricoPreco) TableName() string { return "historico_precos" }
