package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the PDV.
const (
	PagamentoDinheiro = "DINHEIRO"
	PagamentoDebito   = "DEBITO"
	PagamentoCredito  = "CREDITO"
	PagamentoPix      = "PIX"
	PagamentoBoleto   = "BOLETO"
	PagamentoOutro    = "OUTRO"
)

// Sale states. CANCELADA is terminal: a sale moves from CONCLUIDA to
// CANCELADA exactly once and never back.
const (
	VendaConcluida = "CONCLUIDA"
	VendaCancelada = "CANCELADA"
)

// Venda is a completed point-of-sale transaction. Created atomically with
// its ItemVenda rows; ValorTotal is the post-discount sum of item subtotals.
type Venda struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int       `gorm:"uniqueIndex;not null"`
	// SessaoID is nullable only for legacy rows migrated before sessions existed.
	SessaoID       *uuid.UUID      `gorm:"type:uuid;index"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID      *uuid.UUID      `gorm:"type:uuid;index"`
	FormaPagamento string          `gorm:"type:varchar(20);not null"`
	ValorBruto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Desconto       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'CONCLUIDA'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Itens   []ItemVenda `gorm:"foreignKey:VendaID;constraint:OnDelete:CASCADE"`
}

func (Venda) TableName() string { return "vendas" }

// ItemVenda is one sale line. PrecoUnitario is frozen at sale time and must
// not track later catalog price changes; Subtotal = Quantidade × PrecoUnitario.
type ItemVenda struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (ItemVenda) TableName() string { return "itens_venda" }
