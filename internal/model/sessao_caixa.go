package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session states.
const (
	SessaoAberta  = "ABERTO"
	SessaoFechada = "FECHADO"
)

// Cash drawer movement kinds.
const (
	CaixaSuprimento = "SUPRIMENTO"
	CaixaSangria    = "SANGRIA"
)

// SessaoCaixa represents the lifecycle of a cashier session.
// At most one ABERTO session per operator, enforced by a partial unique
// index on (usuario_id) WHERE status = 'ABERTO' (see infra.applySchemaPatches)
// in addition to the check in CaixaService.AbrirSessao.
type SessaoCaixa struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ValorInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ValorFinalInformado is the drawer amount counted by the operator at close.
	ValorFinalInformado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status              string           `gorm:"type:varchar(20);not null;default:'ABERTO'"`
	DataAbertura        time.Time
	DataFechamento      *time.Time

	Usuario    *Usuario         `gorm:"foreignKey:UsuarioID"`
	Movimentos []MovimentoCaixa `gorm:"foreignKey:SessaoID;constraint:OnDelete:RESTRICT"`
	Vendas     []Venda          `gorm:"foreignKey:SessaoID;constraint:OnDelete:RESTRICT"`
}

func (SessaoCaixa) TableName() string { return "sessoes_caixa" }

// MovimentoCaixa is an immutable event in the cash drawer ledger.
// SUPRIMENTO adds cash to the drawer, SANGRIA removes it. Rows are never
// updated or deleted; reversals create inverse entries.
type MovimentoCaixa struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessaoID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo      string          `gorm:"type:varchar(20);not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo    string          `gorm:"not null"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	// ReferenciaID links to the originating Venda or Devolucao when the
	// movement compensates a cancellation or a refund.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (MovimentoCaixa) TableName() string { return "movimentos_caixa" }
