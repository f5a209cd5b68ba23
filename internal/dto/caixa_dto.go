package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirSessaoRequest struct {
	ValorInicial decimal.Decimal `json:"valor_inicial" validate:"min=0"`
}

type FecharSessaoRequest struct {
	ValorFinalInformado decimal.Decimal `json:"valor_final_informado" validate:"min=0"`
}

// MovimentoCaixaRequest: motivo is mandatory for SANGRIA, optional for
// SUPRIMENTO.
type MovimentoCaixaRequest struct {
	Tipo   string          `json:"tipo"   validate:"required,oneof=SUPRIMENTO SANGRIA"`
	Valor  decimal.Decimal `json:"valor"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required_if=Tipo SANGRIA,omitempty,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentoCaixaResponse struct {
	ID           string          `json:"id"`
	Tipo         string          `json:"tipo"`
	Valor        decimal.Decimal `json:"valor"`
	Motivo       string          `json:"motivo"`
	UsuarioID    string          `json:"usuario_id"`
	ReferenciaID *string         `json:"referencia_id"`
	CreatedAt    string          `json:"created_at"`
}

type SessaoResponse struct {
	ID                  string           `json:"id"`
	UsuarioID           string           `json:"usuario_id"`
	Usuario             string           `json:"usuario"`
	ValorInicial        decimal.Decimal  `json:"valor_inicial"`
	ValorFinalInformado *decimal.Decimal `json:"valor_final_informado"`
	Status              string           `json:"status"`
	DataAbertura        string           `json:"data_abertura"`
	DataFechamento      *string          `json:"data_fechamento"`
}

// FechamentoResponse summarizes the reconciliation done at session close.
// Diferenca = ValorFinalInformado - ValorEsperado (negative means shortage).
type FechamentoResponse struct {
	Sessao              SessaoResponse  `json:"sessao"`
	ValorEsperado       decimal.Decimal `json:"valor_esperado"`
	ValorFinalInformado decimal.Decimal `json:"valor_final_informado"`
	Diferenca           decimal.Decimal `json:"diferenca"`
	TotalDinheiro       decimal.Decimal `json:"total_dinheiro"`
	TotalSuprimentos    decimal.Decimal `json:"total_suprimentos"`
	TotalSangrias       decimal.Decimal `json:"total_sangrias"`
}

type SessaoListResponse struct {
	Data  []SessaoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type SessaoFilter struct {
	UsuarioID string `form:"usuario_id"`
	Status    string `form:"status"` // ABERTO | FECHADO | empty = all
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}
