package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemDevolucaoRequest struct {
	ItemVendaID string `json:"item_venda_id" validate:"required,uuid"`
	Quantidade  int    `json:"quantidade"    validate:"required,min=1"`
}

type RegistrarDevolucaoRequest struct {
	VendaID string                 `json:"venda_id" validate:"required,uuid"`
	Motivo  string                 `json:"motivo"   validate:"required,min=5"`
	Itens   []ItemDevolucaoRequest `json:"itens"    validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemDevolucaoResponse struct {
	ItemVendaID string          `json:"item_venda_id"`
	Produto     string          `json:"produto"`
	Quantidade  int             `json:"quantidade"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// DevolucaoResponse reports the processed return. Quantities are the ones
// actually accepted, after clamping to what remains returnable per line.
type DevolucaoResponse struct {
	ID         string                  `json:"id"`
	VendaID    string                  `json:"venda_id"`
	SessaoID   string                  `json:"sessao_id"`
	Motivo     string                  `json:"motivo"`
	Itens      []ItemDevolucaoResponse `json:"itens"`
	ValorTotal decimal.Decimal         `json:"valor_total"`
	CreatedAt  string                  `json:"created_at"`
}
