package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VendaFilter is bound from the query string of GET /v1/vendas.
type VendaFilter struct {
	Data   string `form:"data"`                    // YYYY-MM-DD; empty = today
	Status string `form:"status,default=all"`      // CONCLUIDA | CANCELADA | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID  string `json:"produto_id" validate:"required,uuid"`
	Quantidade int    `json:"quantidade" validate:"required,min=1"`
}

// RegistrarVendaRequest carries the cart plus an optional discount. The
// discount is either a percentage over the gross ("PERCENTUAL", clamped to
// 0..100) or an absolute amount ("VALOR", clamped to 0..gross).
type RegistrarVendaRequest struct {
	Itens          []ItemVendaRequest `json:"itens"           validate:"required,min=1,dive"`
	FormaPagamento string             `json:"forma_pagamento" validate:"required,oneof=DINHEIRO DEBITO CREDITO PIX BOLETO OUTRO"`
	DescontoTipo   *string            `json:"desconto_tipo"   validate:"omitempty,oneof=PERCENTUAL VALOR"`
	DescontoValor  *decimal.Decimal   `json:"desconto_valor"  validate:"omitempty"`
	ClienteID      *string            `json:"cliente_id"      validate:"omitempty,uuid"`
	// ClienteEmail: optional; when present the receipt worker mails the PDF.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type CancelarVendaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Produto       string          `json:"produto"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID             string              `json:"id"`
	NumeroTicket   int                 `json:"numero_ticket"`
	SessaoID       *string             `json:"sessao_id"`
	UsuarioID      string              `json:"usuario_id"`
	ClienteID      *string             `json:"cliente_id"`
	Itens          []ItemVendaResponse `json:"itens"`
	FormaPagamento string              `json:"forma_pagamento"`
	ValorBruto     decimal.Decimal     `json:"valor_bruto"`
	Desconto       decimal.Decimal     `json:"desconto"`
	ValorTotal     decimal.Decimal     `json:"valor_total"`
	Status         string              `json:"status"`
	CreatedAt      string              `json:"created_at"`
}

// CancelamentoResponse reports the outcome of a cancellation. Aviso is set
// when the cash refund could not be tied to an open session.
type CancelamentoResponse struct {
	Venda VendaResponse `json:"venda"`
	Aviso *string       `json:"aviso,omitempty"`
}
