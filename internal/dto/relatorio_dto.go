package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VendasPorPagamento struct {
	FormaPagamento string          `json:"forma_pagamento"`
	Quantidade     int64           `json:"quantidade"`
	Total          decimal.Decimal `json:"total"`
}

// RelatorioVendasResponse aggregates completed sales over a date range.
// Cancelled sales are excluded from every total.
type RelatorioVendasResponse struct {
	DataInicio    string               `json:"data_inicio"`
	DataFim       string               `json:"data_fim"`
	TotalVendas   int64                `json:"total_vendas"`
	ValorBruto    decimal.Decimal      `json:"valor_bruto"`
	Descontos     decimal.Decimal      `json:"descontos"`
	ValorLiquido  decimal.Decimal      `json:"valor_liquido"`
	TicketMedio   decimal.Decimal      `json:"ticket_medio"`
	PorPagamento  []VendasPorPagamento `json:"por_pagamento"`
	Cancelamentos int64                `json:"cancelamentos"`
}

type ProdutoMaisVendido struct {
	ProdutoID  string          `json:"produto_id"`
	Nome       string          `json:"nome"`
	Quantidade int64           `json:"quantidade"`
	Total      decimal.Decimal `json:"total"`
}

type RelatorioProdutosResponse struct {
	DataInicio string               `json:"data_inicio"`
	DataFim    string               `json:"data_fim"`
	Produtos   []ProdutoMaisVendido `json:"produtos"`
}

type EstoqueBaixoItem struct {
	ProdutoID     string `json:"produto_id"`
	Nome          string `json:"nome"`
	Estoque       int    `json:"estoque"`
	EstoqueMinimo int    `json:"estoque_minimo"`
}

type RelatorioEstoqueBaixoResponse struct {
	Produtos []EstoqueBaixoItem `json:"produtos"`
}

type RelatorioFilter struct {
	DataInicio string `form:"data_inicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim    string `form:"data_fim"    validate:"omitempty,datetime=2006-01-02"`
}
