package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Nome          string          `json:"nome"           validate:"required,min=2,max=120"`
	Descricao     *string         `json:"descricao"`
	CategoriaID   *string         `json:"categoria_id"   validate:"omitempty,uuid"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"    validate:"required"`
	Preco         decimal.Decimal `json:"preco"          validate:"required"`
	Estoque       int             `json:"estoque"        validate:"min=0"`
	EstoqueMinimo int             `json:"estoque_minimo" validate:"min=0"`
}

type AtualizarProdutoRequest struct {
	Nome          *string          `json:"nome"           validate:"omitempty,min=2,max=120"`
	Descricao     *string          `json:"descricao"`
	CategoriaID   *string          `json:"categoria_id"   validate:"omitempty,uuid"`
	PrecoCusto    *decimal.Decimal `json:"preco_custo"`
	Preco         *decimal.Decimal `json:"preco"`
	EstoqueMinimo *int             `json:"estoque_minimo" validate:"omitempty,min=0"`
	Ativo         *bool            `json:"ativo"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProdutoFilter struct {
	Nome        string `form:"nome"`
	CategoriaID string `form:"categoria_id"`
	// Abaixo filters to products at or below their minimum stock.
	AbaixoMinimo bool `form:"abaixo_minimo"`
	Page         int  `form:"page,default=1"   validate:"min=1"`
	Limit        int  `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID            string          `json:"id"`
	Nome          string          `json:"nome"`
	Descricao     *string         `json:"descricao"`
	Categoria     *string         `json:"categoria"`
	CategoriaID   *string         `json:"categoria_id"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"`
	Preco         decimal.Decimal `json:"preco"`
	MargemPct     decimal.Decimal `json:"margem_pct"`
	Estoque       int             `json:"estoque"`
	EstoqueMinimo int             `json:"estoque_minimo"`
	Ativo         bool            `json:"ativo"`
}

type ProdutoListResponse struct {
	Data       []ProdutoResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ConsultaPrecoResponse is returned by the public price check endpoint (no auth required).
type ConsultaPrecoResponse struct {
	Nome              string          `json:"nome"`
	Preco             decimal.Decimal `json:"preco"`
	EstoqueDisponivel int             `json:"estoque_disponivel"`
	Categoria         *string         `json:"categoria"`
}

type HistoricoPrecoResponse struct {
	PrecoAntes  decimal.Decimal `json:"preco_antes"`
	PrecoDepois decimal.Decimal `json:"preco_depois"`
	CustoAntes  decimal.Decimal `json:"custo_antes"`
	CustoDepois decimal.Decimal `json:"custo_depois"`
	Usuario     string          `json:"usuario"`
	CreatedAt   string          `json:"created_at"`
}
