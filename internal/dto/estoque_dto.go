package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AjusteEstoqueRequest is a manual stock adjustment. Quantidade is signed
// for AJUSTE_PERDA and AJUSTE_CONTAGEM, strictly positive for ENTRADA.
type AjusteEstoqueRequest struct {
	Tipo       string `json:"tipo"       validate:"required,oneof=ENTRADA AJUSTE_PERDA AJUSTE_CONTAGEM"`
	Quantidade int    `json:"quantidade" validate:"required"`
	Motivo     string `json:"motivo"     validate:"required,min=3"`
}

type MovimentoEstoqueFilter struct {
	ProdutoID string `form:"produto_id" validate:"omitempty,uuid"`
	Tipo      string `form:"tipo"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentoEstoqueResponse struct {
	ID              string  `json:"id"`
	ProdutoID       string  `json:"produto_id"`
	Produto         string  `json:"produto"`
	Tipo            string  `json:"tipo"`
	Quantidade      int     `json:"quantidade"`
	EstoqueAnterior int     `json:"estoque_anterior"`
	EstoqueNovo     int     `json:"estoque_novo"`
	Motivo          string  `json:"motivo"`
	UsuarioID       string  `json:"usuario_id"`
	ReferenciaID    *string `json:"referencia_id"`
	CreatedAt       string  `json:"created_at"`
}

type MovimentoEstoqueListResponse struct {
	Data  []MovimentoEstoqueResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}
