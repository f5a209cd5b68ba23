package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarClienteRequest struct {
	Nome     string  `json:"nome"      validate:"required,min=2,max=120"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Telefone *string `json:"telefone"  validate:"omitempty,min=8,max=20"`
	// Documento is a CPF; punctuation is stripped and check digits verified
	// by the service before persisting.
	Documento *string `json:"documento" validate:"omitempty,min=11,max=14"`
}

type AtualizarClienteRequest struct {
	Nome      *string `json:"nome"      validate:"omitempty,min=2,max=120"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefone  *string `json:"telefone"  validate:"omitempty,min=8,max=20"`
	Documento *string `json:"documento" validate:"omitempty,min=11,max=14"`
}

type ClienteFilter struct {
	Nome      string `form:"nome"`
	Documento string `form:"documento"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nome      string  `json:"nome"`
	Email     *string `json:"email"`
	Telefone  *string `json:"telefone"`
	Documento *string `json:"documento"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
