package dto

type CriarFornecedorRequest struct {
	NomeFantasia string  `json:"nome_fantasia" validate:"required,min=2,max=120"`
	RazaoSocial  *string `json:"razao_social"  validate:"omitempty,min=2,max=160"`
	CNPJ         string  `json:"cnpj"          validate:"required,min=14,max=18"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Telefone     *string `json:"telefone"      validate:"omitempty,min=8,max=20"`
}

type AtualizarFornecedorRequest struct {
	NomeFantasia *string `json:"nome_fantasia" validate:"omitempty,min=2,max=120"`
	RazaoSocial  *string `json:"razao_social"  validate:"omitempty,min=2,max=160"`
	CNPJ         string  `json:"cnpj"          validate:"omitempty,min=14,max=18"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Telefone     *string `json:"telefone"      validate:"omitempty,min=8,max=20"`
	Ativo        *bool   `json:"ativo"`
}

type FornecedorResponse struct {
	ID           string  `json:"id"`
	NomeFantasia string  `json:"nome_fantasia"`
	RazaoSocial  *string `json:"razao_social"`
	CNPJ         string  `json:"cnpj"`
	Email        *string `json:"email"`
	Telefone     *string `json:"telefone"`
	Ativo        bool    `json:"ativo"`
}
