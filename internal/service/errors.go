package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain errors returned by the service layer. Handlers map them to HTTP
// status codes; callers test them with errors.Is.
var (
	ErrEstoqueInsuficiente  = errors.New("estoque insuficiente")
	ErrProdutoNaoEncontrado = errors.New("produto não encontrado")
	ErrProdutoInativo       = errors.New("produto inativo")
	ErrCarrinhoVazio        = errors.New("venda sem itens")

	ErrSessaoJaAberta  = errors.New("operador já possui sessão de caixa aberta")
	ErrSemSessaoAberta = errors.New("operador não possui sessão de caixa aberta")
	ErrSessaoFechada   = errors.New("sessão de caixa já está fechada")

	ErrVendaNaoEncontrada = errors.New("venda não encontrada")
	ErrVendaJaCancelada   = errors.New("venda já está cancelada")
	ErrEstadoInvalido     = errors.New("estado inválido para a operação")

	// ErrNadaADevolver means every requested return line clamped to zero.
	ErrNadaADevolver = errors.New("nenhuma quantidade disponível para devolução")

	ErrCPFInvalido           = errors.New("CPF inválido")
	ErrDocumentoJaCadastrado = errors.New("documento já cadastrado")

	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
	ErrUsuarioInativo       = errors.New("usuário inativo")
)

// EstoqueInsuficienteError carries the detail of a failed stock decrement.
// errors.Is(err, ErrEstoqueInsuficiente) matches it.
type EstoqueInsuficienteError struct {
	ProdutoID  uuid.UUID
	Nome       string
	Disponivel int
	Solicitado int
}

func (e *EstoqueInsuficienteError) Error() string {
	return fmt.Sprintf("estoque insuficiente para %q: disponível %d, solicitado %d",
		e.Nome, e.Disponivel, e.Solicitado)
}

func (e *EstoqueInsuficienteError) Unwrap() error { return ErrEstoqueInsuficiente }
