package service

import (
	"context"
	"errors"
	"testing"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vendaFixture struct {
	svc         VendaService
	caixaSvc    CaixaService
	vendaRepo   *stubVendaRepo
	caixaRepo   *stubCaixaRepo
	produtoRepo *stubProdutoRepo
	movRepo     *stubMovimentoEstoqueRepo
}

func buildVendaSvc() *vendaFixture {
	vendaRepo := newStubVendaRepo()
	caixaRepo := newStubCaixaRepo()
	produtoRepo := newStubProdutoRepo()
	movRepo := &stubMovimentoEstoqueRepo{}

	caixaSvc := NewCaixaService(caixaRepo, vendaRepo)
	estoqueSvc := NewEstoqueService(produtoRepo, movRepo)
	svc := NewVendaService(vendaRepo, caixaSvc, caixaRepo, estoqueSvc, nil)

	return &vendaFixture{
		svc:         svc,
		caixaSvc:    caixaSvc,
		vendaRepo:   vendaRepo,
		caixaRepo:   caixaRepo,
		produtoRepo: produtoRepo,
		movRepo:     movRepo,
	}
}

func TestRegistrarVendaDescontoPercentual(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 100)
	p := seedProduto(f.produtoRepo, "Café 500g", 100.00, 10)

	tipo := "PERCENTUAL"
	valor := decimal.NewFromInt(10)
	resp, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 2}},
		FormaPagamento: model.PagamentoDinheiro,
		DescontoTipo:   &tipo,
		DescontoValor:  &valor,
	})
	require.NoError(t, err)

	assert.True(t, resp.ValorBruto.Equal(decimal.NewFromInt(200)), "bruto = %s", resp.ValorBruto)
	assert.True(t, resp.Desconto.Equal(decimal.NewFromInt(20)), "desconto = %s", resp.Desconto)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(180)), "total = %s", resp.ValorTotal)
	assert.Equal(t, model.VendaConcluida, resp.Status)
	assert.Equal(t, 1, resp.NumeroTicket)

	// Stock decremented and the movement logged against the sale.
	assert.Equal(t, 8, p.Estoque)
	require.Len(t, f.movRepo.movimentos, 1)
	mov := f.movRepo.movimentos[0]
	assert.Equal(t, model.MovSaidaVenda, mov.Tipo)
	assert.Equal(t, -2, mov.Quantidade)
	assert.Equal(t, 10, mov.EstoqueAnterior)
	assert.Equal(t, 8, mov.EstoqueNovo)
	require.NotNil(t, mov.ReferenciaID)
	assert.Equal(t, resp.ID, mov.ReferenciaID.String())
}

func TestRegistrarVendaDescontoValor(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Arroz 5kg", 100.00, 10)

	tipo := "VALOR"
	valor := decimal.NewFromInt(50)
	resp, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 3}},
		FormaPagamento: model.PagamentoPix,
		DescontoTipo:   &tipo,
		DescontoValor:  &valor,
	})
	require.NoError(t, err)

	assert.True(t, resp.ValorBruto.Equal(decimal.NewFromInt(300)))
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(250)))
}

func TestRegistrarVendaSemSessaoAberta(t *testing.T) {
	f := buildVendaSvc()
	p := seedProduto(f.produtoRepo, "Feijão 1kg", 8.50, 10)

	_, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 1}},
		FormaPagamento: model.PagamentoDinheiro,
	})
	assert.ErrorIs(t, err, ErrSemSessaoAberta)
	assert.Equal(t, 10, p.Estoque)
}

func TestRegistrarVendaCarrinhoVazio(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)

	_, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          nil,
		FormaPagamento: model.PagamentoDinheiro,
	})
	assert.ErrorIs(t, err, ErrCarrinhoVazio)
}

func TestRegistrarVendaEstoqueInsuficiente(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Leite 1L", 6.00, 3)

	_, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 5}},
		FormaPagamento: model.PagamentoDinheiro,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEstoqueInsuficiente)

	var detalhe *EstoqueInsuficienteError
	require.True(t, errors.As(err, &detalhe))
	assert.Equal(t, 3, detalhe.Disponivel)
	assert.Equal(t, 5, detalhe.Solicitado)

	// The check fires before any write: stock untouched, no sale, no movement.
	assert.Equal(t, 3, p.Estoque)
	assert.Empty(t, f.vendaRepo.vendas)
	assert.Empty(t, f.movRepo.movimentos)
}

func TestRegistrarVendaProdutoInativo(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Produto Descontinuado", 10.00, 5)
	p.Ativo = false

	_, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 1}},
		FormaPagamento: model.PagamentoDinheiro,
	})
	assert.ErrorIs(t, err, ErrProdutoInativo)
}

func TestRegistrarVendaMesclaLinhasDuplicadas(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Refrigerante 2L", 9.00, 10)

	resp, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{ProdutoID: p.ID.String(), Quantidade: 1},
			{ProdutoID: p.ID.String(), Quantidade: 2},
		},
		FormaPagamento: model.PagamentoDebito,
	})
	require.NoError(t, err)

	require.Len(t, resp.Itens, 1)
	assert.Equal(t, 3, resp.Itens[0].Quantidade)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(27)))
	assert.Equal(t, 7, p.Estoque)
}

func TestCalcularDesconto(t *testing.T) {
	bruto := decimal.NewFromInt(200)
	pct := "PERCENTUAL"
	val := "VALOR"
	d := func(v int64) *decimal.Decimal {
		x := decimal.NewFromInt(v)
		return &x
	}

	cases := []struct {
		nome     string
		tipo     *string
		valor    *decimal.Decimal
		esperado decimal.Decimal
	}{
		{"sem desconto", nil, nil, decimal.Zero},
		{"percentual 10", &pct, d(10), decimal.NewFromInt(20)},
		{"percentual acima de 100 trava em 100", &pct, d(150), bruto},
		{"percentual negativo trava em 0", &pct, d(-5), decimal.Zero},
		{"valor dentro do bruto", &val, d(50), decimal.NewFromInt(50)},
		{"valor acima do bruto trava no bruto", &val, d(500), bruto},
		{"valor negativo trava em 0", &val, d(-10), decimal.Zero},
	}
	for _, tc := range cases {
		t.Run(tc.nome, func(t *testing.T) {
			got := calcularDesconto(bruto, tc.tipo, tc.valor)
			assert.True(t, got.Equal(tc.esperado), "got %s, want %s", got, tc.esperado)
		})
	}
}

func TestCancelarVendaRestauraEstoqueERegistraSangria(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 100)
	p := seedProduto(f.produtoRepo, "Açúcar 1kg", 5.00, 10)

	venda, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 4}},
		FormaPagamento: model.PagamentoDinheiro,
	})
	require.NoError(t, err)
	require.Equal(t, 6, p.Estoque)

	vendaID, err := uuid.Parse(venda.ID)
	require.NoError(t, err)

	resp, err := f.svc.CancelarVenda(context.Background(), operador, vendaID, "cliente desistiu")
	require.NoError(t, err)

	assert.Equal(t, model.VendaCancelada, resp.Venda.Status)
	assert.Nil(t, resp.Aviso)
	assert.Equal(t, 10, p.Estoque)

	// ENTRADA reversing the sale plus the cash refund SANGRIA.
	require.Len(t, f.movRepo.movimentos, 2)
	assert.Equal(t, model.MovEntrada, f.movRepo.movimentos[1].Tipo)
	assert.Equal(t, 4, f.movRepo.movimentos[1].Quantidade)

	require.Len(t, f.caixaRepo.movimentos, 1)
	sangria := f.caixaRepo.movimentos[0]
	assert.Equal(t, model.CaixaSangria, sangria.Tipo)
	assert.True(t, sangria.Valor.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, sangria.ReferenciaID)
	assert.Equal(t, vendaID, *sangria.ReferenciaID)
}

func TestCancelarVendaIdempotente(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Sabonete", 3.00, 10)

	venda, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 1}},
		FormaPagamento: model.PagamentoCredito,
	})
	require.NoError(t, err)
	vendaID := uuid.MustParse(venda.ID)

	_, err = f.svc.CancelarVenda(context.Background(), operador, vendaID, "erro de digitação")
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), operador, vendaID, "erro de digitação")
	assert.ErrorIs(t, err, ErrVendaJaCancelada)

	// Second attempt wrote nothing: a single ENTRADA, stock restored once.
	assert.Equal(t, 10, p.Estoque)
	assert.Len(t, f.movRepo.movimentos, 2)
}

func TestCancelarVendaCartaoNaoGeraSangria(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Detergente", 2.50, 10)

	venda, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 2}},
		FormaPagamento: model.PagamentoDebito,
	})
	require.NoError(t, err)

	resp, err := f.svc.CancelarVenda(context.Background(), operador, uuid.MustParse(venda.ID), "produto com defeito")
	require.NoError(t, err)

	assert.Nil(t, resp.Aviso)
	assert.Empty(t, f.caixaRepo.movimentos)
}

func TestCancelarVendaDinheiroSemSessaoAbertaGeraAviso(t *testing.T) {
	f := buildVendaSvc()
	operador := uuid.New()
	sessao := seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Óleo de Soja", 7.00, 10)

	venda, err := f.svc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: 1}},
		FormaPagamento: model.PagamentoDinheiro,
	})
	require.NoError(t, err)

	// Session closed between sale and cancellation: nowhere to land the refund.
	sessao.Status = model.SessaoFechada

	resp, err := f.svc.CancelarVenda(context.Background(), operador, uuid.MustParse(venda.ID), "cliente desistiu")
	require.NoError(t, err)

	assert.Equal(t, model.VendaCancelada, resp.Venda.Status)
	require.NotNil(t, resp.Aviso)
	assert.Contains(t, *resp.Aviso, "sangria")
	assert.Empty(t, f.caixaRepo.movimentos)
	assert.Equal(t, 10, p.Estoque)
}

func TestCancelarVendaInexistente(t *testing.T) {
	f := buildVendaSvc()
	_, err := f.svc.CancelarVenda(context.Background(), uuid.New(), uuid.New(), "qualquer")
	assert.ErrorIs(t, err, ErrVendaNaoEncontrada)
}
