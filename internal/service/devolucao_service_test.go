package service

import (
	"context"
	"testing"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type devolucaoFixture struct {
	svc           DevolucaoService
	vendaSvc      VendaService
	devolucaoRepo *stubDevolucaoRepo
	vendaRepo     *stubVendaRepo
	caixaRepo     *stubCaixaRepo
	produtoRepo   *stubProdutoRepo
	movRepo       *stubMovimentoEstoqueRepo
}

func buildDevolucaoSvc() *devolucaoFixture {
	devolucaoRepo := newStubDevolucaoRepo()
	vendaRepo := newStubVendaRepo()
	caixaRepo := newStubCaixaRepo()
	produtoRepo := newStubProdutoRepo()
	movRepo := &stubMovimentoEstoqueRepo{}

	caixaSvc := NewCaixaService(caixaRepo, vendaRepo)
	estoqueSvc := NewEstoqueService(produtoRepo, movRepo)
	vendaSvc := NewVendaService(vendaRepo, caixaSvc, caixaRepo, estoqueSvc, nil)
	svc := NewDevolucaoService(devolucaoRepo, vendaRepo, caixaSvc, caixaRepo, estoqueSvc)

	return &devolucaoFixture{
		svc:           svc,
		vendaSvc:      vendaSvc,
		devolucaoRepo: devolucaoRepo,
		vendaRepo:     vendaRepo,
		caixaRepo:     caixaRepo,
		produtoRepo:   produtoRepo,
		movRepo:       movRepo,
	}
}

// registra uma venda concluída e devolve o modelo persistido (com os ids de item).
func (f *devolucaoFixture) vendaConcluida(t *testing.T, operador uuid.UUID, p *model.Produto, qtd int, pagamento string) *model.Venda {
	t.Helper()
	resp, err := f.vendaSvc.RegistrarVenda(context.Background(), operador, dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{{ProdutoID: p.ID.String(), Quantidade: qtd}},
		FormaPagamento: pagamento,
	})
	require.NoError(t, err)
	venda, ok := f.vendaRepo.vendas[uuid.MustParse(resp.ID)]
	require.True(t, ok)
	return venda
}

func TestRegistrarDevolucaoParcial(t *testing.T) {
	f := buildDevolucaoSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 100)
	p := seedProduto(f.produtoRepo, "Shampoo", 15.00, 10)
	venda := f.vendaConcluida(t, operador, p, 3, model.PagamentoDinheiro)
	require.Equal(t, 7, p.Estoque)

	resp, err := f.svc.RegistrarDevolucao(context.Background(), operador, dto.RegistrarDevolucaoRequest{
		VendaID: venda.ID.String(),
		Motivo:  "produto com defeito",
		Itens:   []dto.ItemDevolucaoRequest{{ItemVendaID: venda.Itens[0].ID.String(), Quantidade: 1}},
	})
	require.NoError(t, err)

	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(15)))
	require.Len(t, resp.Itens, 1)
	assert.Equal(t, 1, resp.Itens[0].Quantidade)
	assert.Equal(t, 8, p.Estoque)

	// Cash sale: refund hits the drawer as a SANGRIA referencing the return.
	require.Len(t, f.caixaRepo.movimentos, 1)
	sangria := f.caixaRepo.movimentos[0]
	assert.Equal(t, model.CaixaSangria, sangria.Tipo)
	assert.True(t, sangria.Valor.Equal(decimal.NewFromInt(15)))
	require.NotNil(t, sangria.ReferenciaID)
	assert.Equal(t, resp.ID, sangria.ReferenciaID.String())
}

func TestRegistrarDevolucaoTravaNoTeto(t *testing.T) {
	f := buildDevolucaoSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Caneta", 2.00, 10)
	venda := f.vendaConcluida(t, operador, p, 3, model.PagamentoPix)

	// Asked for 5, sold 3: accepted quantity clamps to 3.
	resp, err := f.svc.RegistrarDevolucao(context.Background(), operador, dto.RegistrarDevolucaoRequest{
		VendaID: venda.ID.String(),
		Motivo:  "cliente desistiu da compra",
		Itens:   []dto.ItemDevolucaoRequest{{ItemVendaID: venda.Itens[0].ID.String(), Quantidade: 5}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Itens, 1)
	assert.Equal(t, 3, resp.Itens[0].Quantidade)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 10, p.Estoque)
}

func TestRegistrarDevolucaoRepetidaNadaADevolver(t *testing.T) {
	f := buildDevolucaoSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Lápis", 1.50, 10)
	venda := f.vendaConcluida(t, operador, p, 2, model.PagamentoPix)

	req := dto.RegistrarDevolucaoRequest{
		VendaID: venda.ID.String(),
		Motivo:  "produto errado na sacola",
		Itens:   []dto.ItemDevolucaoRequest{{ItemVendaID: venda.Itens[0].ID.String(), Quantidade: 2}},
	}
	_, err := f.svc.RegistrarDevolucao(context.Background(), operador, req)
	require.NoError(t, err)

	// Everything already came back: the second attempt has nothing to accept.
	_, err = f.svc.RegistrarDevolucao(context.Background(), operador, req)
	assert.ErrorIs(t, err, ErrNadaADevolver)
	assert.Equal(t, 10, p.Estoque)
}

func TestRegistrarDevolucaoVendaCancelada(t *testing.T) {
	f := buildDevolucaoSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Caderno", 12.00, 10)
	venda := f.vendaConcluida(t, operador, p, 1, model.PagamentoPix)
	venda.Status = model.VendaCancelada

	_, err := f.svc.RegistrarDevolucao(context.Background(), operador, dto.RegistrarDevolucaoRequest{
		VendaID: venda.ID.String(),
		Motivo:  "tentativa sobre venda cancelada",
		Itens:   []dto.ItemDevolucaoRequest{{ItemVendaID: venda.Itens[0].ID.String(), Quantidade: 1}},
	})
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestRegistrarDevolucaoSemSessaoAberta(t *testing.T) {
	f := buildDevolucaoSvc()
	operador := uuid.New()
	sessao := seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Borracha", 0.80, 10)
	venda := f.vendaConcluida(t, operador, p, 1, model.PagamentoDinheiro)

	sessao.Status = model.SessaoFechada

	_, err := f.svc.RegistrarDevolucao(context.Background(), operador, dto.RegistrarDevolucaoRequest{
		VendaID: venda.ID.String(),
		Motivo:  "devolução fora de expediente",
		Itens:   []dto.ItemDevolucaoRequest{{ItemVendaID: venda.Itens[0].ID.String(), Quantidade: 1}},
	})
	assert.ErrorIs(t, err, ErrSemSessaoAberta)
}

func TestRegistrarDevolucaoItemDeOutraVenda(t *testing.T) {
	f := buildDevolucaoSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Régua", 3.50, 10)
	venda := f.vendaConcluida(t, operador, p, 1, model.PagamentoPix)
	outra := f.vendaConcluida(t, operador, p, 1, model.PagamentoPix)

	_, err := f.svc.RegistrarDevolucao(context.Background(), operador, dto.RegistrarDevolucaoRequest{
		VendaID: venda.ID.String(),
		Motivo:  "item não pertence à venda",
		Itens:   []dto.ItemDevolucaoRequest{{ItemVendaID: outra.Itens[0].ID.String(), Quantidade: 1}},
	})
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestRegistrarDevolucaoNaoDinheiroSemSangria(t *testing.T) {
	f := buildDevolucaoSvc()
	operador := uuid.New()
	seedSessaoAberta(f.caixaRepo, operador, 0)
	p := seedProduto(f.produtoRepo, "Mochila", 80.00, 5)
	venda := f.vendaConcluida(t, operador, p, 1, model.PagamentoCredito)

	_, err := f.svc.RegistrarDevolucao(context.Background(), operador, dto.RegistrarDevolucaoRequest{
		VendaID: venda.ID.String(),
		Motivo:  "troca por outro modelo",
		Itens:   []dto.ItemDevolucaoRequest{{ItemVendaID: venda.Itens[0].ID.String(), Quantidade: 1}},
	})
	require.NoError(t, err)

	// Card refund happens at the acquirer, never in the drawer.
	assert.Empty(t, f.caixaRepo.movimentos)
	assert.Equal(t, 5, p.Estoque)
}
