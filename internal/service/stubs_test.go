package service

// In-memory repository stubs shared by the service tests. The services run
// their transactions through runTx, which calls the closure with a nil tx
// when the repository reports no database, so every Tx method here simply
// ignores the tx argument.

import (
	"context"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"
	"vendafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Produto ───────────────────────────────────────────────────────────────────

type stubProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *stubProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProdutoRepo) List(_ context.Context, _ dto.ProdutoFilter) ([]model.Produto, int64, error) {
	out := make([]model.Produto, 0, len(r.produtos))
	for _, p := range r.produtos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = false
	}
	return nil
}

func (r *stubProdutoRepo) Reativar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = true
	}
	return nil
}

func (r *stubProdutoRepo) ListEstoqueBaixo(_ context.Context) ([]model.Produto, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if p.Ativo && p.Estoque <= p.EstoqueMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProdutoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProdutoRepo) UpdateEstoqueTx(_ *gorm.DB, id uuid.UUID, estoque int) error {
	p, ok := r.produtos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Estoque = estoque
	return nil
}

func (r *stubProdutoRepo) DB() *gorm.DB { return nil }

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

// ── MovimentoEstoque ──────────────────────────────────────────────────────────

type stubMovimentoEstoqueRepo struct {
	movimentos []model.MovimentoEstoque
}

func (r *stubMovimentoEstoqueRepo) CreateTx(_ *gorm.DB, m *model.MovimentoEstoque) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *stubMovimentoEstoqueRepo) List(_ context.Context, _ dto.MovimentoEstoqueFilter) ([]model.MovimentoEstoque, int64, error) {
	return r.movimentos, int64(len(r.movimentos)), nil
}

func (r *stubMovimentoEstoqueRepo) SumQuantidade(_ context.Context, produtoID uuid.UUID) (int, error) {
	total := 0
	for _, m := range r.movimentos {
		if m.ProdutoID == produtoID {
			total += m.Quantidade
		}
	}
	return total, nil
}

var _ repository.MovimentoEstoqueRepository = (*stubMovimentoEstoqueRepo)(nil)

// ── Venda ─────────────────────────────────────────────────────────────────────

type stubVendaRepo struct {
	vendas    map[uuid.UUID]*model.Venda
	ticketSeq int
}

func newStubVendaRepo() *stubVendaRepo {
	return &stubVendaRepo{vendas: make(map[uuid.UUID]*model.Venda)}
}

func (r *stubVendaRepo) CreateTx(_ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Itens {
		if v.Itens[i].ID == uuid.Nil {
			v.Itens[i].ID = uuid.New()
		}
		v.Itens[i].VendaID = v.ID
	}
	r.vendas[v.ID] = v
	return nil
}

func (r *stubVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVendaRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVendaRepo) FindItensTx(_ *gorm.DB, vendaID uuid.UUID) ([]model.ItemVenda, error) {
	v, ok := r.vendas[vendaID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v.Itens, nil
}

func (r *stubVendaRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	v, ok := r.vendas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Status = status
	return nil
}

func (r *stubVendaRepo) NextNumeroTicket(_ *gorm.DB) (int, error) {
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *stubVendaRepo) List(_ context.Context, _ dto.VendaFilter) ([]model.Venda, int64, error) {
	out := make([]model.Venda, 0, len(r.vendas))
	for _, v := range r.vendas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVendaRepo) SumDinheiroPorSessao(_ *gorm.DB, sessaoID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, v := range r.vendas {
		if v.SessaoID != nil && *v.SessaoID == sessaoID &&
			v.FormaPagamento == model.PagamentoDinheiro && v.Status == model.VendaConcluida {
			total = total.Add(v.ValorTotal)
		}
	}
	return total, nil
}

func (r *stubVendaRepo) DB() *gorm.DB { return nil }

var _ repository.VendaRepository = (*stubVendaRepo)(nil)

// ── Caixa ─────────────────────────────────────────────────────────────────────

type stubCaixaRepo struct {
	sessoes    map[uuid.UUID]*model.SessaoCaixa
	movimentos []model.MovimentoCaixa
	findErr    error // when set, lookups fail with this error
}

func newStubCaixaRepo() *stubCaixaRepo {
	return &stubCaixaRepo{sessoes: make(map[uuid.UUID]*model.SessaoCaixa)}
}

func (r *stubCaixaRepo) CreateSessao(_ context.Context, s *model.SessaoCaixa) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessoes[s.ID] = s
	return nil
}

func (r *stubCaixaRepo) FindSessaoAbertaPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, s := range r.sessoes {
		if s.UsuarioID == usuarioID && s.Status == model.SessaoAberta {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCaixaRepo) FindSessaoByID(_ context.Context, id uuid.UUID) (*model.SessaoCaixa, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.sessoes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubCaixaRepo) FindSessaoForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.SessaoCaixa, error) {
	s, ok := r.sessoes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubCaixaRepo) UpdateSessaoTx(_ *gorm.DB, s *model.SessaoCaixa) error {
	r.sessoes[s.ID] = s
	return nil
}

func (r *stubCaixaRepo) ListSessoes(_ context.Context, _ dto.SessaoFilter) ([]model.SessaoCaixa, int64, error) {
	out := make([]model.SessaoCaixa, 0, len(r.sessoes))
	for _, s := range r.sessoes {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubCaixaRepo) CreateMovimento(_ context.Context, m *model.MovimentoCaixa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *stubCaixaRepo) CreateMovimentoTx(_ *gorm.DB, m *model.MovimentoCaixa) error {
	return r.CreateMovimento(context.Background(), m)
}

func (r *stubCaixaRepo) ListMovimentos(_ context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error) {
	var out []model.MovimentoCaixa
	for _, m := range r.movimentos {
		if m.SessaoID == sessaoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubCaixaRepo) SumMovimentosPorTipo(_ *gorm.DB, sessaoID uuid.UUID, tipo string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movimentos {
		if m.SessaoID == sessaoID && m.Tipo == tipo {
			total = total.Add(m.Valor)
		}
	}
	return total, nil
}

func (r *stubCaixaRepo) DB() *gorm.DB { return nil }

var _ repository.CaixaRepository = (*stubCaixaRepo)(nil)

// ── Devolucao ─────────────────────────────────────────────────────────────────

type stubDevolucaoRepo struct {
	devolucoes map[uuid.UUID]*model.Devolucao
}

func newStubDevolucaoRepo() *stubDevolucaoRepo {
	return &stubDevolucaoRepo{devolucoes: make(map[uuid.UUID]*model.Devolucao)}
}

func (r *stubDevolucaoRepo) CreateTx(_ *gorm.DB, d *model.Devolucao) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	for i := range d.Itens {
		if d.Itens[i].ID == uuid.Nil {
			d.Itens[i].ID = uuid.New()
		}
		d.Itens[i].DevolucaoID = d.ID
	}
	r.devolucoes[d.ID] = d
	return nil
}

func (r *stubDevolucaoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Devolucao, error) {
	d, ok := r.devolucoes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *stubDevolucaoRepo) ListByVenda(_ context.Context, vendaID uuid.UUID) ([]model.Devolucao, error) {
	var out []model.Devolucao
	for _, d := range r.devolucoes {
		if d.VendaID == vendaID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDevolucaoRepo) SumDevolvidoTx(_ *gorm.DB, itemVendaID uuid.UUID) (int, error) {
	total := 0
	for _, d := range r.devolucoes {
		for _, item := range d.Itens {
			if item.ItemVendaID == itemVendaID {
				total += item.Quantidade
			}
		}
	}
	return total, nil
}

func (r *stubDevolucaoRepo) DB() *gorm.DB { return nil }

var _ repository.DevolucaoRepository = (*stubDevolucaoRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduto(repo *stubProdutoRepo, nome string, preco float64, estoque int) *model.Produto {
	p := &model.Produto{
		ID:      uuid.New(),
		Nome:    nome,
		Preco:   decimal.NewFromFloat(preco),
		Estoque: estoque,
		Ativo:   true,
	}
	repo.produtos[p.ID] = p
	return p
}

func seedSessaoAberta(repo *stubCaixaRepo, usuarioID uuid.UUID, valorInicial float64) *model.SessaoCaixa {
	s := &model.SessaoCaixa{
		ID:           uuid.New(),
		UsuarioID:    usuarioID,
		ValorInicial: decimal.NewFromFloat(valorInicial),
		Status:       model.SessaoAberta,
	}
	repo.sessoes[s.ID] = s
	return s
}
