package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"
	"vendafacil/internal/repository"
	"vendafacil/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaService interface {
	RegistrarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	CancelarVenda(ctx context.Context, usuarioID uuid.UUID, vendaID uuid.UUID, motivo string) (*dto.CancelamentoResponse, error)
	FindVenda(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	ListVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
}

type vendaService struct {
	repo       repository.VendaRepository
	caixa      CaixaService
	caixaRepo  repository.CaixaRepository
	estoque    EstoqueService
	dispatcher *worker.Dispatcher
}

func NewVendaService(
	repo repository.VendaRepository,
	caixa CaixaService,
	caixaRepo repository.CaixaRepository,
	estoque EstoqueService,
	dispatcher *worker.Dispatcher,
) VendaService {
	return &vendaService{
		repo:       repo,
		caixa:      caixa,
		caixaRepo:  caixaRepo,
		estoque:    estoque,
		dispatcher: dispatcher,
	}
}

// ── RegistrarVenda ────────────────────────────────────────────────────────────
// Single ACID transaction:
//  1. require an open session for the operator
//  2. BEGIN TX: nextval ticket; for each cart line (ascending product id)
//     lock the product row, decrement stock, append SAIDA_VENDA movement
//  3. freeze unit prices from the locked rows, apply the clamped discount
//  4. insert venda + itens, COMMIT
//  5. (async) dispatch receipt job
//
// Lines are processed in ascending product id so two concurrent sales that
// share products always acquire row locks in the same order and cannot
// deadlock. Any failure rolls back everything: no partial stock writes, no
// orphan movements, no half-created sale.

func (s *vendaService) RegistrarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	if len(req.Itens) == 0 {
		return nil, ErrCarrinhoVazio
	}

	sessao, err := s.caixa.SessaoAberta(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	// Merge duplicate product lines and sort by product id for a stable
	// lock acquisition order.
	type linha struct {
		produtoID  uuid.UUID
		quantidade int
	}
	porProduto := make(map[uuid.UUID]int, len(req.Itens))
	for _, item := range req.Itens {
		pid, err := uuid.Parse(item.ProdutoID)
		if err != nil {
			return nil, fmt.Errorf("produto_id inválido: %w", err)
		}
		porProduto[pid] += item.Quantidade
	}
	linhas := make([]linha, 0, len(porProduto))
	for pid, qtd := range porProduto {
		linhas = append(linhas, linha{produtoID: pid, quantidade: qtd})
	}
	sort.Slice(linhas, func(i, j int) bool {
		return linhas[i].produtoID.String() < linhas[j].produtoID.String()
	})

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		clienteID = &cid
	}

	var venda model.Venda
	nomes := make(map[uuid.UUID]string, len(linhas))

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticket, err := s.repo.NextNumeroTicket(tx)
		if err != nil {
			return err
		}

		// The sale id is generated up front so every stock movement can
		// reference it before the venda row itself is inserted.
		vendaID := uuid.New()
		sessaoID := sessao.ID

		bruto := decimal.Zero
		itens := make([]model.ItemVenda, 0, len(linhas))

		for _, l := range linhas {
			p, err := s.estoque.AjustarEstoqueTx(tx, l.produtoID, -l.quantidade,
				model.MovSaidaVenda, fmt.Sprintf("Venda #%d", ticket), usuarioID, &vendaID)
			if err != nil {
				return err
			}
			if !p.Ativo {
				return fmt.Errorf("%w: %s", ErrProdutoInativo, p.Nome)
			}
			nomes[l.produtoID] = p.Nome

			subtotal := p.Preco.Mul(decimal.NewFromInt(int64(l.quantidade)))
			bruto = bruto.Add(subtotal)
			itens = append(itens, model.ItemVenda{
				ProdutoID:     l.produtoID,
				Quantidade:    l.quantidade,
				PrecoUnitario: p.Preco,
				Subtotal:      subtotal,
			})
		}

		desconto := calcularDesconto(bruto, req.DescontoTipo, req.DescontoValor)
		total := bruto.Sub(desconto)

		venda = model.Venda{
			ID:             vendaID,
			NumeroTicket:   ticket,
			SessaoID:       &sessaoID,
			UsuarioID:      usuarioID,
			ClienteID:      clienteID,
			FormaPagamento: req.FormaPagamento,
			ValorBruto:     bruto,
			Desconto:       desconto,
			ValorTotal:     total,
			Status:         model.VendaConcluida,
			Itens:          itens,
		}
		return s.repo.CreateTx(tx, &venda)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Int("numero_ticket", venda.NumeroTicket).
		Str("venda_id", venda.ID.String()).
		Str("usuario_id", usuarioID.String()).
		Str("valor_total", venda.ValorTotal.String()).
		Str("forma_pagamento", venda.FormaPagamento).
		Msg("venda registrada")

	// Receipt generation is best effort and never blocks the sale.
	if s.dispatcher != nil {
		payload := map[string]interface{}{"venda_id": venda.ID.String()}
		if req.ClienteEmail != nil && *req.ClienteEmail != "" {
			payload["cliente_email"] = *req.ClienteEmail
		}
		_ = s.dispatcher.EnqueueRecibo(ctx, payload)
	}

	resp := vendaToResponse(&venda)
	for i := range resp.Itens {
		pid, _ := uuid.Parse(resp.Itens[i].ProdutoID)
		resp.Itens[i].Produto = nomes[pid]
	}
	return resp, nil
}

// calcularDesconto clamps the requested discount instead of rejecting it:
// percentages outside 0..100 and amounts outside 0..bruto are pulled back
// to the nearest bound.
func calcularDesconto(bruto decimal.Decimal, tipo *string, valor *decimal.Decimal) decimal.Decimal {
	if tipo == nil || valor == nil {
		return decimal.Zero
	}
	v := *valor
	switch *tipo {
	case "PERCENTUAL":
		cem := decimal.NewFromInt(100)
		if v.IsNegative() {
			v = decimal.Zero
		}
		if v.GreaterThan(cem) {
			v = cem
		}
		return bruto.Mul(v).Div(cem).Round(2)
	case "VALOR":
		if v.IsNegative() {
			return decimal.Zero
		}
		if v.GreaterThan(bruto) {
			return bruto
		}
		return v
	}
	return decimal.Zero
}

// ── CancelarVenda ─────────────────────────────────────────────────────────────
// Inverse of RegistrarVenda, in one transaction: lock the sale, restore
// stock per item with ENTRADA movements, mark the sale CANCELADA and, for
// cash sales, record a SANGRIA. The refund lands in the canceling operator's
// open session; when there is none it falls back to the sale's original
// session if still open. When neither exists the cancellation succeeds and
// the response carries an Aviso so the shortage can be handled manually.
//
// Idempotent: a sale already CANCELADA fails with ErrVendaJaCancelada and
// nothing is written twice.

func (s *vendaService) CancelarVenda(ctx context.Context, usuarioID uuid.UUID, vendaID uuid.UUID, motivo string) (*dto.CancelamentoResponse, error) {
	var venda *model.Venda
	var aviso *string

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDForUpdateTx(tx, vendaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVendaNaoEncontrada
			}
			return err
		}
		if v.Status == model.VendaCancelada {
			return ErrVendaJaCancelada
		}
		if v.Status != model.VendaConcluida {
			return ErrEstadoInvalido
		}

		itens, err := s.repo.FindItensTx(tx, v.ID)
		if err != nil {
			return err
		}

		for _, item := range itens {
			ref := v.ID
			if _, err := s.estoque.AjustarEstoqueTx(tx, item.ProdutoID, item.Quantidade,
				model.MovEntrada, fmt.Sprintf("Cancelamento venda #%d: %s", v.NumeroTicket, motivo),
				usuarioID, &ref); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateStatusTx(tx, v.ID, model.VendaCancelada); err != nil {
			return err
		}
		v.Status = model.VendaCancelada

		if v.FormaPagamento == model.PagamentoDinheiro {
			a, err := s.estornoDinheiroTx(ctx, tx, v, usuarioID, motivo)
			if err != nil {
				return err
			}
			aviso = a
		}

		venda = v
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	evt := log.Info().
		Int("numero_ticket", venda.NumeroTicket).
		Str("venda_id", venda.ID.String()).
		Str("usuario_id", usuarioID.String())
	if aviso != nil {
		evt = evt.Str("aviso", *aviso)
	}
	evt.Msg("venda cancelada")

	return &dto.CancelamentoResponse{Venda: *vendaToResponse(venda), Aviso: aviso}, nil
}

// estornoDinheiroTx records the cash refund SANGRIA. Preference order:
// the actor's open session, then the sale's original session if still open.
func (s *vendaService) estornoDinheiroTx(ctx context.Context, tx *gorm.DB, v *model.Venda, usuarioID uuid.UUID, motivo string) (*string, error) {
	var sessaoID *uuid.UUID

	if aberta, err := s.caixaRepo.FindSessaoAbertaPorUsuario(ctx, usuarioID); err == nil && aberta != nil {
		sessaoID = &aberta.ID
	} else if v.SessaoID != nil {
		original, err := s.caixaRepo.FindSessaoByID(ctx, *v.SessaoID)
		if err == nil && original != nil && original.Status == model.SessaoAberta {
			sessaoID = v.SessaoID
		}
	}

	if sessaoID == nil {
		aviso := fmt.Sprintf(
			"estorno em dinheiro de %s não registrado em caixa: nenhuma sessão aberta; registre a sangria manualmente",
			v.ValorTotal.StringFixed(2))
		log.Warn().
			Str("venda_id", v.ID.String()).
			Str("valor", v.ValorTotal.String()).
			Msg("cancelamento de venda em dinheiro sem sessão aberta para estorno")
		return &aviso, nil
	}

	ref := v.ID
	mov := &model.MovimentoCaixa{
		SessaoID:     *sessaoID,
		Tipo:         model.CaixaSangria,
		Valor:        v.ValorTotal,
		Motivo:       fmt.Sprintf("Estorno cancelamento venda #%d: %s", v.NumeroTicket, motivo),
		UsuarioID:    usuarioID,
		ReferenciaID: &ref,
	}
	return nil, s.caixaRepo.CreateMovimentoTx(tx, mov)
}

func (s *vendaService) FindVenda(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendaNaoEncontrada
		}
		return nil, err
	}
	return vendaToResponse(venda), nil
}

// ListVendas returns a paginated list of sales, filtered by date and status.
// Default filter: today's sales, every status.
func (s *vendaService) ListVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	vendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VendaResponse, 0, len(vendas))
	for _, v := range vendas {
		data = append(data, *vendaToResponse(&v))
	}
	return &dto.VendaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for _, item := range v.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		itens = append(itens, dto.ItemVendaResponse{
			ProdutoID:     item.ProdutoID.String(),
			Produto:       nome,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      item.Subtotal,
		})
	}
	var sessaoID *string
	if v.SessaoID != nil {
		s := v.SessaoID.String()
		sessaoID = &s
	}
	var clienteID *string
	if v.ClienteID != nil {
		c := v.ClienteID.String()
		clienteID = &c
	}
	return &dto.VendaResponse{
		ID:             v.ID.String(),
		NumeroTicket:   v.NumeroTicket,
		SessaoID:       sessaoID,
		UsuarioID:      v.UsuarioID.String(),
		ClienteID:      clienteID,
		Itens:          itens,
		FormaPagamento: v.FormaPagamento,
		ValorBruto:     v.ValorBruto,
		Desconto:       v.Desconto,
		ValorTotal:     v.ValorTotal,
		Status:         v.Status,
		CreatedAt:      v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
