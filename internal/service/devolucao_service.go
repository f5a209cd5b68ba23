package service

import (
	"context"
	"errors"
	"fmt"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"
	"vendafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DevolucaoService interface {
	RegistrarDevolucao(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarDevolucaoRequest) (*dto.DevolucaoResponse, error)
	FindDevolucao(ctx context.Context, id uuid.UUID) (*dto.DevolucaoResponse, error)
	ListByVenda(ctx context.Context, vendaID uuid.UUID) ([]dto.DevolucaoResponse, error)
}

type devolucaoService struct {
	repo      repository.DevolucaoRepository
	vendaRepo repository.VendaRepository
	caixa     CaixaService
	caixaRepo repository.CaixaRepository
	estoque   EstoqueService
}

func NewDevolucaoService(
	repo repository.DevolucaoRepository,
	vendaRepo repository.VendaRepository,
	caixa CaixaService,
	caixaRepo repository.CaixaRepository,
	estoque EstoqueService,
) DevolucaoService {
	return &devolucaoService{
		repo:      repo,
		vendaRepo: vendaRepo,
		caixa:     caixa,
		caixaRepo: caixaRepo,
		estoque:   estoque,
	}
}

// ── RegistrarDevolucao ────────────────────────────────────────────────────────
// Partial return against a completed sale, in one transaction. The sale row
// is locked first, so concurrent returns against the same sale serialize and
// the per-line ceiling (cumulative returned quantity never exceeds the sold
// quantity) holds under contention.
//
// Requested quantities above the remaining returnable amount are clamped,
// not rejected; lines that clamp to zero are skipped. When every line
// clamps to zero the whole return fails with ErrNadaADevolver.
//
// Refund value uses the frozen sale price per line. Cash sales produce a
// SANGRIA in the operator's open session, which is required up front.

func (s *devolucaoService) RegistrarDevolucao(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarDevolucaoRequest) (*dto.DevolucaoResponse, error) {
	vendaID, err := uuid.Parse(req.VendaID)
	if err != nil {
		return nil, fmt.Errorf("venda_id inválido: %w", err)
	}

	sessao, err := s.caixa.SessaoAberta(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	var devolucao model.Devolucao

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venda, err := s.vendaRepo.FindByIDForUpdateTx(tx, vendaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVendaNaoEncontrada
			}
			return err
		}
		if venda.Status != model.VendaConcluida {
			return ErrEstadoInvalido
		}

		itensVenda, err := s.vendaRepo.FindItensTx(tx, venda.ID)
		if err != nil {
			return err
		}
		porID := make(map[uuid.UUID]*model.ItemVenda, len(itensVenda))
		for i := range itensVenda {
			porID[itensVenda[i].ID] = &itensVenda[i]
		}

		devolucaoID := uuid.New()
		valorTotal := decimal.Zero
		var itens []model.ItemDevolucao

		for _, reqItem := range req.Itens {
			itemID, err := uuid.Parse(reqItem.ItemVendaID)
			if err != nil {
				return fmt.Errorf("item_venda_id inválido: %w", err)
			}
			item, ok := porID[itemID]
			if !ok {
				return fmt.Errorf("%w: item %s não pertence à venda", ErrEstadoInvalido, reqItem.ItemVendaID)
			}

			devolvido, err := s.repo.SumDevolvidoTx(tx, item.ID)
			if err != nil {
				return err
			}
			restante := item.Quantidade - devolvido
			aceite := reqItem.Quantidade
			if aceite > restante {
				aceite = restante
			}
			if aceite <= 0 {
				continue
			}

			ref := devolucaoID
			if _, err := s.estoque.AjustarEstoqueTx(tx, item.ProdutoID, aceite,
				model.MovEntrada, fmt.Sprintf("Devolução venda #%d: %s", venda.NumeroTicket, req.Motivo),
				usuarioID, &ref); err != nil {
				return err
			}

			subtotal := item.PrecoUnitario.Mul(decimal.NewFromInt(int64(aceite)))
			valorTotal = valorTotal.Add(subtotal)
			itens = append(itens, model.ItemDevolucao{
				ItemVendaID: item.ID,
				Quantidade:  aceite,
				Subtotal:    subtotal,
			})
		}

		if len(itens) == 0 {
			return ErrNadaADevolver
		}

		devolucao = model.Devolucao{
			ID:         devolucaoID,
			VendaID:    venda.ID,
			SessaoID:   sessao.ID,
			UsuarioID:  usuarioID,
			Motivo:     req.Motivo,
			ValorTotal: valorTotal,
			Itens:      itens,
		}
		if err := s.repo.CreateTx(tx, &devolucao); err != nil {
			return err
		}

		if venda.FormaPagamento == model.PagamentoDinheiro {
			ref := devolucaoID
			mov := &model.MovimentoCaixa{
				SessaoID:     sessao.ID,
				Tipo:         model.CaixaSangria,
				Valor:        valorTotal,
				Motivo:       fmt.Sprintf("Reembolso devolução venda #%d", venda.NumeroTicket),
				UsuarioID:    usuarioID,
				ReferenciaID: &ref,
			}
			if err := s.caixaRepo.CreateMovimentoTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("devolucao_id", devolucao.ID.String()).
		Str("venda_id", devolucao.VendaID.String()).
		Str("usuario_id", usuarioID.String()).
		Str("valor_total", devolucao.ValorTotal.String()).
		Msg("devolução registrada")

	return devolucaoToResponse(&devolucao), nil
}

func (s *devolucaoService) FindDevolucao(ctx context.Context, id uuid.UUID) (*dto.DevolucaoResponse, error) {
	devolucao, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstadoInvalido
		}
		return nil, err
	}
	return devolucaoToResponse(devolucao), nil
}

func (s *devolucaoService) ListByVenda(ctx context.Context, vendaID uuid.UUID) ([]dto.DevolucaoResponse, error) {
	devolucoes, err := s.repo.ListByVenda(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DevolucaoResponse, 0, len(devolucoes))
	for i := range devolucoes {
		out = append(out, *devolucaoToResponse(&devolucoes[i]))
	}
	return out, nil
}

func devolucaoToResponse(d *model.Devolucao) *dto.DevolucaoResponse {
	itens := make([]dto.ItemDevolucaoResponse, 0, len(d.Itens))
	for _, item := range d.Itens {
		nome := ""
		if item.ItemVenda != nil && item.ItemVenda.Produto != nil {
			nome = item.ItemVenda.Produto.Nome
		}
		itens = append(itens, dto.ItemDevolucaoResponse{
			ItemVendaID: item.ItemVendaID.String(),
			Produto:     nome,
			Quantidade:  item.Quantidade,
			Subtotal:    item.Subtotal,
		})
	}
	return &dto.DevolucaoResponse{
		ID:         d.ID.String(),
		VendaID:    d.VendaID.String(),
		SessaoID:   d.SessaoID.String(),
		Motivo:     d.Motivo,
		Itens:      itens,
		ValorTotal: d.ValorTotal,
		CreatedAt:  d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
