package service

import (
	"context"
	"errors"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"
	"vendafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EstoqueService owns the stock ledger. Every stock mutation in the system,
// manual or sale-driven, goes through AjustarEstoqueTx so the product row
// and its movement log never diverge.
type EstoqueService interface {
	// AjustarEstoqueTx locks the product row, applies the signed delta and
	// appends the matching MovimentoEstoque, all inside the caller's tx.
	// A delta that would drive the stock negative fails with
	// ErrEstoqueInsuficiente and nothing is written.
	AjustarEstoqueTx(tx *gorm.DB, produtoID uuid.UUID, delta int, tipo, motivo string, usuarioID uuid.UUID, referenciaID *uuid.UUID) (*model.Produto, error)

	// AjusteManual is the entry point for ENTRADA and the two AJUSTE kinds,
	// wrapping AjustarEstoqueTx in its own transaction.
	AjusteManual(ctx context.Context, produtoID uuid.UUID, usuarioID uuid.UUID, req dto.AjusteEstoqueRequest) (*dto.MovimentoEstoqueResponse, error)

	ListMovimentos(ctx context.Context, filter dto.MovimentoEstoqueFilter) (*dto.MovimentoEstoqueListResponse, error)
}

type estoqueService struct {
	produtoRepo   repository.ProdutoRepository
	movimentoRepo repository.MovimentoEstoqueRepository
}

func NewEstoqueService(
	produtoRepo repository.ProdutoRepository,
	movimentoRepo repository.MovimentoEstoqueRepository,
) EstoqueService {
	return &estoqueService{produtoRepo: produtoRepo, movimentoRepo: movimentoRepo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *estoqueService) AjustarEstoqueTx(tx *gorm.DB, produtoID uuid.UUID, delta int, tipo, motivo string, usuarioID uuid.UUID, referenciaID *uuid.UUID) (*model.Produto, error) {
	p, err := s.produtoRepo.FindByIDForUpdateTx(tx, produtoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProdutoNaoEncontrado
		}
		return nil, err
	}

	novo := p.Estoque + delta
	if novo < 0 {
		return nil, &EstoqueInsuficienteError{
			ProdutoID:  p.ID,
			Nome:       p.Nome,
			Disponivel: p.Estoque,
			Solicitado: -delta,
		}
	}

	if err := s.produtoRepo.UpdateEstoqueTx(tx, produtoID, novo); err != nil {
		return nil, err
	}

	mov := &model.MovimentoEstoque{
		ProdutoID:       produtoID,
		Tipo:            tipo,
		Quantidade:      delta,
		EstoqueAnterior: p.Estoque,
		EstoqueNovo:     novo,
		Motivo:          motivo,
		UsuarioID:       usuarioID,
		ReferenciaID:    referenciaID,
	}
	if err := s.movimentoRepo.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	p.Estoque = novo
	return p, nil
}

func (s *estoqueService) AjusteManual(ctx context.Context, produtoID uuid.UUID, usuarioID uuid.UUID, req dto.AjusteEstoqueRequest) (*dto.MovimentoEstoqueResponse, error) {
	if req.Tipo == model.MovEntrada && req.Quantidade <= 0 {
		return nil, ErrEstadoInvalido
	}

	var produto *model.Produto
	var movResp dto.MovimentoEstoqueResponse
	txErr := runTx(ctx, s.produtoRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.AjustarEstoqueTx(tx, produtoID, req.Quantidade, req.Tipo, req.Motivo, usuarioID, nil)
		if err != nil {
			return err
		}
		produto = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("produto_id", produtoID.String()).
		Str("tipo", req.Tipo).
		Int("quantidade", req.Quantidade).
		Int("estoque_novo", produto.Estoque).
		Msg("ajuste de estoque registrado")

	movResp = dto.MovimentoEstoqueResponse{
		ProdutoID:       produtoID.String(),
		Produto:         produto.Nome,
		Tipo:            req.Tipo,
		Quantidade:      req.Quantidade,
		EstoqueAnterior: produto.Estoque - req.Quantidade,
		EstoqueNovo:     produto.Estoque,
		Motivo:          req.Motivo,
		UsuarioID:       usuarioID.String(),
	}
	return &movResp, nil
}

func (s *estoqueService) ListMovimentos(ctx context.Context, filter dto.MovimentoEstoqueFilter) (*dto.MovimentoEstoqueListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movimentos, total, err := s.movimentoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimentoEstoqueResponse, 0, len(movimentos))
	for _, m := range movimentos {
		data = append(data, movimentoToResponse(&m))
	}
	return &dto.MovimentoEstoqueListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func movimentoToResponse(m *model.MovimentoEstoque) dto.MovimentoEstoqueResponse {
	nome := ""
	if m.Produto != nil {
		nome = m.Produto.Nome
	}
	var ref *string
	if m.ReferenciaID != nil {
		s := m.ReferenciaID.String()
		ref = &s
	}
	return dto.MovimentoEstoqueResponse{
		ID:              m.ID.String(),
		ProdutoID:       m.ProdutoID.String(),
		Produto:         nome,
		Tipo:            m.Tipo,
		Quantidade:      m.Quantidade,
		EstoqueAnterior: m.EstoqueAnterior,
		EstoqueNovo:     m.EstoqueNovo,
		Motivo:          m.Motivo,
		UsuarioID:       m.UsuarioID.String(),
		ReferenciaID:    ref,
		CreatedAt:       m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
