package service

import (
	"context"
	"errors"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"
	"vendafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PrecoCacheKey is the redis key for the public price lookup of a product.
// ProdutoService invalidates it on every price or catalog change.
func PrecoCacheKey(produtoID uuid.UUID) string { return "preco:" + produtoID.String() }

type ProdutoService interface {
	Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	HistoricoPrecos(ctx context.Context, id uuid.UUID) ([]dto.HistoricoPrecoResponse, error)
}

type produtoService struct {
	repo          repository.ProdutoRepository
	historicoRepo repository.HistoricoPrecoRepository
	usuarioRepo   repository.UsuarioRepository
	rdb           *redis.Client
}

func NewProdutoService(
	repo repository.ProdutoRepository,
	historicoRepo repository.HistoricoPrecoRepository,
	usuarioRepo repository.UsuarioRepository,
	rdb *redis.Client,
) ProdutoService {
	return &produtoService{repo: repo, historicoRepo: historicoRepo, usuarioRepo: usuarioRepo, rdb: rdb}
}

func (s *produtoService) Criar(ctx context.Context, usuarioID uuid.UUID, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	var categoriaID *uuid.UUID
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, ErrEstadoInvalido
		}
		categoriaID = &cid
	}

	p := &model.Produto{
		Nome:          req.Nome,
		Descricao:     req.Descricao,
		CategoriaID:   categoriaID,
		PrecoCusto:    req.PrecoCusto,
		Preco:         req.Preco,
		Estoque:       req.Estoque,
		EstoqueMinimo: req.EstoqueMinimo,
		Ativo:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProdutoNaoEncontrado
		}
		return nil, err
	}
	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		data = append(data, produtoToResponse(&produtos[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProdutoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Atualizar updates catalog fields. Estoque is deliberately absent: stock
// only moves through EstoqueService. Price changes append to the price
// history log and invalidate the public price cache.
func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProdutoNaoEncontrado
		}
		return nil, err
	}

	precoAntes := p.Preco
	custoAntes := p.PrecoCusto

	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, ErrEstadoInvalido
		}
		p.CategoriaID = &cid
	}
	if req.Preco != nil {
		p.Preco = *req.Preco
	}
	if req.PrecoCusto != nil {
		p.PrecoCusto = *req.PrecoCusto
	}
	if req.EstoqueMinimo != nil {
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	mudouPreco := !p.Preco.Equal(precoAntes) || !p.PrecoCusto.Equal(custoAntes)
	if mudouPreco {
		h := &model.HistoricoPreco{
			ProdutoID:   p.ID,
			PrecoAntes:  precoAntes,
			PrecoDepois: p.Preco,
			CustoAntes:  custoAntes,
			CustoDepois: p.PrecoCusto,
			UsuarioID:   usuarioID,
		}
		if err := s.historicoRepo.Create(ctx, h); err != nil {
			log.Error().Err(err).Str("produto_id", p.ID.String()).Msg("falha ao registrar histórico de preço")
		}
	}

	s.invalidatePrecoCache(ctx, p.ID)

	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidatePrecoCache(ctx, id)
	return nil
}

func (s *produtoService) HistoricoPrecos(ctx context.Context, id uuid.UUID) ([]dto.HistoricoPrecoResponse, error) {
	historico, err := s.historicoRepo.ListByProduto(ctx, id, 50)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoricoPrecoResponse, 0, len(historico))
	for _, h := range historico {
		nome := ""
		if u, err := s.usuarioRepo.FindByID(ctx, h.UsuarioID); err == nil {
			nome = u.Nome
		}
		out = append(out, dto.HistoricoPrecoResponse{
			PrecoAntes:  h.PrecoAntes,
			PrecoDepois: h.PrecoDepois,
			CustoAntes:  h.CustoAntes,
			CustoDepois: h.CustoDepois,
			Usuario:     nome,
			CreatedAt:   h.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

func (s *produtoService) invalidatePrecoCache(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, PrecoCacheKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("produto_id", id.String()).Msg("falha ao invalidar cache de preço")
	}
}

func produtoToResponse(p *model.Produto) dto.ProdutoResponse {
	var categoria *string
	var categoriaID *string
	if p.Categoria != nil {
		categoria = &p.Categoria.Nome
	}
	if p.CategoriaID != nil {
		cid := p.CategoriaID.String()
		categoriaID = &cid
	}

	margem := decimal.Zero
	if !p.PrecoCusto.IsZero() {
		margem = p.Preco.Sub(p.PrecoCusto).Div(p.PrecoCusto).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return dto.ProdutoResponse{
		ID:            p.ID.String(),
		Nome:          p.Nome,
		Descricao:     p.Descricao,
		Categoria:     categoria,
		CategoriaID:   categoriaID,
		PrecoCusto:    p.PrecoCusto,
		Preco:         p.Preco,
		MargemPct:     margem,
		Estoque:       p.Estoque,
		EstoqueMinimo: p.EstoqueMinimo,
		Ativo:         p.Ativo,
	}
}
