package service

import (
	"context"
	"errors"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"
	"vendafacil/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoriaService interface {
	Criar(ctx context.Context, req dto.CriarCategoriaRequest) (*dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarCategoriaRequest) (*dto.CategoriaResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func (s *categoriaService) Criar(ctx context.Context, req dto.CriarCategoriaRequest) (*dto.CategoriaResponse, error) {
	c := &model.Categoria{Nome: req.Nome, Descricao: req.Descricao, Ativo: true}
	if err := s.repo.Create(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEstadoInvalido
		}
		return nil, err
	}
	resp := categoriaToResponse(c)
	return &resp, nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		out = append(out, categoriaToResponse(&categorias[i]))
	}
	return out, nil
}

func (s *categoriaService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarCategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstadoInvalido
		}
		return nil, err
	}
	if req.Nome != nil {
		c.Nome = *req.Nome
	}
	if req.Descricao != nil {
		c.Descricao = req.Descricao
	}
	if req.Ativo != nil {
		c.Ativo = *req.Ativo
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := categoriaToResponse(c)
	return &resp, nil
}

func (s *categoriaService) Desativar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func categoriaToResponse(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:        c.ID.String(),
		Nome:      c.Nome,
		Descricao: c.Descricao,
		Ativo:     c.Ativo,
	}
}
