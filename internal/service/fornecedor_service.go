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

type FornecedorService interface {
	Criar(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error)
	Listar(ctx context.Context) ([]dto.FornecedorResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarFornecedorRequest) (*dto.FornecedorResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type fornecedorService struct {
	repo repository.FornecedorRepository
}

func NewFornecedorService(repo repository.FornecedorRepository) FornecedorService {
	return &fornecedorService{repo: repo}
}

func (s *fornecedorService) Criar(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error) {
	f := &model.Fornecedor{
		NomeFantasia: req.NomeFantasia,
		RazaoSocial:  req.RazaoSocial,
		CNPJ:         req.CNPJ,
		Email:        req.Email,
		Telefone:     req.Telefone,
		Ativo:        true,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDocumentoJaCadastrado
		}
		return nil, err
	}
	resp := fornecedorToResponse(f)
	return &resp, nil
}

func (s *fornecedorService) Listar(ctx context.Context) ([]dto.FornecedorResponse, error) {
	fornecedores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FornecedorResponse, 0, len(fornecedores))
	for i := range fornecedores {
		out = append(out, fornecedorToResponse(&fornecedores[i]))
	}
	return out, nil
}

func (s *fornecedorService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarFornecedorRequest) (*dto.FornecedorResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstadoInvalido
		}
		return nil, err
	}
	if req.NomeFantasia != nil {
		f.NomeFantasia = *req.NomeFantasia
	}
	if req.RazaoSocial != nil {
		f.RazaoSocial = req.RazaoSocial
	}
	if req.CNPJ != "" {
		f.CNPJ = req.CNPJ
	}
	if req.Email != nil {
		f.Email = req.Email
	}
	if req.Telefone != nil {
		f.Telefone = req.Telefone
	}
	if req.Ativo != nil {
		f.Ativo = *req.Ativo
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	resp := fornecedorToResponse(f)
	return &resp, nil
}

func (s *fornecedorService) Desativar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func fornecedorToResponse(f *model.Fornecedor) dto.FornecedorResponse {
	return dto.FornecedorResponse{
		ID:           f.ID.String(),
		NomeFantasia: f.NomeFantasia,
		RazaoSocial:  f.RazaoSocial,
		CNPJ:         f.CNPJ,
		Email:        f.Email,
		Telefone:     f.Telefone,
		Ativo:        f.Ativo,
	}
}
