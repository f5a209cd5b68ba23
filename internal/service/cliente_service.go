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

type ClienteService interface {
	Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error)
	Remover(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	documento, err := s.validarDocumento(ctx, req.Documento, nil)
	if err != nil {
		return nil, err
	}

	c := &model.Cliente{
		Nome:      req.Nome,
		Email:     req.Email,
		Telefone:  req.Telefone,
		Documento: documento,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDocumentoJaCadastrado
		}
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstadoInvalido
		}
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Documento != "" {
		filter.Documento = NormalizarCPF(filter.Documento)
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		data = append(data, clienteToResponse(&clientes[i]))
	}
	return &dto.ClienteListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstadoInvalido
		}
		return nil, err
	}

	if req.Documento != nil {
		documento, err := s.validarDocumento(ctx, req.Documento, &id)
		if err != nil {
			return nil, err
		}
		c.Documento = documento
	}
	if req.Nome != nil {
		c.Nome = *req.Nome
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Telefone != nil {
		c.Telefone = req.Telefone
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDocumentoJaCadastrado
		}
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Remover(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// validarDocumento normalizes and validates a CPF, also checking it is not
// already registered to another client.
func (s *clienteService) validarDocumento(ctx context.Context, documento *string, selfID *uuid.UUID) (*string, error) {
	if documento == nil || *documento == "" {
		return nil, nil
	}
	normalizado := NormalizarCPF(*documento)
	if !ValidarCPF(normalizado) {
		return nil, ErrCPFInvalido
	}
	if existing, err := s.repo.FindByDocumento(ctx, normalizado); err == nil && existing != nil {
		if selfID == nil || existing.ID != *selfID {
			return nil, ErrDocumentoJaCadastrado
		}
	}
	return &normalizado, nil
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:        c.ID.String(),
		Nome:      c.Nome,
		Email:     c.Email,
		Telefone:  c.Telefone,
		Documento: c.Documento,
	}
}
