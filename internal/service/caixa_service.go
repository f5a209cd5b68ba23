package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"
	"vendafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaService interface {
	AbrirSessao(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirSessaoRequest) (*dto.SessaoResponse, error)
	FecharSessao(ctx context.Context, usuarioID uuid.UUID, req dto.FecharSessaoRequest) (*dto.FechamentoResponse, error)
	RegistrarMovimento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoCaixaResponse, error)
	// SessaoAberta returns the operator's open session; VendaService and
	// DevolucaoService call it before touching the drawer.
	SessaoAberta(ctx context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error)
	RelatorioSessao(ctx context.Context, sessaoID uuid.UUID) (*dto.FechamentoResponse, error)
	ListSessoes(ctx context.Context, filter dto.SessaoFilter) (*dto.SessaoListResponse, error)
}

type caixaService struct {
	repo      repository.CaixaRepository
	vendaRepo repository.VendaRepository
}

func NewCaixaService(repo repository.CaixaRepository, vendaRepo repository.VendaRepository) CaixaService {
	return &caixaService{repo: repo, vendaRepo: vendaRepo}
}

// ── AbrirSessao ───────────────────────────────────────────────────────────────
// One open session per operator. The service check catches the common case;
// the partial unique index on sessoes_caixa closes the race between two
// simultaneous opens.

func (s *caixaService) AbrirSessao(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirSessaoRequest) (*dto.SessaoResponse, error) {
	if existing, err := s.repo.FindSessaoAbertaPorUsuario(ctx, usuarioID); err == nil && existing != nil {
		return nil, ErrSessaoJaAberta
	}
	if req.ValorInicial.IsNegative() {
		return nil, ErrEstadoInvalido
	}

	sessao := &model.SessaoCaixa{
		UsuarioID:    usuarioID,
		ValorInicial: req.ValorInicial,
		Status:       model.SessaoAberta,
		DataAbertura: nowUTC(),
	}
	if err := s.repo.CreateSessao(ctx, sessao); err != nil {
		// Unique index violation: another request opened a session first.
		if isUniqueViolation(err) {
			return nil, ErrSessaoJaAberta
		}
		return nil, err
	}

	log.Info().
		Str("sessao_id", sessao.ID.String()).
		Str("usuario_id", usuarioID.String()).
		Str("valor_inicial", req.ValorInicial.String()).
		Msg("sessão de caixa aberta")

	resp := sessaoToResponse(sessao)
	return &resp, nil
}

// ── FecharSessao ──────────────────────────────────────────────────────────────
// Expected cash = valor_inicial + CONCLUIDA DINHEIRO sales + SUPRIMENTO
// - SANGRIA. Card, PIX and boleto sales never enter the drawer, so they are
// excluded. Diferenca = informado - esperado; negative means shortage.

func (s *caixaService) FecharSessao(ctx context.Context, usuarioID uuid.UUID, req dto.FecharSessaoRequest) (*dto.FechamentoResponse, error) {
	aberta, err := s.repo.FindSessaoAbertaPorUsuario(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemSessaoAberta
		}
		return nil, fmt.Errorf("fechar sessão: %w", err)
	}

	var resp *dto.FechamentoResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sessao, err := s.repo.FindSessaoForUpdateTx(tx, aberta.ID)
		if err != nil {
			return err
		}
		if sessao.Status != model.SessaoAberta {
			return ErrSessaoFechada
		}

		totais, err := s.totaisSessao(tx, sessao)
		if err != nil {
			return err
		}

		informado := req.ValorFinalInformado
		diferenca := informado.Sub(totais.esperado)

		now := nowUTC()
		sessao.ValorFinalInformado = &informado
		sessao.Status = model.SessaoFechada
		sessao.DataFechamento = &now
		if err := s.repo.UpdateSessaoTx(tx, sessao); err != nil {
			return err
		}

		resp = &dto.FechamentoResponse{
			Sessao:              sessaoToResponse(sessao),
			ValorEsperado:       totais.esperado,
			ValorFinalInformado: informado,
			Diferenca:           diferenca,
			TotalDinheiro:       totais.dinheiro,
			TotalSuprimentos:    totais.suprimentos,
			TotalSangrias:       totais.sangrias,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("sessao_id", aberta.ID.String()).
		Str("valor_esperado", resp.ValorEsperado.String()).
		Str("diferenca", resp.Diferenca.String()).
		Msg("sessão de caixa fechada")

	return resp, nil
}

// ── RegistrarMovimento ────────────────────────────────────────────────────────
// Manual SUPRIMENTO / SANGRIA against the operator's open session.
// Movements are immutable; there is no Update or Delete path.

func (s *caixaService) RegistrarMovimento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoCaixaResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, ErrEstadoInvalido
	}
	// Cash leaving the drawer always carries a justification.
	if req.Tipo == model.CaixaSangria && strings.TrimSpace(req.Motivo) == "" {
		return nil, ErrEstadoInvalido
	}
	sessao, err := s.SessaoAberta(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	mov := &model.MovimentoCaixa{
		SessaoID:  sessao.ID,
		Tipo:      req.Tipo,
		Valor:     req.Valor,
		Motivo:    req.Motivo,
		UsuarioID: usuarioID,
	}
	if err := s.repo.CreateMovimento(ctx, mov); err != nil {
		return nil, err
	}

	resp := movimentoCaixaToResponse(mov)
	return &resp, nil
}

func (s *caixaService) SessaoAberta(ctx context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error) {
	sessao, err := s.repo.FindSessaoAbertaPorUsuario(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemSessaoAberta
		}
		return nil, err
	}
	if sessao == nil {
		return nil, ErrSemSessaoAberta
	}
	return sessao, nil
}

// RelatorioSessao rebuilds the reconciliation snapshot of any session, open
// or closed, without mutating it.
func (s *caixaService) RelatorioSessao(ctx context.Context, sessaoID uuid.UUID) (*dto.FechamentoResponse, error) {
	sessao, err := s.repo.FindSessaoByID(ctx, sessaoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstadoInvalido
		}
		return nil, fmt.Errorf("relatório de sessão: %w", err)
	}

	totais, err := s.totaisSessao(s.repo.DB(), sessao)
	if err != nil {
		return nil, err
	}

	resp := &dto.FechamentoResponse{
		Sessao:           sessaoToResponse(sessao),
		ValorEsperado:    totais.esperado,
		TotalDinheiro:    totais.dinheiro,
		TotalSuprimentos: totais.suprimentos,
		TotalSangrias:    totais.sangrias,
	}
	if sessao.ValorFinalInformado != nil {
		resp.ValorFinalInformado = *sessao.ValorFinalInformado
		resp.Diferenca = sessao.ValorFinalInformado.Sub(totais.esperado)
	}
	return resp, nil
}

func (s *caixaService) ListSessoes(ctx context.Context, filter dto.SessaoFilter) (*dto.SessaoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	sessoes, total, err := s.repo.ListSessoes(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SessaoResponse, 0, len(sessoes))
	for _, sessao := range sessoes {
		data = append(data, sessaoToResponse(&sessao))
	}
	return &dto.SessaoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

type totaisCaixa struct {
	dinheiro    decimal.Decimal
	suprimentos decimal.Decimal
	sangrias    decimal.Decimal
	esperado    decimal.Decimal
}

func (s *caixaService) totaisSessao(tx *gorm.DB, sessao *model.SessaoCaixa) (*totaisCaixa, error) {
	dinheiro, err := s.vendaRepo.SumDinheiroPorSessao(tx, sessao.ID)
	if err != nil {
		return nil, err
	}
	suprimentos, err := s.repo.SumMovimentosPorTipo(tx, sessao.ID, model.CaixaSuprimento)
	if err != nil {
		return nil, err
	}
	sangrias, err := s.repo.SumMovimentosPorTipo(tx, sessao.ID, model.CaixaSangria)
	if err != nil {
		return nil, err
	}
	esperado := sessao.ValorInicial.Add(dinheiro).Add(suprimentos).Sub(sangrias)
	return &totaisCaixa{
		dinheiro:    dinheiro,
		suprimentos: suprimentos,
		sangrias:    sangrias,
		esperado:    esperado,
	}, nil
}

func sessaoToResponse(sessao *model.SessaoCaixa) dto.SessaoResponse {
	nome := ""
	if sessao.Usuario != nil {
		nome = sessao.Usuario.Nome
	}
	var fechamento *string
	if sessao.DataFechamento != nil {
		f := sessao.DataFechamento.Format("2006-01-02T15:04:05Z")
		fechamento = &f
	}
	return dto.SessaoResponse{
		ID:                  sessao.ID.String(),
		UsuarioID:           sessao.UsuarioID.String(),
		Usuario:             nome,
		ValorInicial:        sessao.ValorInicial,
		ValorFinalInformado: sessao.ValorFinalInformado,
		Status:              sessao.Status,
		DataAbertura:        sessao.DataAbertura.Format("2006-01-02T15:04:05Z"),
		DataFechamento:      fechamento,
	}
}

func movimentoCaixaToResponse(m *model.MovimentoCaixa) dto.MovimentoCaixaResponse {
	var ref *string
	if m.ReferenciaID != nil {
		s := m.ReferenciaID.String()
		ref = &s
	}
	return dto.MovimentoCaixaResponse{
		ID:           m.ID.String(),
		Tipo:         m.Tipo,
		Valor:        m.Valor,
		Motivo:       m.Motivo,
		UsuarioID:    m.UsuarioID.String(),
		ReferenciaID: ref,
		CreatedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
