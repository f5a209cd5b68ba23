package repository

import (
	"context"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaixaRepository interface {
	CreateSessao(ctx context.Context, s *model.SessaoCaixa) error
	FindSessaoAbertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error)
	FindSessaoByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error)
	// FindSessaoForUpdateTx locks the session row; close and concurrent
	// movements against the same session serialize on it.
	FindSessaoForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.SessaoCaixa, error)
	UpdateSessaoTx(tx *gorm.DB, s *model.SessaoCaixa) error
	ListSessoes(ctx context.Context, filter dto.SessaoFilter) ([]model.SessaoCaixa, int64, error)

	CreateMovimento(ctx context.Context, m *model.MovimentoCaixa) error
	CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoCaixa) error
	ListMovimentos(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error)
	// SumMovimentosPorTipo totals SUPRIMENTO or SANGRIA amounts of a session.
	SumMovimentosPorTipo(tx *gorm.DB, sessaoID uuid.UUID, tipo string) (decimal.Decimal, error)

	DB() *gorm.DB
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) DB() *gorm.DB { return r.db }

func (r *caixaRepo) CreateSessao(ctx context.Context, s *model.SessaoCaixa) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *caixaRepo) FindSessaoAbertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND status = ?", usuarioID, model.SessaoAberta).
		First(&s).Error
	return &s, err
}

func (r *caixaRepo) FindSessaoByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).Preload("Usuario").Preload("Movimentos").First(&s, id).Error
	return &s, err
}

func (r *caixaRepo) FindSessaoForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	return &s, err
}

func (r *caixaRepo) UpdateSessaoTx(tx *gorm.DB, s *model.SessaoCaixa) error {
	return tx.Save(s).Error
}

func (r *caixaRepo) ListSessoes(ctx context.Context, filter dto.SessaoFilter) ([]model.SessaoCaixa, int64, error) {
	var sessoes []model.SessaoCaixa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SessaoCaixa{})
	if filter.UsuarioID != "" {
		q = q.Where("usuario_id = ?", filter.UsuarioID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Usuario").Order("data_abertura DESC").
		Offset(offset).Limit(filter.Limit).Find(&sessoes).Error
	return sessoes, total, err
}

func (r *caixaRepo) CreateMovimento(ctx context.Context, m *model.MovimentoCaixa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *caixaRepo) CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoCaixa) error {
	return tx.Create(m).Error
}

func (r *caixaRepo) ListMovimentos(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentoCaixa, error) {
	var movs []model.MovimentoCaixa
	err := r.db.WithContext(ctx).
		Where("sessao_id = ?", sessaoID).
		Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) SumMovimentosPorTipo(tx *gorm.DB, sessaoID uuid.UUID, tipo string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&model.MovimentoCaixa{}).
		Where("sessao_id = ? AND tipo = ?", sessaoID, tipo).
		Select("COALESCE(SUM(valor), 0)").Scan(&total).Error
	return total, err
}
