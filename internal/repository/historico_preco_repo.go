package repository

import (
	"context"

	"vendafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoricoPrecoRepository interface {
	Create(ctx context.Context, h *model.HistoricoPreco) error
	ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.HistoricoPreco, error)
}

type historicoPrecoRepo struct{ db *gorm.DB }

func NewHistoricoPrecoRepository(db *gorm.DB) HistoricoPrecoRepository {
	return &historicoPrecoRepo{db: db}
}

func (r *historicoPrecoRepo) Create(ctx context.Context, h *model.HistoricoPreco) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historicoPrecoRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.HistoricoPreco, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var historico []model.HistoricoPreco
	err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("created_at DESC").Limit(limit).Find(&historico).Error
	return historico, err
}
