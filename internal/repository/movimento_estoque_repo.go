package repository

import (
	"context"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimentoEstoqueRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimentoEstoque) error
	List(ctx context.Context, filter dto.MovimentoEstoqueFilter) ([]model.MovimentoEstoque, int64, error)
	// SumQuantidade returns the movement sum for one product. Together with
	// the product row it lets callers audit ledger consistency.
	SumQuantidade(ctx context.Context, produtoID uuid.UUID) (int, error)
}

type movimentoEstoqueRepo struct{ db *gorm.DB }

func NewMovimentoEstoqueRepository(db *gorm.DB) MovimentoEstoqueRepository {
	return &movimentoEstoqueRepo{db: db}
}

func (r *movimentoEstoqueRepo) CreateTx(tx *gorm.DB, m *model.MovimentoEstoque) error {
	return tx.Create(m).Error
}

func (r *movimentoEstoqueRepo) List(ctx context.Context, filter dto.MovimentoEstoqueFilter) ([]model.MovimentoEstoque, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimentoEstoque{}).Preload("Produto")
	if filter.ProdutoID != "" {
		q = q.Where("produto_id = ?", filter.ProdutoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var movimentos []model.MovimentoEstoque
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&movimentos).Error
	return movimentos, total, err
}

func (r *movimentoEstoqueRepo) SumQuantidade(ctx context.Context, produtoID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.MovimentoEstoque{}).
		Where("produto_id = ?", produtoID).
		Select("COALESCE(SUM(quantidade), 0)").Scan(&total).Error
	return total, err
}
