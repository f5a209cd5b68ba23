package repository

import (
	"context"

	"vendafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DevolucaoRepository interface {
	CreateTx(tx *gorm.DB, d *model.Devolucao) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucao, error)
	ListByVenda(ctx context.Context, vendaID uuid.UUID) ([]model.Devolucao, error)
	// SumDevolvidoTx totals the quantity already returned for one sale line.
	// Must run inside the tx that holds the sale row lock, so the return
	// ceiling check is race free.
	SumDevolvidoTx(tx *gorm.DB, itemVendaID uuid.UUID) (int, error)
	DB() *gorm.DB
}

type devolucaoRepo struct{ db *gorm.DB }

func NewDevolucaoRepository(db *gorm.DB) DevolucaoRepository { return &devolucaoRepo{db: db} }

func (r *devolucaoRepo) DB() *gorm.DB { return r.db }

func (r *devolucaoRepo) CreateTx(tx *gorm.DB, d *model.Devolucao) error {
	return tx.Create(d).Error
}

func (r *devolucaoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucao, error) {
	var d model.Devolucao
	err := r.db.WithContext(ctx).Preload("Itens.ItemVenda.Produto").First(&d, id).Error
	return &d, err
}

func (r *devolucaoRepo) ListByVenda(ctx context.Context, vendaID uuid.UUID) ([]model.Devolucao, error) {
	var devolucoes []model.Devolucao
	err := r.db.WithContext(ctx).
		Where("venda_id = ?", vendaID).
		Preload("Itens").Order("created_at ASC").Find(&devolucoes).Error
	return devolucoes, err
}

func (r *devolucaoRepo) SumDevolvidoTx(tx *gorm.DB, itemVendaID uuid.UUID) (int, error) {
	var total int
	err := tx.Model(&model.ItemDevolucao{}).
		Where("item_venda_id = ?", itemVendaID).
		Select("COALESCE(SUM(quantidade), 0)").Scan(&total).Error
	return total, err
}
