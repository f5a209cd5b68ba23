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

type VendaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	// FindByIDForUpdateTx locks the sale row so concurrent cancellations and
	// returns against the same sale serialize.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venda, error)
	FindItensTx(tx *gorm.DB, vendaID uuid.UUID) ([]model.ItemVenda, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	NextNumeroTicket(tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)
	// SumDinheiroPorSessao totals the CONCLUIDA DINHEIRO sales of a session.
	SumDinheiroPorSessao(tx *gorm.DB, sessaoID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) DB() *gorm.DB { return r.db }

func (r *vendaRepo) CreateTx(tx *gorm.DB, v *model.Venda) error {
	return tx.Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).Preload("Itens.Produto").Preload("Cliente").First(&v, id).Error
	return &v, err
}

func (r *vendaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error
	return &v, err
}

func (r *vendaRepo) FindItensTx(tx *gorm.DB, vendaID uuid.UUID) ([]model.ItemVenda, error) {
	var itens []model.ItemVenda
	err := tx.Where("venda_id = ?", vendaID).Order("id ASC").Find(&itens).Error
	return itens, err
}

func (r *vendaRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Venda{}).Where("id = ?", id).Update("status", status).Error
}

func (r *vendaRepo) NextNumeroTicket(tx *gorm.DB) (int, error) {
	// Uses a PostgreSQL sequence for atomic ticket number generation
	var num int
	err := tx.Raw("SELECT nextval('vendas_numero_ticket_seq')").Scan(&num).Error
	return num, err
}

func (r *vendaRepo) List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venda{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Data != "" {
		q = q.Where("DATE(created_at) = ?", filter.Data)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Itens.Produto").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&vendas).Error

	return vendas, total, err
}

func (r *vendaRepo) SumDinheiroPorSessao(tx *gorm.DB, sessaoID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&model.Venda{}).
		Where("sessao_id = ? AND forma_pagamento = ? AND status = ?",
			sessaoID, model.PagamentoDinheiro, model.VendaConcluida).
		Select("COALESCE(SUM(valor_total), 0)").Scan(&total).Error
	return total, err
}
