package repository

import (
	"context"
	"time"

	"vendafacil/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendasAgregado is the raw aggregate row for the sales report.
type VendasAgregado struct {
	TotalVendas   int64
	ValorBruto    decimal.Decimal
	Descontos     decimal.Decimal
	ValorLiquido  decimal.Decimal
	Cancelamentos int64
}

type PagamentoAgregado struct {
	FormaPagamento string
	Quantidade     int64
	Total          decimal.Decimal
}

type ProdutoAgregado struct {
	ProdutoID  string
	Nome       string
	Quantidade int64
	Total      decimal.Decimal
}

type RelatorioRepository interface {
	AgregadoVendas(ctx context.Context, inicio, fim time.Time) (*VendasAgregado, error)
	VendasPorPagamento(ctx context.Context, inicio, fim time.Time) ([]PagamentoAgregado, error)
	ProdutosMaisVendidos(ctx context.Context, inicio, fim time.Time, limit int) ([]ProdutoAgregado, error)
}

type relatorioRepo struct{ db *gorm.DB }

func NewRelatorioRepository(db *gorm.DB) RelatorioRepository { return &relatorioRepo{db: db} }

func (r *relatorioRepo) AgregadoVendas(ctx context.Context, inicio, fim time.Time) (*VendasAgregado, error) {
	var agg VendasAgregado
	err := r.db.WithContext(ctx).Model(&model.Venda{}).
		Where("created_at >= ? AND created_at < ? AND status = ?", inicio, fim, model.VendaConcluida).
		Select("COUNT(*) AS total_vendas, " +
			"COALESCE(SUM(valor_bruto), 0) AS valor_bruto, " +
			"COALESCE(SUM(desconto), 0) AS descontos, " +
			"COALESCE(SUM(valor_total), 0) AS valor_liquido").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(&model.Venda{}).
		Where("created_at >= ? AND created_at < ? AND status = ?", inicio, fim, model.VendaCancelada).
		Count(&agg.Cancelamentos).Error
	return &agg, err
}

func (r *relatorioRepo) VendasPorPagamento(ctx context.Context, inicio, fim time.Time) ([]PagamentoAgregado, error) {
	var rows []PagamentoAgregado
	err := r.db.WithContext(ctx).Model(&model.Venda{}).
		Where("created_at >= ? AND created_at < ? AND status = ?", inicio, fim, model.VendaConcluida).
		Select("forma_pagamento, COUNT(*) AS quantidade, COALESCE(SUM(valor_total), 0) AS total").
		Group("forma_pagamento").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *relatorioRepo) ProdutosMaisVendidos(ctx context.Context, inicio, fim time.Time, limit int) ([]ProdutoAgregado, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var rows []ProdutoAgregado
	err := r.db.WithContext(ctx).
		Table("itens_venda").
		Joins("JOIN vendas ON vendas.id = itens_venda.venda_id").
		Joins("JOIN produtos ON produtos.id = itens_venda.produto_id").
		Where("vendas.created_at >= ? AND vendas.created_at < ? AND vendas.status = ?",
			inicio, fim, model.VendaConcluida).
		Select("itens_venda.produto_id AS produto_id, produtos.nome AS nome, " +
			"SUM(itens_venda.quantidade) AS quantidade, COALESCE(SUM(itens_venda.subtotal), 0) AS total").
		Group("itens_venda.produto_id, produtos.nome").
		Order("quantidade DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
