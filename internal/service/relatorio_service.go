package service

import (
	"context"
	"time"

	"vendafacil/internal/dto"
	"vendafacil/internal/repository"

	"github.com/shopspring/decimal"
)

type RelatorioService interface {
	RelatorioVendas(ctx context.Context, filter dto.RelatorioFilter) (*dto.RelatorioVendasResponse, error)
	ProdutosMaisVendidos(ctx context.Context, filter dto.RelatorioFilter) (*dto.RelatorioProdutosResponse, error)
	EstoqueBaixo(ctx context.Context) (*dto.RelatorioEstoqueBaixoResponse, error)
}

type relatorioService struct {
	repo        repository.RelatorioRepository
	produtoRepo repository.ProdutoRepository
}

func NewRelatorioService(repo repository.RelatorioRepository, produtoRepo repository.ProdutoRepository) RelatorioService {
	return &relatorioService{repo: repo, produtoRepo: produtoRepo}
}

// parsePeriodo resolves the date range. Defaults: last 30 days, end
// exclusive at the day after data_fim.
func parsePeriodo(filter dto.RelatorioFilter) (time.Time, time.Time) {
	fim := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	inicio := fim.AddDate(0, 0, -30)
	if filter.DataInicio != "" {
		if t, err := time.Parse("2006-01-02", filter.DataInicio); err == nil {
			inicio = t
		}
	}
	if filter.DataFim != "" {
		if t, err := time.Parse("2006-01-02", filter.DataFim); err == nil {
			fim = t.Add(24 * time.Hour)
		}
	}
	return inicio, fim
}

func (s *relatorioService) RelatorioVendas(ctx context.Context, filter dto.RelatorioFilter) (*dto.RelatorioVendasResponse, error) {
	inicio, fim := parsePeriodo(filter)

	agg, err := s.repo.AgregadoVendas(ctx, inicio, fim)
	if err != nil {
		return nil, err
	}
	porPagamento, err := s.repo.VendasPorPagamento(ctx, inicio, fim)
	if err != nil {
		return nil, err
	}

	ticketMedio := decimal.Zero
	if agg.TotalVendas > 0 {
		ticketMedio = agg.ValorLiquido.Div(decimal.NewFromInt(agg.TotalVendas)).Round(2)
	}

	pagamentos := make([]dto.VendasPorPagamento, 0, len(porPagamento))
	for _, p := range porPagamento {
		pagamentos = append(pagamentos, dto.VendasPorPagamento{
			FormaPagamento: p.FormaPagamento,
			Quantidade:     p.Quantidade,
			Total:          p.Total,
		})
	}

	return &dto.RelatorioVendasResponse{
		DataInicio:    inicio.Format("2006-01-02"),
		DataFim:       fim.AddDate(0, 0, -1).Format("2006-01-02"),
		TotalVendas:   agg.TotalVendas,
		ValorBruto:    agg.ValorBruto,
		Descontos:     agg.Descontos,
		ValorLiquido:  agg.ValorLiquido,
		TicketMedio:   ticketMedio,
		PorPagamento:  pagamentos,
		Cancelamentos: agg.Cancelamentos,
	}, nil
}

func (s *relatorioService) ProdutosMaisVendidos(ctx context.Context, filter dto.RelatorioFilter) (*dto.RelatorioProdutosResponse, error) {
	inicio, fim := parsePeriodo(filter)
	rows, err := s.repo.ProdutosMaisVendidos(ctx, inicio, fim, 20)
	if err != nil {
		return nil, err
	}
	produtos := make([]dto.ProdutoMaisVendido, 0, len(rows))
	for _, r := range rows {
		produtos = append(produtos, dto.ProdutoMaisVendido{
			ProdutoID:  r.ProdutoID,
			Nome:       r.Nome,
			Quantidade: r.Quantidade,
			Total:      r.Total,
		})
	}
	return &dto.RelatorioProdutosResponse{
		DataInicio: inicio.Format("2006-01-02"),
		DataFim:    fim.AddDate(0, 0, -1).Format("2006-01-02"),
		Produtos:   produtos,
	}, nil
}

func (s *relatorioService) EstoqueBaixo(ctx context.Context) (*dto.RelatorioEstoqueBaixoResponse, error) {
	produtos, err := s.produtoRepo.ListEstoqueBaixo(ctx)
	if err != nil {
		return nil, err
	}
	itens := make([]dto.EstoqueBaixoItem, 0, len(produtos))
	for _, p := range produtos {
		itens = append(itens, dto.EstoqueBaixoItem{
			ProdutoID:     p.ID.String(),
			Nome:          p.Nome,
			Estoque:       p.Estoque,
			EstoqueMinimo: p.EstoqueMinimo,
		})
	}
	return &dto.RelatorioEstoqueBaixoResponse{Produtos: itens}, nil
}
