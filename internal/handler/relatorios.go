package handler

import (
	"net/http"
	"path/filepath"

	"vendafacil/internal/apierror"
	"vendafacil/internal/dto"
	"vendafacil/internal/infra"
	"vendafacil/internal/service"

	"github.com/gin-gonic/gin"
)

type RelatoriosHandler struct {
	svc            service.RelatorioService
	nomeLoja       string
	pdfStoragePath string
}

func NewRelatoriosHandler(svc service.RelatorioService, nomeLoja, pdfStoragePath string) *RelatoriosHandler {
	return &RelatoriosHandler{svc: svc, nomeLoja: nomeLoja, pdfStoragePath: pdfStoragePath}
}

// RelatorioVendas godoc
// @Summary      Relatório de vendas por período
// @Description  Totais, ticket médio e quebra por forma de pagamento. Período padrão: últimos 30 dias.
// @Tags         relatorios
// @Produce      json
// @Security     BearerAuth
// @Param        data_inicio query string false "YYYY-MM-DD"
// @Param        data_fim    query string false "YYYY-MM-DD (inclusivo)"
// @Success      200 {object} dto.RelatorioVendasResponse
// @Router       /v1/relatorios/vendas [get]
func (h *RelatoriosHandler) RelatorioVendas(c *gin.Context) {
	filter, ok := bindRelatorioFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.RelatorioVendas(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioVendasPDF godoc
// @Summary      Relatório de vendas em PDF
// @Description  Mesmo conteúdo do relatório de vendas, renderizado em PDF para download.
// @Tags         relatorios
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        data_inicio query string false "YYYY-MM-DD"
// @Param        data_fim    query string false "YYYY-MM-DD (inclusivo)"
// @Success      200 {file} file
// @Router       /v1/relatorios/vendas/pdf [get]
func (h *RelatoriosHandler) RelatorioVendasPDF(c *gin.Context) {
	filter, ok := bindRelatorioFilter(c)
	if !ok {
		return
	}
	rel, err := h.svc.RelatorioVendas(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	path, err := infra.GenerateRelatorioVendasPDF(rel, h.nomeLoja, h.pdfStoragePath)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// ProdutosMaisVendidos godoc
// @Summary      Produtos mais vendidos por período
// @Tags         relatorios
// @Produce      json
// @Security     BearerAuth
// @Param        data_inicio query string false "YYYY-MM-DD"
// @Param        data_fim    query string false "YYYY-MM-DD (inclusivo)"
// @Success      200 {object} dto.RelatorioProdutosResponse
// @Router       /v1/relatorios/produtos-mais-vendidos [get]
func (h *RelatoriosHandler) ProdutosMaisVendidos(c *gin.Context) {
	filter, ok := bindRelatorioFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.ProdutosMaisVendidos(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstoqueBaixo godoc
// @Summary      Produtos abaixo do estoque mínimo
// @Tags         relatorios
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.RelatorioEstoqueBaixoResponse
// @Router       /v1/relatorios/estoque-baixo [get]
func (h *RelatoriosHandler) EstoqueBaixo(c *gin.Context) {
	resp, err := h.svc.EstoqueBaixo(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindRelatorioFilter(c *gin.Context) (dto.RelatorioFilter, bool) {
	var filter dto.RelatorioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return filter, false
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("datas devem estar no formato YYYY-MM-DD"))
		return filter, false
	}
	return filter, true
}
