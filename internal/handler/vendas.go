package handler

import (
	"net/http"

	"vendafacil/internal/apierror"
	"vendafacil/internal/dto"
	"vendafacil/internal/middleware"
	"vendafacil/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler { return &VendasHandler{svc: svc} }

// RegistrarVenda godoc
// @Summary      Registrar uma nova venda
// @Description  Processa a venda em uma transação única: baixa estoque, congela preços, aplica desconto e despacha o recibo assíncrono.
// @Tags         vendas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVendaRequest true "Carrinho da venda"
// @Success      201  {object} dto.VendaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/vendas [post]
func (h *VendasHandler) RegistrarVenda(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarVenda(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CancelarVenda godoc
// @Summary      Cancelar venda
// @Description  Cancela uma venda concluída: restitui o estoque e, para vendas em dinheiro, registra a sangria de estorno.
// @Tags         vendas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID da venda"
// @Param        body body dto.CancelarVendaRequest true "Motivo do cancelamento"
// @Success      200  {object} dto.CancelamentoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/vendas/{id}/cancelar [post]
func (h *VendasHandler) CancelarVenda(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CancelarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CancelarVenda(c.Request.Context(), usuarioID, id, req.Motivo)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObterVenda godoc
// @Summary      Consultar venda
// @Tags         vendas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da venda"
// @Success      200 {object} dto.VendaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/vendas/{id} [get]
func (h *VendasHandler) ObterVenda(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.FindVenda(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVendas godoc
// @Summary      Listar vendas
// @Description  Lista paginada de vendas filtrada por data e status.
// @Tags         vendas
// @Produce      json
// @Security     BearerAuth
// @Param        data   query string false "Data YYYY-MM-DD (default: hoje)"
// @Param        status query string false "CONCLUIDA | CANCELADA | all"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.VendaListResponse
// @Router       /v1/vendas [get]
func (h *VendasHandler) ListarVendas(c *gin.Context) {
	var filter dto.VendaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListVendas(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
