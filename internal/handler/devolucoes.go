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

type DevolucoesHandler struct{ svc service.DevolucaoService }

func NewDevolucoesHandler(svc service.DevolucaoService) *DevolucoesHandler {
	return &DevolucoesHandler{svc: svc}
}

// RegistrarDevolucao godoc
// @Summary      Registrar devolução
// @Description  Devolução parcial ou total de uma venda concluída. Quantidades acima do restante devolvível são ajustadas para o teto.
// @Tags         devolucoes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarDevolucaoRequest true "Itens devolvidos"
// @Success      201  {object} dto.DevolucaoResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/devolucoes [post]
func (h *DevolucoesHandler) RegistrarDevolucao(c *gin.Context) {
	var req dto.RegistrarDevolucaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarDevolucao(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObterDevolucao godoc
// @Summary      Consultar devolução
// @Tags         devolucoes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da devolução"
// @Success      200 {object} dto.DevolucaoResponse
// @Router       /v1/devolucoes/{id} [get]
func (h *DevolucoesHandler) ObterDevolucao(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.FindDevolucao(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorVenda godoc
// @Summary      Listar devoluções de uma venda
// @Tags         devolucoes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da venda"
// @Success      200 {array} dto.DevolucaoResponse
// @Router       /v1/vendas/{id}/devolucoes [get]
func (h *DevolucoesHandler) ListarPorVenda(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListByVenda(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
