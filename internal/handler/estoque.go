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

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

// AjusteManual godoc
// @Summary      Ajuste manual de estoque
// @Description  ENTRADA (recebimento), AJUSTE_PERDA (quebra/validade) ou AJUSTE_CONTAGEM (acerto de inventário, quantidade com sinal).
// @Tags         estoque
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID do produto"
// @Param        body body dto.AjusteEstoqueRequest true "Ajuste"
// @Success      201  {object} dto.MovimentoEstoqueResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/produtos/{id}/estoque [post]
func (h *EstoqueHandler) AjusteManual(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AjusteEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AjusteManual(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarMovimentos godoc
// @Summary      Listar movimentos de estoque
// @Tags         estoque
// @Produce      json
// @Security     BearerAuth
// @Param        produto_id query string false "Filtrar por produto"
// @Param        tipo       query string false "ENTRADA | SAIDA_VENDA | AJUSTE_PERDA | AJUSTE_CONTAGEM"
// @Param        page       query int    false "Página"
// @Param        limit      query int    false "Registros por página"
// @Success      200 {object} dto.MovimentoEstoqueListResponse
// @Router       /v1/estoque/movimentos [get]
func (h *EstoqueHandler) ListarMovimentos(c *gin.Context) {
	var filter dto.MovimentoEstoqueFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovimentos(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
