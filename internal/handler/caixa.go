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

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// AbrirSessao godoc
// @Summary      Abrir sessão de caixa
// @Description  Abre uma sessão para o operador autenticado. No máximo uma sessão aberta por operador.
// @Tags         caixa
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirSessaoRequest true "Fundo de troco"
// @Success      201  {object} dto.SessaoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/caixa/abrir [post]
func (h *CaixaHandler) AbrirSessao(c *gin.Context) {
	var req dto.AbrirSessaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AbrirSessao(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// FecharSessao godoc
// @Summary      Fechar sessão de caixa
// @Description  Fecha a sessão aberta do operador e retorna a conferência: valor esperado, informado e diferença.
// @Tags         caixa
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.FecharSessaoRequest true "Valor contado na gaveta"
// @Success      200  {object} dto.FechamentoResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/caixa/fechar [post]
func (h *CaixaHandler) FecharSessao(c *gin.Context) {
	var req dto.FecharSessaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.FecharSessao(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimento godoc
// @Summary      Registrar suprimento ou sangria
// @Tags         caixa
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MovimentoCaixaRequest true "Movimento manual"
// @Success      201  {object} dto.MovimentoCaixaResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/caixa/movimentos [post]
func (h *CaixaHandler) RegistrarMovimento(c *gin.Context) {
	var req dto.MovimentoCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarMovimento(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SessaoAtual godoc
// @Summary      Consultar sessão aberta do operador
// @Tags         caixa
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.FechamentoResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/caixa/sessao [get]
func (h *CaixaHandler) SessaoAtual(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	sessao, err := h.svc.SessaoAberta(c.Request.Context(), usuarioID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp, err := h.svc.RelatorioSessao(c.Request.Context(), sessao.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioSessao godoc
// @Summary      Conferência de uma sessão
// @Tags         caixa
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da sessão"
// @Success      200 {object} dto.FechamentoResponse
// @Router       /v1/caixa/sessoes/{id} [get]
func (h *CaixaHandler) RelatorioSessao(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.RelatorioSessao(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarSessoes godoc
// @Summary      Listar sessões de caixa
// @Tags         caixa
// @Produce      json
// @Security     BearerAuth
// @Param        usuario_id query string false "Filtrar por operador"
// @Param        status     query string false "ABERTO | FECHADO"
// @Success      200 {object} dto.SessaoListResponse
// @Router       /v1/caixa/sessoes [get]
func (h *CaixaHandler) ListarSessoes(c *gin.Context) {
	var filter dto.SessaoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListSessoes(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
