package handler

import (
	"net/http"

	"vendafacil/internal/apierror"
	"vendafacil/internal/dto"
	"vendafacil/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FornecedoresHandler struct{ svc service.FornecedorService }

func NewFornecedoresHandler(svc service.FornecedorService) *FornecedoresHandler {
	return &FornecedoresHandler{svc: svc}
}

// Criar godoc
// @Summary      Cadastrar fornecedor
// @Tags         fornecedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CriarFornecedorRequest true "Dados do fornecedor"
// @Success      201  {object} dto.FornecedorResponse
// @Router       /v1/fornecedores [post]
func (h *FornecedoresHandler) Criar(c *gin.Context) {
	var req dto.CriarFornecedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar fornecedores
// @Tags         fornecedores
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.FornecedorResponse
// @Router       /v1/fornecedores [get]
func (h *FornecedoresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary      Atualizar fornecedor
// @Tags         fornecedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "UUID do fornecedor"
// @Param        body body dto.AtualizarFornecedorRequest true "Campos a alterar"
// @Success      200  {object} dto.FornecedorResponse
// @Router       /v1/fornecedores/{id} [put]
func (h *FornecedoresHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarFornecedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desativar godoc
// @Summary      Desativar fornecedor
// @Tags         fornecedores
// @Security     BearerAuth
// @Param        id path string true "UUID do fornecedor"
// @Success      204
// @Router       /v1/fornecedores/{id} [delete]
func (h *FornecedoresHandler) Desativar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Desativar(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
