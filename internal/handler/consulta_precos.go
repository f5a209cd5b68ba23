package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vendafacil/internal/apierror"
	"vendafacil/internal/dto"
	"vendafacil/internal/repository"
	"vendafacil/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const precoCacheTTL = 5 * time.Minute

// ConsultaPrecosHandler serves the public price check terminal. Responses are
// cached in redis; ProdutoService invalidates the key on price changes.
type ConsultaPrecosHandler struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewConsultaPrecosHandler(repo repository.ProdutoRepository, rdb *redis.Client) *ConsultaPrecosHandler {
	return &ConsultaPrecosHandler{repo: repo, rdb: rdb}
}

// ConsultarPreco godoc
// @Summary      Consulta pública de preço
// @Description  Endpoint sem autenticação para o terminal de consulta de preços da loja.
// @Tags         consulta
// @Produce      json
// @Param        id path string true "UUID do produto"
// @Success      200 {object} dto.ConsultaPrecoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/consulta-precos/{id} [get]
func (h *ConsultaPrecosHandler) ConsultarPreco(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	ctx := c.Request.Context()
	key := service.PrecoCacheKey(id)

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, key).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	p, err := h.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("produto não encontrado"))
			return
		}
		writeServiceError(c, err)
		return
	}
	if !p.Ativo {
		c.JSON(http.StatusNotFound, apierror.New("produto não encontrado"))
		return
	}

	var categoria *string
	if p.Categoria != nil {
		categoria = &p.Categoria.Nome
	}
	resp := dto.ConsultaPrecoResponse{
		Nome:              p.Nome,
		Preco:             p.Preco,
		EstoqueDisponivel: p.Estoque,
		Categoria:         categoria,
	}

	if h.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := h.rdb.Set(ctx, key, raw, precoCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("produto_id", id.String()).Msg("falha ao gravar cache de preço")
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}
