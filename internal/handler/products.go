package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/controllermansear-arch/vendorMan/internal/apierror"
	"github.com/controllermansear-arch/vendorMan/internal/repository"
)

type ProductsHandler struct{ repo repository.CatalogoRepository }

func NewProductsHandler(repo repository.CatalogoRepository) *ProductsHandler {
	return &ProductsHandler{repo: repo}
}

// Listar godoc
// @Summary      Catálogo completo
// @Description  Retorna produtos, combos e fracionados ativos. Os dispositivos fazem cache local por 5 minutos.
// @Tags         catalogo
// @Produce      json
// @Success      200 {object} model.Catalogo
// @Failure      500 {object} apierror.APIError
// @Router       /products [get]
func (h *ProductsHandler) Listar(c *gin.Context) {
	cat, err := h.repo.ListarAtivos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao carregar catálogo"))
		return
	}
	c.JSON(http.StatusOK, cat)
}
