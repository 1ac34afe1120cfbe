package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/controllermansear-arch/vendorMan/internal/apierror"
	"github.com/controllermansear-arch/vendorMan/internal/dto"
	"github.com/controllermansear-arch/vendorMan/internal/model"
	"github.com/controllermansear-arch/vendorMan/internal/repository"
)

type StatusHandler struct{ repo repository.ComandaRepository }

func NewStatusHandler(repo repository.ComandaRepository) *StatusHandler {
	return &StatusHandler{repo: repo}
}

// Status godoc
// @Summary      Visão administrativa
// @Description  Contagem de comandas por status e total vendido.
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.ComandaStatusResponse
// @Failure      500 {object} apierror.APIError
// @Router       /admin/status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	abertas, fechadas, err := h.repo.ContarPorStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao consultar status"))
		return
	}

	vendido := decimal.Zero
	comandasFechadas, err := h.repo.List(c.Request.Context(), model.ComandaFechada)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao consultar status"))
		return
	}
	for _, cf := range comandasFechadas {
		vendido = vendido.Add(cf.Total)
	}

	c.JSON(http.StatusOK, dto.ComandaStatusResponse{
		ComandasAbertas:  abertas,
		ComandasFechadas: fechadas,
		TotalVendido:     vendido,
	})
}
