package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/controllermansear-arch/vendorMan/internal/apierror"
	"github.com/controllermansear-arch/vendorMan/internal/dto"
	"github.com/controllermansear-arch/vendorMan/internal/service"
)

type SyncHandler struct{ svc service.BackendSyncService }

func NewSyncHandler(svc service.BackendSyncService) *SyncHandler { return &SyncHandler{svc: svc} }

// Receber godoc
// @Summary      Receber comandas dos dispositivos
// @Description  Upsert idempotente de um lote de comandas fechadas. Comandas inválidas são contadas e ignoradas; o lote nunca falha por inteiro.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        body body dto.SyncRequest true "Lote de comandas fechadas"
// @Success      200 {object} dto.SyncResponse
// @Failure      400 {object} apierror.APIError
// @Router       /sync [post]
func (h *SyncHandler) Receber(c *gin.Context) {
	var req dto.SyncRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ProcessarLote(c.Request.Context(), req.Comandas)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao processar lote"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
