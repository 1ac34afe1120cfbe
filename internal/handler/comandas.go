package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/controllermansear-arch/vendorMan/internal/apierror"
	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/dto"
	"github.com/controllermansear-arch/vendorMan/internal/model"
	"github.com/controllermansear-arch/vendorMan/internal/repository"
	"github.com/controllermansear-arch/vendorMan/internal/service"
)

type ComandasHandler struct {
	repo repository.ComandaRepository
	sync service.BackendSyncService
}

func NewComandasHandler(repo repository.ComandaRepository, sync service.BackendSyncService) *ComandasHandler {
	return &ComandasHandler{repo: repo, sync: sync}
}

// Criar godoc
// @Summary      Criar comanda
// @Description  Registra uma comanda criada diretamente no backend (uso administrativo).
// @Tags         comandas
// @Accept       json
// @Produce      json
// @Param        body body dto.CriarComandaRequest true "Dados da comanda"
// @Success      201 {object} model.Comanda
// @Failure      400 {object} apierror.APIError
// @Router       /comandas [post]
func (h *ComandasHandler) Criar(c *gin.Context) {
	var req dto.CriarComandaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	agora := time.Now()
	comanda := model.Comanda{
		ID:           uuid.New(),
		Numero:       req.Numero,
		NomeCliente:  req.NomeCliente,
		Operador:     req.Operador,
		Status:       model.ComandaAberta,
		Desconto:     decimal.Zero,
		Total:        decimal.Zero,
		DataAbertura: agora,
		Pedidos: []model.Pedido{{
			ID:     uuid.New(),
			Numero: 1,
			Itens:  []model.ItemPedido{},
			Data:   agora,
			Status: model.PedidoAberto,
		}},
	}
	if err := h.repo.Create(c.Request.Context(), &comanda); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao criar comanda"))
		return
	}
	c.JSON(http.StatusCreated, comanda)
}

// Listar godoc
// @Summary      Listar comandas
// @Tags         comandas
// @Produce      json
// @Param        status query string false "aberta | fechada"
// @Success      200 {array} model.Comanda
// @Router       /comandas [get]
func (h *ComandasHandler) Listar(c *gin.Context) {
	comandas, err := h.repo.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao listar comandas"))
		return
	}
	c.JSON(http.StatusOK, comandas)
}

// Obter godoc
// @Summary      Detalhe de uma comanda
// @Tags         comandas
// @Produce      json
// @Param        id path string true "UUID da comanda"
// @Success      200 {object} model.Comanda
// @Failure      404 {object} apierror.APIError
// @Router       /comandas/{id} [get]
func (h *ComandasHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	comanda, err := h.repo.FindByID(c.Request.Context(), id)
	if errors.Is(err, apperror.ErrComandaNaoEncontrada) {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao buscar comanda"))
		return
	}
	c.JSON(http.StatusOK, comanda)
}

// Fechar godoc
// @Summary      Fechar comanda
// @Description  Fecha a comanda no backend, congela o total e registra a baixa de estoque.
// @Tags         comandas
// @Accept       json
// @Produce      json
// @Param        id   path string                   true "UUID da comanda"
// @Param        body body dto.FecharComandaRequest true "Forma de pagamento e usuário"
// @Success      200 {object} model.Comanda
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /comandas/{id}/fechar [put]
func (h *ComandasHandler) Fechar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.FecharComandaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	fechada, err := h.sync.FecharComanda(c.Request.Context(), id, req.FormaPagamento, req.Usuario)
	switch {
	case errors.Is(err, apperror.ErrComandaNaoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, apperror.ErrComandaFechada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case err != nil:
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao fechar comanda"))
	default:
		c.JSON(http.StatusOK, fechada)
	}
}
