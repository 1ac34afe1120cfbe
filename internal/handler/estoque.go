package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/controllermansear-arch/vendorMan/internal/apierror"
	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/dto"
	"github.com/controllermansear-arch/vendorMan/internal/repository"
	"github.com/controllermansear-arch/vendorMan/internal/service"
)

type EstoqueHandler struct {
	svc      service.EstoqueService
	catalogo repository.CatalogoRepository
}

func NewEstoqueHandler(svc service.EstoqueService, catalogo repository.CatalogoRepository) *EstoqueHandler {
	return &EstoqueHandler{svc: svc, catalogo: catalogo}
}

// Listar godoc
// @Summary      Posição de estoque
// @Description  Retorna todos os registros de estoque com o log de movimentações. Saldos negativos indicam venda além do apontado.
// @Tags         estoque
// @Produce      json
// @Success      200 {array} model.Estoque
// @Failure      500 {object} apierror.APIError
// @Router       /estoque [get]
func (h *EstoqueHandler) Listar(c *gin.Context) {
	registros, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao listar estoque"))
		return
	}
	c.JSON(http.StatusOK, registros)
}

// RegistrarEntrada godoc
// @Summary      Entrada manual de estoque
// @Tags         estoque
// @Accept       json
// @Produce      json
// @Param        body body dto.EntradaEstoqueRequest true "Entrada"
// @Success      201 {object} model.Estoque
// @Failure      404 {object} apierror.APIError
// @Router       /estoque/entrada [post]
func (h *EstoqueHandler) RegistrarEntrada(c *gin.Context) {
	var req dto.EntradaEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}

	produto, err := h.catalogo.FindProduto(c.Request.Context(), req.CodInt)
	if errors.Is(err, apperror.ErrProdutoNaoEncontrado) {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao buscar produto"))
		return
	}

	registro, err := h.svc.RegistrarEntrada(c.Request.Context(), *produto, req.Quantidade, req.Motivo, req.Usuario)
	if err != nil {
		if apperror.IsValidation(err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("erro ao registrar entrada"))
		return
	}
	c.JSON(http.StatusCreated, registro)
}
