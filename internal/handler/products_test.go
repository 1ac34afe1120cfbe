package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/model"
	"github.com/controllermansear-arch/vendorMan/internal/repository"
)

type stubCatalogoRepo struct {
	catalogo model.Catalogo
	falha    error
}

var _ repository.CatalogoRepository = (*stubCatalogoRepo)(nil)

func (s *stubCatalogoRepo) ListarAtivos(context.Context) (model.Catalogo, error) {
	return s.catalogo, s.falha
}

func (s *stubCatalogoRepo) FindProduto(_ context.Context, codInt int) (*model.Produto, error) {
	for _, p := range s.catalogo.Produtos {
		if p.CodInt == codInt {
			clone := p
			return &clone, nil
		}
	}
	return nil, apperror.ErrProdutoNaoEncontrado
}

func (s *stubCatalogoRepo) SalvarProdutos(context.Context, []model.Produto) error       { return nil }
func (s *stubCatalogoRepo) SalvarCombos(context.Context, []model.Combo) error           { return nil }
func (s *stubCatalogoRepo) SalvarFracionados(context.Context, []model.Fracionado) error { return nil }

func TestProductsHandler_Listar(t *testing.T) {
	repo := &stubCatalogoRepo{catalogo: model.Catalogo{
		Produtos: []model.Produto{
			{CodInt: 1, Descricao: "Cerveja Lata 350ml", Preco: decimal.NewFromInt(8), Ativo: true},
		},
		Combos: []model.Combo{{CodCombo: "COMBO01", PrecoCombo: decimal.NewFromInt(18)}},
	}}
	r := gin.New()
	r.GET("/products", NewProductsHandler(repo).Listar)

	w := doJSON(t, r, http.MethodGet, "/products", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var cat model.Catalogo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	require.Len(t, cat.Produtos, 1)
	assert.Equal(t, "Cerveja Lata 350ml", cat.Produtos[0].Descricao)
	assert.Len(t, cat.Combos, 1)
}

func TestProductsHandler_ListarErro(t *testing.T) {
	repo := &stubCatalogoRepo{falha: errors.New("db offline")}
	r := gin.New()
	r.GET("/products", NewProductsHandler(repo).Listar)

	w := doJSON(t, r, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
