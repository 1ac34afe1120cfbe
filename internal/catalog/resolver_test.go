package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

func catalogoDemo() model.Catalogo {
	return model.Catalogo{
		Produtos: []model.Produto{
			{CodInt: 1, Descricao: "Cerveja Lata 350ml", Preco: decimal.NewFromInt(8), Ativo: true},
			{CodInt: 2, Descricao: "Espetinho de Carne", Preco: decimal.NewFromInt(12), Ativo: true},
			{CodInt: 3, Descricao: "Vodka Garrafa 1L", Preco: decimal.NewFromInt(120), Ativo: true},
		},
		Combos: []model.Combo{
			{
				CodCombo:   "COMBO01",
				Descricao:  "Cerveja + Espetinho",
				PrecoCombo: decimal.NewFromInt(18),
				ProdutosCombo: []model.ProdutoCombo{
					{ComboCod: "COMBO01", CodInt: 1, Descricao: "Cerveja Lata 350ml", QuantidadeCombo: decimal.NewFromInt(1)},
					{ComboCod: "COMBO01", CodInt: 2, Descricao: "Espetinho de Carne", QuantidadeCombo: decimal.NewFromInt(2)},
				},
			},
		},
		Fracionados: []model.Fracionado{
			{
				CodFracionado:        "FRAC01",
				Descricao:            "Dose de Vodka 75ml",
				CodInt:               3,
				QuantidadeFracionado: decimal.NewFromFloat(0.075),
				UnidadeMedida:        "L",
			},
		},
	}
}

func TestResolve_Produto(t *testing.T) {
	r := NewResolver(catalogoDemo())

	deltas, err := r.Resolve(model.ItemPedido{Tipo: model.TipoProduto, CodItem: "1", Quantidade: 3})
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, 1, deltas[0].CodInt)
	assert.Equal(t, "3", deltas[0].Quantidade.String())
	assert.Equal(t, "Cerveja Lata 350ml", deltas[0].Descricao)
}

func TestResolve_ProdutoCodigoInvalido(t *testing.T) {
	r := NewResolver(catalogoDemo())

	_, err := r.Resolve(model.ItemPedido{Tipo: model.TipoProduto, CodItem: "abc", Quantidade: 1})
	assert.True(t, apperror.IsLookup(err))
}

func TestResolve_ComboExpandeConstituintes(t *testing.T) {
	r := NewResolver(catalogoDemo())

	// 2 combos: 2× cerveja (1 each) and 4× espetinho (2 each)
	deltas, err := r.Resolve(model.ItemPedido{Tipo: model.TipoCombo, CodItem: "COMBO01", Quantidade: 2})
	require.NoError(t, err)
	require.Len(t, deltas, 2)

	porCod := map[int]string{}
	for _, d := range deltas {
		porCod[d.CodInt] = d.Quantidade.String()
	}
	assert.Equal(t, "2", porCod[1])
	assert.Equal(t, "4", porCod[2])
}

func TestResolve_ComboDesconhecido(t *testing.T) {
	r := NewResolver(catalogoDemo())

	_, err := r.Resolve(model.ItemPedido{Tipo: model.TipoCombo, CodItem: "COMBO99", Quantidade: 1})
	assert.True(t, apperror.IsLookup(err))
}

func TestResolve_ComboConstituinteInexistenteIgnorado(t *testing.T) {
	cat := catalogoDemo()
	cat.Combos[0].ProdutosCombo = append(cat.Combos[0].ProdutosCombo, model.ProdutoCombo{
		ComboCod: "COMBO01", CodInt: 999, Descricao: "Produto Fantasma", QuantidadeCombo: decimal.NewFromInt(1),
	})
	r := NewResolver(cat)

	deltas, err := r.Resolve(model.ItemPedido{Tipo: model.TipoCombo, CodItem: "COMBO01", Quantidade: 1})
	require.NoError(t, err)
	// The broken constituent is skipped, the valid ones survive
	assert.Len(t, deltas, 2)
}

func TestResolve_FracionadoBaseInexistenteAindaResolve(t *testing.T) {
	cat := catalogoDemo()
	// Base produto 3 dropped from the snapshot while FRAC01 still points at it.
	cat.Produtos = cat.Produtos[:2]
	r := NewResolver(cat)

	deltas, err := r.Resolve(model.ItemPedido{Tipo: model.TipoFracionado, CodItem: "FRAC01", Quantidade: 1})
	require.NoError(t, err)
	// The sale already happened: the delta is kept so the ledger records it,
	// the dangling reference is only logged.
	require.Len(t, deltas, 1)
	assert.Equal(t, 3, deltas[0].CodInt)
	assert.Equal(t, "0.075", deltas[0].Quantidade.String())
}

func TestResolve_FracionadoQuantidadeDecimal(t *testing.T) {
	r := NewResolver(catalogoDemo())

	// 4 doses × 0.075L = 0.3L off the bottle's stock
	deltas, err := r.Resolve(model.ItemPedido{Tipo: model.TipoFracionado, CodItem: "FRAC01", Quantidade: 4})
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, 3, deltas[0].CodInt)
	assert.True(t, deltas[0].Quantidade.Equal(decimal.NewFromFloat(0.3)))
}

func TestResolve_FracionadoDesconhecido(t *testing.T) {
	r := NewResolver(catalogoDemo())

	_, err := r.Resolve(model.ItemPedido{Tipo: model.TipoFracionado, CodItem: "FRAC99", Quantidade: 1})
	assert.True(t, apperror.IsLookup(err))
}

func TestResolve_TipoDesconhecido(t *testing.T) {
	r := NewResolver(catalogoDemo())

	_, err := r.Resolve(model.ItemPedido{Tipo: "sobremesa", CodItem: "X", Quantidade: 1})
	assert.ErrorIs(t, err, apperror.ErrTipoItemDesconhecido)
}
