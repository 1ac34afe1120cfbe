// Package catalog resolves sold line items into base-product stock deltas.
// Resolution is a pure function over a catalog snapshot; direction (entrada /
// saida) is applied later by the ledger.
package catalog

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// Delta is one base-product quantity movement produced by resolving a line
// item. Quantidade is always positive.
type Delta struct {
	CodInt     int
	Quantidade decimal.Decimal
	Descricao  string
	TipoItem   model.TipoItem
}

// Resolver indexes one catalog snapshot for lookup.
type Resolver struct {
	produtos    map[int]model.Produto
	combos      map[string]model.Combo
	fracionados map[string]model.Fracionado
}

// NewResolver builds the lookup indexes for the snapshot.
func NewResolver(cat model.Catalogo) *Resolver {
	r := &Resolver{
		produtos:    make(map[int]model.Produto, len(cat.Produtos)),
		combos:      make(map[string]model.Combo, len(cat.Combos)),
		fracionados: make(map[string]model.Fracionado, len(cat.Fracionados)),
	}
	for _, p := range cat.Produtos {
		r.produtos[p.CodInt] = p
	}
	for _, c := range cat.Combos {
		r.combos[c.CodCombo] = c
	}
	for _, f := range cat.Fracionados {
		r.fracionados[f.CodFracionado] = f
	}
	return r
}

// Resolve expands one line item into its base-product deltas.
//
//   - produto: one delta of Quantidade units against the item's own code.
//   - combo: one delta per constituent, Quantidade × QuantidadeCombo each. An
//     unknown combo code fails with a LookupError; a constituent whose base
//     produto is missing from the snapshot is skipped with an integrity
//     warning — a broken catalog row must never abort the whole sale.
//   - fracionado: one delta against the base produto, Quantidade ×
//     QuantidadeFracionado.
//
// Any other Tipo is rejected: the variant set is closed.
func (r *Resolver) Resolve(item model.ItemPedido) ([]Delta, error) {
	qtd := decimal.NewFromInt(int64(item.Quantidade))

	switch item.Tipo {
	case model.TipoProduto:
		cod, err := codProduto(item.CodItem)
		if err != nil {
			return nil, err
		}
		descricao := item.Descricao
		if p, ok := r.produtos[cod]; ok {
			descricao = p.Descricao
		}
		return []Delta{{
			CodInt:     cod,
			Quantidade: qtd,
			Descricao:  descricao,
			TipoItem:   model.TipoProduto,
		}}, nil

	case model.TipoCombo:
		combo, ok := r.combos[item.CodItem]
		if !ok {
			return nil, &apperror.LookupError{Tipo: "combo", Cod: item.CodItem}
		}
		deltas := make([]Delta, 0, len(combo.ProdutosCombo))
		for _, pc := range combo.ProdutosCombo {
			if _, ok := r.produtos[pc.CodInt]; !ok {
				log.Warn().
					Str("combo", combo.CodCombo).
					Int("codInt", pc.CodInt).
					Msg("combo referencia produto inexistente; constituinte ignorado")
				continue
			}
			deltas = append(deltas, Delta{
				CodInt:     pc.CodInt,
				Quantidade: pc.QuantidadeCombo.Mul(qtd),
				Descricao:  pc.Descricao,
				TipoItem:   model.TipoProduto,
			})
		}
		return deltas, nil

	case model.TipoFracionado:
		frac, ok := r.fracionados[item.CodItem]
		if !ok {
			return nil, &apperror.LookupError{Tipo: "fracionado", Cod: item.CodItem}
		}
		if _, ok := r.produtos[frac.CodInt]; !ok {
			log.Warn().
				Str("fracionado", frac.CodFracionado).
				Int("codInt", frac.CodInt).
				Msg("fracionado referencia produto inexistente")
		}
		return []Delta{{
			CodInt:     frac.CodInt,
			Quantidade: frac.QuantidadeFracionado.Mul(qtd),
			Descricao:  frac.Descricao,
			TipoItem:   model.TipoFracionado,
		}}, nil
	}

	return nil, apperror.ErrTipoItemDesconhecido
}

// codProduto parses the item code of a plain produto; the wire format carries
// it as a string even though catalog codes are numeric.
func codProduto(cod string) (int, error) {
	n, err := strconv.Atoi(cod)
	if err != nil {
		return 0, &apperror.LookupError{Tipo: "produto", Cod: cod}
	}
	return n, nil
}
