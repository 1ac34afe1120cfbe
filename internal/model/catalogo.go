package model

import (
	"github.com/shopspring/decimal"
)

// TipoItem distinguishes the three sellable kinds. The set is closed: the
// catalog resolver matches exhaustively and rejects anything else, so adding
// a fourth kind is a deliberate decision, not a silent fallthrough.
type TipoItem string

const (
	TipoProduto    TipoItem = "produto"
	TipoCombo      TipoItem = "combo"
	TipoFracionado TipoItem = "fracionado"
)

// Valido reports whether t is one of the known kinds.
func (t TipoItem) Valido() bool {
	switch t {
	case TipoProduto, TipoCombo, TipoFracionado:
		return true
	}
	return false
}

// Produto is a plain sellable item and the unit every stock movement is
// ultimately recorded against.
type Produto struct {
	CodInt    int             `gorm:"primaryKey" json:"codInt"`
	Descricao string          `gorm:"not null" json:"descricao"`
	Preco     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"preco"`
	Familia   string          `json:"familia"`
	Ativo     bool            `gorm:"not null;default:true" json:"ativo"`
}

// ProdutoCombo is one constituent of a combo: QuantidadeCombo base units of
// CodInt are consumed per combo sold.
type ProdutoCombo struct {
	ID              uint            `gorm:"primaryKey" json:"-"`
	ComboCod        string          `gorm:"index;not null" json:"-"`
	CodInt          int             `gorm:"not null" json:"codInt"`
	Descricao       string          `json:"descricao"`
	QuantidadeCombo decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantidadeCombo"`
}

// Combo bundles fixed quantities of several produtos at one price.
type Combo struct {
	CodCombo      string          `gorm:"primaryKey" json:"codCombo"`
	Descricao     string          `gorm:"not null" json:"descricao"`
	PrecoCombo    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precoCombo"`
	ProdutosCombo []ProdutoCombo  `gorm:"foreignKey:ComboCod;references:CodCombo;constraint:OnDelete:CASCADE" json:"produtosCombo"`
	Ativo         bool            `gorm:"not null;default:true" json:"ativo"`
}

// Fracionado is a partial-unit sale (e.g. a 0.075L dose from a 1L bottle),
// priced independently but decremented against the bottle's base stock.
type Fracionado struct {
	CodFracionado        string          `gorm:"primaryKey" json:"codFracionado"`
	Descricao            string          `gorm:"not null" json:"descricao"`
	CodInt               int             `gorm:"not null;index" json:"codInt"`
	Preco                decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"preco"`
	QuantidadeFracionado decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"quantidadeFracionado"`
	UnidadeMedida        string          `gorm:"not null" json:"unidadeMedida"`
	Ativo                bool            `gorm:"not null;default:true" json:"ativo"`
}

// Catalogo is the full catalog snapshot. The three collections always travel
// and replace together — a partial replace would let a combo reference a
// produto from a different snapshot.
type Catalogo struct {
	Produtos    []Produto    `json:"products"`
	Combos      []Combo      `json:"combos"`
	Fracionados []Fracionado `json:"fracionados"`
}

// Vazio reports whether the snapshot holds no items at all.
func (c Catalogo) Vazio() bool {
	return len(c.Produtos) == 0 && len(c.Combos) == 0 && len(c.Fracionados) == 0
}
