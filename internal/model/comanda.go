package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status values for comandas and pedidos.
const (
	ComandaAberta  = "aberta"
	ComandaFechada = "fechada"

	PedidoAberto  = "aberto"
	PedidoFechado = "fechado"
)

// Accepted payment forms.
const (
	PagamentoDinheiro = "dinheiro"
	PagamentoPix      = "pix"
	PagamentoCredito  = "credito"
	PagamentoDebito   = "debito"
	PagamentoValeGuia = "vale_guia"
)

// FormaPagamentoValida reports whether forma is one of the accepted payment
// forms.
func FormaPagamentoValida(forma string) bool {
	switch forma {
	case PagamentoDinheiro, PagamentoPix, PagamentoCredito, PagamentoDebito, PagamentoValeGuia:
		return true
	}
	return false
}

// ItemPedido is one sold line inside a pedido. Quantidade counts units of the
// sellable (combos or doses, not base-product units); the catalog resolver
// expands it into base-product deltas at closing time. Immutable once created
// except by removal.
type ItemPedido struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PedidoID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"-"`
	Tipo          TipoItem        `gorm:"not null" json:"tipo"`
	CodItem       string          `gorm:"not null" json:"codItem"`
	Descricao     string          `gorm:"not null" json:"descricao"`
	Quantidade    int             `gorm:"not null" json:"quantidade"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precoUnitario"`
	PrecoTotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precoTotal"`
}

// Pedido is a sub-grouping of items within a comanda (one trip to the
// kitchen), closable and reopenable independently of the comanda.
type Pedido struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ComandaID      uuid.UUID    `gorm:"type:uuid;index;not null" json:"-"`
	Numero         int          `gorm:"not null" json:"numero"`
	Itens          []ItemPedido `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE" json:"itens"`
	Data           time.Time    `gorm:"not null" json:"data"`
	Status         string       `gorm:"not null;default:'aberto'" json:"status"`
	DataFechamento *time.Time   `json:"dataFechamento,omitempty"`
}

// Total is the sum of the pedido's line totals.
func (p Pedido) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Itens {
		total = total.Add(item.PrecoTotal)
	}
	return total
}

// Aberto reports whether the pedido still accepts item mutations.
func (p Pedido) Aberto() bool { return p.Status == PedidoAberto }

// Comanda is a customer's running tab from open to close. It exclusively owns
// its pedidos and their items; stock lives in a separate aggregate referenced
// by produto id only.
type Comanda struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Numero         string          `gorm:"not null;index" json:"numero"`
	NomeCliente    string          `json:"nomeCliente,omitempty"`
	Operador       string          `gorm:"not null" json:"operador"`
	Pedidos        []Pedido        `gorm:"foreignKey:ComandaID;constraint:OnDelete:CASCADE" json:"pedidos"`
	Status         string          `gorm:"not null;default:'aberta'" json:"status"`
	FormaPagamento string          `json:"formaPagamento,omitempty"`
	Desconto       decimal.Decimal `gorm:"type:decimal(10,2)" json:"desconto"`
	// Total is a persisted cache of TotalBruto − Desconto, recomputed on
	// every mutation. Never trusted as input.
	Total          decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`
	DataAbertura   time.Time       `gorm:"not null" json:"dataAbertura"`
	DataFechamento *time.Time      `json:"dataFechamento,omitempty"`
	Sincronizado   bool            `gorm:"not null;default:false" json:"sincronizado"`
}

// TotalBruto is the pre-discount sum of every pedido's line totals.
func (c Comanda) TotalBruto() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Pedidos {
		total = total.Add(p.Total())
	}
	return total
}

// RecalcularTotal refreshes the Total cache: TotalBruto − Desconto, floored
// at zero.
func (c *Comanda) RecalcularTotal() {
	total := c.TotalBruto().Sub(c.Desconto)
	if total.IsNegative() {
		total = decimal.Zero
	}
	c.Total = total
}

// Aberta reports whether the comanda still accepts mutations.
func (c Comanda) Aberta() bool { return c.Status == ComandaAberta }

// PedidosFechados reports whether every pedido is closed — the precondition
// for closing the comanda.
func (c Comanda) PedidosFechados() bool {
	for _, p := range c.Pedidos {
		if p.Status != PedidoFechado {
			return false
		}
	}
	return true
}

// ItensVendidos flattens all line items across all pedidos, in order.
func (c Comanda) ItensVendidos() []ItemPedido {
	var itens []ItemPedido
	for _, p := range c.Pedidos {
		itens = append(itens, p.Itens...)
	}
	return itens
}
