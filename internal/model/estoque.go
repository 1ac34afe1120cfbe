package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoMovimento is the direction of a stock movement.
type TipoMovimento string

const (
	MovimentoEntrada TipoMovimento = "entrada"
	MovimentoSaida   TipoMovimento = "saida"
)

// Movimentacao is one append-only entry in a produto's stock ledger.
// Quantidade is always positive; the sign comes from Tipo.
type Movimentacao struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EstoqueCodInt int             `gorm:"index;not null" json:"-"`
	Tipo          TipoMovimento   `gorm:"not null" json:"tipo"`
	Quantidade    decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"quantidade"`
	Motivo        string          `gorm:"not null" json:"motivo"`
	Data          time.Time       `gorm:"not null" json:"data"`
	ComandaID     *uuid.UUID      `gorm:"type:uuid;index" json:"comanda,omitempty"`
	Usuario       string          `gorm:"not null" json:"usuario"`
}

// Delta returns the signed quantity of the movement.
func (m Movimentacao) Delta() decimal.Decimal {
	if m.Tipo == MovimentoEntrada {
		return m.Quantidade
	}
	return m.Quantidade.Neg()
}

// Estoque is the per-produto inventory record: the movement log plus a cached
// running balance. SaldoAtual must always equal the signed sum of
// Movimentacoes; VerificarSaldo recomputes it on load. Balances may go
// negative — the physical sale already happened, so oversell is recorded and
// logged, never blocked.
type Estoque struct {
	CodInt            int             `gorm:"primaryKey" json:"codInt"`
	TipoItem          TipoItem        `gorm:"not null" json:"tipoItem"`
	Descricao         string          `gorm:"not null" json:"descricao"`
	Movimentacoes     []Movimentacao  `gorm:"foreignKey:EstoqueCodInt;constraint:OnDelete:CASCADE" json:"movimentacoes"`
	SaldoAtual        decimal.Decimal `gorm:"type:decimal(10,4)" json:"saldoAtual"`
	UltimaAtualizacao time.Time       `json:"ultimaAtualizacao"`
}

// SaldoCalculado recomputes the balance from the movement log.
func (e Estoque) SaldoCalculado() decimal.Decimal {
	saldo := decimal.Zero
	for _, m := range e.Movimentacoes {
		saldo = saldo.Add(m.Delta())
	}
	return saldo
}

// Apontar appends one movement and maintains the cached balance and the
// descriptive fields from the latest resolution.
func (e *Estoque) Apontar(m Movimentacao, tipoItem TipoItem, descricao string) {
	e.Movimentacoes = append(e.Movimentacoes, m)
	e.SaldoAtual = e.SaldoAtual.Add(m.Delta())
	if descricao != "" {
		e.Descricao = descricao
	}
	if tipoItem != "" {
		e.TipoItem = tipoItem
	}
	e.UltimaAtualizacao = m.Data
}
