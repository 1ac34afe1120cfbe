package dto

import (
	"github.com/shopspring/decimal"

	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarComandaRequest struct {
	Numero      string `json:"numero"      validate:"required"`
	NomeCliente string `json:"nomeCliente"`
	Operador    string `json:"operador"    validate:"required"`
}

type FecharComandaRequest struct {
	FormaPagamento string `json:"formaPagamento" validate:"required,oneof=dinheiro pix credito debito vale_guia"`
	Usuario        string `json:"usuario"        validate:"required"`
}

// SyncRequest carries the device push: every closed, unsynced comanda in one
// batch. The upsert is idempotent so re-sending the batch is safe.
type SyncRequest struct {
	Comandas []model.Comanda `json:"comandas" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SyncResponse struct {
	Message             string `json:"message"`
	ComandasProcessadas int    `json:"comandasProcessadas"`
	ComandasInvalidas   int    `json:"comandasInvalidas"`
}

type ComandaStatusResponse struct {
	ComandasAbertas  int64           `json:"comandasAbertas"`
	ComandasFechadas int64           `json:"comandasFechadas"`
	TotalVendido     decimal.Decimal `json:"totalVendido"`
}
