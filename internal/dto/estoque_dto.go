package dto

import "github.com/shopspring/decimal"

// EntradaEstoqueRequest registers a manual stock-in for a base product.
type EntradaEstoqueRequest struct {
	CodInt     int             `json:"codInt"     validate:"required"`
	Quantidade decimal.Decimal `json:"quantidade" validate:"required,gt=0"`
	Motivo     string          `json:"motivo"     validate:"required"`
	Usuario    string          `json:"usuario"    validate:"required"`
}
