// Package apperror defines the error taxonomy shared by the local engine and
// the backend API. Callers distinguish categories with errors.Is / errors.As;
// no error in this package is ever swallowed silently by the services.
package apperror

import (
	"errors"
	"fmt"
)

// ValidationError is bad caller input. Surfaced to the caller, never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// LookupError means a combo or fracionado id does not exist in the catalog
// snapshot. The triggering line item is rejected; the sale continues for the
// other items.
type LookupError struct {
	Tipo string // "combo" | "fracionado" | "produto"
	Cod  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q não encontrado no catálogo", e.Tipo, e.Cod)
}

// IsLookup reports whether err is (or wraps) a LookupError.
func IsLookup(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

// TransportError wraps a network failure (timeout or connection error).
// Always recoverable locally: the catalog falls back to cache and unsynced
// comandas stay queued for a later retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Validation sentinels. Declared as ValidationError instances so both
// errors.Is(err, ErrX) and IsValidation(err) hold.
var (
	ErrOperadorObrigatorio = error(&ValidationError{Msg: "operador é obrigatório"})
	ErrNumeroObrigatorio   = error(&ValidationError{Msg: "número da comanda é obrigatório"})
	ErrQuantidadeInvalida  = error(&ValidationError{Msg: "quantidade deve ser maior que zero"})
	ErrDescontoInvalido    = error(&ValidationError{Msg: "desconto deve ser maior ou igual a zero"})
)

// Lifecycle and policy sentinels.
var (
	ErrComandaNaoEncontrada  = errors.New("comanda não encontrada")
	ErrComandaFechada        = errors.New("comanda está fechada")
	ErrPedidoNaoEncontrado   = errors.New("pedido não encontrado")
	ErrPedidoFechado         = errors.New("pedido está fechado")
	ErrItemNaoEncontrado     = errors.New("item não encontrado")
	ErrPedidosAbertos        = errors.New("todos os pedidos devem estar fechados antes de fechar a comanda")
	ErrDescontoExcedeLimite  = errors.New("desconto máximo permitido é de 30% do valor total")
	ErrAutorizacaoNegada     = errors.New("autorização do supervisor negada")
	ErrSenhaAtualIncorreta   = errors.New("senha atual incorreta")
	ErrProdutoNaoEncontrado  = errors.New("produto não encontrado")
	ErrTipoItemDesconhecido  = errors.New("tipo de item desconhecido")
)
