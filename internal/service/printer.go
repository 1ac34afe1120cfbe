package service

import (
	"context"

	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// Printer renders and emits tickets. Implementations own formatting and the
// physical transport; the services only decide when to print. Failures are
// logged by the caller and never interrupt the operation that triggered them.
type Printer interface {
	ImprimirComanda(ctx context.Context, comanda model.Comanda) error
	ImprimirPedido(ctx context.Context, comanda model.Comanda, pedido model.Pedido) error
}

// NoopPrinter discards every ticket. Default when no printer is configured.
type NoopPrinter struct{}

func (NoopPrinter) ImprimirComanda(context.Context, model.Comanda) error { return nil }

func (NoopPrinter) ImprimirPedido(context.Context, model.Comanda, model.Pedido) error { return nil }
