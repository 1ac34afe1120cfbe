package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/catalog"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// DescontoMaximo limits discounts to 30% of the gross total.
var DescontoMaximo = decimal.NewFromFloat(0.30)

// ComandaStore is the persistence contract for the comanda collection.
// Satisfied by storage.ComandaStore.
type ComandaStore interface {
	Listar(ctx context.Context) ([]model.Comanda, error)
	Obter(ctx context.Context, id uuid.UUID) (*model.Comanda, error)
	Inserir(ctx context.Context, comanda model.Comanda) error
	Atualizar(ctx context.Context, id uuid.UUID, fn func(*model.Comanda) error) (*model.Comanda, error)
}

// CatalogoProvider yields the locally cached catalog for item resolution.
type CatalogoProvider interface {
	Obter(ctx context.Context) (model.Catalogo, error)
}

// NovoItem is the input for adding a line to a pedido. The caller picks the
// item from the catalog; price and description travel with it so the line
// stays renderable even after the catalog changes.
type NovoItem struct {
	Tipo          model.TipoItem
	CodItem       string
	Descricao     string
	Quantidade    int
	PrecoUnitario decimal.Decimal
}

// ComandaService drives the comanda and pedido lifecycles.
type ComandaService interface {
	CriarComanda(ctx context.Context, numero, nomeCliente, operador string) (*model.Comanda, error)
	ListarComandas(ctx context.Context) ([]model.Comanda, error)
	ObterComanda(ctx context.Context, id uuid.UUID) (*model.Comanda, error)
	AtualizarCliente(ctx context.Context, id uuid.UUID, nomeCliente string) (*model.Comanda, error)

	AdicionarPedido(ctx context.Context, id uuid.UUID) (*model.Comanda, error)
	AdicionarItem(ctx context.Context, id uuid.UUID, numeroPedido int, item NovoItem) (*model.Comanda, error)
	RemoverItem(ctx context.Context, id uuid.UUID, numeroPedido int, itemID uuid.UUID) (*model.Comanda, error)
	FecharPedido(ctx context.Context, id uuid.UUID, numeroPedido int) (*model.Comanda, error)
	ReabrirPedido(ctx context.Context, id uuid.UUID, numeroPedido int) (*model.Comanda, error)
	// ExcluirPedido removes a pedido and renumbers the remainder. Removing a
	// closed pedido requires supervisor authorization.
	ExcluirPedido(ctx context.Context, id uuid.UUID, numeroPedido int, supervisorAutorizado bool) (*model.Comanda, error)
	ImprimirPedido(ctx context.Context, id uuid.UUID, numeroPedido int) error

	AplicarDesconto(ctx context.Context, id uuid.UUID, valor decimal.Decimal) (*model.Comanda, error)
	// RequerAutorizacaoSupervisor reports whether closing with the given
	// payment form needs a supervisor: always for vale_guia, and for any
	// non-cash payment combined with a discount.
	RequerAutorizacaoSupervisor(comanda model.Comanda, formaPagamento string) bool
	// FecharComanda closes the comanda, freezes its total, records the stock
	// movements for everything sold and prints the closing ticket. Stock and
	// printing are best-effort: the close itself never rolls back.
	FecharComanda(ctx context.Context, id uuid.UUID, formaPagamento, operador string) (*model.Comanda, error)
	ReabrirComanda(ctx context.Context, id uuid.UUID) (*model.Comanda, error)
}

type comandaService struct {
	comandas ComandaStore
	catalogo CatalogoProvider
	estoque  EstoqueService
	printer  Printer
}

// NewComandaService wires the lifecycle over its collaborators. A nil printer
// falls back to NoopPrinter.
func NewComandaService(comandas ComandaStore, catalogo CatalogoProvider, estoque EstoqueService, printer Printer) ComandaService {
	if printer == nil {
		printer = NoopPrinter{}
	}
	return &comandaService{comandas: comandas, catalogo: catalogo, estoque: estoque, printer: printer}
}

func (s *comandaService) CriarComanda(ctx context.Context, numero, nomeCliente, operador string) (*model.Comanda, error) {
	if numero == "" {
		return nil, apperror.ErrNumeroObrigatorio
	}
	if operador == "" {
		return nil, apperror.ErrOperadorObrigatorio
	}

	agora := time.Now()
	comanda := model.Comanda{
		ID:          uuid.New(),
		Numero:      numero,
		NomeCliente: nomeCliente,
		Operador:    operador,
		Status:      model.ComandaAberta,
		Desconto:    decimal.Zero,
		Total:       decimal.Zero,
		DataAbertura: agora,
		Pedidos: []model.Pedido{{
			ID:     uuid.New(),
			Numero: 1,
			Itens:  []model.ItemPedido{},
			Data:   agora,
			Status: model.PedidoAberto,
		}},
	}
	if err := s.comandas.Inserir(ctx, comanda); err != nil {
		return nil, err
	}
	log.Info().Str("comanda", comanda.ID.String()).Str("numero", numero).Str("operador", operador).Msg("comanda aberta")
	return &comanda, nil
}

func (s *comandaService) ListarComandas(ctx context.Context) ([]model.Comanda, error) {
	return s.comandas.Listar(ctx)
}

func (s *comandaService) ObterComanda(ctx context.Context, id uuid.UUID) (*model.Comanda, error) {
	return s.comandas.Obter(ctx, id)
}

func (s *comandaService) AtualizarCliente(ctx context.Context, id uuid.UUID, nomeCliente string) (*model.Comanda, error) {
	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		c.NomeCliente = nomeCliente
		return nil
	})
}

func (s *comandaService) AdicionarPedido(ctx context.Context, id uuid.UUID) (*model.Comanda, error) {
	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		c.Pedidos = append(c.Pedidos, model.Pedido{
			ID:     uuid.New(),
			Numero: len(c.Pedidos) + 1,
			Itens:  []model.ItemPedido{},
			Data:   time.Now(),
			Status: model.PedidoAberto,
		})
		return nil
	})
}

func (s *comandaService) AdicionarItem(ctx context.Context, id uuid.UUID, numeroPedido int, item NovoItem) (*model.Comanda, error) {
	if !item.Tipo.Valido() {
		return nil, apperror.ErrTipoItemDesconhecido
	}
	if item.Quantidade <= 0 {
		return nil, apperror.ErrQuantidadeInvalida
	}
	if item.PrecoUnitario.IsNegative() {
		return nil, apperror.Validation("preço unitário não pode ser negativo")
	}

	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		pedido, err := buscarPedido(c, numeroPedido)
		if err != nil {
			return err
		}
		if !pedido.Aberto() {
			return apperror.ErrPedidoFechado
		}
		qtd := decimal.NewFromInt(int64(item.Quantidade))
		pedido.Itens = append(pedido.Itens, model.ItemPedido{
			ID:            uuid.New(),
			PedidoID:      pedido.ID,
			Tipo:          item.Tipo,
			CodItem:       item.CodItem,
			Descricao:     item.Descricao,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			PrecoTotal:    item.PrecoUnitario.Mul(qtd),
		})
		c.RecalcularTotal()
		return nil
	})
}

func (s *comandaService) RemoverItem(ctx context.Context, id uuid.UUID, numeroPedido int, itemID uuid.UUID) (*model.Comanda, error) {
	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		pedido, err := buscarPedido(c, numeroPedido)
		if err != nil {
			return err
		}
		if !pedido.Aberto() {
			return apperror.ErrPedidoFechado
		}
		for i := range pedido.Itens {
			if pedido.Itens[i].ID == itemID {
				pedido.Itens = append(pedido.Itens[:i], pedido.Itens[i+1:]...)
				c.RecalcularTotal()
				return nil
			}
		}
		return apperror.ErrItemNaoEncontrado
	})
}

func (s *comandaService) FecharPedido(ctx context.Context, id uuid.UUID, numeroPedido int) (*model.Comanda, error) {
	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		pedido, err := buscarPedido(c, numeroPedido)
		if err != nil {
			return err
		}
		if !pedido.Aberto() {
			return apperror.ErrPedidoFechado
		}
		agora := time.Now()
		pedido.Status = model.PedidoFechado
		pedido.DataFechamento = &agora
		return nil
	})
}

func (s *comandaService) ReabrirPedido(ctx context.Context, id uuid.UUID, numeroPedido int) (*model.Comanda, error) {
	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		pedido, err := buscarPedido(c, numeroPedido)
		if err != nil {
			return err
		}
		pedido.Status = model.PedidoAberto
		pedido.DataFechamento = nil
		return nil
	})
}

func (s *comandaService) ExcluirPedido(ctx context.Context, id uuid.UUID, numeroPedido int, supervisorAutorizado bool) (*model.Comanda, error) {
	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		idx := -1
		for i := range c.Pedidos {
			if c.Pedidos[i].Numero == numeroPedido {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperror.ErrPedidoNaoEncontrado
		}
		if !c.Pedidos[idx].Aberto() && !supervisorAutorizado {
			return apperror.ErrAutorizacaoNegada
		}
		c.Pedidos = append(c.Pedidos[:idx], c.Pedidos[idx+1:]...)
		for i := range c.Pedidos {
			c.Pedidos[i].Numero = i + 1
		}
		c.RecalcularTotal()
		return nil
	})
}

func (s *comandaService) ImprimirPedido(ctx context.Context, id uuid.UUID, numeroPedido int) error {
	comanda, err := s.comandas.Obter(ctx, id)
	if err != nil {
		return err
	}
	pedido, err := buscarPedido(comanda, numeroPedido)
	if err != nil {
		return err
	}
	return s.printer.ImprimirPedido(ctx, *comanda, *pedido)
}

func (s *comandaService) AplicarDesconto(ctx context.Context, id uuid.UUID, valor decimal.Decimal) (*model.Comanda, error) {
	if valor.IsNegative() {
		return nil, apperror.ErrDescontoInvalido
	}
	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		limite := c.TotalBruto().Mul(DescontoMaximo)
		if valor.GreaterThan(limite) {
			return apperror.ErrDescontoExcedeLimite
		}
		c.Desconto = valor
		c.RecalcularTotal()
		return nil
	})
}

func (s *comandaService) RequerAutorizacaoSupervisor(comanda model.Comanda, formaPagamento string) bool {
	if formaPagamento == model.PagamentoValeGuia {
		return true
	}
	return formaPagamento != model.PagamentoDinheiro && comanda.Desconto.IsPositive()
}

func (s *comandaService) FecharComanda(ctx context.Context, id uuid.UUID, formaPagamento, operador string) (*model.Comanda, error) {
	if operador == "" {
		return nil, apperror.ErrOperadorObrigatorio
	}
	if !model.FormaPagamentoValida(formaPagamento) {
		return nil, apperror.Validation("forma de pagamento inválida: %q", formaPagamento)
	}

	fechada, err := s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}
		if !c.PedidosFechados() {
			return apperror.ErrPedidosAbertos
		}
		agora := time.Now()
		c.Status = model.ComandaFechada
		c.FormaPagamento = formaPagamento
		c.Operador = operador
		c.DataFechamento = &agora
		c.Sincronizado = false
		c.RecalcularTotal()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The close is already durable. Stock and printing run after it and are
	// never rolled back: a failed movement is corrected through the ledger,
	// not by reopening the sale.
	s.baixarEstoque(ctx, fechada)

	if err := s.printer.ImprimirComanda(ctx, *fechada); err != nil {
		log.Warn().Err(err).Str("comanda", fechada.ID.String()).Msg("falha ao imprimir comanda")
	}

	log.Info().
		Str("comanda", fechada.ID.String()).
		Str("numero", fechada.Numero).
		Str("formaPagamento", formaPagamento).
		Str("total", fechada.Total.String()).
		Msg("comanda fechada")
	return fechada, nil
}

// baixarEstoque resolves everything sold on the comanda and records the saída
// movements. Resolution misses are logged per item and skipped.
func (s *comandaService) baixarEstoque(ctx context.Context, comanda *model.Comanda) {
	cat, err := s.catalogo.Obter(ctx)
	if err != nil {
		log.Error().Err(err).Str("comanda", comanda.ID.String()).Msg("catálogo indisponível; baixa de estoque não registrada")
		return
	}
	resolver := catalog.NewResolver(cat)

	var deltas []catalog.Delta
	for _, item := range comanda.ItensVendidos() {
		expandidos, err := resolver.Resolve(item)
		if err != nil {
			log.Error().Err(err).
				Str("comanda", comanda.ID.String()).
				Str("codItem", item.CodItem).
				Msg("item não resolvido no catálogo; baixa ignorada")
			continue
		}
		deltas = append(deltas, expandidos...)
	}
	if len(deltas) == 0 {
		return
	}

	cid := comanda.ID
	motivo := fmt.Sprintf("Venda comanda #%s", comanda.Numero)
	if err := s.estoque.AplicarMovimentos(ctx, deltas, model.MovimentoSaida, motivo, &cid, comanda.Operador); err != nil {
		log.Error().Err(err).Str("comanda", comanda.ID.String()).Msg("falha ao registrar baixa de estoque")
	}
}

func (s *comandaService) ReabrirComanda(ctx context.Context, id uuid.UUID) (*model.Comanda, error) {
	// Reopening does not touch the stock movements recorded at close; use
	// EstoqueService.ReverterMovimentos when a correction is really wanted.
	return s.comandas.Atualizar(ctx, id, func(c *model.Comanda) error {
		if c.Aberta() {
			return apperror.Validation("comanda já está aberta")
		}
		c.Status = model.ComandaAberta
		c.FormaPagamento = ""
		c.DataFechamento = nil
		c.Sincronizado = false
		return nil
	})
}

func buscarPedido(c *model.Comanda, numero int) (*model.Pedido, error) {
	for i := range c.Pedidos {
		if c.Pedidos[i].Numero == numero {
			return &c.Pedidos[i], nil
		}
	}
	return nil, apperror.ErrPedidoNaoEncontrado
}
