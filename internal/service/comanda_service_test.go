package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubComandaStore is an in-memory ComandaStore with the same commit-on-success
// contract as the real one: a failing mutation leaves the stored comanda
// untouched.
type stubComandaStore struct {
	comandas map[uuid.UUID]*model.Comanda
}

func newStubComandaStore() *stubComandaStore {
	return &stubComandaStore{comandas: make(map[uuid.UUID]*model.Comanda)}
}

func clonarComanda(c model.Comanda) *model.Comanda {
	raw, _ := json.Marshal(c)
	var out model.Comanda
	_ = json.Unmarshal(raw, &out)
	return &out
}

func (s *stubComandaStore) Listar(_ context.Context) ([]model.Comanda, error) {
	out := make([]model.Comanda, 0, len(s.comandas))
	for _, c := range s.comandas {
		out = append(out, *clonarComanda(*c))
	}
	return out, nil
}

func (s *stubComandaStore) Obter(_ context.Context, id uuid.UUID) (*model.Comanda, error) {
	c, ok := s.comandas[id]
	if !ok {
		return nil, apperror.ErrComandaNaoEncontrada
	}
	return clonarComanda(*c), nil
}

func (s *stubComandaStore) Inserir(_ context.Context, c model.Comanda) error {
	s.comandas[c.ID] = clonarComanda(c)
	return nil
}

func (s *stubComandaStore) Atualizar(_ context.Context, id uuid.UUID, fn func(*model.Comanda) error) (*model.Comanda, error) {
	c, ok := s.comandas[id]
	if !ok {
		return nil, apperror.ErrComandaNaoEncontrada
	}
	mutada := clonarComanda(*c)
	if err := fn(mutada); err != nil {
		return nil, err
	}
	s.comandas[id] = mutada
	return clonarComanda(*mutada), nil
}

func (s *stubComandaStore) MarcarSincronizadas(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if c, ok := s.comandas[id]; ok {
			c.Sincronizado = true
		}
	}
	return nil
}

var _ ComandaStore = (*stubComandaStore)(nil)

// stubCatalogo serves a fixed snapshot.
type stubCatalogo struct{ cat model.Catalogo }

func (s *stubCatalogo) Obter(_ context.Context) (model.Catalogo, error) { return s.cat, nil }

// recordingPrinter captures what was printed.
type recordingPrinter struct {
	comandas []model.Comanda
	pedidos  []model.Pedido
	falhar   bool
}

func (p *recordingPrinter) ImprimirComanda(_ context.Context, c model.Comanda) error {
	if p.falhar {
		return assert.AnError
	}
	p.comandas = append(p.comandas, c)
	return nil
}

func (p *recordingPrinter) ImprimirPedido(_ context.Context, _ model.Comanda, pedido model.Pedido) error {
	p.pedidos = append(p.pedidos, pedido)
	return nil
}

func catalogoTeste() model.Catalogo {
	return model.Catalogo{
		Produtos: []model.Produto{
			{CodInt: 1, Descricao: "Cerveja Lata 350ml", Preco: decimal.NewFromInt(8), Ativo: true},
			{CodInt: 2, Descricao: "Espetinho de Carne", Preco: decimal.NewFromInt(12), Ativo: true},
		},
		Combos: []model.Combo{{
			CodCombo:   "COMBO01",
			Descricao:  "Cerveja + Espetinho",
			PrecoCombo: decimal.NewFromInt(18),
			ProdutosCombo: []model.ProdutoCombo{
				{ComboCod: "COMBO01", CodInt: 1, Descricao: "Cerveja Lata 350ml", QuantidadeCombo: decimal.NewFromInt(1)},
				{ComboCod: "COMBO01", CodInt: 2, Descricao: "Espetinho de Carne", QuantidadeCombo: decimal.NewFromInt(1)},
			},
		}},
	}
}

func buildComandaSvc(t *testing.T) (ComandaService, *stubComandaStore, *stubEstoqueStore, *recordingPrinter) {
	t.Helper()
	comandas := newStubComandaStore()
	estoqueStore := newStubEstoqueStore()
	printer := &recordingPrinter{}
	svc := NewComandaService(comandas, &stubCatalogo{cat: catalogoTeste()}, NewEstoqueService(estoqueStore), printer)
	return svc, comandas, estoqueStore, printer
}

func abrirComandaComItem(t *testing.T, svc ComandaService, item NovoItem) *model.Comanda {
	t.Helper()
	c, err := svc.CriarComanda(context.Background(), "7", "Ana", "Operador")
	require.NoError(t, err)
	c, err = svc.AdicionarItem(context.Background(), c.ID, 1, item)
	require.NoError(t, err)
	return c
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCriarComanda_Validacao(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)

	_, err := svc.CriarComanda(context.Background(), "", "Ana", "Operador")
	assert.ErrorIs(t, err, apperror.ErrNumeroObrigatorio)

	_, err = svc.CriarComanda(context.Background(), "7", "Ana", "")
	assert.ErrorIs(t, err, apperror.ErrOperadorObrigatorio)
}

func TestCriarComanda_ComecaComPedidoAberto(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)

	c, err := svc.CriarComanda(context.Background(), "7", "Ana", "Operador")
	require.NoError(t, err)
	assert.Equal(t, model.ComandaAberta, c.Status)
	require.Len(t, c.Pedidos, 1)
	assert.Equal(t, 1, c.Pedidos[0].Numero)
	assert.Equal(t, model.PedidoAberto, c.Pedidos[0].Status)
	assert.False(t, c.Sincronizado)
}

func TestAdicionarItem_CalculaPrecoTotal(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)

	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoCombo, CodItem: "COMBO01", Descricao: "Cerveja + Espetinho",
		Quantidade: 2, PrecoUnitario: decimal.NewFromInt(18),
	})

	require.Len(t, c.Pedidos[0].Itens, 1)
	assert.Equal(t, "36", c.Pedidos[0].Itens[0].PrecoTotal.String())
	assert.Equal(t, "36", c.Total.String())
}

func TestAdicionarItem_PedidoFechado(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Quantidade: 1, PrecoUnitario: decimal.NewFromInt(8),
	})

	_, err := svc.FecharPedido(context.Background(), c.ID, 1)
	require.NoError(t, err)

	_, err = svc.AdicionarItem(context.Background(), c.ID, 1, NovoItem{
		Tipo: model.TipoProduto, CodItem: "2", Quantidade: 1, PrecoUnitario: decimal.NewFromInt(12),
	})
	assert.ErrorIs(t, err, apperror.ErrPedidoFechado)
}

func TestRemoverItem_RecalculaTotal(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Quantidade: 2, PrecoUnitario: decimal.NewFromInt(8),
	})
	itemID := c.Pedidos[0].Itens[0].ID

	c, err := svc.RemoverItem(context.Background(), c.ID, 1, itemID)
	require.NoError(t, err)
	assert.Empty(t, c.Pedidos[0].Itens)
	assert.True(t, c.Total.IsZero())

	_, err = svc.RemoverItem(context.Background(), c.ID, 1, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrItemNaoEncontrado)
}

func TestExcluirPedido_RenumeraEExigeAutorizacao(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Quantidade: 1, PrecoUnitario: decimal.NewFromInt(8),
	})

	_, err := svc.AdicionarPedido(context.Background(), c.ID)
	require.NoError(t, err)
	_, err = svc.AdicionarPedido(context.Background(), c.ID)
	require.NoError(t, err)

	// Closed pedido needs supervisor authorization to be removed
	_, err = svc.FecharPedido(context.Background(), c.ID, 1)
	require.NoError(t, err)
	_, err = svc.ExcluirPedido(context.Background(), c.ID, 1, false)
	assert.ErrorIs(t, err, apperror.ErrAutorizacaoNegada)

	c, err = svc.ExcluirPedido(context.Background(), c.ID, 1, true)
	require.NoError(t, err)
	require.Len(t, c.Pedidos, 2)
	assert.Equal(t, 1, c.Pedidos[0].Numero)
	assert.Equal(t, 2, c.Pedidos[1].Numero)
	assert.True(t, c.Total.IsZero())
}

func TestAplicarDesconto_Limite(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)
	// total bruto = 100
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Quantidade: 10, PrecoUnitario: decimal.NewFromInt(10),
	})

	_, err := svc.AplicarDesconto(context.Background(), c.ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, apperror.ErrDescontoInvalido)

	// Exactly 30% is allowed
	c, err = svc.AplicarDesconto(context.Background(), c.ID, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.Equal(t, "70", c.Total.String())

	// One cent above the cap is rejected
	_, err = svc.AplicarDesconto(context.Background(), c.ID, decimal.NewFromFloat(30.01))
	assert.ErrorIs(t, err, apperror.ErrDescontoExcedeLimite)
}

func TestRequerAutorizacaoSupervisor(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)

	semDesconto := model.Comanda{Desconto: decimal.Zero}
	comDesconto := model.Comanda{Desconto: decimal.NewFromInt(5)}

	assert.True(t, svc.RequerAutorizacaoSupervisor(semDesconto, model.PagamentoValeGuia))
	assert.True(t, svc.RequerAutorizacaoSupervisor(comDesconto, model.PagamentoPix))
	assert.False(t, svc.RequerAutorizacaoSupervisor(comDesconto, model.PagamentoDinheiro))
	assert.False(t, svc.RequerAutorizacaoSupervisor(semDesconto, model.PagamentoPix))
}

func TestImprimirPedido(t *testing.T) {
	svc, _, _, printer := buildComandaSvc(t)
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Descricao: "Cerveja Lata 350ml",
		Quantidade: 2, PrecoUnitario: decimal.NewFromInt(8),
	})

	require.NoError(t, svc.ImprimirPedido(context.Background(), c.ID, 1))

	require.Len(t, printer.pedidos, 1)
	assert.Equal(t, 1, printer.pedidos[0].Numero)
	require.Len(t, printer.pedidos[0].Itens, 1)
	assert.Equal(t, "Cerveja Lata 350ml", printer.pedidos[0].Itens[0].Descricao)

	err := svc.ImprimirPedido(context.Background(), c.ID, 9)
	assert.ErrorIs(t, err, apperror.ErrPedidoNaoEncontrado)
}

func TestFecharComanda_ExigePedidosFechados(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Quantidade: 1, PrecoUnitario: decimal.NewFromInt(8),
	})

	_, err := svc.FecharComanda(context.Background(), c.ID, model.PagamentoPix, "Operador")
	assert.ErrorIs(t, err, apperror.ErrPedidosAbertos)
}

func TestFecharComanda_BaixaEstoqueEImprime(t *testing.T) {
	svc, _, estoqueStore, printer := buildComandaSvc(t)
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoCombo, CodItem: "COMBO01", Descricao: "Cerveja + Espetinho",
		Quantidade: 2, PrecoUnitario: decimal.NewFromInt(18),
	})
	_, err := svc.FecharPedido(context.Background(), c.ID, 1)
	require.NoError(t, err)

	fechada, err := svc.FecharComanda(context.Background(), c.ID, model.PagamentoPix, "Ana")
	require.NoError(t, err)
	assert.Equal(t, model.ComandaFechada, fechada.Status)
	assert.Equal(t, model.PagamentoPix, fechada.FormaPagamento)
	assert.NotNil(t, fechada.DataFechamento)
	assert.False(t, fechada.Sincronizado)
	assert.Equal(t, "36", fechada.Total.String())

	// Combo x2 expanded into base-product movements
	assert.Equal(t, "-2", estoqueStore.registros[1].SaldoAtual.String())
	assert.Equal(t, "-2", estoqueStore.registros[2].SaldoAtual.String())

	// Closing ticket printed
	require.Len(t, printer.comandas, 1)
	assert.Equal(t, fechada.ID, printer.comandas[0].ID)
}

func TestFecharComanda_FalhaDeImpressaoNaoDesfazFechamento(t *testing.T) {
	svc, comandas, _, printer := buildComandaSvc(t)
	printer.falhar = true

	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Quantidade: 1, PrecoUnitario: decimal.NewFromInt(8),
	})
	_, err := svc.FecharPedido(context.Background(), c.ID, 1)
	require.NoError(t, err)

	_, err = svc.FecharComanda(context.Background(), c.ID, model.PagamentoDinheiro, "Ana")
	require.NoError(t, err)

	armazenada, err := comandas.Obter(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ComandaFechada, armazenada.Status)
}

func TestFecharComanda_JaFechada(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Quantidade: 1, PrecoUnitario: decimal.NewFromInt(8),
	})
	_, err := svc.FecharPedido(context.Background(), c.ID, 1)
	require.NoError(t, err)
	_, err = svc.FecharComanda(context.Background(), c.ID, model.PagamentoPix, "Ana")
	require.NoError(t, err)

	_, err = svc.FecharComanda(context.Background(), c.ID, model.PagamentoPix, "Ana")
	assert.ErrorIs(t, err, apperror.ErrComandaFechada)
}

func TestReabrirComanda_NaoMexeNoEstoque(t *testing.T) {
	svc, _, estoqueStore, _ := buildComandaSvc(t)
	c := abrirComandaComItem(t, svc, NovoItem{
		Tipo: model.TipoProduto, CodItem: "1", Quantidade: 2, PrecoUnitario: decimal.NewFromInt(8),
	})
	_, err := svc.FecharPedido(context.Background(), c.ID, 1)
	require.NoError(t, err)
	_, err = svc.FecharComanda(context.Background(), c.ID, model.PagamentoPix, "Ana")
	require.NoError(t, err)
	saldoAposFechar := estoqueStore.registros[1].SaldoAtual

	reaberta, err := svc.ReabrirComanda(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ComandaAberta, reaberta.Status)
	assert.Empty(t, reaberta.FormaPagamento)
	assert.Nil(t, reaberta.DataFechamento)
	assert.False(t, reaberta.Sincronizado)

	// Stock movements from the close stay on the ledger
	assert.True(t, estoqueStore.registros[1].SaldoAtual.Equal(saldoAposFechar))
	assert.Len(t, estoqueStore.registros[1].Movimentacoes, 1)
}

func TestAtualizarCliente(t *testing.T) {
	svc, _, _, _ := buildComandaSvc(t)
	c, err := svc.CriarComanda(context.Background(), "7", "", "Operador")
	require.NoError(t, err)

	c, err = svc.AtualizarCliente(context.Background(), c.ID, "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.NomeCliente)
}
