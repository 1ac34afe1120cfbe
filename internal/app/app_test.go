package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controllermansear-arch/vendorMan/internal/config"
	"github.com/controllermansear-arch/vendorMan/internal/model"
	"github.com/controllermansear-arch/vendorMan/internal/service"
)

// backendFalso is a minimal sync backend: serves a fixed catalog and records
// every pushed batch.
type backendFalso struct {
	catalogo model.Catalogo
	lotes    [][]model.Comanda
}

func (b *backendFalso) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(b.catalogo)
	})
	mux.HandleFunc("POST /sync", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Comandas []model.Comanda `json:"comandas"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.lotes = append(b.lotes, req.Comandas)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message":             "ok",
			"comandasProcessadas": len(req.Comandas),
		})
	})
	return mux
}

func TestEngine_FluxoCompleto(t *testing.T) {
	backend := &backendFalso{catalogo: model.Catalogo{
		Produtos: []model.Produto{
			{CodInt: 1, Descricao: "Cerveja Lata 350ml", Preco: decimal.NewFromInt(8), Ativo: true},
		},
	}}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	engine, err := New(&config.Config{APIBaseURL: srv.URL}, service.NoopPrinter{})
	require.NoError(t, err)

	ctx := context.Background()

	// First sync pulls the catalog; nothing to push yet.
	resultado, err := engine.Sincronizar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, resultado.Enviadas)

	cat, _, err := engine.Sync.AtualizarCatalogo(ctx, false)
	require.NoError(t, err)
	require.Len(t, cat.Produtos, 1)

	// Sell two beers on comanda #7 and close it.
	comanda, err := engine.Comandas.CriarComanda(ctx, "7", "Ana", "Carlos")
	require.NoError(t, err)

	_, err = engine.Comandas.AdicionarItem(ctx, comanda.ID, 1, service.NovoItem{
		Tipo:          model.TipoProduto,
		CodItem:       "1",
		Descricao:     "Cerveja Lata 350ml",
		Quantidade:    2,
		PrecoUnitario: decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	_, err = engine.Comandas.FecharPedido(ctx, comanda.ID, 1)
	require.NoError(t, err)

	fechada, err := engine.Comandas.FecharComanda(ctx, comanda.ID, model.PagamentoPix, "Carlos")
	require.NoError(t, err)
	assert.Equal(t, "16", fechada.Total.String())

	// The close already recorded the stock movements locally.
	registro, err := engine.Estoque.Obter(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "-2", registro.SaldoAtual.String())

	// "Sync now" pushes the closed comanda and marks it acknowledged.
	resultado, err = engine.Sincronizar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resultado.Enviadas)
	require.Len(t, backend.lotes, 1)
	require.Len(t, backend.lotes[0], 1)
	assert.Equal(t, "7", backend.lotes[0][0].Numero)

	sincronizada, err := engine.Comandas.ObterComanda(ctx, comanda.ID)
	require.NoError(t, err)
	assert.True(t, sincronizada.Sincronizado)

	// A second sync has nothing left to send.
	resultado, err = engine.Sincronizar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, resultado.Enviadas)

	assert.Equal(t, "closed", engine.EstadoConexao())
}

func TestEngine_SenhaSupervisorPadrao(t *testing.T) {
	srv := httptest.NewServer((&backendFalso{}).handler())
	defer srv.Close()

	engine, err := New(&config.Config{APIBaseURL: srv.URL}, service.NoopPrinter{})
	require.NoError(t, err)

	assert.NoError(t, engine.Auth.ValidarSenhaSupervisor(context.Background(), "1234"))
	assert.Error(t, engine.Auth.ValidarSenhaSupervisor(context.Background(), "0000"))
}
