package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controllermansear-arch/vendorMan/internal/kv"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

func TestEstoqueStore_ListarVazio(t *testing.T) {
	store := NewEstoqueStore(kv.NewMemoryStore())

	registros, err := store.Listar(context.Background())
	require.NoError(t, err)
	assert.Empty(t, registros)
}

func TestEstoqueStore_AtualizarCriaEOrdena(t *testing.T) {
	store := NewEstoqueStore(kv.NewMemoryStore())

	err := store.Atualizar(context.Background(), func(registros map[int]*model.Estoque) error {
		for _, cod := range []int{3, 1, 2} {
			registros[cod] = &model.Estoque{
				CodInt:   cod,
				TipoItem: model.TipoProduto,
			}
		}
		return nil
	})
	require.NoError(t, err)

	registros, err := store.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, registros, 3)
	assert.Equal(t, 1, registros[0].CodInt)
	assert.Equal(t, 2, registros[1].CodInt)
	assert.Equal(t, 3, registros[2].CodInt)
}

func TestEstoqueStore_AtualizarPreservaMovimentacoes(t *testing.T) {
	store := NewEstoqueStore(kv.NewMemoryStore())
	agora := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

	err := store.Atualizar(context.Background(), func(registros map[int]*model.Estoque) error {
		reg := &model.Estoque{CodInt: 1, TipoItem: model.TipoProduto, Descricao: "Cerveja Lata 350ml"}
		reg.Apontar(model.Movimentacao{
			ID:            uuid.New(),
			EstoqueCodInt: 1,
			Tipo:          model.MovimentoEntrada,
			Quantidade:    decimal.NewFromInt(10),
			Motivo:        "Reposição",
			Data:          agora,
			Usuario:       "Ana",
		}, model.TipoProduto, "Cerveja Lata 350ml")
		registros[1] = reg
		return nil
	})
	require.NoError(t, err)

	err = store.Atualizar(context.Background(), func(registros map[int]*model.Estoque) error {
		reg := registros[1]
		require.NotNil(t, reg)
		reg.Apontar(model.Movimentacao{
			ID:            uuid.New(),
			EstoqueCodInt: 1,
			Tipo:          model.MovimentoSaida,
			Quantidade:    decimal.NewFromInt(3),
			Motivo:        "Venda comanda #7",
			Data:          agora.Add(time.Minute),
			Usuario:       "Ana",
		}, model.TipoProduto, "Cerveja Lata 350ml")
		return nil
	})
	require.NoError(t, err)

	registros, err := store.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.Equal(t, "7", registros[0].SaldoAtual.String())
	require.Len(t, registros[0].Movimentacoes, 2)
	assert.Equal(t, "Venda comanda #7", registros[0].Movimentacoes[1].Motivo)
}

func TestEstoqueStore_AtualizarErroNaoGrava(t *testing.T) {
	store := NewEstoqueStore(kv.NewMemoryStore())
	falha := errors.New("saldo inconsistente")

	err := store.Atualizar(context.Background(), func(registros map[int]*model.Estoque) error {
		registros[1] = &model.Estoque{CodInt: 1, TipoItem: model.TipoProduto}
		return falha
	})
	assert.ErrorIs(t, err, falha)

	registros, err := store.Listar(context.Background())
	require.NoError(t, err)
	assert.Empty(t, registros)
}
