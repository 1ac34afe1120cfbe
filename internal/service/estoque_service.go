package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/catalog"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// EstoqueStore is the persistence contract of the inventory ledger. Satisfied
// by storage.EstoqueStore (device) and repository.EstoqueRepository (backend
// mirror): the same ledger rules run on both sides.
type EstoqueStore interface {
	Listar(ctx context.Context) ([]model.Estoque, error)
	Atualizar(ctx context.Context, fn func(map[int]*model.Estoque) error) error
}

// EstoqueService applies resolved deltas as movements and maintains balances.
type EstoqueService interface {
	// AplicarMovimentos appends one movement per delta, creating records as
	// needed. Re-running for the same comanda duplicates movements: the
	// caller must deduplicate by comanda reference before calling.
	AplicarMovimentos(ctx context.Context, deltas []catalog.Delta, direcao model.TipoMovimento, motivo string, comandaID *uuid.UUID, usuario string) error
	// RegistrarEntrada records a manual stock-in against a produto.
	RegistrarEntrada(ctx context.Context, produto model.Produto, quantidade decimal.Decimal, motivo, usuario string) (*model.Estoque, error)
	// ReverterMovimentos appends the inverse of every movement tagged with
	// comandaID and returns how many were reversed. Never called
	// automatically — stock correction is an explicit, audited decision.
	ReverterMovimentos(ctx context.Context, comandaID uuid.UUID, usuario string) (int, error)
	Listar(ctx context.Context) ([]model.Estoque, error)
	Obter(ctx context.Context, codInt int) (*model.Estoque, error)
	// VerificarSaldos recomputes every cached balance from its movement log,
	// fixing and reporting any drift.
	VerificarSaldos(ctx context.Context) ([]int, error)
}

type estoqueService struct {
	store EstoqueStore
}

// NewEstoqueService builds the ledger over the given store.
func NewEstoqueService(store EstoqueStore) EstoqueService {
	return &estoqueService{store: store}
}

func (s *estoqueService) AplicarMovimentos(ctx context.Context, deltas []catalog.Delta, direcao model.TipoMovimento, motivo string, comandaID *uuid.UUID, usuario string) error {
	if len(deltas) == 0 {
		return nil
	}
	agora := time.Now()

	return s.store.Atualizar(ctx, func(registros map[int]*model.Estoque) error {
		for _, d := range deltas {
			if !d.Quantidade.IsPositive() {
				continue
			}
			reg, ok := registros[d.CodInt]
			if !ok {
				reg = &model.Estoque{
					CodInt:     d.CodInt,
					TipoItem:   d.TipoItem,
					Descricao:  d.Descricao,
					SaldoAtual: decimal.Zero,
				}
				registros[d.CodInt] = reg
			}
			reg.Apontar(model.Movimentacao{
				ID:            uuid.New(),
				EstoqueCodInt: d.CodInt,
				Tipo:          direcao,
				Quantidade:    d.Quantidade,
				Motivo:        motivo,
				Data:          agora,
				ComandaID:     comandaID,
				Usuario:       usuario,
			}, d.TipoItem, d.Descricao)

			// Oversell is recorded, not blocked: the physical sale already
			// happened. The ledger logs reality.
			if reg.SaldoAtual.IsNegative() {
				log.Warn().
					Int("codInt", d.CodInt).
					Str("descricao", reg.Descricao).
					Str("saldo", reg.SaldoAtual.String()).
					Msg("saldo de estoque negativo")
			}
		}
		return nil
	})
}

func (s *estoqueService) RegistrarEntrada(ctx context.Context, produto model.Produto, quantidade decimal.Decimal, motivo, usuario string) (*model.Estoque, error) {
	if !quantidade.IsPositive() {
		return nil, apperror.ErrQuantidadeInvalida
	}
	if usuario == "" {
		return nil, apperror.ErrOperadorObrigatorio
	}

	var atualizado model.Estoque
	err := s.store.Atualizar(ctx, func(registros map[int]*model.Estoque) error {
		reg, ok := registros[produto.CodInt]
		if !ok {
			reg = &model.Estoque{
				CodInt:     produto.CodInt,
				TipoItem:   model.TipoProduto,
				Descricao:  produto.Descricao,
				SaldoAtual: decimal.Zero,
			}
			registros[produto.CodInt] = reg
		}
		reg.Apontar(model.Movimentacao{
			ID:            uuid.New(),
			EstoqueCodInt: produto.CodInt,
			Tipo:          model.MovimentoEntrada,
			Quantidade:    quantidade,
			Motivo:        motivo,
			Data:          time.Now(),
			Usuario:       usuario,
		}, model.TipoProduto, produto.Descricao)
		atualizado = *reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &atualizado, nil
}

func (s *estoqueService) ReverterMovimentos(ctx context.Context, comandaID uuid.UUID, usuario string) (int, error) {
	revertidos := 0
	err := s.store.Atualizar(ctx, func(registros map[int]*model.Estoque) error {
		agora := time.Now()
		for _, reg := range registros {
			// Snapshot the current log: the inverses appended below carry the
			// same comanda tag and must not be reversed in this same pass.
			originais := reg.Movimentacoes
			for _, mov := range originais {
				if mov.ComandaID == nil || *mov.ComandaID != comandaID {
					continue
				}
				if strings.HasPrefix(mov.Motivo, prefixoEstorno) || revertida(originais, mov) {
					continue
				}
				inversa := model.MovimentoEntrada
				if mov.Tipo == model.MovimentoEntrada {
					inversa = model.MovimentoSaida
				}
				cid := comandaID
				reg.Apontar(model.Movimentacao{
					ID:            uuid.New(),
					EstoqueCodInt: reg.CodInt,
					Tipo:          inversa,
					Quantidade:    mov.Quantidade,
					Motivo:        fmt.Sprintf("%s%s", prefixoEstorno, mov.Motivo),
					Data:          agora,
					ComandaID:     &cid,
					Usuario:       usuario,
				}, reg.TipoItem, reg.Descricao)
				revertidos++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("comanda", comandaID.String()).Int("movimentos", revertidos).Msg("movimentos de estoque estornados")
	return revertidos, nil
}

const prefixoEstorno = "Estorno: "

// revertida reports whether mov already has a matching estorno in the log,
// keeping ReverterMovimentos idempotent per movement.
func revertida(movs []model.Movimentacao, mov model.Movimentacao) bool {
	alvo := prefixoEstorno + mov.Motivo
	for _, m := range movs {
		if m.Motivo == alvo && m.Quantidade.Equal(mov.Quantidade) && m.Tipo != mov.Tipo &&
			m.ComandaID != nil && mov.ComandaID != nil && *m.ComandaID == *mov.ComandaID {
			return true
		}
	}
	return false
}

func (s *estoqueService) Listar(ctx context.Context) ([]model.Estoque, error) {
	return s.store.Listar(ctx)
}

func (s *estoqueService) Obter(ctx context.Context, codInt int) (*model.Estoque, error) {
	registros, err := s.store.Listar(ctx)
	if err != nil {
		return nil, err
	}
	for i := range registros {
		if registros[i].CodInt == codInt {
			return &registros[i], nil
		}
	}
	return nil, apperror.ErrProdutoNaoEncontrado
}

func (s *estoqueService) VerificarSaldos(ctx context.Context) ([]int, error) {
	var corrigidos []int
	err := s.store.Atualizar(ctx, func(registros map[int]*model.Estoque) error {
		for cod, reg := range registros {
			calculado := reg.SaldoCalculado()
			if !calculado.Equal(reg.SaldoAtual) {
				log.Error().
					Int("codInt", cod).
					Str("cache", reg.SaldoAtual.String()).
					Str("calculado", calculado.String()).
					Msg("saldo em cache divergente do log de movimentações")
				reg.SaldoAtual = calculado
				corrigidos = append(corrigidos, cod)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return corrigidos, nil
}
