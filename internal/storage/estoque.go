package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/controllermansear-arch/vendorMan/internal/kv"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

const chaveEstoque = "estoque"

// EstoqueStore holds the local inventory records, keyed by produto CodInt.
type EstoqueStore struct {
	mu sync.Mutex
	kv kv.Store
}

// NewEstoqueStore builds a store over the given backend.
func NewEstoqueStore(store kv.Store) *EstoqueStore {
	return &EstoqueStore{kv: store}
}

// Listar returns all records ordered by CodInt.
func (s *EstoqueStore) Listar(ctx context.Context) ([]model.Estoque, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	registros, err := s.carregar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Estoque, 0, len(registros))
	for _, r := range registros {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CodInt < out[j].CodInt })
	return out, nil
}

// Atualizar applies fn to the full record map in one read-modify-write cycle.
// fn may add, mutate, or inspect records; if it returns an error nothing is
// written.
func (s *EstoqueStore) Atualizar(ctx context.Context, fn func(map[int]*model.Estoque) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registros, err := s.carregar(ctx)
	if err != nil {
		return err
	}
	if err := fn(registros); err != nil {
		return err
	}
	return s.gravar(ctx, registros)
}

func (s *EstoqueStore) carregar(ctx context.Context) (map[int]*model.Estoque, error) {
	raw, ok, err := s.kv.Get(ctx, chaveEstoque)
	if err != nil {
		return nil, fmt.Errorf("carregar estoque: %w", err)
	}
	registros := make(map[int]*model.Estoque)
	if !ok {
		return registros, nil
	}
	var lista []model.Estoque
	if err := json.Unmarshal(raw, &lista); err != nil {
		return nil, fmt.Errorf("decodificar estoque: %w", err)
	}
	for i := range lista {
		registros[lista[i].CodInt] = &lista[i]
	}
	return registros, nil
}

func (s *EstoqueStore) gravar(ctx context.Context, registros map[int]*model.Estoque) error {
	lista := make([]model.Estoque, 0, len(registros))
	for _, r := range registros {
		lista = append(lista, *r)
	}
	sort.Slice(lista, func(i, j int) bool { return lista[i].CodInt < lista[j].CodInt })
	raw, err := json.Marshal(lista)
	if err != nil {
		return fmt.Errorf("codificar estoque: %w", err)
	}
	if err := s.kv.Set(ctx, chaveEstoque, raw); err != nil {
		return fmt.Errorf("gravar estoque: %w", err)
	}
	return nil
}
