// Package storage exposes the generic key/value store as typed collections
// (comandas, catalog, estoque, config). Every mutation read-modify-writes the
// whole collection under a single key and is serialized by a per-store mutex:
// one operator owns one device's cache, so there is no finer-grained locking
// to win, only lost updates to lose.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/kv"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

const chaveComandas = "comandas"

// ComandaStore is the typed local collection of comandas.
type ComandaStore struct {
	mu sync.Mutex
	kv kv.Store
}

// NewComandaStore builds a store over the given backend.
func NewComandaStore(store kv.Store) *ComandaStore {
	return &ComandaStore{kv: store}
}

// Listar loads the whole collection. An absent key is an empty collection.
func (s *ComandaStore) Listar(ctx context.Context) ([]model.Comanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carregar(ctx)
}

// Obter finds one comanda by id.
func (s *ComandaStore) Obter(ctx context.Context, id uuid.UUID) (*model.Comanda, error) {
	comandas, err := s.Listar(ctx)
	if err != nil {
		return nil, err
	}
	for i := range comandas {
		if comandas[i].ID == id {
			return &comandas[i], nil
		}
	}
	return nil, apperror.ErrComandaNaoEncontrada
}

// Inserir appends a new comanda to the collection.
func (s *ComandaStore) Inserir(ctx context.Context, c model.Comanda) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comandas, err := s.carregar(ctx)
	if err != nil {
		return err
	}
	comandas = append(comandas, c)
	return s.gravar(ctx, comandas)
}

// Atualizar applies fn to the comanda with the given id inside one
// read-modify-write cycle and persists the result. If fn returns an error
// nothing is written and the error is returned unchanged.
func (s *ComandaStore) Atualizar(ctx context.Context, id uuid.UUID, fn func(*model.Comanda) error) (*model.Comanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comandas, err := s.carregar(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range comandas {
		if comandas[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperror.ErrComandaNaoEncontrada
	}
	if err := fn(&comandas[idx]); err != nil {
		return nil, err
	}
	if err := s.gravar(ctx, comandas); err != nil {
		return nil, err
	}
	atualizada := comandas[idx]
	return &atualizada, nil
}

// MarcarSincronizadas flags exactly the given ids as synced.
func (s *ComandaStore) MarcarSincronizadas(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comandas, err := s.carregar(ctx)
	if err != nil {
		return err
	}
	enviadas := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		enviadas[id] = true
	}
	for i := range comandas {
		if enviadas[comandas[i].ID] {
			comandas[i].Sincronizado = true
		}
	}
	return s.gravar(ctx, comandas)
}

func (s *ComandaStore) carregar(ctx context.Context) ([]model.Comanda, error) {
	raw, ok, err := s.kv.Get(ctx, chaveComandas)
	if err != nil {
		return nil, fmt.Errorf("carregar comandas: %w", err)
	}
	if !ok {
		return []model.Comanda{}, nil
	}
	var comandas []model.Comanda
	if err := json.Unmarshal(raw, &comandas); err != nil {
		return nil, fmt.Errorf("decodificar comandas: %w", err)
	}
	return comandas, nil
}

func (s *ComandaStore) gravar(ctx context.Context, comandas []model.Comanda) error {
	raw, err := json.Marshal(comandas)
	if err != nil {
		return fmt.Errorf("codificar comandas: %w", err)
	}
	if err := s.kv.Set(ctx, chaveComandas, raw); err != nil {
		return fmt.Errorf("gravar comandas: %w", err)
	}
	return nil
}
