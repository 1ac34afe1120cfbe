package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/controllermansear-arch/vendorMan/internal/kv"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

const chaveCatalogo = "catalogo"

// catalogoCache is the persisted shape: the snapshot and its sync timestamp
// live under one key so the three collections and the timestamp replace
// atomically, never partially.
type catalogoCache struct {
	Catalogo     model.Catalogo `json:"catalogo"`
	AtualizadoEm time.Time      `json:"atualizadoEm"`
}

// CatalogoStore is the local catalog cache.
type CatalogoStore struct {
	mu sync.Mutex
	kv kv.Store
}

// NewCatalogoStore builds a store over the given backend.
func NewCatalogoStore(store kv.Store) *CatalogoStore {
	return &CatalogoStore{kv: store}
}

// Obter returns the cached snapshot. An absent cache is an empty snapshot.
func (s *CatalogoStore) Obter(ctx context.Context) (model.Catalogo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cache, _, err := s.carregar(ctx)
	if err != nil {
		return model.Catalogo{}, err
	}
	return cache.Catalogo, nil
}

// Substituir atomically replaces the whole snapshot and records when it was
// fetched.
func (s *CatalogoStore) Substituir(ctx context.Context, cat model.Catalogo, quando time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(catalogoCache{Catalogo: cat, AtualizadoEm: quando})
	if err != nil {
		return fmt.Errorf("codificar catálogo: %w", err)
	}
	if err := s.kv.Set(ctx, chaveCatalogo, raw); err != nil {
		return fmt.Errorf("gravar catálogo: %w", err)
	}
	return nil
}

// UltimaSincronizacao returns when the cache was last replaced; ok=false when
// the catalog was never pulled.
func (s *CatalogoStore) UltimaSincronizacao(ctx context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cache, ok, err := s.carregar(ctx)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return cache.AtualizadoEm, true, nil
}

func (s *CatalogoStore) carregar(ctx context.Context) (catalogoCache, bool, error) {
	raw, ok, err := s.kv.Get(ctx, chaveCatalogo)
	if err != nil {
		return catalogoCache{}, false, fmt.Errorf("carregar catálogo: %w", err)
	}
	if !ok {
		return catalogoCache{}, false, nil
	}
	var cache catalogoCache
	if err := json.Unmarshal(raw, &cache); err != nil {
		return catalogoCache{}, false, fmt.Errorf("decodificar catálogo: %w", err)
	}
	return cache, true, nil
}
