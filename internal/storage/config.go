package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/controllermansear-arch/vendorMan/internal/kv"
)

const chaveConfig = "config"

// Preferencias are the device-local settings (operator name, supervisor
// password, company header for receipts).
type Preferencias struct {
	Operador        string `json:"operador"`
	SenhaSupervisor string `json:"supervisorPassword"`
	Empresa         string `json:"empresa"`
}

// PreferenciasPadrao mirrors the defaults seeded on first launch.
func PreferenciasPadrao() Preferencias {
	return Preferencias{
		Operador:        "Operador",
		SenhaSupervisor: "1234",
		Empresa:         "Minha Empresa",
	}
}

// ConfigStore persists the device preferences.
type ConfigStore struct {
	mu sync.Mutex
	kv kv.Store
}

// NewConfigStore builds a store over the given backend.
func NewConfigStore(store kv.Store) *ConfigStore {
	return &ConfigStore{kv: store}
}

// Obter returns the stored preferences, seeding the defaults when nothing was
// stored yet.
func (s *ConfigStore) Obter(ctx context.Context) (Preferencias, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carregar(ctx)
}

// Atualizar applies fn to the preferences and persists the result.
func (s *ConfigStore) Atualizar(ctx context.Context, fn func(*Preferencias) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, err := s.carregar(ctx)
	if err != nil {
		return err
	}
	if err := fn(&prefs); err != nil {
		return err
	}
	return s.gravar(ctx, prefs)
}

func (s *ConfigStore) carregar(ctx context.Context) (Preferencias, error) {
	raw, ok, err := s.kv.Get(ctx, chaveConfig)
	if err != nil {
		return Preferencias{}, fmt.Errorf("carregar configurações: %w", err)
	}
	if !ok {
		padrao := PreferenciasPadrao()
		if err := s.gravar(ctx, padrao); err != nil {
			return Preferencias{}, err
		}
		return padrao, nil
	}
	var prefs Preferencias
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return Preferencias{}, fmt.Errorf("decodificar configurações: %w", err)
	}
	return prefs, nil
}

func (s *ConfigStore) gravar(ctx context.Context, prefs Preferencias) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("codificar configurações: %w", err)
	}
	if err := s.kv.Set(ctx, chaveConfig, raw); err != nil {
		return fmt.Errorf("gravar configurações: %w", err)
	}
	return nil
}
