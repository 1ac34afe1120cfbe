// Package app assembles the device-side engine: local stores over a key/value
// backend, the lifecycle and ledger services, and the sync client. One Engine
// per device.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/controllermansear-arch/vendorMan/internal/client"
	"github.com/controllermansear-arch/vendorMan/internal/config"
	"github.com/controllermansear-arch/vendorMan/internal/infra"
	"github.com/controllermansear-arch/vendorMan/internal/kv"
	"github.com/controllermansear-arch/vendorMan/internal/service"
	"github.com/controllermansear-arch/vendorMan/internal/storage"
)

// Engine is the composition root of the local order engine.
type Engine struct {
	Comandas service.ComandaService
	Estoque  service.EstoqueService
	Sync     service.SyncService
	Auth     service.AuthService

	Config *storage.ConfigStore

	api *client.Client
}

// New builds the engine. When REDIS_URL is set the local state persists to
// Redis and survives restarts; otherwise it lives in process memory.
func New(cfg *config.Config, printer service.Printer) (*Engine, error) {
	store, err := abrirStore(cfg)
	if err != nil {
		return nil, err
	}

	comandaStore := storage.NewComandaStore(store)
	catalogoStore := storage.NewCatalogoStore(store)
	estoqueStore := storage.NewEstoqueStore(store)
	configStore := storage.NewConfigStore(store)

	api := client.New(cfg.APIBaseURL, cfg.HTTPTimeout(), cfg.HealthTimeout())

	estoqueSvc := service.NewEstoqueService(estoqueStore)
	comandaSvc := service.NewComandaService(comandaStore, catalogoStore, estoqueSvc, printer)
	syncSvc := service.NewSyncService(api, catalogoStore, comandaStore, cfg.CatalogTTL())
	authSvc := service.NewAuthService(configStore)

	return &Engine{
		Comandas: comandaSvc,
		Estoque:  estoqueSvc,
		Sync:     syncSvc,
		Auth:     authSvc,
		Config:   configStore,
		api:      api,
	}, nil
}

// Sincronizar is the caller-driven "sync now": refresh the catalog when it is
// older than its TTL, then push every closed comanda the backend has not
// acknowledged. There is no background loop — the UI decides when to retry.
func (e *Engine) Sincronizar(ctx context.Context) (*service.ResultadoEnvio, error) {
	if _, _, err := e.Sync.AtualizarCatalogo(ctx, false); err != nil {
		return nil, err
	}
	return e.Sync.EnviarComandasFechadas(ctx)
}

// EstadoConexao exposes the transport breaker state ("closed", "open",
// "half-open") for the status screen.
func (e *Engine) EstadoConexao() string { return e.api.EstadoCircuito() }

func abrirStore(cfg *config.Config) (kv.Store, error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL vazio; estado local em memória")
		return kv.NewMemoryStore(), nil
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return kv.NewRedisStore(rdb), nil
}
