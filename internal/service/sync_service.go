package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/client"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// CatalogoTTL is how long a pulled catalog stays fresh before the next sync
// attempt re-fetches it.
const CatalogoTTL = 5 * time.Minute

// SyncAPI is the remote contract the sync flow needs. Satisfied by
// *client.Client.
type SyncAPI interface {
	BuscarCatalogo(ctx context.Context) (model.Catalogo, error)
	EnviarComandas(ctx context.Context, comandas []model.Comanda) (*client.SyncResponse, error)
	FecharComanda(ctx context.Context, id uuid.UUID, formaPagamento, usuario string) (*model.Comanda, error)
	VerificarSaude(ctx context.Context) (*client.Saude, error)
}

// CatalogoCacheStore is the local catalog snapshot. Satisfied by
// storage.CatalogoStore.
type CatalogoCacheStore interface {
	Obter(ctx context.Context) (model.Catalogo, error)
	Substituir(ctx context.Context, catalogo model.Catalogo, quando time.Time) error
	UltimaSincronizacao(ctx context.Context) (time.Time, bool, error)
}

// ComandaSyncStore is the slice of comanda persistence the push flow needs.
// Satisfied by storage.ComandaStore.
type ComandaSyncStore interface {
	Listar(ctx context.Context) ([]model.Comanda, error)
	MarcarSincronizadas(ctx context.Context, ids []uuid.UUID) error
}

// ResultadoEnvio summarizes one push of closed comandas.
type ResultadoEnvio struct {
	Enviadas  int    // accepted by the backend and marked locally
	Invalidas int    // rejected client-side before the request
	Pendentes int    // closed and unsynced before this push
	Mensagem  string // backend message, when the push happened
}

// SyncService keeps the local device and the backend in step: catalog comes
// down, closed comandas go up. Every remote failure degrades to local data.
type SyncService interface {
	// AtualizarCatalogo pulls the catalog when the cache is stale (or force
	// is set), replacing the local snapshot atomically. On transport failure
	// it returns the cached snapshot and reports atualizado=false.
	AtualizarCatalogo(ctx context.Context, force bool) (catalogo model.Catalogo, atualizado bool, err error)
	// PrecisaAtualizar reports whether the cached catalog is older than
	// CatalogoTTL (or absent).
	PrecisaAtualizar(ctx context.Context) bool
	// EnviarComandasFechadas pushes every closed, unsynced comanda in one
	// bulk upsert and marks the accepted ones as synced. Comandas that fail
	// local validation are counted and left unsynced.
	EnviarComandasFechadas(ctx context.Context) (*ResultadoEnvio, error)
	// FecharComandaRemota mirrors a close straight to the backend.
	FecharComandaRemota(ctx context.Context, id uuid.UUID, formaPagamento, usuario string) (*model.Comanda, error)
	VerificarSaude(ctx context.Context) (*client.Saude, error)
}

type syncService struct {
	api      SyncAPI
	catalogo CatalogoCacheStore
	comandas ComandaSyncStore
	ttl      time.Duration
}

// NewSyncService wires the sync flow. A non-positive ttl falls back to
// CatalogoTTL.
func NewSyncService(api SyncAPI, catalogo CatalogoCacheStore, comandas ComandaSyncStore, ttl time.Duration) SyncService {
	if ttl <= 0 {
		ttl = CatalogoTTL
	}
	return &syncService{api: api, catalogo: catalogo, comandas: comandas, ttl: ttl}
}

func (s *syncService) PrecisaAtualizar(ctx context.Context) bool {
	quando, ok, err := s.catalogo.UltimaSincronizacao(ctx)
	if err != nil || !ok {
		return true
	}
	return time.Since(quando) >= s.ttl
}

func (s *syncService) AtualizarCatalogo(ctx context.Context, force bool) (model.Catalogo, bool, error) {
	if !force && !s.PrecisaAtualizar(ctx) {
		cat, err := s.catalogo.Obter(ctx)
		return cat, false, err
	}

	remoto, err := s.api.BuscarCatalogo(ctx)
	if err != nil {
		if apperror.IsTransport(err) {
			// Offline: keep selling from the snapshot we have.
			log.Warn().Err(err).Msg("backend inacessível; usando catálogo em cache")
			cat, cacheErr := s.catalogo.Obter(ctx)
			return cat, false, cacheErr
		}
		return model.Catalogo{}, false, err
	}

	if err := s.catalogo.Substituir(ctx, remoto, time.Now()); err != nil {
		return model.Catalogo{}, false, err
	}
	log.Info().
		Int("produtos", len(remoto.Produtos)).
		Int("combos", len(remoto.Combos)).
		Int("fracionados", len(remoto.Fracionados)).
		Msg("catálogo sincronizado")
	return remoto, true, nil
}

func (s *syncService) EnviarComandasFechadas(ctx context.Context) (*ResultadoEnvio, error) {
	todas, err := s.comandas.Listar(ctx)
	if err != nil {
		return nil, err
	}

	var validas []model.Comanda
	var ids []uuid.UUID
	resultado := &ResultadoEnvio{}
	for _, c := range todas {
		if c.Aberta() || c.Sincronizado {
			continue
		}
		resultado.Pendentes++
		if err := validarParaEnvio(c); err != nil {
			resultado.Invalidas++
			log.Warn().Err(err).Str("comanda", c.ID.String()).Str("numero", c.Numero).Msg("comanda inválida para sincronização")
			continue
		}
		validas = append(validas, c)
		ids = append(ids, c.ID)
	}
	if len(validas) == 0 {
		return resultado, nil
	}

	resp, err := s.api.EnviarComandas(ctx, validas)
	if err != nil {
		// Unsynced comandas stay queued; the next push retries them.
		return nil, err
	}

	if err := s.comandas.MarcarSincronizadas(ctx, ids); err != nil {
		// The backend upsert is idempotent: the retry after this failure
		// re-sends the same comandas without duplicating them.
		return nil, err
	}
	resultado.Enviadas = len(ids)
	resultado.Mensagem = resp.Message
	log.Info().Int("enviadas", resultado.Enviadas).Int("invalidas", resultado.Invalidas).Msg("comandas sincronizadas")
	return resultado, nil
}

// validarParaEnvio rejects comandas the backend would refuse, so one bad
// record does not poison the whole batch.
func validarParaEnvio(c model.Comanda) error {
	if c.Numero == "" {
		return apperror.ErrNumeroObrigatorio
	}
	if c.Operador == "" {
		return apperror.ErrOperadorObrigatorio
	}
	if !model.FormaPagamentoValida(c.FormaPagamento) {
		return apperror.Validation("forma de pagamento inválida: %q", c.FormaPagamento)
	}
	if c.Total.IsNegative() {
		return apperror.Validation("total negativo: %s", c.Total)
	}
	if c.DataFechamento == nil {
		return apperror.Validation("comanda fechada sem data de fechamento")
	}
	return nil
}

func (s *syncService) FecharComandaRemota(ctx context.Context, id uuid.UUID, formaPagamento, usuario string) (*model.Comanda, error) {
	return s.api.FecharComanda(ctx, id, formaPagamento, usuario)
}

func (s *syncService) VerificarSaude(ctx context.Context) (*client.Saude, error) {
	return s.api.VerificarSaude(ctx)
}
