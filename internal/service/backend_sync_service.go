package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/controllermansear-arch/vendorMan/internal/catalog"
	"github.com/controllermansear-arch/vendorMan/internal/dto"
	"github.com/controllermansear-arch/vendorMan/internal/model"
	"github.com/controllermansear-arch/vendorMan/internal/repository"
)

// BackendSyncService is the server side of the device push: it absorbs batches
// of closed comandas and mirrors remote closes, applying the same ledger rules
// the devices run locally.
type BackendSyncService interface {
	// ProcessarLote upserts each valid comanda of a device batch. Invalid
	// ones are counted and skipped; the batch never fails as a whole.
	ProcessarLote(ctx context.Context, comandas []model.Comanda) (*dto.SyncResponse, error)
	// FecharComanda closes a comanda stored on the backend and records its
	// stock movements.
	FecharComanda(ctx context.Context, id uuid.UUID, formaPagamento, usuario string) (*model.Comanda, error)
}

type backendSyncService struct {
	comandas repository.ComandaRepository
	catalogo repository.CatalogoRepository
	estoque  EstoqueService
}

func NewBackendSyncService(comandas repository.ComandaRepository, catalogo repository.CatalogoRepository, estoque EstoqueService) BackendSyncService {
	return &backendSyncService{comandas: comandas, catalogo: catalogo, estoque: estoque}
}

func (s *backendSyncService) ProcessarLote(ctx context.Context, comandas []model.Comanda) (*dto.SyncResponse, error) {
	resp := &dto.SyncResponse{}
	for i := range comandas {
		c := comandas[i]
		if err := validarParaEnvio(c); err != nil {
			resp.ComandasInvalidas++
			log.Warn().Err(err).Str("comanda", c.ID.String()).Str("numero", c.Numero).Msg("comanda rejeitada no sync")
			continue
		}
		c.Sincronizado = true
		if err := s.comandas.Upsert(ctx, &c); err != nil {
			return nil, fmt.Errorf("upsert comanda %s: %w", c.ID, err)
		}
		resp.ComandasProcessadas++
	}
	resp.Message = fmt.Sprintf("%d comandas processadas", resp.ComandasProcessadas)
	log.Info().Int("processadas", resp.ComandasProcessadas).Int("invalidas", resp.ComandasInvalidas).Msg("lote de comandas sincronizado")
	return resp, nil
}

func (s *backendSyncService) FecharComanda(ctx context.Context, id uuid.UUID, formaPagamento, usuario string) (*model.Comanda, error) {
	fechada, err := s.comandas.Fechar(ctx, id, formaPagamento, usuario, time.Now())
	if err != nil {
		return nil, err
	}

	// Same contract as the device close: the close is durable, the stock
	// movements are best-effort after it.
	cat, err := s.catalogo.ListarAtivos(ctx)
	if err != nil {
		log.Error().Err(err).Str("comanda", id.String()).Msg("catálogo indisponível; baixa de estoque não registrada")
		return fechada, nil
	}
	resolver := catalog.NewResolver(cat)

	var deltas []catalog.Delta
	for _, item := range fechada.ItensVendidos() {
		expandidos, err := resolver.Resolve(item)
		if err != nil {
			log.Error().Err(err).Str("comanda", id.String()).Str("codItem", item.CodItem).Msg("item não resolvido no catálogo; baixa ignorada")
			continue
		}
		deltas = append(deltas, expandidos...)
	}
	if len(deltas) > 0 {
		cid := fechada.ID
		motivo := fmt.Sprintf("Venda comanda #%s", fechada.Numero)
		if err := s.estoque.AplicarMovimentos(ctx, deltas, model.MovimentoSaida, motivo, &cid, usuario); err != nil {
			log.Error().Err(err).Str("comanda", id.String()).Msg("falha ao registrar baixa de estoque")
		}
	}
	return fechada, nil
}
