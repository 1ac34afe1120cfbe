package service

import (
	"context"
	"crypto/subtle"

	"github.com/rs/zerolog/log"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/storage"
)

// AuthService gates supervisor-only operations with the locally stored
// supervisor password.
type AuthService interface {
	ValidarSenhaSupervisor(ctx context.Context, senha string) error
	AlterarSenhaSupervisor(ctx context.Context, senhaAtual, senhaNova string) error
}

type authService struct {
	config *storage.ConfigStore
}

func NewAuthService(config *storage.ConfigStore) AuthService {
	return &authService{config: config}
}

func (s *authService) ValidarSenhaSupervisor(ctx context.Context, senha string) error {
	prefs, err := s.config.Obter(ctx)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(senha), []byte(prefs.SenhaSupervisor)) != 1 {
		return apperror.ErrAutorizacaoNegada
	}
	return nil
}

func (s *authService) AlterarSenhaSupervisor(ctx context.Context, senhaAtual, senhaNova string) error {
	if senhaNova == "" {
		return apperror.Validation("nova senha não pode ser vazia")
	}
	err := s.config.Atualizar(ctx, func(prefs *storage.Preferencias) error {
		if subtle.ConstantTimeCompare([]byte(senhaAtual), []byte(prefs.SenhaSupervisor)) != 1 {
			return apperror.ErrSenhaAtualIncorreta
		}
		prefs.SenhaSupervisor = senhaNova
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Msg("senha do supervisor alterada")
	return nil
}
