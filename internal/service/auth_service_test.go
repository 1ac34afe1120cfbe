package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/kv"
	"github.com/controllermansear-arch/vendorMan/internal/storage"
)

func TestValidarSenhaSupervisor_Padrao(t *testing.T) {
	svc := NewAuthService(storage.NewConfigStore(kv.NewMemoryStore()))

	require.NoError(t, svc.ValidarSenhaSupervisor(context.Background(), "1234"))
	assert.ErrorIs(t, svc.ValidarSenhaSupervisor(context.Background(), "0000"), apperror.ErrAutorizacaoNegada)
}

func TestAlterarSenhaSupervisor(t *testing.T) {
	svc := NewAuthService(storage.NewConfigStore(kv.NewMemoryStore()))

	err := svc.AlterarSenhaSupervisor(context.Background(), "errada", "nova")
	assert.ErrorIs(t, err, apperror.ErrSenhaAtualIncorreta)

	err = svc.AlterarSenhaSupervisor(context.Background(), "1234", "")
	assert.True(t, apperror.IsValidation(err))

	require.NoError(t, svc.AlterarSenhaSupervisor(context.Background(), "1234", "4321"))
	assert.ErrorIs(t, svc.ValidarSenhaSupervisor(context.Background(), "1234"), apperror.ErrAutorizacaoNegada)
	require.NoError(t, svc.ValidarSenhaSupervisor(context.Background(), "4321"))
}
