package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// ComandaRepository persists comandas on the backend mirror.
type ComandaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comanda, error)
	List(ctx context.Context, status string) ([]model.Comanda, error)
	Create(ctx context.Context, comanda *model.Comanda) error
	// Upsert replaces the comanda and its full pedido/item tree. Re-sending
	// the same comanda converges to the same rows, which is what makes the
	// device push retry-safe.
	Upsert(ctx context.Context, comanda *model.Comanda) error
	Fechar(ctx context.Context, id uuid.UUID, formaPagamento, operador string, quando time.Time) (*model.Comanda, error)
	// ContarPorStatus feeds the admin status endpoint.
	ContarPorStatus(ctx context.Context) (abertas, fechadas int64, err error)
}

type comandaRepo struct{ db *gorm.DB }

func NewComandaRepository(db *gorm.DB) ComandaRepository { return &comandaRepo{db: db} }

func (r *comandaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comanda, error) {
	var c model.Comanda
	err := r.db.WithContext(ctx).
		Preload("Pedidos", func(db *gorm.DB) *gorm.DB { return db.Order("numero") }).
		Preload("Pedidos.Itens").
		First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrComandaNaoEncontrada
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *comandaRepo) List(ctx context.Context, status string) ([]model.Comanda, error) {
	var comandas []model.Comanda
	q := r.db.WithContext(ctx).
		Preload("Pedidos", func(db *gorm.DB) *gorm.DB { return db.Order("numero") }).
		Preload("Pedidos.Itens").
		Order("data_abertura DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&comandas).Error
	return comandas, err
}

func (r *comandaRepo) Create(ctx context.Context, comanda *model.Comanda) error {
	return r.db.WithContext(ctx).Create(comanda).Error
}

func (r *comandaRepo) Upsert(ctx context.Context, comanda *model.Comanda) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Drop the previous pedido/item tree; it is re-created below from the
		// incoming snapshot, which is the source of truth.
		var pedidoIDs []uuid.UUID
		if err := tx.Model(&model.Pedido{}).
			Where("comanda_id = ?", comanda.ID).
			Pluck("id", &pedidoIDs).Error; err != nil {
			return err
		}
		if len(pedidoIDs) > 0 {
			if err := tx.Where("pedido_id IN ?", pedidoIDs).
				Delete(&model.ItemPedido{}).Error; err != nil {
				return err
			}
			if err := tx.Where("comanda_id = ?", comanda.ID).
				Delete(&model.Pedido{}).Error; err != nil {
				return err
			}
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(comanda).Error
	})
}

func (r *comandaRepo) Fechar(ctx context.Context, id uuid.UUID, formaPagamento, operador string, quando time.Time) (*model.Comanda, error) {
	var fechada *model.Comanda
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Comanda
		err := tx.Preload("Pedidos.Itens").First(&c, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrComandaNaoEncontrada
		}
		if err != nil {
			return err
		}
		if !c.Aberta() {
			return apperror.ErrComandaFechada
		}

		c.Status = model.ComandaFechada
		c.FormaPagamento = formaPagamento
		c.Operador = operador
		c.DataFechamento = &quando
		c.RecalcularTotal()

		if err := tx.Model(&model.Comanda{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":          c.Status,
			"forma_pagamento": c.FormaPagamento,
			"operador":        c.Operador,
			"data_fechamento": c.DataFechamento,
			"total":           c.Total,
		}).Error; err != nil {
			return err
		}
		fechada = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fechada, nil
}

func (r *comandaRepo) ContarPorStatus(ctx context.Context) (int64, int64, error) {
	var abertas, fechadas int64
	if err := r.db.WithContext(ctx).Model(&model.Comanda{}).
		Where("status = ?", model.ComandaAberta).Count(&abertas).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Comanda{}).
		Where("status = ?", model.ComandaFechada).Count(&fechadas).Error; err != nil {
		return 0, 0, err
	}
	return abertas, fechadas, nil
}
