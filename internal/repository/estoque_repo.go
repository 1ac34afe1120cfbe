package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// EstoqueRepository satisfies service.EstoqueStore over Postgres, so the
// backend runs the same ledger rules as the devices.
type EstoqueRepository struct{ db *gorm.DB }

func NewEstoqueRepository(db *gorm.DB) *EstoqueRepository { return &EstoqueRepository{db: db} }

func (r *EstoqueRepository) Listar(ctx context.Context) ([]model.Estoque, error) {
	var registros []model.Estoque
	err := r.db.WithContext(ctx).
		Preload("Movimentacoes", func(db *gorm.DB) *gorm.DB { return db.Order("data") }).
		Order("cod_int").
		Find(&registros).Error
	return registros, err
}

// Atualizar loads the whole ledger, hands it to fn and persists the result in
// one transaction. The ledger is small (one row per base product) so the
// read-modify-write stays cheap.
func (r *EstoqueRepository) Atualizar(ctx context.Context, fn func(map[int]*model.Estoque) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var registros []model.Estoque
		if err := tx.
			Preload("Movimentacoes", func(db *gorm.DB) *gorm.DB { return db.Order("data") }).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&registros).Error; err != nil {
			return err
		}

		porCod := make(map[int]*model.Estoque, len(registros))
		for i := range registros {
			porCod[registros[i].CodInt] = &registros[i]
		}

		if err := fn(porCod); err != nil {
			return err
		}

		for _, reg := range porCod {
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).
				Save(reg).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
