package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/controllermansear-arch/vendorMan/internal/apperror"
	"github.com/controllermansear-arch/vendorMan/internal/model"
)

// CatalogoRepository serves the catalog the devices pull and the upserts the
// seeder uses to load it.
type CatalogoRepository interface {
	ListarAtivos(ctx context.Context) (model.Catalogo, error)
	FindProduto(ctx context.Context, codInt int) (*model.Produto, error)
	SalvarProdutos(ctx context.Context, produtos []model.Produto) error
	SalvarCombos(ctx context.Context, combos []model.Combo) error
	SalvarFracionados(ctx context.Context, fracionados []model.Fracionado) error
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) ListarAtivos(ctx context.Context) (model.Catalogo, error) {
	var cat model.Catalogo

	if err := r.db.WithContext(ctx).
		Where("ativo = ?", true).
		Order("cod_int").
		Find(&cat.Produtos).Error; err != nil {
		return model.Catalogo{}, err
	}
	if err := r.db.WithContext(ctx).
		Preload("ProdutosCombo").
		Where("ativo = ?", true).
		Order("cod_combo").
		Find(&cat.Combos).Error; err != nil {
		return model.Catalogo{}, err
	}
	if err := r.db.WithContext(ctx).
		Where("ativo = ?", true).
		Order("cod_fracionado").
		Find(&cat.Fracionados).Error; err != nil {
		return model.Catalogo{}, err
	}
	return cat, nil
}

func (r *catalogoRepo) FindProduto(ctx context.Context, codInt int) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).First(&p, "cod_int = ?", codInt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrProdutoNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogoRepo) SalvarProdutos(ctx context.Context, produtos []model.Produto) error {
	if len(produtos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&produtos).Error
}

func (r *catalogoRepo) SalvarCombos(ctx context.Context, combos []model.Combo) error {
	if len(combos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range combos {
			// Constituents are replaced wholesale so removed ones disappear.
			if err := tx.Where("combo_cod = ?", combos[i].CodCombo).
				Delete(&model.ProdutoCombo{}).Error; err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&combos[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *catalogoRepo) SalvarFracionados(ctx context.Context, fracionados []model.Fracionado) error {
	if len(fracionados) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&fracionados).Error
}
