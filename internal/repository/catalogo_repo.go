package repository

import (
	"context"

	"austech/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoRepository reads the reference tables maintained outside this service.
type CatalogoRepository interface {
	FindSucursal(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	FindTipoSierra(ctx context.Context, id uuid.UUID) (*model.TipoSierra, error)
	FindTipoAfilado(ctx context.Context, id uuid.UUID) (*model.TipoAfilado, error)
	ListSucursales(ctx context.Context, empresaID *uuid.UUID) ([]model.Sucursal, error)
	ListTiposSierra(ctx context.Context) ([]model.TipoSierra, error)
	ListTiposAfilado(ctx context.Context) ([]model.TipoAfilado, error)
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) FindSucursal(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	if err := r.db.WithContext(ctx).Preload("Empresa").First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *catalogoRepo) FindTipoSierra(ctx context.Context, id uuid.UUID) (*model.TipoSierra, error) {
	var t model.TipoSierra
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *catalogoRepo) FindTipoAfilado(ctx context.Context, id uuid.UUID) (*model.TipoAfilado, error) {
	var t model.TipoAfilado
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *catalogoRepo) ListSucursales(ctx context.Context, empresaID *uuid.UUID) ([]model.Sucursal, error) {
	q := r.db.WithContext(ctx).Where("activo = true")
	if empresaID != nil {
		q = q.Where("empresa_id = ?", *empresaID)
	}
	var sucursales []model.Sucursal
	err := q.Order("nombre ASC").Find(&sucursales).Error
	return sucursales, err
}

func (r *catalogoRepo) ListTiposSierra(ctx context.Context) ([]model.TipoSierra, error) {
	var tipos []model.TipoSierra
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *catalogoRepo) ListTiposAfilado(ctx context.Context) ([]model.TipoAfilado, error) {
	var tipos []model.TipoAfilado
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}
