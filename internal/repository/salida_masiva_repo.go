package repository

import (
	"context"

	"austech/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalidaMasivaFilter defines filters for listing bulk dispatch batches.
type SalidaMasivaFilter struct {
	SucursalID *uuid.UUID
	EmpresaID  *uuid.UUID
	Fecha      RangoFechas // on fecha_salida
	Page       int
	Limit      int
}

type SalidaMasivaRepository interface {
	Create(ctx context.Context, s *model.SalidaMasiva) error
	// FindByID preloads Detalles (with their Afilado and Sierra).
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalidaMasiva, error)
	List(ctx context.Context, filter SalidaMasivaFilter) ([]model.SalidaMasiva, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateDetalle(ctx context.Context, d *model.SalidaMasivaDetalle) error
	ListDetalles(ctx context.Context, salidaID uuid.UUID) ([]model.SalidaMasivaDetalle, error)
	DeleteDetalle(ctx context.Context, salidaID, afiladoID uuid.UUID) error
}

type salidaMasivaRepo struct{ db *gorm.DB }

func NewSalidaMasivaRepository(db *gorm.DB) SalidaMasivaRepository {
	return &salidaMasivaRepo{db: db}
}

func (r *salidaMasivaRepo) Create(ctx context.Context, s *model.SalidaMasiva) error {
	return r.db.WithContext(ctx).Omit("Detalles").Create(s).Error
}

func (r *salidaMasivaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalidaMasiva, error) {
	var s model.SalidaMasiva
	err := r.db.WithContext(ctx).
		Preload("Sucursal").
		Preload("Detalles.Afilado.Sierra").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *salidaMasivaRepo) List(ctx context.Context, filter SalidaMasivaFilter) ([]model.SalidaMasiva, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SalidaMasiva{})
	if filter.SucursalID != nil {
		q = q.Where("sucursal_id = ?", *filter.SucursalID)
	}
	if filter.EmpresaID != nil {
		q = q.Where("sucursal_id IN (?)",
			r.db.Model(&model.Sucursal{}).Select("id").Where("empresa_id = ?", *filter.EmpresaID))
	}
	q = filter.Fecha.aplicar(q, "fecha_salida")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(filter.Page, filter.Limit)
	var salidas []model.SalidaMasiva
	err := q.Preload("Detalles").Order("fecha_salida DESC, creado_en DESC").
		Offset(offset).Limit(limit).Find(&salidas).Error
	return salidas, total, err
}

func (r *salidaMasivaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.SalidaMasiva{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *salidaMasivaRepo) CreateDetalle(ctx context.Context, d *model.SalidaMasivaDetalle) error {
	return r.db.WithContext(ctx).Omit("Afilado").Create(d).Error
}

func (r *salidaMasivaRepo) ListDetalles(ctx context.Context, salidaID uuid.UUID) ([]model.SalidaMasivaDetalle, error) {
	var detalles []model.SalidaMasivaDetalle
	err := r.db.WithContext(ctx).
		Where("salida_masiva_id = ?", salidaID).
		Order("created_at ASC").
		Find(&detalles).Error
	return detalles, err
}

func (r *salidaMasivaRepo) DeleteDetalle(ctx context.Context, salidaID, afiladoID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("salida_masiva_id = ? AND afilado_id = ?", salidaID, afiladoID).
		Delete(&model.SalidaMasivaDetalle{}).Error
}
