package repository

import (
	"context"

	"austech/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BajaMasivaFilter defines filters for listing bulk decommission batches.
type BajaMasivaFilter struct {
	UsuarioID *uuid.UUID
	Fecha     RangoFechas // on fecha_baja
	Page      int
	Limit     int
}

type BajaMasivaRepository interface {
	Create(ctx context.Context, b *model.BajaMasiva) error
	// FindByID preloads Detalles (with their Sierra).
	FindByID(ctx context.Context, id uuid.UUID) (*model.BajaMasiva, error)
	List(ctx context.Context, filter BajaMasivaFilter) ([]model.BajaMasiva, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateDetalle(ctx context.Context, d *model.BajaMasivaDetalle) error
	ListDetalles(ctx context.Context, bajaID uuid.UUID) ([]model.BajaMasivaDetalle, error)
	DeleteDetalle(ctx context.Context, bajaID, sierraID uuid.UUID) error
}

type bajaMasivaRepo struct{ db *gorm.DB }

func NewBajaMasivaRepository(db *gorm.DB) BajaMasivaRepository {
	return &bajaMasivaRepo{db: db}
}

func (r *bajaMasivaRepo) Create(ctx context.Context, b *model.BajaMasiva) error {
	return r.db.WithContext(ctx).Omit("Detalles").Create(b).Error
}

func (r *bajaMasivaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BajaMasiva, error) {
	var b model.BajaMasiva
	err := r.db.WithContext(ctx).Preload("Detalles.Sierra").First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bajaMasivaRepo) List(ctx context.Context, filter BajaMasivaFilter) ([]model.BajaMasiva, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.BajaMasiva{})
	if filter.UsuarioID != nil {
		q = q.Where("usuario_id = ?", *filter.UsuarioID)
	}
	q = filter.Fecha.aplicar(q, "fecha_baja")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(filter.Page, filter.Limit)
	var bajas []model.BajaMasiva
	err := q.Preload("Detalles").Order("fecha_baja DESC, creado_en DESC").
		Offset(offset).Limit(limit).Find(&bajas).Error
	return bajas, total, err
}

func (r *bajaMasivaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.BajaMasiva{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bajaMasivaRepo) CreateDetalle(ctx context.Context, d *model.BajaMasivaDetalle) error {
	return r.db.WithContext(ctx).Omit("Sierra").Create(d).Error
}

func (r *bajaMasivaRepo) ListDetalles(ctx context.Context, bajaID uuid.UUID) ([]model.BajaMasivaDetalle, error) {
	var detalles []model.BajaMasivaDetalle
	err := r.db.WithContext(ctx).
		Where("baja_masiva_id = ?", bajaID).
		Order("created_at ASC").
		Find(&detalles).Error
	return detalles, err
}

func (r *bajaMasivaRepo) DeleteDetalle(ctx context.Context, bajaID, sierraID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("baja_masiva_id = ? AND sierra_id = ?", bajaID, sierraID).
		Delete(&model.BajaMasivaDetalle{}).Error
}
