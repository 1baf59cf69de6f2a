package repository

import (
	"context"
	"time"

	"austech/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AfiladoFilter defines filters for listing afilados pending pickup.
type AfiladoFilter struct {
	SucursalID *uuid.UUID
	Estado     string
	Fecha      RangoFechas // on fecha_afilado
	Page       int
	Limit      int
}

type AfiladoRepository interface {
	Create(ctx context.Context, a *model.Afilado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Afilado, error)
	// FindByIDs preloads Sierra so callers can check sucursal and activo.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Afilado, error)
	FindAbiertoBySierra(ctx context.Context, sierraID uuid.UUID) (*model.Afilado, error)
	FindAbiertosBySierras(ctx context.Context, sierraIDs []uuid.UUID) ([]model.Afilado, error)
	CountAbiertos(ctx context.Context, sierraID uuid.UUID) (int64, error)
	ListBySierra(ctx context.Context, sierraID uuid.UUID, page, limit int) ([]model.Afilado, int64, error)
	ListAbiertos(ctx context.Context, filter AfiladoFilter) ([]model.Afilado, int64, error)

	// CerrarSi stamps fecha_salida (and estado) only while the cycle is
	// still open. Returns false when the afilado was already closed.
	CerrarSi(ctx context.Context, id uuid.UUID, fecha time.Time, estado string) (bool, error)
	// Reabrir clears fecha_salida and restores estado.
	Reabrir(ctx context.Context, id uuid.UUID, estado string) error
	// UpdateEstadoAbierto changes estado of an open afilado.
	UpdateEstadoAbierto(ctx context.Context, id uuid.UUID, estado string) (bool, error)
}

type afiladoRepo struct{ db *gorm.DB }

func NewAfiladoRepository(db *gorm.DB) AfiladoRepository { return &afiladoRepo{db: db} }

func (r *afiladoRepo) Create(ctx context.Context, a *model.Afilado) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *afiladoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Afilado, error) {
	var a model.Afilado
	if err := r.db.WithContext(ctx).Preload("Sierra").First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *afiladoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Afilado, error) {
	var afilados []model.Afilado
	if len(ids) == 0 {
		return afilados, nil
	}
	err := r.db.WithContext(ctx).Preload("Sierra").Where("id IN ?", ids).Find(&afilados).Error
	return afilados, err
}

func (r *afiladoRepo) FindAbiertoBySierra(ctx context.Context, sierraID uuid.UUID) (*model.Afilado, error) {
	var a model.Afilado
	err := r.db.WithContext(ctx).
		Where("sierra_id = ? AND fecha_salida IS NULL", sierraID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *afiladoRepo) FindAbiertosBySierras(ctx context.Context, sierraIDs []uuid.UUID) ([]model.Afilado, error) {
	var afilados []model.Afilado
	if len(sierraIDs) == 0 {
		return afilados, nil
	}
	err := r.db.WithContext(ctx).
		Where("sierra_id IN ? AND fecha_salida IS NULL", sierraIDs).
		Find(&afilados).Error
	return afilados, err
}

func (r *afiladoRepo) CountAbiertos(ctx context.Context, sierraID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Afilado{}).
		Where("sierra_id = ? AND fecha_salida IS NULL", sierraID).
		Count(&n).Error
	return n, err
}

func (r *afiladoRepo) ListBySierra(ctx context.Context, sierraID uuid.UUID, page, limit int) ([]model.Afilado, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Afilado{}).Where("sierra_id = ?", sierraID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(page, limit)
	var afilados []model.Afilado
	err := q.Order("fecha_afilado DESC, created_at DESC").Offset(offset).Limit(limit).Find(&afilados).Error
	return afilados, total, err
}

func (r *afiladoRepo) ListAbiertos(ctx context.Context, filter AfiladoFilter) ([]model.Afilado, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Afilado{}).
		Preload("Sierra").
		Where("fecha_salida IS NULL")
	if filter.SucursalID != nil {
		q = q.Where("sierra_id IN (?)",
			r.db.Model(&model.Sierra{}).Select("id").Where("sucursal_id = ? AND activo = true", *filter.SucursalID))
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	q = filter.Fecha.aplicar(q, "fecha_afilado")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(filter.Page, filter.Limit)
	var afilados []model.Afilado
	err := q.Order("fecha_afilado ASC").Offset(offset).Limit(limit).Find(&afilados).Error
	return afilados, total, err
}

func (r *afiladoRepo) CerrarSi(ctx context.Context, id uuid.UUID, fecha time.Time, estado string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Afilado{}).
		Where("id = ? AND fecha_salida IS NULL", id).
		Updates(map[string]interface{}{"fecha_salida": fecha, "estado": estado})
	return res.RowsAffected > 0, res.Error
}

func (r *afiladoRepo) Reabrir(ctx context.Context, id uuid.UUID, estado string) error {
	res := r.db.WithContext(ctx).Model(&model.Afilado{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"fecha_salida": gorm.Expr("NULL"), "estado": estado})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *afiladoRepo) UpdateEstadoAbierto(ctx context.Context, id uuid.UUID, estado string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Afilado{}).
		Where("id = ? AND fecha_salida IS NULL", id).
		Update("estado", estado)
	return res.RowsAffected > 0, res.Error
}
