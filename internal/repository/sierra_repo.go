package repository

import (
	"context"

	"austech/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SierraFilter defines filters for listing sierras.
type SierraFilter struct {
	Codigo     string // ILIKE %codigo%
	SucursalID *uuid.UUID
	EmpresaID  *uuid.UUID
	Activo     *bool
	Page       int
	Limit      int
}

// SierraRepository is the row-level data access contract for sierras.
// Every method is a single statement; there are no transactions.
type SierraRepository interface {
	Create(ctx context.Context, s *model.Sierra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sierra, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Sierra, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Sierra, error)
	List(ctx context.Context, filter SierraFilter) ([]model.Sierra, int64, error)

	// UpdateActivoSi sets activo=nuevo only when the row still has
	// activo=esperado. Returns false when no row matched.
	UpdateActivoSi(ctx context.Context, id uuid.UUID, esperado, nuevo bool, estadoID int) (bool, error)
	// UpdateActivo sets activo unconditionally (batch reversal).
	UpdateActivo(ctx context.Context, id uuid.UUID, activo bool, estadoID int) error
	UpdateEstado(ctx context.Context, id uuid.UUID, estadoID int) error
}

type sierraRepo struct{ db *gorm.DB }

func NewSierraRepository(db *gorm.DB) SierraRepository { return &sierraRepo{db: db} }

func (r *sierraRepo) Create(ctx context.Context, s *model.Sierra) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sierraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sierra, error) {
	var s model.Sierra
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sierraRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Sierra, error) {
	var s model.Sierra
	if err := r.db.WithContext(ctx).Where("codigo_barras = ?", codigo).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sierraRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Sierra, error) {
	var sierras []model.Sierra
	if len(ids) == 0 {
		return sierras, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&sierras).Error
	return sierras, err
}

func (r *sierraRepo) List(ctx context.Context, filter SierraFilter) ([]model.Sierra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sierra{})
	if filter.Codigo != "" {
		q = q.Where("codigo_barras ILIKE ?", "%"+filter.Codigo+"%")
	}
	if filter.SucursalID != nil {
		q = q.Where("sucursal_id = ?", *filter.SucursalID)
	}
	if filter.EmpresaID != nil {
		q = q.Where("sucursal_id IN (?)",
			r.db.Model(&model.Sucursal{}).Select("id").Where("empresa_id = ?", *filter.EmpresaID))
	}
	if filter.Activo != nil {
		q = q.Where("activo = ?", *filter.Activo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(filter.Page, filter.Limit)
	var sierras []model.Sierra
	err := q.Order("fecha_registro DESC").Offset(offset).Limit(limit).Find(&sierras).Error
	return sierras, total, err
}

func (r *sierraRepo) UpdateActivoSi(ctx context.Context, id uuid.UUID, esperado, nuevo bool, estadoID int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Sierra{}).
		Where("id = ? AND activo = ?", id, esperado).
		Updates(map[string]interface{}{"activo": nuevo, "estado_id": estadoID})
	return res.RowsAffected > 0, res.Error
}

func (r *sierraRepo) UpdateActivo(ctx context.Context, id uuid.UUID, activo bool, estadoID int) error {
	res := r.db.WithContext(ctx).Model(&model.Sierra{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"activo": activo, "estado_id": estadoID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sierraRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estadoID int) error {
	return r.db.WithContext(ctx).Model(&model.Sierra{}).
		Where("id = ?", id).
		Update("estado_id", estadoID).Error
}
