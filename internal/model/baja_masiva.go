package model

import (
	"time"

	"github.com/google/uuid"
)

// BajaMasiva is a bulk decommission batch.
type BajaMasiva struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FechaBaja     time.Time `gorm:"type:date;not null"`
	Observaciones *string
	CreadoEn      time.Time `gorm:"not null;default:now()"`

	Detalles []BajaMasivaDetalle `gorm:"foreignKey:BajaMasivaID;constraint:OnDelete:CASCADE"`
}

func (BajaMasiva) TableName() string { return "bajas_masivas" }

// BajaMasivaDetalle records the pre-batch state of one sierra so the batch
// can be reversed. When the force-close policy closed an open afilado,
// AfiladoCerradoID and AfiladoEstadoAnterior allow reopening it.
type BajaMasivaDetalle struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BajaMasivaID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	SierraID              uuid.UUID  `gorm:"type:uuid;not null;index"`
	EstadoAnterior        bool       `gorm:"not null"`
	AfiladoCerradoID      *uuid.UUID `gorm:"type:uuid"`
	AfiladoEstadoAnterior *string    `gorm:"type:varchar(30)"`
	CreatedAt             time.Time

	Sierra *Sierra `gorm:"foreignKey:SierraID"`
}

func (BajaMasivaDetalle) TableName() string { return "baja_masiva_detalles" }
