package model

import (
	"time"

	"github.com/google/uuid"
)

// SalidaMasiva is a bulk dispatch batch. Its detail rows are the only record
// of which afilados were stamped with FechaSalida by this batch; deleting
// the batch is the only way to undo it.
type SalidaMasiva struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FechaSalida   time.Time `gorm:"type:date;not null"`
	Observaciones *string
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null"`
	CreadoEn      time.Time `gorm:"not null;default:now()"`

	Sucursal *Sucursal            `gorm:"foreignKey:SucursalID"`
	Detalles []SalidaMasivaDetalle `gorm:"foreignKey:SalidaMasivaID;constraint:OnDelete:CASCADE"`
}

func (SalidaMasiva) TableName() string { return "salidas_masivas" }

// SalidaMasivaDetalle links one afilado to the batch that dispatched it.
// AfiladoID is unique: an afilado can be claimed by a single batch.
// EstadoAnterior is the afilado estado before dispatch, restored on reversal.
type SalidaMasivaDetalle struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalidaMasivaID uuid.UUID `gorm:"type:uuid;not null;index"`
	AfiladoID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EstadoAnterior string    `gorm:"type:varchar(20);not null;default:'completado'"`
	CreatedAt      time.Time

	Afilado *Afilado `gorm:"foreignKey:AfiladoID"`
}

func (SalidaMasivaDetalle) TableName() string { return "salida_masiva_detalles" }
