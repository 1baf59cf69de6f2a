package model

import (
	"time"

	"github.com/google/uuid"
)

// Estado values written to Afilado.Estado. The column is free-form text
// in existing data; these are the values this service writes.
const (
	AfiladoPendiente      = "pendiente"
	AfiladoCompletado     = "completado"
	AfiladoEntregado      = "entregado"
	AfiladoCerradoPorBaja = "cerrado_por_baja"
)

// Afilado is one sharpening cycle of a Sierra. FechaSalida == nil means the
// cycle is still open; at most one open Afilado exists per Sierra
// (partial unique index afilados_un_abierto_por_sierra).
type Afilado struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SierraID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	TipoAfiladoID uuid.UUID  `gorm:"type:uuid;not null"`
	FechaAfilado  time.Time  `gorm:"not null;default:now()"`
	FechaSalida   *time.Time `gorm:"type:date"`
	Estado        string     `gorm:"type:varchar(30);not null;default:'pendiente'"`
	Observaciones *string
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Sierra      *Sierra      `gorm:"foreignKey:SierraID"`
	TipoAfilado *TipoAfilado `gorm:"foreignKey:TipoAfiladoID"`
}

func (Afilado) TableName() string { return "afilados" }

// CicloAfilado is the dispatch state of an Afilado: either CicloAbierto or
// CicloCerrado. Callers switch on the concrete type instead of nil-checking
// FechaSalida.
type CicloAfilado interface{ cicloAfilado() }

// CicloAbierto is an undelivered cycle. Completado marks it ready for pickup.
type CicloAbierto struct{ Completado bool }

// CicloCerrado is a delivered (or force-closed) cycle.
type CicloCerrado struct{ FechaSalida time.Time }

func (CicloAbierto) cicloAfilado() {}
func (CicloCerrado) cicloAfilado() {}

// Ciclo returns the dispatch state of the afilado.
func (a *Afilado) Ciclo() CicloAfilado {
	if a.FechaSalida != nil {
		return CicloCerrado{FechaSalida: *a.FechaSalida}
	}
	return CicloAbierto{Completado: a.Estado == AfiladoCompletado}
}

// Abierto reports whether the cycle has not been dispatched yet.
func (a *Afilado) Abierto() bool {
	_, ok := a.Ciclo().(CicloAbierto)
	return ok
}
