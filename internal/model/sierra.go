package model

import (
	"time"

	"github.com/google/uuid"
)

// Sierra is a physical saw blade identified by its scan code.
// Sierras are never hard-deleted: decommission sets Activo=false.
type Sierra struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras  string    `gorm:"uniqueIndex;not null"`
	SucursalID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TipoSierraID  uuid.UUID `gorm:"type:uuid;not null"`
	// EstadoID caches the derived lifecycle state (see EstadoSierra* constants).
	EstadoID      int       `gorm:"not null;default:1"`
	Activo        bool      `gorm:"not null;default:true"`
	FechaRegistro time.Time `gorm:"not null;default:now()"`
	UpdatedAt     time.Time

	Sucursal   *Sucursal   `gorm:"foreignKey:SucursalID"`
	TipoSierra *TipoSierra `gorm:"foreignKey:TipoSierraID"`
}

func (Sierra) TableName() string { return "sierras" }

// Rows of the estados_sierra catalog. IDs are fixed and seeded by cmd/seed.
const (
	EstadoSierraDisponible      = 1
	EstadoSierraEnProceso       = 2
	EstadoSierraListaParaRetiro = 3
	EstadoSierraFueraDeServicio = 4
)

// EstadoSierraRow is the catalog row referenced by Sierra.EstadoID.
type EstadoSierraRow struct {
	ID     int    `gorm:"primaryKey;autoIncrement:false"`
	Codigo string `gorm:"uniqueIndex;not null"`
	Nombre string `gorm:"not null"`
}

func (EstadoSierraRow) TableName() string { return "estados_sierra" }
