package model

import "github.com/google/uuid"

// Empresa owns one or more sucursales.
type Empresa struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"not null"`
	CUIT   *string   `gorm:"column:cuit"`
	Activo bool      `gorm:"not null;default:true"`
}

func (Empresa) TableName() string { return "empresas" }

// Sucursal is a client branch; batches and sierras are scoped by it.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre    string    `gorm:"not null"`
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`

	Empresa *Empresa `gorm:"foreignKey:EmpresaID"`
}

func (Sucursal) TableName() string { return "sucursales" }

type TipoSierra struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
	Activo bool      `gorm:"not null;default:true"`
}

func (TipoSierra) TableName() string { return "tipos_sierra" }

type TipoAfilado struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
	Activo bool      `gorm:"not null;default:true"`
}

func (TipoAfilado) TableName() string { return "tipos_afilado" }
