package service

import (
	"fmt"

	"austech/internal/model"

	"github.com/google/uuid"
)

// EstadoSierra is the lifecycle state of a sierra, derived from its activo
// flag and its open afilado (if any).
type EstadoSierra string

const (
	Disponible       EstadoSierra = "DISPONIBLE"
	EnProcesoAfilado EstadoSierra = "EN_PROCESO_AFILADO"
	ListaParaRetiro  EstadoSierra = "LISTA_PARA_RETIRO"
	FueraDeServicio  EstadoSierra = "FUERA_DE_SERVICIO"
)

// DerivarEstado computes the state; abierto is the sierra's open afilado or nil.
func DerivarEstado(activo bool, abierto *model.Afilado) EstadoSierra {
	if !activo {
		return FueraDeServicio
	}
	if abierto == nil {
		return Disponible
	}
	switch c := abierto.Ciclo().(type) {
	case model.CicloAbierto:
		if c.Completado {
			return ListaParaRetiro
		}
		return EnProcesoAfilado
	default:
		return Disponible
	}
}

// ID returns the estados_sierra row cached in sierras.estado_id.
func (e EstadoSierra) ID() int {
	switch e {
	case EnProcesoAfilado:
		return model.EstadoSierraEnProceso
	case ListaParaRetiro:
		return model.EstadoSierraListaParaRetiro
	case FueraDeServicio:
		return model.EstadoSierraFueraDeServicio
	default:
		return model.EstadoSierraDisponible
	}
}

// Allowed transitions. Leaving FUERA_DE_SERVICIO is only possible through
// the reversal of a baja masiva, which restores the recorded state directly
// instead of asking this table. EN_PROCESO/LISTA -> FUERA is gated by the
// PoliticaBaja in force.
var transiciones = map[EstadoSierra][]EstadoSierra{
	Disponible:       {EnProcesoAfilado, FueraDeServicio},
	EnProcesoAfilado: {ListaParaRetiro, Disponible, FueraDeServicio},
	ListaParaRetiro:  {Disponible, FueraDeServicio},
	FueraDeServicio:  {},
}

// PuedeTransicionar reports whether desde -> hacia is a legal transition.
func PuedeTransicionar(desde, hacia EstadoSierra) bool {
	for _, e := range transiciones[desde] {
		if e == hacia {
			return true
		}
	}
	return false
}

// exigirTransicion returns a ConflictError naming sierraID when desde -> hacia
// is not in the table.
func exigirTransicion(sierraID uuid.UUID, desde, hacia EstadoSierra) error {
	if PuedeTransicionar(desde, hacia) {
		return nil
	}
	msg := fmt.Sprintf("la sierra no puede pasar de %s a %s", desde, hacia)
	switch {
	case desde == FueraDeServicio:
		msg = "la sierra esta fuera de servicio"
	case hacia == EnProcesoAfilado:
		msg = "la sierra ya tiene un afilado abierto"
	}
	return &ConflictError{Mensaje: msg, IDs: []uuid.UUID{sierraID}}
}

// sierraActiva reads activo from the preloaded sierra; a missing preload
// counts as active, the conditional writes catch the rest.
func sierraActiva(a *model.Afilado) bool {
	return a.Sierra == nil || a.Sierra.Activo
}
