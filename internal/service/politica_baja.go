package service

import (
	"fmt"
	"strings"

	"austech/internal/model"

	"github.com/google/uuid"
)

// PoliticaBaja decides what happens when a sierra being decommissioned
// still has an open afilado. Chosen once at startup (POLITICA_BAJA).
type PoliticaBaja interface {
	Nombre() string
	// Evaluar receives the open afilados keyed by sierra id. It returns the
	// afilados that must be closed as part of the decommission, or an error
	// when the whole batch has to be rejected.
	Evaluar(abiertos map[uuid.UUID]model.Afilado) (map[uuid.UUID]model.Afilado, error)
}

func NuevaPoliticaBaja(nombre string) (PoliticaBaja, error) {
	switch strings.ToLower(nombre) {
	case "", "rechazar":
		return RechazarConAfiladoAbierto(), nil
	case "forzar_cierre":
		return ForzarCierreAfilado(), nil
	default:
		return nil, fmt.Errorf("politica de baja desconocida: %q", nombre)
	}
}

type rechazar struct{}

// RechazarConAfiladoAbierto refuses to decommission mid-sharpen blades.
func RechazarConAfiladoAbierto() PoliticaBaja { return rechazar{} }

func (rechazar) Nombre() string { return "rechazar" }

func (rechazar) Evaluar(abiertos map[uuid.UUID]model.Afilado) (map[uuid.UUID]model.Afilado, error) {
	if len(abiertos) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(abiertos))
	for sierraID := range abiertos {
		ids = append(ids, sierraID)
	}
	return nil, &ConflictError{Mensaje: "sierras con afilado abierto", IDs: ids}
}

type forzarCierre struct{}

// ForzarCierreAfilado closes the open afilado (estado cerrado_por_baja)
// before deactivating the sierra. The closure is recorded in the batch
// detail and undone by the batch reversal.
func ForzarCierreAfilado() PoliticaBaja { return forzarCierre{} }

func (forzarCierre) Nombre() string { return "forzar_cierre" }

func (forzarCierre) Evaluar(abiertos map[uuid.UUID]model.Afilado) (map[uuid.UUID]model.Afilado, error) {
	return abiertos, nil
}
