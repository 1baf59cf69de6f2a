package service

import (
	"context"
	"errors"

	"austech/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ── Batch protocol ────────────────────────────────────────────────────────────
// Shared by salidas and bajas masivas. The header is written first, then each
// item is processed in order:
//   1. registrar: write the detail row (the batch's record of the item)
//   2. aplicar:   conditional mutation of the item
//   3. descartar: if (2) did not apply, delete the row written in (1)
// The detail row always exists before the mutation, so a crash mid-batch
// never leaves a mutated item without bookkeeping.

type itemLote struct {
	id        uuid.UUID
	registrar func(ctx context.Context) error
	aplicar   func(ctx context.Context) (bool, error)
	descartar func(ctx context.Context) error
}

type resultadoLote struct {
	Exitosos []uuid.UUID
	Fallidos []uuid.UUID
	Causas   map[uuid.UUID]string
}

func (r *resultadoLote) fallo(id uuid.UUID, causa string) {
	r.Fallidos = append(r.Fallidos, id)
	r.Causas[id] = causa
}

// err returns nil when every item succeeded.
func (r resultadoLote) err(operacion string, loteID uuid.UUID) error {
	if len(r.Fallidos) == 0 {
		return nil
	}
	return &PartialFailureError{
		Operacion: operacion,
		LoteID:    loteID,
		Exitosos:  r.Exitosos,
		Fallidos:  r.Fallidos,
		Causas:    r.Causas,
	}
}

// ejecutarLote fans out sequentially. Failures never stop the loop and are
// never retried.
func ejecutarLote(ctx context.Context, operacion string, loteID uuid.UUID, items []itemLote) resultadoLote {
	res := resultadoLote{
		Exitosos: make([]uuid.UUID, 0, len(items)),
		Causas:   make(map[uuid.UUID]string),
	}

	for _, it := range items {
		if err := it.registrar(ctx); err != nil {
			if errors.Is(err, repository.ErrDuplicado) {
				res.fallo(it.id, "reclamado por otro lote")
			} else {
				res.fallo(it.id, "no se pudo registrar el detalle: "+err.Error())
			}
			continue
		}

		ok, err := it.aplicar(ctx)
		if err == nil && ok {
			res.Exitosos = append(res.Exitosos, it.id)
			continue
		}

		causa := "el estado cambio durante la operacion"
		if err != nil {
			causa = err.Error()
		}
		if derr := it.descartar(ctx); derr != nil {
			// The orphan detail row makes a later reversal touch an item this
			// batch never mutated; the inverse mutation is a no-op for it.
			log.Error().Err(derr).
				Str("operacion", operacion).
				Str("lote_id", loteID.String()).
				Str("item_id", it.id.String()).
				Msg("lote: detalle huerfano tras fallo del item")
		}
		res.fallo(it.id, causa)
	}

	evt := log.Info()
	if len(res.Fallidos) > 0 {
		evt = log.Warn()
	}
	evt.Str("operacion", operacion).
		Str("lote_id", loteID.String()).
		Int("exitosos", len(res.Exitosos)).
		Int("fallidos", len(res.Fallidos)).
		Msg("lote aplicado")
	return res
}

// itemReversion inverts one recorded mutation, then drops its detail row.
type itemReversion struct {
	id            uuid.UUID
	revertir      func(ctx context.Context) error
	borrarDetalle func(ctx context.Context) error
}

// revertirLote undoes a batch item by item. Each successfully reverted item
// loses its detail row immediately, so a failed reversal can be retried and
// only touches what is left. The header is deleted only when nothing is left.
func revertirLote(ctx context.Context, operacion string, loteID uuid.UUID, items []itemReversion, borrarCabecera func(ctx context.Context) error) error {
	res := resultadoLote{Causas: make(map[uuid.UUID]string)}

	for _, it := range items {
		if err := it.revertir(ctx); err != nil {
			res.fallo(it.id, err.Error())
			continue
		}
		if err := it.borrarDetalle(ctx); err != nil {
			// Item already reverted; re-reverting it later is harmless.
			res.fallo(it.id, "revertido pero el detalle no pudo borrarse: "+err.Error())
			continue
		}
		res.Exitosos = append(res.Exitosos, it.id)
	}

	if err := res.err("reversion de "+operacion, loteID); err != nil {
		log.Warn().
			Str("operacion", operacion).
			Str("lote_id", loteID.String()).
			Int("revertidos", len(res.Exitosos)).
			Int("pendientes", len(res.Fallidos)).
			Msg("reversion parcial, la cabecera se conserva")
		return err
	}

	if err := borrarCabecera(ctx); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entidad: operacion, IDs: []uuid.UUID{loteID}}
		}
		return storeErr("borrar cabecera de "+operacion, err)
	}

	log.Info().
		Str("operacion", operacion).
		Str("lote_id", loteID.String()).
		Int("revertidos", len(res.Exitosos)).
		Msg("lote revertido")
	return nil
}

// rechazos collects every item a batch validation refuses, with its cause,
// so the ValidationError names all offenders at once.
type rechazos struct {
	ids    []uuid.UUID
	causas map[uuid.UUID]string
}

func (r *rechazos) agregar(id uuid.UUID, causa string) {
	if r.causas == nil {
		r.causas = make(map[uuid.UUID]string)
	}
	r.ids = append(r.ids, id)
	r.causas[id] = causa
}

func (r *rechazos) err(mensaje string) error {
	if len(r.ids) == 0 {
		return nil
	}
	return &ValidationError{Mensaje: mensaje, IDs: r.ids, Causas: r.causas}
}

// dedupIDs drops repeated ids keeping first-seen order.
func dedupIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// actualizarEstadoCache refreshes sierras.estado_id. Reads derive the state,
// so a failure here is logged and ignored.
func actualizarEstadoCache(ctx context.Context, repo repository.SierraRepository, sierraID uuid.UUID, estado EstadoSierra) {
	if err := repo.UpdateEstado(ctx, sierraID, estado.ID()); err != nil {
		log.Warn().Err(err).
			Str("sierra_id", sierraID.String()).
			Str("estado", string(estado)).
			Msg("no se pudo actualizar estado_id")
	}
}
