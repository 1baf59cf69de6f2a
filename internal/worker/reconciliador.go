package worker

// reconciliador.go
// Background goroutine that repairs sierras.estado_id. The column is a cache
// of the state derived from activo and the open afilado; writes to it are
// best-effort, so a failed write leaves it stale until this job runs.

import (
	"context"
	"time"

	"austech/internal/model"
	"austech/internal/repository"
	"austech/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const reconciliarLote = 200

// ReconciliadorConfig holds the dependencies of the reconcile loop.
type ReconciliadorConfig struct {
	Sierras   repository.SierraRepository
	Afilados  repository.AfiladoRepository
	Intervalo time.Duration
}

// StartReconciliador ticks every Intervalo until ctx is cancelled. A zero
// interval disables the job.
func StartReconciliador(ctx context.Context, cfg ReconciliadorConfig) {
	if cfg.Intervalo <= 0 {
		log.Info().Msg("reconciliador: disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(cfg.Intervalo)
		defer ticker.Stop()

		log.Info().Dur("intervalo", cfg.Intervalo).Msg("reconciliador: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconciliador: shutting down")
				return
			case <-ticker.C:
				if _, err := Reconciliar(ctx, cfg.Sierras, cfg.Afilados); err != nil {
					log.Error().Err(err).Msg("reconciliador: pasada incompleta")
				}
			}
		}
	}()
}

// Reconciliar walks every sierra page by page and rewrites estado_id where
// it disagrees with the derived state. It returns how many rows were fixed.
func Reconciliar(ctx context.Context, sierras repository.SierraRepository, afilados repository.AfiladoRepository) (int, error) {
	corregidas := 0
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return corregidas, err
		}
		rows, total, err := sierras.List(ctx, repository.SierraFilter{Page: page, Limit: reconciliarLote})
		if err != nil {
			return corregidas, err
		}
		if len(rows) == 0 {
			break
		}

		n, err := reconciliarPagina(ctx, sierras, afilados, rows)
		corregidas += n
		if err != nil {
			return corregidas, err
		}
		if int64(page*reconciliarLote) >= total {
			break
		}
	}

	if corregidas > 0 {
		log.Warn().Int("corregidas", corregidas).Msg("reconciliador: estado_id desactualizado corregido")
	}
	return corregidas, nil
}

func reconciliarPagina(ctx context.Context, sierras repository.SierraRepository, afilados repository.AfiladoRepository, rows []model.Sierra) (int, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, s := range rows {
		ids[i] = s.ID
	}
	abiertos, err := afilados.FindAbiertosBySierras(ctx, ids)
	if err != nil {
		return 0, err
	}
	porSierra := make(map[uuid.UUID]*model.Afilado, len(abiertos))
	for i := range abiertos {
		porSierra[abiertos[i].SierraID] = &abiertos[i]
	}

	corregidas := 0
	for _, s := range rows {
		want := service.DerivarEstado(s.Activo, porSierra[s.ID]).ID()
		if s.EstadoID == want {
			continue
		}
		if err := sierras.UpdateEstado(ctx, s.ID, want); err != nil {
			// keep going; the next tick retries this row
			log.Warn().Err(err).Str("sierra_id", s.ID.String()).Msg("reconciliador: no se pudo corregir estado_id")
			continue
		}
		log.Debug().
			Str("sierra_id", s.ID.String()).
			Int("estado_id_anterior", s.EstadoID).
			Int("estado_id", want).
			Msg("reconciliador: estado_id corregido")
		corregidas++
	}
	return corregidas, nil
}
