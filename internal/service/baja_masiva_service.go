package service

import (
	"context"
	"errors"
	"time"

	"austech/internal/dto"
	"austech/internal/model"
	"austech/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const opBajaMasiva = "baja masiva"

// BajaMasivaService is the bulk decommission engine. Sierras with an open
// afilado are handled by the PoliticaBaja chosen at startup.
type BajaMasivaService interface {
	// Crear returns the created batch and, when some items failed, a
	// *PartialFailureError alongside it.
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearBajaMasivaRequest) (*dto.BajaMasivaResponse, error)
	// DarDeBaja decommissions one sierra as a single-item batch.
	DarDeBaja(ctx context.Context, usuarioID, sierraID uuid.UUID, req dto.BajaIndividualRequest) (*dto.BajaMasivaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.BajaMasivaResponse, error)
	Listar(ctx context.Context, filter dto.BajaMasivaFilter) (*dto.BajaMasivaListResponse, error)
}

type bajaMasivaService struct {
	repo     repository.BajaMasivaRepository
	sierras  repository.SierraRepository
	afilados repository.AfiladoRepository
	claims   ClaimStrategy
	politica PoliticaBaja
	now      func() time.Time
}

func NewBajaMasivaService(
	repo repository.BajaMasivaRepository,
	sierras repository.SierraRepository,
	afilados repository.AfiladoRepository,
	claims ClaimStrategy,
	politica PoliticaBaja,
) BajaMasivaService {
	if claims == nil {
		claims = SinReclamo()
	}
	if politica == nil {
		politica = RechazarConAfiladoAbierto()
	}
	return &bajaMasivaService{
		repo:     repo,
		sierras:  sierras,
		afilados: afilados,
		claims:   claims,
		politica: politica,
		now:      time.Now,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *bajaMasivaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearBajaMasivaRequest) (*dto.BajaMasivaResponse, error) {
	fecha, err := parseFecha("fecha_baja", req.FechaBaja)
	if err != nil {
		return nil, err
	}
	ids, err := parseIDs("sierras_ids", req.SierrasIDs)
	if err != nil {
		return nil, err
	}
	return s.crear(ctx, usuarioID, fecha, req.Observaciones, ids)
}

func (s *bajaMasivaService) crear(ctx context.Context, usuarioID uuid.UUID, fecha time.Time, obs *string, ids []uuid.UUID) (*dto.BajaMasivaResponse, error) {
	liberar, err := s.claims.Reclamar(ctx, "sierra", ids)
	if err != nil {
		return nil, err
	}
	defer liberar()

	porSierra, err := s.validar(ctx, ids)
	if err != nil {
		return nil, err
	}
	cerrar, err := s.politica.Evaluar(porSierra)
	if err != nil {
		return nil, err
	}

	baja := &model.BajaMasiva{
		UsuarioID:     usuarioID,
		FechaBaja:     fecha,
		Observaciones: obs,
	}
	if err := s.repo.Create(ctx, baja); err != nil {
		return nil, storeErr("crear baja masiva", err)
	}

	detalles := make(map[uuid.UUID]*model.BajaMasivaDetalle, len(ids))
	items := make([]itemLote, 0, len(ids))
	for _, id := range ids {
		det := &model.BajaMasivaDetalle{BajaMasivaID: baja.ID, SierraID: id, EstadoAnterior: true}
		abierto, forzar := cerrar[id]
		if forzar {
			det.AfiladoCerradoID = &abierto.ID
			estado := abierto.Estado
			det.AfiladoEstadoAnterior = &estado
		}
		detalles[id] = det

		items = append(items, itemLote{
			id:        id,
			registrar: func(ctx context.Context) error { return s.repo.CreateDetalle(ctx, det) },
			aplicar: func(ctx context.Context) (bool, error) {
				return s.aplicar(ctx, baja.ID, fecha, det, abierto, forzar)
			},
			descartar: func(ctx context.Context) error { return s.repo.DeleteDetalle(ctx, baja.ID, id) },
		})
	}

	res := ejecutarLote(ctx, opBajaMasiva, baja.ID, items)
	for _, id := range res.Exitosos {
		baja.Detalles = append(baja.Detalles, *detalles[id])
	}
	return bajaToResponse(baja), res.err(opBajaMasiva, baja.ID)
}

// validar: every sierra exists and may still go out of service. Returns the
// open afilado of each sierra that has one.
func (s *bajaMasivaService) validar(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Afilado, error) {
	rows, err := s.sierras.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("buscar sierras", err)
	}
	porID := make(map[uuid.UUID]model.Sierra, len(rows))
	for _, r := range rows {
		porID[r.ID] = r
	}
	abiertos, err := s.afilados.FindAbiertosBySierras(ctx, ids)
	if err != nil {
		return nil, storeErr("buscar afilados abiertos", err)
	}
	porSierra := make(map[uuid.UUID]model.Afilado, len(abiertos))
	for _, a := range abiertos {
		porSierra[a.SierraID] = a
	}

	var faltantes []uuid.UUID
	var r rechazos
	for _, id := range ids {
		sierra, ok := porID[id]
		if !ok {
			faltantes = append(faltantes, id)
			continue
		}
		var abierto *model.Afilado
		if a, ok := porSierra[id]; ok {
			abierto = &a
		}
		if !PuedeTransicionar(DerivarEstado(sierra.Activo, abierto), FueraDeServicio) {
			r.agregar(id, "ya dada de baja")
		}
	}
	if len(faltantes) > 0 {
		return nil, &NotFoundError{Entidad: "sierra", IDs: faltantes}
	}
	if err := r.err("sierras ya dadas de baja"); err != nil {
		return nil, err
	}
	return porSierra, nil
}

// aplicar force-closes the open afilado (when the policy asked for it), then
// deactivates the sierra. If the sierra changed meanwhile the afilado is
// reopened so the item leaves no trace.
func (s *bajaMasivaService) aplicar(ctx context.Context, bajaID uuid.UUID, fecha time.Time, det *model.BajaMasivaDetalle, abierto model.Afilado, forzar bool) (bool, error) {
	if forzar {
		ok, err := s.afilados.CerrarSi(ctx, abierto.ID, fecha, model.AfiladoCerradoPorBaja)
		if err != nil || !ok {
			return ok, err
		}
	}

	ok, err := s.sierras.UpdateActivoSi(ctx, det.SierraID, true, false, FueraDeServicio.ID())
	if err == nil && ok {
		return true, nil
	}
	if forzar {
		if rerr := s.afilados.Reabrir(ctx, abierto.ID, abierto.Estado); rerr != nil {
			log.Error().Err(rerr).
				Str("lote_id", bajaID.String()).
				Str("afilado_id", abierto.ID.String()).
				Msg("baja masiva: no se pudo reabrir el afilado cerrado")
		}
	}
	return ok, err
}

// ── DarDeBaja ─────────────────────────────────────────────────────────────────

func (s *bajaMasivaService) DarDeBaja(ctx context.Context, usuarioID, sierraID uuid.UUID, req dto.BajaIndividualRequest) (*dto.BajaMasivaResponse, error) {
	fecha := inicioDelDia(s.now())
	if req.FechaBaja != "" {
		f, err := parseFecha("fecha_baja", req.FechaBaja)
		if err != nil {
			return nil, err
		}
		fecha = f
	}

	resp, err := s.crear(ctx, usuarioID, fecha, req.Observaciones, []uuid.UUID{sierraID})
	var pf *PartialFailureError
	if !errors.As(err, &pf) {
		return resp, err
	}

	// A one-item batch that failed holds nothing to reverse.
	if derr := s.repo.Delete(ctx, pf.LoteID); derr != nil {
		log.Warn().Err(derr).Str("lote_id", pf.LoteID.String()).Msg("baja individual: cabecera vacia no borrada")
	}
	return nil, &ConflictError{Mensaje: "no se pudo dar de baja la sierra: " + pf.Causas[sierraID], IDs: []uuid.UUID{sierraID}}
}

// ── Eliminar (reversal) ───────────────────────────────────────────────────────

func (s *bajaMasivaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	baja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOrStore(err, opBajaMasiva, id, "buscar baja masiva")
	}
	detalles, err := s.repo.ListDetalles(ctx, baja.ID)
	if err != nil {
		return storeErr("leer detalles de baja masiva", err)
	}

	items := make([]itemReversion, 0, len(detalles))
	for _, d := range detalles {
		items = append(items, itemReversion{
			id:       d.SierraID,
			revertir: func(ctx context.Context) error { return s.restaurar(ctx, d) },
			borrarDetalle: func(ctx context.Context) error {
				return s.repo.DeleteDetalle(ctx, baja.ID, d.SierraID)
			},
		})
	}

	return revertirLote(ctx, opBajaMasiva, baja.ID, items, func(ctx context.Context) error {
		return s.repo.Delete(ctx, baja.ID)
	})
}

// restaurar reopens a force-closed afilado and sets activo back to the
// recorded estado_anterior. Both writes are idempotent so a retried
// reversal is safe.
func (s *bajaMasivaService) restaurar(ctx context.Context, d model.BajaMasivaDetalle) error {
	estado := Disponible
	if !d.EstadoAnterior {
		estado = FueraDeServicio
	}

	if d.AfiladoCerradoID != nil {
		anterior := model.AfiladoPendiente
		if d.AfiladoEstadoAnterior != nil {
			anterior = *d.AfiladoEstadoAnterior
		}
		if err := s.afilados.Reabrir(ctx, *d.AfiladoCerradoID, anterior); err != nil {
			if errors.Is(err, repository.ErrDuplicado) {
				return errors.New("la sierra ya tiene otro afilado abierto")
			}
			return err
		}
		if d.EstadoAnterior {
			estado = DerivarEstado(true, &model.Afilado{Estado: anterior})
		}
	}

	return s.sierras.UpdateActivo(ctx, d.SierraID, d.EstadoAnterior, estado.ID())
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *bajaMasivaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.BajaMasivaResponse, error) {
	baja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrStore(err, opBajaMasiva, id, "buscar baja masiva")
	}
	return bajaToResponse(baja), nil
}

func (s *bajaMasivaService) Listar(ctx context.Context, filter dto.BajaMasivaFilter) (*dto.BajaMasivaListResponse, error) {
	f := repository.BajaMasivaFilter{Page: filter.Page, Limit: filter.Limit}
	var err error
	if f.UsuarioID, err = parseIDOpcional("usuario_id", filter.UsuarioID); err != nil {
		return nil, err
	}
	if f.Fecha, err = rangoFechas(filter.FechaDesde, filter.FechaHasta); err != nil {
		return nil, err
	}

	bajas, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storeErr("listar bajas masivas", err)
	}

	page, limit, _ := repository.Page(filter.Page, filter.Limit)
	resp := &dto.BajaMasivaListResponse{
		Data:       make([]dto.BajaMasivaResponse, 0, len(bajas)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	for i := range bajas {
		resp.Data = append(resp.Data, *bajaToResponse(&bajas[i]))
	}
	return resp, nil
}
