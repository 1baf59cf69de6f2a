package service

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"austech/internal/dto"
	"austech/internal/infra"
	"austech/internal/model"
	"austech/internal/repository"

	"github.com/google/uuid"
)

const opSalidaMasiva = "salida masiva"

// SalidaMasivaService is the bulk dispatch engine. A batch stamps
// fecha_salida on a set of open afilados of one sucursal; deleting the
// batch reopens them.
type SalidaMasivaService interface {
	// Crear returns the created batch. When some items failed it also returns
	// a *PartialFailureError; the response then lists only the dispatched ones.
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearSalidaMasivaRequest) (*dto.SalidaMasivaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SalidaMasivaResponse, error)
	Listar(ctx context.Context, filter dto.SalidaMasivaFilter) (*dto.SalidaMasivaListResponse, error)
	Remito(ctx context.Context, id uuid.UUID) ([]byte, error)
	Planilla(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type salidaMasivaService struct {
	repo      repository.SalidaMasivaRepository
	afilados  repository.AfiladoRepository
	sierras   repository.SierraRepository
	catalogos repository.CatalogoRepository
	claims    ClaimStrategy
	empresa   string
}

func NewSalidaMasivaService(
	repo repository.SalidaMasivaRepository,
	afilados repository.AfiladoRepository,
	sierras repository.SierraRepository,
	catalogos repository.CatalogoRepository,
	claims ClaimStrategy,
	empresa string,
) SalidaMasivaService {
	if claims == nil {
		claims = SinReclamo()
	}
	return &salidaMasivaService{
		repo:      repo,
		afilados:  afilados,
		sierras:   sierras,
		catalogos: catalogos,
		claims:    claims,
		empresa:   empresa,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *salidaMasivaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearSalidaMasivaRequest) (*dto.SalidaMasivaResponse, error) {
	sucursalID, err := parseID("sucursal_id", req.SucursalID)
	if err != nil {
		return nil, err
	}
	fecha, err := parseFecha("fecha_salida", req.FechaSalida)
	if err != nil {
		return nil, err
	}
	ids, err := parseIDs("afilados_ids", req.AfiladosIDs)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalogos.FindSucursal(ctx, sucursalID); err != nil {
		return nil, notFoundOrStore(err, "sucursal", sucursalID, "buscar sucursal")
	}

	// Claims go first so nothing validated below can change before the
	// fan-out.
	liberar, err := s.claims.Reclamar(ctx, "afilado", ids)
	if err != nil {
		return nil, err
	}
	defer liberar()

	afilados, err := s.validar(ctx, sucursalID, ids)
	if err != nil {
		return nil, err
	}

	salida := &model.SalidaMasiva{
		SucursalID:    sucursalID,
		FechaSalida:   fecha,
		Observaciones: req.Observaciones,
		UsuarioID:     usuarioID,
	}
	if err := s.repo.Create(ctx, salida); err != nil {
		return nil, storeErr("crear salida masiva", err)
	}

	items := make([]itemLote, 0, len(ids))
	for _, id := range ids {
		afilado := afilados[id]
		items = append(items, itemLote{
			id: id,
			registrar: func(ctx context.Context) error {
				return s.repo.CreateDetalle(ctx, &model.SalidaMasivaDetalle{
					SalidaMasivaID: salida.ID,
					AfiladoID:      afilado.ID,
					EstadoAnterior: afilado.Estado,
				})
			},
			aplicar: func(ctx context.Context) (bool, error) {
				ok, err := s.afilados.CerrarSi(ctx, afilado.ID, fecha, model.AfiladoEntregado)
				if err != nil || !ok {
					return ok, err
				}
				actualizarEstadoCache(ctx, s.sierras, afilado.SierraID, Disponible)
				return true, nil
			},
			descartar: func(ctx context.Context) error {
				return s.repo.DeleteDetalle(ctx, salida.ID, afilado.ID)
			},
		})
	}

	res := ejecutarLote(ctx, opSalidaMasiva, salida.ID, items)
	return salidaToResponse(salida, res.Exitosos), res.err(opSalidaMasiva, salida.ID)
}

// validar rejects the whole batch before any write: every afilado must exist,
// be open, and belong to an active sierra of the sucursal. All offenders are
// reported together.
func (s *salidaMasivaService) validar(ctx context.Context, sucursalID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]model.Afilado, error) {
	rows, err := s.afilados.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("buscar afilados", err)
	}
	porID := make(map[uuid.UUID]model.Afilado, len(rows))
	for _, a := range rows {
		porID[a.ID] = a
	}

	var faltantes []uuid.UUID
	var r rechazos
	for _, id := range ids {
		a, ok := porID[id]
		switch {
		case !ok:
			faltantes = append(faltantes, id)
		case !a.Abierto():
			r.agregar(id, "ya despachado")
		case a.Sierra == nil || a.Sierra.SucursalID != sucursalID:
			r.agregar(id, "sierra de otra sucursal")
		case !PuedeTransicionar(DerivarEstado(a.Sierra.Activo, &a), Disponible):
			r.agregar(id, "sierra fuera de servicio")
		}
	}

	if len(faltantes) > 0 {
		return nil, &NotFoundError{Entidad: "afilado", IDs: faltantes}
	}
	if err := r.err("afilados no despachables"); err != nil {
		return nil, err
	}
	return porID, nil
}

// ── Eliminar (reversal) ───────────────────────────────────────────────────────

func (s *salidaMasivaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	salida, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOrStore(err, opSalidaMasiva, id, "buscar salida masiva")
	}
	detalles, err := s.repo.ListDetalles(ctx, salida.ID)
	if err != nil {
		return storeErr("leer detalles de salida masiva", err)
	}

	items := make([]itemReversion, 0, len(detalles))
	for _, d := range detalles {
		items = append(items, itemReversion{
			id:       d.AfiladoID,
			revertir: func(ctx context.Context) error { return s.reabrir(ctx, d) },
			borrarDetalle: func(ctx context.Context) error {
				return s.repo.DeleteDetalle(ctx, salida.ID, d.AfiladoID)
			},
		})
	}

	return revertirLote(ctx, opSalidaMasiva, salida.ID, items, func(ctx context.Context) error {
		return s.repo.Delete(ctx, salida.ID)
	})
}

// reabrir clears fecha_salida and puts the afilado back in the estado it had
// before the batch. Reopening is refused when the sierra started a new cycle
// after the dispatch or was decommissioned since.
func (s *salidaMasivaService) reabrir(ctx context.Context, d model.SalidaMasivaDetalle) error {
	afilado, err := s.afilados.FindByID(ctx, d.AfiladoID)
	if err != nil {
		return err
	}
	if afilado.Sierra != nil && !afilado.Sierra.Activo {
		return errors.New("la sierra esta fuera de servicio")
	}
	anterior := d.EstadoAnterior
	if anterior == "" {
		anterior = model.AfiladoCompletado
	}
	if err := s.afilados.Reabrir(ctx, afilado.ID, anterior); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return errors.New("la sierra ya tiene otro afilado abierto")
		}
		return err
	}
	actualizarEstadoCache(ctx, s.sierras, afilado.SierraID, DerivarEstado(true, &model.Afilado{Estado: anterior}))
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *salidaMasivaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SalidaMasivaResponse, error) {
	salida, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrStore(err, opSalidaMasiva, id, "buscar salida masiva")
	}
	return salidaToResponse(salida, nil), nil
}

func (s *salidaMasivaService) Listar(ctx context.Context, filter dto.SalidaMasivaFilter) (*dto.SalidaMasivaListResponse, error) {
	f := repository.SalidaMasivaFilter{Page: filter.Page, Limit: filter.Limit}
	var err error
	if f.SucursalID, err = parseIDOpcional("sucursal_id", filter.SucursalID); err != nil {
		return nil, err
	}
	if f.EmpresaID, err = parseIDOpcional("empresa_id", filter.EmpresaID); err != nil {
		return nil, err
	}
	if f.Fecha, err = rangoFechas(filter.FechaDesde, filter.FechaHasta); err != nil {
		return nil, err
	}

	salidas, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storeErr("listar salidas masivas", err)
	}

	page, limit, _ := repository.Page(filter.Page, filter.Limit)
	resp := &dto.SalidaMasivaListResponse{
		Data:       make([]dto.SalidaMasivaResponse, 0, len(salidas)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	for i := range salidas {
		resp.Data = append(resp.Data, *salidaToResponse(&salidas[i], nil))
	}
	return resp, nil
}

// ── Documentos ────────────────────────────────────────────────────────────────

func (s *salidaMasivaService) Remito(ctx context.Context, id uuid.UUID) ([]byte, error) {
	salida, err := s.paraDocumento(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := infra.GenerarRemitoPDF(&buf, s.empresa, salida); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *salidaMasivaService) Planilla(ctx context.Context, id uuid.UUID) ([]byte, error) {
	salida, err := s.paraDocumento(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := infra.GenerarPlanillaXLSX(&buf, salida); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// paraDocumento loads the batch with its detail rows ordered by codigo.
func (s *salidaMasivaService) paraDocumento(ctx context.Context, id uuid.UUID) (*model.SalidaMasiva, error) {
	salida, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrStore(err, opSalidaMasiva, id, "buscar salida masiva")
	}
	sort.SliceStable(salida.Detalles, func(i, j int) bool {
		return codigoDetalle(salida.Detalles[i]) < codigoDetalle(salida.Detalles[j])
	})
	return salida, nil
}

func codigoDetalle(d model.SalidaMasivaDetalle) string {
	if d.Afilado == nil || d.Afilado.Sierra == nil {
		return ""
	}
	return d.Afilado.Sierra.CodigoBarras
}
