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

// AfiladoService is the sharpening ledger. It enforces one open afilado per
// sierra; the partial unique index afilados_un_abierto_por_sierra backs the
// check at the store.
type AfiladoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearAfiladoRequest) (*dto.AfiladoResponse, error)
	// Completar marks the open afilado as done: EN_PROCESO -> LISTA_PARA_RETIRO.
	Completar(ctx context.Context, id uuid.UUID) (*dto.AfiladoResponse, error)
	// Historial lists a sierra's afilados newest first.
	Historial(ctx context.Context, sierraID uuid.UUID, page, limit int) (*dto.AfiladoListResponse, error)
	ContarAbiertos(ctx context.Context, sierraID uuid.UUID) (int64, error)
	ListarPendientes(ctx context.Context, filter dto.AfiladoFilter) (*dto.AfiladoListResponse, error)
}

type afiladoService struct {
	repo      repository.AfiladoRepository
	sierras   repository.SierraRepository
	catalogos repository.CatalogoRepository
	now       func() time.Time
}

func NewAfiladoService(repo repository.AfiladoRepository, sierras repository.SierraRepository, catalogos repository.CatalogoRepository) AfiladoService {
	return &afiladoService{repo: repo, sierras: sierras, catalogos: catalogos, now: time.Now}
}

func (s *afiladoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearAfiladoRequest) (*dto.AfiladoResponse, error) {
	sierraID, err := parseID("sierra_id", req.SierraID)
	if err != nil {
		return nil, err
	}
	tipoID, err := parseID("tipo_afilado_id", req.TipoAfiladoID)
	if err != nil {
		return nil, err
	}

	sierra, err := s.sierras.FindByID(ctx, sierraID)
	if err != nil {
		return nil, notFoundOrStore(err, "sierra", sierraID, "buscar sierra")
	}
	if _, err := s.catalogos.FindTipoAfilado(ctx, tipoID); err != nil {
		return nil, notFoundOrStore(err, "tipo de afilado", tipoID, "buscar tipo de afilado")
	}

	abierto, err := s.repo.FindAbiertoBySierra(ctx, sierraID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		abierto = nil
	case err != nil:
		return nil, storeErr("buscar afilado abierto", err)
	}
	if err := exigirTransicion(sierraID, DerivarEstado(sierra.Activo, abierto), EnProcesoAfilado); err != nil {
		return nil, err
	}

	afilado := &model.Afilado{
		SierraID:      sierraID,
		TipoAfiladoID: tipoID,
		FechaAfilado:  s.now(),
		Estado:        model.AfiladoPendiente,
		Observaciones: req.Observaciones,
		UsuarioID:     usuarioID,
	}
	if err := s.repo.Create(ctx, afilado); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			// lost the race against a concurrent request for the same sierra
			return nil, &ConflictError{Mensaje: "la sierra ya tiene un afilado abierto", IDs: []uuid.UUID{sierraID}}
		}
		return nil, storeErr("crear afilado", err)
	}
	actualizarEstadoCache(ctx, s.sierras, sierraID, EnProcesoAfilado)

	log.Info().
		Str("afilado_id", afilado.ID.String()).
		Str("sierra_id", sierraID.String()).
		Msg("afilado iniciado")

	afilado.Sierra = sierra
	resp := afiladoToResponse(afilado)
	return &resp, nil
}

func (s *afiladoService) Completar(ctx context.Context, id uuid.UUID) (*dto.AfiladoResponse, error) {
	afilado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrStore(err, "afilado", id, "buscar afilado")
	}
	if !afilado.Abierto() {
		return nil, &ValidationError{Mensaje: "el afilado ya fue despachado", IDs: []uuid.UUID{id}}
	}
	if afilado.Estado == model.AfiladoCompletado {
		resp := afiladoToResponse(afilado)
		return &resp, nil
	}
	if err := exigirTransicion(afilado.SierraID, DerivarEstado(sierraActiva(afilado), afilado), ListaParaRetiro); err != nil {
		return nil, err
	}

	ok, err := s.repo.UpdateEstadoAbierto(ctx, id, model.AfiladoCompletado)
	if err != nil {
		return nil, storeErr("completar afilado", err)
	}
	if !ok {
		return nil, &ConflictError{Mensaje: "el afilado fue despachado durante la operacion", IDs: []uuid.UUID{id}}
	}
	actualizarEstadoCache(ctx, s.sierras, afilado.SierraID, ListaParaRetiro)

	afilado.Estado = model.AfiladoCompletado
	resp := afiladoToResponse(afilado)
	return &resp, nil
}

func (s *afiladoService) Historial(ctx context.Context, sierraID uuid.UUID, page, limit int) (*dto.AfiladoListResponse, error) {
	sierra, err := s.sierras.FindByID(ctx, sierraID)
	if err != nil {
		return nil, notFoundOrStore(err, "sierra", sierraID, "buscar sierra")
	}
	afilados, total, err := s.repo.ListBySierra(ctx, sierraID, page, limit)
	if err != nil {
		return nil, storeErr("historial de afilados", err)
	}
	for i := range afilados {
		afilados[i].Sierra = sierra
	}
	return listaAfilados(afilados, total, page, limit), nil
}

func (s *afiladoService) ContarAbiertos(ctx context.Context, sierraID uuid.UUID) (int64, error) {
	n, err := s.repo.CountAbiertos(ctx, sierraID)
	if err != nil {
		return 0, storeErr("contar afilados abiertos", err)
	}
	return n, nil
}

func (s *afiladoService) ListarPendientes(ctx context.Context, filter dto.AfiladoFilter) (*dto.AfiladoListResponse, error) {
	f := repository.AfiladoFilter{Estado: filter.Estado, Page: filter.Page, Limit: filter.Limit}
	var err error
	if f.SucursalID, err = parseIDOpcional("sucursal_id", filter.SucursalID); err != nil {
		return nil, err
	}
	if f.Fecha, err = rangoFechas(filter.FechaDesde, filter.FechaHasta); err != nil {
		return nil, err
	}

	afilados, total, err := s.repo.ListAbiertos(ctx, f)
	if err != nil {
		return nil, storeErr("listar afilados pendientes", err)
	}
	return listaAfilados(afilados, total, filter.Page, filter.Limit), nil
}

func listaAfilados(afilados []model.Afilado, total int64, page, limit int) *dto.AfiladoListResponse {
	page, limit, _ = repository.Page(page, limit)
	resp := &dto.AfiladoListResponse{
		Data:       make([]dto.AfiladoResponse, 0, len(afilados)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	for i := range afilados {
		resp.Data = append(resp.Data, afiladoToResponse(&afilados[i]))
	}
	return resp
}

// rangoFechas parses an optional inclusive range; hasta before desde is rejected.
func rangoFechas(desde, hasta string) (repository.RangoFechas, error) {
	var r repository.RangoFechas
	var err error
	if r.Desde, err = parseFechaOpcional("fecha_desde", desde); err != nil {
		return r, err
	}
	if r.Hasta, err = parseFechaOpcional("fecha_hasta", hasta); err != nil {
		return r, err
	}
	if r.Desde != nil && r.Hasta != nil && r.Hasta.Before(*r.Desde) {
		return r, &ValidationError{Mensaje: "rango de fechas invalido: fecha_hasta anterior a fecha_desde"}
	}
	return r, nil
}
