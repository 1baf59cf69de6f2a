package service

import (
	"context"
	"errors"
	"strings"

	"austech/internal/dto"
	"austech/internal/model"
	"austech/internal/repository"

	"github.com/google/uuid"
)

// SierraService is the blade registry: it owns sierras and their lifecycle
// state, derived from activo and the open afilado.
type SierraService interface {
	Registrar(ctx context.Context, req dto.RegistrarSierraRequest) (*dto.SierraResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SierraResponse, error)
	// BuscarPorCodigo resolves a scanned code, inactive sierras included.
	BuscarPorCodigo(ctx context.Context, codigo string) (*dto.SierraResponse, error)
	Listar(ctx context.Context, filter dto.SierraFilter) (*dto.SierraListResponse, error)
	Estado(ctx context.Context, id uuid.UUID) (EstadoSierra, error)
	// PuedeIniciarAfilado is false iff the sierra is inactive or already has an open afilado.
	PuedeIniciarAfilado(ctx context.Context, id uuid.UUID) (bool, error)
	// MarcarDespachado closes a single afilado outside of any batch.
	MarcarDespachado(ctx context.Context, afiladoID uuid.UUID, req dto.MarcarSalidaRequest) (*dto.AfiladoResponse, error)
}

type sierraService struct {
	repo      repository.SierraRepository
	afilados  repository.AfiladoRepository
	catalogos repository.CatalogoRepository
}

func NewSierraService(repo repository.SierraRepository, afilados repository.AfiladoRepository, catalogos repository.CatalogoRepository) SierraService {
	return &sierraService{repo: repo, afilados: afilados, catalogos: catalogos}
}

// ── Registrar ─────────────────────────────────────────────────────────────────

func (s *sierraService) Registrar(ctx context.Context, req dto.RegistrarSierraRequest) (*dto.SierraResponse, error) {
	codigo := strings.TrimSpace(req.CodigoBarras)
	if codigo == "" {
		return nil, &ValidationError{Mensaje: "codigo_barras requerido"}
	}
	sucursalID, err := parseID("sucursal_id", req.SucursalID)
	if err != nil {
		return nil, err
	}
	tipoID, err := parseID("tipo_sierra_id", req.TipoSierraID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalogos.FindSucursal(ctx, sucursalID); err != nil {
		return nil, notFoundOrStore(err, "sucursal", sucursalID, "buscar sucursal")
	}
	if _, err := s.catalogos.FindTipoSierra(ctx, tipoID); err != nil {
		return nil, notFoundOrStore(err, "tipo de sierra", tipoID, "buscar tipo de sierra")
	}

	switch _, err := s.repo.FindByCodigo(ctx, codigo); {
	case err == nil:
		return nil, &ConflictError{Mensaje: "ya existe una sierra con el codigo " + codigo}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storeErr("buscar sierra por codigo", err)
	}

	sierra := &model.Sierra{
		CodigoBarras: codigo,
		SucursalID:   sucursalID,
		TipoSierraID: tipoID,
		EstadoID:     Disponible.ID(),
		Activo:       true,
	}
	if err := s.repo.Create(ctx, sierra); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, &ConflictError{Mensaje: "ya existe una sierra con el codigo " + codigo}
		}
		return nil, storeErr("registrar sierra", err)
	}
	return sierraToResponse(sierra, nil), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *sierraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.SierraResponse, error) {
	sierra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrStore(err, "sierra", id, "buscar sierra")
	}
	return s.conEstado(ctx, sierra)
}

func (s *sierraService) BuscarPorCodigo(ctx context.Context, codigo string) (*dto.SierraResponse, error) {
	sierra, err := s.repo.FindByCodigo(ctx, strings.TrimSpace(codigo))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entidad: "sierra", Clave: codigo}
		}
		return nil, storeErr("buscar sierra por codigo", err)
	}
	return s.conEstado(ctx, sierra)
}

func (s *sierraService) Listar(ctx context.Context, filter dto.SierraFilter) (*dto.SierraListResponse, error) {
	f := repository.SierraFilter{Codigo: strings.TrimSpace(filter.Codigo), Page: filter.Page, Limit: filter.Limit}
	var err error
	if f.SucursalID, err = parseIDOpcional("sucursal_id", filter.SucursalID); err != nil {
		return nil, err
	}
	if f.EmpresaID, err = parseIDOpcional("empresa_id", filter.EmpresaID); err != nil {
		return nil, err
	}
	switch filter.Activo {
	case "true":
		v := true
		f.Activo = &v
	case "false":
		v := false
		f.Activo = &v
	}

	sierras, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storeErr("listar sierras", err)
	}

	page, limit, _ := repository.Page(filter.Page, filter.Limit)
	resp := &dto.SierraListResponse{
		Data:       make([]dto.SierraResponse, 0, len(sierras)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	// The listing reports the cached estado_id; per-row derivation would
	// cost one query per sierra.
	for i := range sierras {
		r := sierraToResponse(&sierras[i], nil)
		r.EstadoID = sierras[i].EstadoID
		r.Estado = string(estadoPorID(sierras[i].EstadoID))
		resp.Data = append(resp.Data, *r)
	}
	return resp, nil
}

func (s *sierraService) Estado(ctx context.Context, id uuid.UUID) (EstadoSierra, error) {
	sierra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", notFoundOrStore(err, "sierra", id, "buscar sierra")
	}
	abierto, err := s.afiladoAbierto(ctx, id)
	if err != nil {
		return "", err
	}
	return DerivarEstado(sierra.Activo, abierto), nil
}

func (s *sierraService) PuedeIniciarAfilado(ctx context.Context, id uuid.UUID) (bool, error) {
	sierra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, notFoundOrStore(err, "sierra", id, "buscar sierra")
	}
	if !sierra.Activo {
		return false, nil
	}
	n, err := s.afilados.CountAbiertos(ctx, id)
	if err != nil {
		return false, storeErr("contar afilados abiertos", err)
	}
	return n == 0, nil
}

// ── MarcarDespachado ──────────────────────────────────────────────────────────
// EN_PROCESO/LISTA -> DISPONIBLE for one afilado.

func (s *sierraService) MarcarDespachado(ctx context.Context, afiladoID uuid.UUID, req dto.MarcarSalidaRequest) (*dto.AfiladoResponse, error) {
	fecha, err := parseFecha("fecha_salida", req.FechaSalida)
	if err != nil {
		return nil, err
	}
	afilado, err := s.afilados.FindByID(ctx, afiladoID)
	if err != nil {
		return nil, notFoundOrStore(err, "afilado", afiladoID, "buscar afilado")
	}
	if !afilado.Abierto() {
		return nil, &ValidationError{Mensaje: "el afilado ya fue despachado", IDs: []uuid.UUID{afiladoID}}
	}
	if err := exigirTransicion(afilado.SierraID, DerivarEstado(sierraActiva(afilado), afilado), Disponible); err != nil {
		return nil, err
	}

	ok, err := s.afilados.CerrarSi(ctx, afiladoID, fecha, model.AfiladoEntregado)
	if err != nil {
		return nil, storeErr("despachar afilado", err)
	}
	if !ok {
		return nil, &ConflictError{Mensaje: "el afilado ya fue despachado", IDs: []uuid.UUID{afiladoID}}
	}
	actualizarEstadoCache(ctx, s.repo, afilado.SierraID, Disponible)

	afilado.FechaSalida = &fecha
	afilado.Estado = model.AfiladoEntregado
	resp := afiladoToResponse(afilado)
	return &resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *sierraService) afiladoAbierto(ctx context.Context, sierraID uuid.UUID) (*model.Afilado, error) {
	a, err := s.afilados.FindAbiertoBySierra(ctx, sierraID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, storeErr("buscar afilado abierto", err)
	}
	return a, nil
}

func (s *sierraService) conEstado(ctx context.Context, sierra *model.Sierra) (*dto.SierraResponse, error) {
	abierto, err := s.afiladoAbierto(ctx, sierra.ID)
	if err != nil {
		return nil, err
	}
	return sierraToResponse(sierra, abierto), nil
}

func estadoPorID(id int) EstadoSierra {
	switch id {
	case model.EstadoSierraEnProceso:
		return EnProcesoAfilado
	case model.EstadoSierraListaParaRetiro:
		return ListaParaRetiro
	case model.EstadoSierraFueraDeServicio:
		return FueraDeServicio
	default:
		return Disponible
	}
}

func notFoundOrStore(err error, entidad string, id uuid.UUID, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entidad: entidad, IDs: []uuid.UUID{id}}
	}
	return storeErr(op, err)
}
