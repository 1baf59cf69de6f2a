package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"austech/internal/model"
	"austech/internal/repository"

	"github.com/google/uuid"
)

// ── In-memory row store ──────────────────────────────────────────────────────
// Emulates the constraints the services rely on: unique codigo_barras, one
// open afilado per sierra, one salida detail per afilado, and cascade delete
// of batch details. fallas injects store errors per operation and id.

var errStore = errors.New("store no disponible")

type memDB struct {
	sierras      map[uuid.UUID]model.Sierra
	afilados     map[uuid.UUID]model.Afilado
	salidas      map[uuid.UUID]model.SalidaMasiva
	salidaDets   []model.SalidaMasivaDetalle
	bajas        map[uuid.UUID]model.BajaMasiva
	bajaDets     []model.BajaMasivaDetalle
	sucursales   map[uuid.UUID]model.Sucursal
	tiposSierra  map[uuid.UUID]model.TipoSierra
	tiposAfilado map[uuid.UUID]model.TipoAfilado
	fallas       map[string]func(id uuid.UUID) error
}

func newMemDB() *memDB {
	return &memDB{
		sierras:      make(map[uuid.UUID]model.Sierra),
		afilados:     make(map[uuid.UUID]model.Afilado),
		salidas:      make(map[uuid.UUID]model.SalidaMasiva),
		bajas:        make(map[uuid.UUID]model.BajaMasiva),
		sucursales:   make(map[uuid.UUID]model.Sucursal),
		tiposSierra:  make(map[uuid.UUID]model.TipoSierra),
		tiposAfilado: make(map[uuid.UUID]model.TipoAfilado),
		fallas:       make(map[string]func(id uuid.UUID) error),
	}
}

// fallarEn makes op fail with errStore for the given ids (any id when none given).
func (m *memDB) fallarEn(op string, ids ...uuid.UUID) {
	m.fallas[op] = func(id uuid.UUID) error {
		if len(ids) == 0 {
			return errStore
		}
		for _, x := range ids {
			if x == id {
				return errStore
			}
		}
		return nil
	}
}

func (m *memDB) sanar(op string) { delete(m.fallas, op) }

func (m *memDB) falla(op string, id uuid.UUID) error {
	if f := m.fallas[op]; f != nil {
		return f(id)
	}
	return nil
}

func (m *memDB) abiertoDe(sierraID uuid.UUID) (model.Afilado, bool) {
	for _, a := range m.afilados {
		if a.SierraID == sierraID && a.FechaSalida == nil {
			return a, true
		}
	}
	return model.Afilado{}, false
}

func (m *memDB) conSierra(a model.Afilado) model.Afilado {
	if s, ok := m.sierras[a.SierraID]; ok {
		a.Sierra = &s
	}
	return a
}

// ── SierraRepository ─────────────────────────────────────────────────────────

type sierraStub struct{ *memDB }

var _ repository.SierraRepository = sierraStub{}

func (r sierraStub) Create(_ context.Context, s *model.Sierra) error {
	if err := r.falla("sierra.Create", s.ID); err != nil {
		return err
	}
	for _, x := range r.sierras {
		if x.CodigoBarras == s.CodigoBarras {
			return repository.ErrDuplicado
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.FechaRegistro = time.Now()
	r.sierras[s.ID] = *s
	return nil
}

func (r sierraStub) FindByID(_ context.Context, id uuid.UUID) (*model.Sierra, error) {
	s, ok := r.sierras[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r sierraStub) FindByCodigo(_ context.Context, codigo string) (*model.Sierra, error) {
	if err := r.falla("sierra.FindByCodigo", uuid.Nil); err != nil {
		return nil, err
	}
	for _, s := range r.sierras {
		if s.CodigoBarras == codigo {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r sierraStub) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Sierra, error) {
	out := make([]model.Sierra, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.sierras[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r sierraStub) List(_ context.Context, f repository.SierraFilter) ([]model.Sierra, int64, error) {
	var out []model.Sierra
	for _, s := range r.sierras {
		if f.Codigo != "" && !strings.Contains(s.CodigoBarras, f.Codigo) {
			continue
		}
		if f.SucursalID != nil && s.SucursalID != *f.SucursalID {
			continue
		}
		if f.Activo != nil && s.Activo != *f.Activo {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CodigoBarras < out[j].CodigoBarras })
	return out, int64(len(out)), nil
}

func (r sierraStub) UpdateActivoSi(_ context.Context, id uuid.UUID, esperado, nuevo bool, estadoID int) (bool, error) {
	if err := r.falla("sierra.UpdateActivoSi", id); err != nil {
		return false, err
	}
	s, ok := r.sierras[id]
	if !ok || s.Activo != esperado {
		return false, nil
	}
	s.Activo, s.EstadoID = nuevo, estadoID
	r.sierras[id] = s
	return true, nil
}

func (r sierraStub) UpdateActivo(_ context.Context, id uuid.UUID, activo bool, estadoID int) error {
	if err := r.falla("sierra.UpdateActivo", id); err != nil {
		return err
	}
	s, ok := r.sierras[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Activo, s.EstadoID = activo, estadoID
	r.sierras[id] = s
	return nil
}

func (r sierraStub) UpdateEstado(_ context.Context, id uuid.UUID, estadoID int) error {
	if err := r.falla("sierra.UpdateEstado", id); err != nil {
		return err
	}
	s, ok := r.sierras[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.EstadoID = estadoID
	r.sierras[id] = s
	return nil
}

// ── AfiladoRepository ────────────────────────────────────────────────────────

type afiladoStub struct{ *memDB }

var _ repository.AfiladoRepository = afiladoStub{}

func (r afiladoStub) Create(_ context.Context, a *model.Afilado) error {
	if err := r.falla("afilado.Create", a.SierraID); err != nil {
		return err
	}
	if _, ok := r.abiertoDe(a.SierraID); ok {
		return repository.ErrDuplicado
	}
	a.ID = uuid.New()
	r.afilados[a.ID] = *a
	return nil
}

func (r afiladoStub) FindByID(_ context.Context, id uuid.UUID) (*model.Afilado, error) {
	a, ok := r.afilados[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a = r.conSierra(a)
	return &a, nil
}

func (r afiladoStub) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Afilado, error) {
	out := make([]model.Afilado, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.afilados[id]; ok {
			out = append(out, r.conSierra(a))
		}
	}
	return out, nil
}

func (r afiladoStub) FindAbiertoBySierra(_ context.Context, sierraID uuid.UUID) (*model.Afilado, error) {
	a, ok := r.abiertoDe(sierraID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r afiladoStub) FindAbiertosBySierras(_ context.Context, ids []uuid.UUID) ([]model.Afilado, error) {
	var out []model.Afilado
	for _, id := range ids {
		if a, ok := r.abiertoDe(id); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r afiladoStub) CountAbiertos(_ context.Context, sierraID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.afilados {
		if a.SierraID == sierraID && a.FechaSalida == nil {
			n++
		}
	}
	return n, nil
}

func (r afiladoStub) ListBySierra(_ context.Context, sierraID uuid.UUID, _, _ int) ([]model.Afilado, int64, error) {
	var out []model.Afilado
	for _, a := range r.afilados {
		if a.SierraID == sierraID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaAfilado.After(out[j].FechaAfilado) })
	return out, int64(len(out)), nil
}

func (r afiladoStub) ListAbiertos(_ context.Context, f repository.AfiladoFilter) ([]model.Afilado, int64, error) {
	var out []model.Afilado
	for _, a := range r.afilados {
		if a.FechaSalida != nil || (f.Estado != "" && a.Estado != f.Estado) {
			continue
		}
		a = r.conSierra(a)
		if f.SucursalID != nil && (a.Sierra == nil || a.Sierra.SucursalID != *f.SucursalID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaAfilado.Before(out[j].FechaAfilado) })
	return out, int64(len(out)), nil
}

func (r afiladoStub) CerrarSi(_ context.Context, id uuid.UUID, fecha time.Time, estado string) (bool, error) {
	if err := r.falla("afilado.CerrarSi", id); err != nil {
		return false, err
	}
	a, ok := r.afilados[id]
	if !ok || a.FechaSalida != nil {
		return false, nil
	}
	a.FechaSalida, a.Estado = &fecha, estado
	r.afilados[id] = a
	return true, nil
}

func (r afiladoStub) Reabrir(_ context.Context, id uuid.UUID, estado string) error {
	if err := r.falla("afilado.Reabrir", id); err != nil {
		return err
	}
	a, ok := r.afilados[id]
	if !ok {
		return repository.ErrNotFound
	}
	if otro, abierto := r.abiertoDe(a.SierraID); abierto && otro.ID != id {
		return repository.ErrDuplicado
	}
	a.FechaSalida, a.Estado = nil, estado
	r.afilados[id] = a
	return nil
}

func (r afiladoStub) UpdateEstadoAbierto(_ context.Context, id uuid.UUID, estado string) (bool, error) {
	a, ok := r.afilados[id]
	if !ok || a.FechaSalida != nil {
		return false, nil
	}
	a.Estado = estado
	r.afilados[id] = a
	return true, nil
}

// ── SalidaMasivaRepository ───────────────────────────────────────────────────

type salidaStub struct{ *memDB }

var _ repository.SalidaMasivaRepository = salidaStub{}

func (r salidaStub) Create(_ context.Context, s *model.SalidaMasiva) error {
	if err := r.falla("salida.Create", s.SucursalID); err != nil {
		return err
	}
	s.ID = uuid.New()
	s.CreadoEn = time.Now()
	r.salidas[s.ID] = *s
	return nil
}

func (r salidaStub) FindByID(_ context.Context, id uuid.UUID) (*model.SalidaMasiva, error) {
	s, ok := r.salidas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if suc, ok := r.sucursales[s.SucursalID]; ok {
		s.Sucursal = &suc
	}
	s.Detalles = nil
	for _, d := range r.salidaDets {
		if d.SalidaMasivaID == id {
			if a, ok := r.afilados[d.AfiladoID]; ok {
				a = r.conSierra(a)
				d.Afilado = &a
			}
			s.Detalles = append(s.Detalles, d)
		}
	}
	return &s, nil
}

func (r salidaStub) List(ctx context.Context, f repository.SalidaMasivaFilter) ([]model.SalidaMasiva, int64, error) {
	var out []model.SalidaMasiva
	for id, s := range r.salidas {
		if f.SucursalID != nil && s.SucursalID != *f.SucursalID {
			continue
		}
		full, _ := r.FindByID(ctx, id)
		out = append(out, *full)
	}
	return out, int64(len(out)), nil
}

func (r salidaStub) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.falla("salida.Delete", id); err != nil {
		return err
	}
	if _, ok := r.salidas[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.salidas, id)
	kept := r.salidaDets[:0]
	for _, d := range r.salidaDets {
		if d.SalidaMasivaID != id {
			kept = append(kept, d)
		}
	}
	r.salidaDets = kept
	return nil
}

func (r salidaStub) CreateDetalle(_ context.Context, d *model.SalidaMasivaDetalle) error {
	if err := r.falla("salida.CreateDetalle", d.AfiladoID); err != nil {
		return err
	}
	for _, x := range r.salidaDets {
		if x.AfiladoID == d.AfiladoID {
			return repository.ErrDuplicado
		}
	}
	d.ID = uuid.New()
	r.memDB.salidaDets = append(r.memDB.salidaDets, *d)
	return nil
}

func (r salidaStub) ListDetalles(_ context.Context, salidaID uuid.UUID) ([]model.SalidaMasivaDetalle, error) {
	if err := r.falla("salida.ListDetalles", salidaID); err != nil {
		return nil, err
	}
	var out []model.SalidaMasivaDetalle
	for _, d := range r.salidaDets {
		if d.SalidaMasivaID == salidaID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r salidaStub) DeleteDetalle(_ context.Context, salidaID, afiladoID uuid.UUID) error {
	if err := r.falla("salida.DeleteDetalle", afiladoID); err != nil {
		return err
	}
	kept := r.salidaDets[:0]
	for _, d := range r.salidaDets {
		if d.SalidaMasivaID != salidaID || d.AfiladoID != afiladoID {
			kept = append(kept, d)
		}
	}
	r.memDB.salidaDets = kept
	return nil
}

// ── BajaMasivaRepository ─────────────────────────────────────────────────────

type bajaStub struct{ *memDB }

var _ repository.BajaMasivaRepository = bajaStub{}

func (r bajaStub) Create(_ context.Context, b *model.BajaMasiva) error {
	if err := r.falla("baja.Create", b.UsuarioID); err != nil {
		return err
	}
	b.ID = uuid.New()
	b.CreadoEn = time.Now()
	r.bajas[b.ID] = *b
	return nil
}

func (r bajaStub) FindByID(_ context.Context, id uuid.UUID) (*model.BajaMasiva, error) {
	b, ok := r.bajas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b.Detalles = nil
	for _, d := range r.bajaDets {
		if d.BajaMasivaID == id {
			if s, ok := r.sierras[d.SierraID]; ok {
				d.Sierra = &s
			}
			b.Detalles = append(b.Detalles, d)
		}
	}
	return &b, nil
}

func (r bajaStub) List(ctx context.Context, _ repository.BajaMasivaFilter) ([]model.BajaMasiva, int64, error) {
	var out []model.BajaMasiva
	for id := range r.bajas {
		full, _ := r.FindByID(ctx, id)
		out = append(out, *full)
	}
	return out, int64(len(out)), nil
}

func (r bajaStub) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.falla("baja.Delete", id); err != nil {
		return err
	}
	if _, ok := r.bajas[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.bajas, id)
	kept := r.bajaDets[:0]
	for _, d := range r.bajaDets {
		if d.BajaMasivaID != id {
			kept = append(kept, d)
		}
	}
	r.memDB.bajaDets = kept
	return nil
}

func (r bajaStub) CreateDetalle(_ context.Context, d *model.BajaMasivaDetalle) error {
	if err := r.falla("baja.CreateDetalle", d.SierraID); err != nil {
		return err
	}
	d.ID = uuid.New()
	r.memDB.bajaDets = append(r.memDB.bajaDets, *d)
	return nil
}

func (r bajaStub) ListDetalles(_ context.Context, bajaID uuid.UUID) ([]model.BajaMasivaDetalle, error) {
	if err := r.falla("baja.ListDetalles", bajaID); err != nil {
		return nil, err
	}
	var out []model.BajaMasivaDetalle
	for _, d := range r.bajaDets {
		if d.BajaMasivaID == bajaID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r bajaStub) DeleteDetalle(_ context.Context, bajaID, sierraID uuid.UUID) error {
	if err := r.falla("baja.DeleteDetalle", sierraID); err != nil {
		return err
	}
	kept := r.bajaDets[:0]
	for _, d := range r.bajaDets {
		if d.BajaMasivaID != bajaID || d.SierraID != sierraID {
			kept = append(kept, d)
		}
	}
	r.memDB.bajaDets = kept
	return nil
}

// ── CatalogoRepository ───────────────────────────────────────────────────────

type catalogoStub struct{ *memDB }

var _ repository.CatalogoRepository = catalogoStub{}

func (r catalogoStub) FindSucursal(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	s, ok := r.sucursales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r catalogoStub) FindTipoSierra(_ context.Context, id uuid.UUID) (*model.TipoSierra, error) {
	t, ok := r.tiposSierra[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r catalogoStub) FindTipoAfilado(_ context.Context, id uuid.UUID) (*model.TipoAfilado, error) {
	t, ok := r.tiposAfilado[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r catalogoStub) ListSucursales(_ context.Context, empresaID *uuid.UUID) ([]model.Sucursal, error) {
	var out []model.Sucursal
	for _, s := range r.sucursales {
		if empresaID == nil || s.EmpresaID == *empresaID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r catalogoStub) ListTiposSierra(context.Context) ([]model.TipoSierra, error) {
	var out []model.TipoSierra
	for _, t := range r.tiposSierra {
		out = append(out, t)
	}
	return out, nil
}

func (r catalogoStub) ListTiposAfilado(context.Context) ([]model.TipoAfilado, error) {
	var out []model.TipoAfilado
	for _, t := range r.tiposAfilado {
		out = append(out, t)
	}
	return out, nil
}
