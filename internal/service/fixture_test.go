package service_test

import (
	"context"
	"testing"

	"austech/internal/dto"
	"austech/internal/model"
	"austech/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const hoy = "2026-03-10"

type fixture struct {
	db          *memDB
	usuario     uuid.UUID
	sucursal    uuid.UUID
	otraSuc     uuid.UUID
	tipoSierra  uuid.UUID
	tipoAfilado uuid.UUID

	sierras  service.SierraService
	afilados service.AfiladoService
	salidas  service.SalidaMasivaService
	bajas    service.BajaMasivaService
}

type fixtureOpt func(*fixtureCfg)

type fixtureCfg struct {
	claims   service.ClaimStrategy
	politica service.PoliticaBaja
}

func conPolitica(p service.PoliticaBaja) fixtureOpt {
	return func(c *fixtureCfg) { c.politica = p }
}

func conClaims(cs service.ClaimStrategy) fixtureOpt {
	return func(c *fixtureCfg) { c.claims = cs }
}

func newFixture(t *testing.T, opts ...fixtureOpt) *fixture {
	t.Helper()
	var cfg fixtureCfg
	for _, o := range opts {
		o(&cfg)
	}

	db := newMemDB()
	empresa := uuid.New()
	f := &fixture{
		db:          db,
		usuario:     uuid.New(),
		sucursal:    uuid.New(),
		otraSuc:     uuid.New(),
		tipoSierra:  uuid.New(),
		tipoAfilado: uuid.New(),
	}
	db.sucursales[f.sucursal] = model.Sucursal{ID: f.sucursal, EmpresaID: empresa, Nombre: "Aserradero Norte", Activo: true}
	db.sucursales[f.otraSuc] = model.Sucursal{ID: f.otraSuc, EmpresaID: empresa, Nombre: "Aserradero Sur", Activo: true}
	db.tiposSierra[f.tipoSierra] = model.TipoSierra{ID: f.tipoSierra, Nombre: "Cinta", Activo: true}
	db.tiposAfilado[f.tipoAfilado] = model.TipoAfilado{ID: f.tipoAfilado, Nombre: "Completo", Activo: true}

	sierras, afilados := sierraStub{db}, afiladoStub{db}
	catalogos := catalogoStub{db}
	f.sierras = service.NewSierraService(sierras, afilados, catalogos)
	f.afilados = service.NewAfiladoService(afilados, sierras, catalogos)
	f.salidas = service.NewSalidaMasivaService(salidaStub{db}, afilados, sierras, catalogos, cfg.claims, "Austech")
	f.bajas = service.NewBajaMasivaService(bajaStub{db}, sierras, afilados, cfg.claims, cfg.politica)
	return f
}

// nuevaSierra registers an active sierra in sucursal.
func (f *fixture) nuevaSierra(t *testing.T, codigo string, sucursal uuid.UUID) uuid.UUID {
	t.Helper()
	resp, err := f.sierras.Registrar(context.Background(), dto.RegistrarSierraRequest{
		CodigoBarras: codigo,
		SucursalID:   sucursal.String(),
		TipoSierraID: f.tipoSierra.String(),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

// nuevoAfilado opens a sharpening cycle on sierraID.
func (f *fixture) nuevoAfilado(t *testing.T, sierraID uuid.UUID) uuid.UUID {
	t.Helper()
	resp, err := f.afilados.Crear(context.Background(), f.usuario, dto.CrearAfiladoRequest{
		SierraID:      sierraID.String(),
		TipoAfiladoID: f.tipoAfilado.String(),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

// afiladoListo opens and completes a cycle, leaving the sierra LISTA_PARA_RETIRO.
func (f *fixture) afiladoListo(t *testing.T, sierraID uuid.UUID) uuid.UUID {
	t.Helper()
	id := f.nuevoAfilado(t, sierraID)
	_, err := f.afilados.Completar(context.Background(), id)
	require.NoError(t, err)
	return id
}

func (f *fixture) estado(t *testing.T, sierraID uuid.UUID) service.EstadoSierra {
	t.Helper()
	e, err := f.sierras.Estado(context.Background(), sierraID)
	require.NoError(t, err)
	return e
}

func strs(ids ...uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
