package service_test

import (
	"context"
	"testing"

	"austech/internal/dto"
	"austech/internal/model"
	"austech/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarSierra(t *testing.T) {
	f := newFixture(t)
	resp, err := f.sierras.Registrar(context.Background(), dto.RegistrarSierraRequest{
		CodigoBarras: "  SR-0001 ",
		SucursalID:   f.sucursal.String(),
		TipoSierraID: f.tipoSierra.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "SR-0001", resp.CodigoBarras)
	assert.True(t, resp.Activo)
	assert.Equal(t, string(service.Disponible), resp.Estado)
	assert.Equal(t, model.EstadoSierraDisponible, resp.EstadoID)
	assert.Nil(t, resp.AfiladoAbierto)
}

func TestRegistrarSierraCodigoDuplicado(t *testing.T) {
	f := newFixture(t)
	f.nuevaSierra(t, "SR-0001", f.sucursal)

	_, err := f.sierras.Registrar(context.Background(), dto.RegistrarSierraRequest{
		CodigoBarras: "SR-0001",
		SucursalID:   f.otraSuc.String(),
		TipoSierraID: f.tipoSierra.String(),
	})
	var conflict *service.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorContains(t, err, "SR-0001")
}

func TestRegistrarSierraCatalogoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.sierras.Registrar(context.Background(), dto.RegistrarSierraRequest{
		CodigoBarras: "SR-0001",
		SucursalID:   uuid.NewString(),
		TipoSierraID: f.tipoSierra.String(),
	})
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "sucursal", nf.Entidad)

	_, err = f.sierras.Registrar(context.Background(), dto.RegistrarSierraRequest{
		CodigoBarras: "SR-0001",
		SucursalID:   f.sucursal.String(),
		TipoSierraID: "no-es-uuid",
	})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
}

// A failing duplicate lookup aborts the registration instead of being read
// as "no duplicate".
func TestRegistrarSierraErrorDeStore(t *testing.T) {
	f := newFixture(t)
	f.db.fallarEn("sierra.FindByCodigo")

	_, err := f.sierras.Registrar(context.Background(), dto.RegistrarSierraRequest{
		CodigoBarras: "SR-0001",
		SucursalID:   f.sucursal.String(),
		TipoSierraID: f.tipoSierra.String(),
	})
	var se *service.StoreError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, errStore)
	assert.Empty(t, f.db.sierras)
}

func TestBuscarPorCodigo(t *testing.T) {
	f := newFixture(t)
	id := f.nuevaSierra(t, "SR-0001", f.sucursal)
	afilado := f.nuevoAfilado(t, id)

	resp, err := f.sierras.BuscarPorCodigo(context.Background(), "SR-0001")
	require.NoError(t, err)
	assert.Equal(t, id.String(), resp.ID)
	assert.Equal(t, string(service.EnProcesoAfilado), resp.Estado)
	require.NotNil(t, resp.AfiladoAbierto)
	assert.Equal(t, afilado.String(), *resp.AfiladoAbierto)

	_, err = f.sierras.BuscarPorCodigo(context.Background(), "SR-9999")
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "SR-9999", nf.Clave)
}

func TestBuscarPorCodigoIncluyeInactivas(t *testing.T) {
	f := newFixture(t)
	id := f.nuevaSierra(t, "SR-0001", f.sucursal)
	_, err := f.bajas.DarDeBaja(context.Background(), f.usuario, id, dto.BajaIndividualRequest{})
	require.NoError(t, err)

	resp, err := f.sierras.BuscarPorCodigo(context.Background(), "SR-0001")
	require.NoError(t, err)
	assert.False(t, resp.Activo)
	assert.Equal(t, string(service.FueraDeServicio), resp.Estado)
}

func TestPuedeIniciarAfilado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	libre := f.nuevaSierra(t, "SR-0001", f.sucursal)
	enProceso := f.nuevaSierra(t, "SR-0002", f.sucursal)
	f.nuevoAfilado(t, enProceso)
	lista := f.nuevaSierra(t, "SR-0003", f.sucursal)
	f.afiladoListo(t, lista)
	baja := f.nuevaSierra(t, "SR-0004", f.sucursal)
	_, err := f.bajas.DarDeBaja(ctx, f.usuario, baja, dto.BajaIndividualRequest{})
	require.NoError(t, err)

	cases := []struct {
		name   string
		sierra uuid.UUID
		want   bool
	}{
		{"disponible", libre, true},
		{"en proceso", enProceso, false},
		{"lista para retiro", lista, false},
		{"fuera de servicio", baja, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := f.sierras.PuedeIniciarAfilado(ctx, tc.sierra)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)

			// canStart holds iff the sierra is active with no open cycle.
			s := f.db.sierras[tc.sierra]
			_, abierto := f.db.abiertoDe(tc.sierra)
			assert.Equal(t, s.Activo && !abierto, ok)
		})
	}

	_, err = f.sierras.PuedeIniciarAfilado(ctx, uuid.New())
	var nf *service.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestMarcarDespachado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sierra := f.nuevaSierra(t, "SR-0001", f.sucursal)
	afilado := f.afiladoListo(t, sierra)

	resp, err := f.sierras.MarcarDespachado(ctx, afilado, dto.MarcarSalidaRequest{FechaSalida: hoy})
	require.NoError(t, err)
	require.NotNil(t, resp.FechaSalida)
	assert.Equal(t, hoy, *resp.FechaSalida)
	assert.Equal(t, model.AfiladoEntregado, resp.Estado)
	assert.Equal(t, service.Disponible, f.estado(t, sierra))
	assert.Equal(t, model.EstadoSierraDisponible, f.db.sierras[sierra].EstadoID)

	_, err = f.sierras.MarcarDespachado(ctx, afilado, dto.MarcarSalidaRequest{FechaSalida: hoy})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []uuid.UUID{afilado}, ve.IDs)
}

// FUERA_DE_SERVICIO -> DISPONIBLE is not a transition, even with an open afilado.
func TestMarcarDespachadoSierraFueraDeServicio(t *testing.T) {
	f := newFixture(t)
	sierra := f.nuevaSierra(t, "SR-0001", f.sucursal)
	afilado := f.nuevoAfilado(t, sierra)
	s := f.db.sierras[sierra]
	s.Activo = false
	f.db.sierras[sierra] = s

	_, err := f.sierras.MarcarDespachado(context.Background(), afilado, dto.MarcarSalidaRequest{FechaSalida: hoy})
	var conflict *service.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uuid.UUID{sierra}, conflict.IDs)
	assert.Nil(t, f.db.afilados[afilado].FechaSalida)
}

func TestMarcarDespachadoFechaInvalida(t *testing.T) {
	f := newFixture(t)
	sierra := f.nuevaSierra(t, "SR-0001", f.sucursal)
	afilado := f.nuevoAfilado(t, sierra)

	_, err := f.sierras.MarcarDespachado(context.Background(), afilado, dto.MarcarSalidaRequest{FechaSalida: "10/03/2026"})
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, service.EnProcesoAfilado, f.estado(t, sierra))
}

func TestListarSierrasFiltraActivas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.nuevaSierra(t, "SR-0001", f.sucursal)
	baja := f.nuevaSierra(t, "SR-0002", f.sucursal)
	_, err := f.bajas.DarDeBaja(ctx, f.usuario, baja, dto.BajaIndividualRequest{})
	require.NoError(t, err)

	resp, err := f.sierras.Listar(ctx, dto.SierraFilter{Activo: "false", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "SR-0002", resp.Data[0].CodigoBarras)
	assert.Equal(t, string(service.FueraDeServicio), resp.Data[0].Estado)
	assert.Equal(t, 1, resp.TotalPages)

	_, err = f.sierras.Listar(ctx, dto.SierraFilter{SucursalID: "x"})
	var ve *service.ValidationError
	assert.ErrorAs(t, err, &ve)
}
