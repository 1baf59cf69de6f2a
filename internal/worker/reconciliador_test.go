package worker

import (
	"context"
	"errors"
	"testing"

	"austech/internal/model"
	"austech/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Only the methods the reconciler calls are implemented; the embedded
// interface panics on anything else.
type sierrasFalsas struct {
	repository.SierraRepository
	rows       []model.Sierra
	fallar     map[uuid.UUID]bool
	escrituras map[uuid.UUID]int
}

func (f *sierrasFalsas) List(_ context.Context, filter repository.SierraFilter) ([]model.Sierra, int64, error) {
	_, limit, offset := repository.Page(filter.Page, filter.Limit)
	if offset >= len(f.rows) {
		return nil, int64(len(f.rows)), nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], int64(len(f.rows)), nil
}

func (f *sierrasFalsas) UpdateEstado(_ context.Context, id uuid.UUID, estadoID int) error {
	if f.fallar[id] {
		return errors.New("timeout")
	}
	f.escrituras[id] = estadoID
	return nil
}

type afiladosFalsos struct {
	repository.AfiladoRepository
	abiertos []model.Afilado
}

func (f *afiladosFalsos) FindAbiertosBySierras(_ context.Context, ids []uuid.UUID) ([]model.Afilado, error) {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var out []model.Afilado
	for _, a := range f.abiertos {
		if set[a.SierraID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestReconciliarCorrigeEstadosDesactualizados(t *testing.T) {
	ok := model.Sierra{ID: uuid.New(), Activo: true, EstadoID: model.EstadoSierraDisponible}
	enProceso := model.Sierra{ID: uuid.New(), Activo: true, EstadoID: model.EstadoSierraDisponible}
	lista := model.Sierra{ID: uuid.New(), Activo: true, EstadoID: model.EstadoSierraEnProceso}
	baja := model.Sierra{ID: uuid.New(), Activo: false, EstadoID: model.EstadoSierraListaParaRetiro}

	sierras := &sierrasFalsas{
		rows:       []model.Sierra{ok, enProceso, lista, baja},
		escrituras: map[uuid.UUID]int{},
	}
	afilados := &afiladosFalsos{abiertos: []model.Afilado{
		{SierraID: enProceso.ID, Estado: model.AfiladoPendiente},
		{SierraID: lista.ID, Estado: model.AfiladoCompletado},
	}}

	n, err := Reconciliar(context.Background(), sierras, afilados)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NotContains(t, sierras.escrituras, ok.ID)
	assert.Equal(t, model.EstadoSierraEnProceso, sierras.escrituras[enProceso.ID])
	assert.Equal(t, model.EstadoSierraListaParaRetiro, sierras.escrituras[lista.ID])
	assert.Equal(t, model.EstadoSierraFueraDeServicio, sierras.escrituras[baja.ID])
}

func TestReconciliarRecorreTodasLasPaginas(t *testing.T) {
	sierras := &sierrasFalsas{escrituras: map[uuid.UUID]int{}}
	for i := 0; i < reconciliarLote+5; i++ {
		sierras.rows = append(sierras.rows, model.Sierra{ID: uuid.New(), Activo: false, EstadoID: model.EstadoSierraDisponible})
	}

	n, err := Reconciliar(context.Background(), sierras, &afiladosFalsos{})
	require.NoError(t, err)
	assert.Equal(t, reconciliarLote+5, n)
}

func TestReconciliarSigueTrasFalloDeEscritura(t *testing.T) {
	a := model.Sierra{ID: uuid.New(), Activo: false, EstadoID: model.EstadoSierraDisponible}
	b := model.Sierra{ID: uuid.New(), Activo: false, EstadoID: model.EstadoSierraDisponible}
	sierras := &sierrasFalsas{
		rows:       []model.Sierra{a, b},
		fallar:     map[uuid.UUID]bool{a.ID: true},
		escrituras: map[uuid.UUID]int{},
	}

	n, err := Reconciliar(context.Background(), sierras, &afiladosFalsos{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, sierras.escrituras, b.ID)
}

func TestReconciliarRespetaCancelacion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Reconciliar(ctx, &sierrasFalsas{}, &afiladosFalsos{})
	assert.ErrorIs(t, err, context.Canceled)
}
