package service_test

import (
	"context"
	"testing"
	"time"

	"austech/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNuevaClaimStrategy(t *testing.T) {
	cs, err := service.NuevaClaimStrategy("ninguno", nil, time.Second)
	require.NoError(t, err)
	liberar, err := cs.Reclamar(context.Background(), "afilado", []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	liberar()

	_, err = service.NuevaClaimStrategy("redis", nil, time.Second)
	assert.ErrorContains(t, err, "REDIS_URL")

	_, err = service.NuevaClaimStrategy("zookeeper", nil, time.Second)
	assert.ErrorContains(t, err, "zookeeper")
}
