package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"austech/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ClaimStrategy takes short-lived claims on the items a batch is about to
// mutate, closing the window between validation and fan-out against
// concurrent batches. It is chosen once at startup (CLAIM_STRATEGY).
type ClaimStrategy interface {
	// Reclamar claims every id or none. On success the returned func releases
	// the claims; on contention it returns a *ConflictError naming the ids.
	Reclamar(ctx context.Context, recurso string, ids []uuid.UUID) (liberar func(), err error)
}

// NuevaClaimStrategy builds the strategy named in config.
// "ninguno" keeps the unguarded check-then-act window.
func NuevaClaimStrategy(nombre string, rdb *redis.Client, ttl time.Duration) (ClaimStrategy, error) {
	switch strings.ToLower(nombre) {
	case "", "ninguno":
		return SinReclamo(), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("claim strategy redis requiere REDIS_URL")
		}
		return NewRedisClaims(rdb, ttl), nil
	default:
		return nil, fmt.Errorf("claim strategy desconocida: %q", nombre)
	}
}

type sinReclamo struct{}

// SinReclamo returns a strategy that never blocks.
func SinReclamo() ClaimStrategy { return sinReclamo{} }

func (sinReclamo) Reclamar(context.Context, string, []uuid.UUID) (func(), error) {
	return func() {}, nil
}

// compare-and-delete so a claim that expired and was re-taken by another
// request is not released by us.
var liberarScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

type redisClaims struct {
	rdb     *redis.Client
	ttl     time.Duration
	breaker *infra.Breaker
}

// NewRedisClaims claims items with SET NX PX under reclamo:{recurso}:{id}.
// Calls go through a breaker so a Redis outage fails batches fast.
func NewRedisClaims(rdb *redis.Client, ttl time.Duration) ClaimStrategy {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisClaims{rdb: rdb, ttl: ttl, breaker: infra.NewBreaker(infra.BreakerConfig{})}
}

func (r *redisClaims) Reclamar(ctx context.Context, recurso string, ids []uuid.UUID) (func(), error) {
	token := uuid.NewString()
	tomadas := make([]string, 0, len(ids))
	var ocupados []uuid.UUID

	for _, id := range ids {
		key := "reclamo:" + recurso + ":" + id.String()
		var ok bool
		err := r.breaker.Ejecutar(func() error {
			var err error
			ok, err = r.rdb.SetNX(ctx, key, token, r.ttl).Result()
			return err
		})
		if err != nil {
			r.liberar(tomadas, token)
			return nil, storeErr("reclamar "+recurso, err)
		}
		if !ok {
			ocupados = append(ocupados, id)
			continue
		}
		tomadas = append(tomadas, key)
	}

	if len(ocupados) > 0 {
		r.liberar(tomadas, token)
		return nil, &ConflictError{Mensaje: recurso + " en uso por otra operacion masiva", IDs: ocupados}
	}
	return func() { r.liberar(tomadas, token) }, nil
}

func (r *redisClaims) liberar(keys []string, token string) {
	// The request context may already be cancelled when releasing.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := liberarScript.Run(ctx, r.rdb, []string{key}, token).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("reclamo: no se pudo liberar, expira por TTL")
		}
	}
}
