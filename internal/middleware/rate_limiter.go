package middleware

import (
	"net/http"
	"sync"
	"time"

	"austech/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ── Rate limiter ──────────────────────────────────────────────────────────────
// Fixed window per key. Authenticated requests are keyed by usuario_id so a
// whole branch behind one NAT is not throttled as a single client.

type ventana struct {
	count int
	fin   time.Time
}

type RateLimiter struct {
	mu          sync.Mutex
	limite      int
	duracion    time.Duration
	ventanas    map[string]*ventana
	ultimaPurga time.Time
	now         func() time.Time
}

func NewRateLimiter(limite int, duracion time.Duration) *RateLimiter {
	return &RateLimiter{
		limite:   limite,
		duracion: duracion,
		ventanas: make(map[string]*ventana),
		now:      time.Now,
	}
}

// Permitir counts one request for key and reports whether it is within the limit.
func (l *RateLimiter) Permitir(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.ultimaPurga) > 5*l.duracion {
		for k, v := range l.ventanas {
			if now.After(v.fin) {
				delete(l.ventanas, k)
			}
		}
		l.ultimaPurga = now
	}

	v, ok := l.ventanas[key]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.duracion)}
		l.ventanas[key] = v
	}
	v.count++
	return v.count <= l.limite, v.fin
}

// Middleware must run after JWTAuth to key by user.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id := UsuarioID(c); id != uuid.Nil {
			key = id.String()
		}
		ok, fin := l.Permitir(key)
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
