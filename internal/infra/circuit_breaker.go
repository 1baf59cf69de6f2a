package infra

import (
	"errors"
	"sync"
	"time"
)

// ── Breaker ───────────────────────────────────────────────────────────────────
// Guards calls to an optional dependency (the Redis claim store). After
// MaxFallos consecutive failures every call fails fast with ErrBreakerAbierto
// until Enfriamiento elapses; then a single probe decides whether to close.

type EstadoBreaker int

const (
	BreakerCerrado EstadoBreaker = iota
	BreakerAbierto
	BreakerSondeando
)

func (e EstadoBreaker) String() string {
	switch e {
	case BreakerCerrado:
		return "closed"
	case BreakerAbierto:
		return "open"
	case BreakerSondeando:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrBreakerAbierto = errors.New("circuit breaker abierto")

type BreakerConfig struct {
	MaxFallos    int           // consecutive failures to open (default 5)
	Enfriamiento time.Duration // time open before probing (default 30s)
}

type Breaker struct {
	mu            sync.Mutex
	estado        EstadoBreaker
	fallos        int
	abiertoEn     time.Time
	sondeoEnCurso bool
	cfg           BreakerConfig
	now           func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.MaxFallos <= 0 {
		cfg.MaxFallos = 5
	}
	if cfg.Enfriamiento <= 0 {
		cfg.Enfriamiento = 30 * time.Second
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// Estado is safe for concurrent use; it reports half-open once the cool-down
// has elapsed.
func (b *Breaker) Estado() EstadoBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.estadoLocked()
}

func (b *Breaker) estadoLocked() EstadoBreaker {
	if b.estado == BreakerAbierto && b.now().Sub(b.abiertoEn) >= b.cfg.Enfriamiento {
		b.estado = BreakerSondeando
		b.sondeoEnCurso = false
	}
	return b.estado
}

// Ejecutar runs fn unless the breaker is open. Only one probe runs while
// half-open; concurrent callers fail fast.
func (b *Breaker) Ejecutar(fn func() error) error {
	b.mu.Lock()
	switch b.estadoLocked() {
	case BreakerAbierto:
		b.mu.Unlock()
		return ErrBreakerAbierto
	case BreakerSondeando:
		if b.sondeoEnCurso {
			b.mu.Unlock()
			return ErrBreakerAbierto
		}
		b.sondeoEnCurso = true
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.fallo()
		return err
	}
	b.estado = BreakerCerrado
	b.fallos = 0
	b.sondeoEnCurso = false
	return nil
}

func (b *Breaker) fallo() {
	b.fallos++
	if b.estado == BreakerSondeando || b.fallos >= b.cfg.MaxFallos {
		b.estado = BreakerAbierto
		b.abiertoEn = b.now()
		b.fallos = 0
		b.sondeoEnCurso = false
	}
}
