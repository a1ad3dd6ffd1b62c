// Package broadcast reparte cada valor publicado a todos los suscriptores activos.
// Cada suscriptor tiene su propia cola ordenada: nadie consume las notificaciones de otro.
//
// La entrega no es sin pérdidas. Un suscriptor que acumula maxPending elementos sin
// consumir pierde los más antiguos (los cuenta Subscription.Dropped) y conserva siempre
// el último valor publicado, así que un lector lento ve el estado vigente y no el
// historial completo.
package broadcast

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed la suscripción o el hub fueron cerrados y la cola está vacía.
var ErrClosed = errors.New("broadcast: suscripción cerrada")

// DefaultMaxPending tope de elementos pendientes por suscriptor antes de descartar el más antiguo.
const DefaultMaxPending = 1024

// Hub difusor de valores de tipo T.
type Hub[T any] struct {
	mu         sync.Mutex
	subs       map[uint64]*Subscription[T]
	next       uint64
	maxPending int
	closed     bool
}

// New crea un hub. maxPending <= 0 usa DefaultMaxPending.
func New[T any](maxPending int) *Hub[T] {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Hub[T]{subs: make(map[uint64]*Subscription[T]), maxPending: maxPending}
}

// Subscribe registra un suscriptor nuevo; solo recibe lo publicado desde ahora.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &Subscription[T]{
		hub:    h,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	if h.closed {
		s.closed = true
		close(s.done)
		return s
	}
	h.next++
	s.id = h.next
	h.subs[s.id] = s
	return s
}

// Publish encola v en cada suscriptor. Nunca bloquea.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, s := range h.subs {
		s.push(v, h.maxPending)
	}
}

// Subscribers cantidad de suscriptores activos.
func (h *Hub[T]) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close cierra el hub; los suscriptores drenan lo pendiente y luego reciben ErrClosed.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, s := range h.subs {
		s.close()
		delete(h.subs, id)
	}
}

func (h *Hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// Subscription cola de un suscriptor.
type Subscription[T any] struct {
	hub     *Hub[T]
	id      uint64
	mu      sync.Mutex
	queue   []T
	dropped int
	closed  bool
	signal  chan struct{}
	done    chan struct{}
}

func (s *Subscription[T]) push(v T, maxPending int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if len(s.queue) >= maxPending {
		s.queue = s.queue[1:]
		s.dropped++
	}
	s.queue = append(s.queue, v)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Next devuelve el siguiente valor en orden, bloqueando hasta que haya uno,
// se cancele ctx o se cierre la suscripción.
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			v := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return v, nil
		}
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return zero, ErrClosed
		}

		select {
		case <-s.signal:
		case <-s.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Dropped cantidad de valores descartados por superar el tope de pendientes.
func (s *Subscription[T]) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close da de baja la suscripción. Es idempotente.
func (s *Subscription[T]) Close() {
	if s.id != 0 {
		s.hub.remove(s.id)
	}
	s.close()
}

func (s *Subscription[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}
