package inventory

import (
	"context"
	"sync"

	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
)

type registryEntry struct {
	worker *Worker
	ready  chan struct{} // se cierra cuando termina la carga inicial
	err    error
}

// Registry mantiene un Worker por usuario. La sesión se crea y se carga en el primer uso.
type Registry struct {
	store   repository.RecordStore
	opts    []Option
	mu      sync.Mutex
	entries map[string]*registryEntry
}

// NewRegistry construye el registro; opts se aplican a cada sesión nueva.
func NewRegistry(store repository.RecordStore, opts ...Option) *Registry {
	return &Registry{store: store, opts: opts, entries: make(map[string]*registryEntry)}
}

// Get devuelve el worker de user, creando y cargando la sesión si no existe.
// Si la carga inicial falla, la sesión se descarta y el error se devuelve: el siguiente
// Get vuelve a intentar (no hay reintento automático).
func (r *Registry) Get(ctx context.Context, user string) (*Worker, error) {
	r.mu.Lock()
	e, ok := r.entries[user]
	if !ok {
		e = &registryEntry{
			worker: NewWorker(NewSession(user, r.store, r.opts...)),
			ready:  make(chan struct{}),
		}
		r.entries[user] = e
	}
	r.mu.Unlock()

	if !ok {
		_, e.err = e.worker.Do(context.WithoutCancel(ctx), LoadCmd{})
		close(e.ready)
		if e.err != nil {
			r.drop(user, e)
		}
	}

	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.worker, nil
}

// End termina la sesión de user (el cache se descarta).
func (r *Registry) End(user string) {
	r.mu.Lock()
	e, ok := r.entries[user]
	delete(r.entries, user)
	r.mu.Unlock()
	if ok {
		e.worker.Close()
	}
}

// Close termina todas las sesiones.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()
	for _, e := range entries {
		e.worker.Close()
	}
}

func (r *Registry) drop(user string, e *registryEntry) {
	r.mu.Lock()
	if r.entries[user] == e {
		delete(r.entries, user)
	}
	r.mu.Unlock()
	e.worker.Close()
}
