package inventory

import (
	"context"
	"errors"
	"sync"
)

// ErrWorkerClosed el worker ya no acepta comandos.
var ErrWorkerClosed = errors.New("sesión de inventario cerrada")

type request struct {
	ctx   context.Context
	cmd   Command
	reply chan result
}

type result struct {
	value any
	err   error
}

// Worker dueño de una Session: una goroutine consume los comandos por un canal y los
// ejecuta en orden, así solo hay un comando en curso por sesión y no se necesitan locks.
// Dos sesiones del mismo usuario en procesos distintos pueden pisarse en el remoto
// (no hay token de versión); es una limitación aceptada.
type Worker struct {
	session  *Session
	requests chan request
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWorker arranca la goroutine de inmediato.
func NewWorker(s *Session) *Worker {
	w := &Worker{
		session:  s,
		requests: make(chan request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer close(w.done)
	for {
		select {
		case req := <-w.requests:
			v, err := req.cmd.Execute(req.ctx, w.session)
			req.reply <- result{value: v, err: err}
		case <-w.quit:
			return
		}
	}
}

// User dueño de la sesión.
func (w *Worker) User() string { return w.session.User() }

// Do encola cmd y espera su resultado. Si ctx termina antes de la respuesta, el comando
// ya aceptado sigue corriendo hasta completarse.
func (w *Worker) Do(ctx context.Context, cmd Command) (any, error) {
	reply := make(chan result, 1)
	select {
	case w.requests <- request{ctx: ctx, cmd: cmd, reply: reply}:
	case <-w.quit:
		return nil, ErrWorkerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close detiene la goroutine después del comando en curso.
func (w *Worker) Close() {
	w.once.Do(func() { close(w.quit) })
	<-w.done
}

// Dispatch ejecuta cmd en w y convierte el resultado al tipo esperado.
func Dispatch[T any](ctx context.Context, w *Worker, cmd Command) (T, error) {
	var zero T
	v, err := w.Do(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, errors.New("tipo de resultado inesperado")
	}
	return out, nil
}
