package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

var errBoom = errors.New("remote caído")

type call struct {
	Op string
	ID string
}

// fakeStore almacén remoto en memoria con registro de llamadas e inyección de fallos.
type fakeStore struct {
	mu       sync.Mutex
	docs     map[string][]entity.InventoryRecord
	seq      int
	calls    []call
	failOps  map[string]bool
	failNext map[string]int // op -> número de la llamada (1-based) que falla
	counts   map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:     make(map[string][]entity.InventoryRecord),
		failOps:  make(map[string]bool),
		failNext: make(map[string]int),
		counts:   make(map[string]int),
	}
}

func (f *fakeStore) fail(op string, id string) error {
	f.calls = append(f.calls, call{Op: op, ID: id})
	f.counts[op]++
	if f.failOps[op] || f.failNext[op] == f.counts[op] {
		return errBoom
	}
	return nil
}

func (f *fakeStore) seed(user string, fields ...entity.RecordFields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fl := range fields {
		f.seq++
		f.docs[user] = append(f.docs[user], entity.NewInventoryRecord(fmt.Sprintf("doc-%d", f.seq), fl))
	}
}

func (f *fakeStore) callsOf(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeStore) List(_ context.Context, user string) ([]entity.InventoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("list", ""); err != nil {
		return nil, err
	}
	return append([]entity.InventoryRecord(nil), f.docs[user]...), nil
}

func (f *fakeStore) Create(_ context.Context, user string, fields entity.RecordFields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("create", ""); err != nil {
		return "", err
	}
	f.seq++
	id := fmt.Sprintf("doc-%d", f.seq)
	f.docs[user] = append(f.docs[user], entity.NewInventoryRecord(id, fields))
	return id, nil
}

func (f *fakeStore) Update(_ context.Context, user, id string, fields entity.RecordFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("update", id); err != nil {
		return err
	}
	for i, r := range f.docs[user] {
		if r.ID == id {
			f.docs[user][i] = entity.NewInventoryRecord(id, fields)
		}
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, user, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("delete", id); err != nil {
		return err
	}
	list := f.docs[user]
	for i, r := range list {
		if r.ID == id {
			f.docs[user] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	return nil
}
