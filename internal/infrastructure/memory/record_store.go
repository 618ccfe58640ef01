package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
)

// RecordStore almacén de documentos en memoria, una colección ordenada por usuario.
// Sirve para desarrollo local (STORE_DRIVER=memory) y como doble en tests.
type RecordStore struct {
	mu    sync.RWMutex
	users map[string][]entity.InventoryRecord
}

// NewRecordStore crea un almacén vacío.
func NewRecordStore() *RecordStore {
	return &RecordStore{users: make(map[string][]entity.InventoryRecord)}
}

var _ repository.RecordStore = (*RecordStore)(nil)

// List devuelve una copia de la colección en orden de inserción.
func (s *RecordStore) List(ctx context.Context, user string) ([]entity.InventoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users[user]), nil
}

// Create agrega el documento con un UUID nuevo.
func (s *RecordStore) Create(ctx context.Context, user string, fields entity.RecordFields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user] = append(s.users[user], entity.NewInventoryRecord(id, fields))
	return id, nil
}

// Update reemplaza los campos del documento id.
func (s *RecordStore) Update(ctx context.Context, user, id string, fields entity.RecordFields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(user, id)
	if i < 0 {
		return fmt.Errorf("documento %s no existe", id)
	}
	s.users[user][i].RecordFields = fields
	return nil
}

// Delete elimina el documento id. Borrar un documento inexistente no es error.
func (s *RecordStore) Delete(ctx context.Context, user, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(user, id); i >= 0 {
		s.users[user] = slices.Delete(s.users[user], i, i+1)
	}
	return nil
}

func (s *RecordStore) index(user, id string) int {
	return slices.IndexFunc(s.users[user], func(r entity.InventoryRecord) bool { return r.ID == id })
}
