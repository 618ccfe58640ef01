package inventory

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gestor-inventario/internal/domain"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
)

// Operaciones del almacén remoto (etiquetas de error, log y métricas).
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Cache espejo local de la colección remota del usuario.
//
// Todas las mutaciones son confirmadas por escritura: la colección local cambia solo
// después de que la llamada remota tuvo éxito, así el espejo nunca se adelanta al remoto.
// No es seguro para uso concurrente; Worker serializa los comandos.
type Cache struct {
	store   repository.RecordStore
	records []entity.InventoryRecord
	obs     Observer
	log     zerolog.Logger
}

// NewCache construye un cache vacío sobre el almacén remoto.
func NewCache(store repository.RecordStore) *Cache {
	return &Cache{store: store, obs: nopObserver{}, log: zerolog.Nop()}
}

// Load vacía el cache y lo repuebla con List. Si falla, el cache queda vacío y el error
// se devuelve sin reintentos.
func (c *Cache) Load(ctx context.Context, user string) error {
	c.records = nil

	start := time.Now()
	list, err := c.store.List(ctx, user)
	c.obs.ObserveRemoteCall(OpList, time.Since(start), err)
	if err != nil {
		return domain.NewRemoteError(OpList, err)
	}

	records := make([]entity.InventoryRecord, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, r := range list {
		if _, dup := seen[r.ID]; dup {
			c.log.Warn().Str("id", r.ID).Msg("id duplicado en el listado remoto, se ignora")
			continue
		}
		seen[r.ID] = struct{}{}
		records = append(records, r)
	}
	c.records = records
	return nil
}

// CreateRecord no valida nada (eso lo hace Form). Llama Create y, si tiene éxito,
// agrega {id, fields} al final del cache.
func (c *Cache) CreateRecord(ctx context.Context, user string, fields entity.RecordFields) (entity.InventoryRecord, error) {
	start := time.Now()
	id, err := c.store.Create(ctx, user, fields)
	if err == nil && id == "" {
		err = errors.New("el almacén no asignó id")
	}
	c.obs.ObserveRemoteCall(OpCreate, time.Since(start), err)
	if err != nil {
		return entity.InventoryRecord{}, domain.NewRemoteError(OpCreate, err)
	}

	record := entity.NewInventoryRecord(id, fields)
	c.records = append(c.records, record)
	return record, nil
}

// UpdateRecord exige que id exista en el cache (ErrNotFound, sin llamada remota).
// Si Update tiene éxito reemplaza el registro en su misma posición.
func (c *Cache) UpdateRecord(ctx context.Context, user, id string, fields entity.RecordFields) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}

	start := time.Now()
	err := c.store.Update(ctx, user, id, fields)
	c.obs.ObserveRemoteCall(OpUpdate, time.Since(start), err)
	if err != nil {
		return domain.NewRemoteError(OpUpdate, err)
	}

	c.records[idx] = entity.NewInventoryRecord(id, fields)
	return nil
}

// DeleteRecord elimina el registro después de un Delete remoto exitoso.
func (c *Cache) DeleteRecord(ctx context.Context, user, id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}

	start := time.Now()
	err := c.store.Delete(ctx, user, id)
	c.obs.ObserveRemoteCall(OpDelete, time.Since(start), err)
	if err != nil {
		return domain.NewRemoteError(OpDelete, err)
	}

	c.records = slices.Delete(c.records, idx, idx+1)
	return nil
}

// All devuelve una copia de la colección; las mutaciones pasan por los métodos del cache.
func (c *Cache) All() []entity.InventoryRecord {
	return slices.Clone(c.records)
}

// Get busca un registro por id.
func (c *Cache) Get(id string) (entity.InventoryRecord, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return entity.InventoryRecord{}, false
	}
	return c.records[idx], true
}

// Len número de registros en el cache.
func (c *Cache) Len() int { return len(c.records) }

func (c *Cache) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(c.records, func(r entity.InventoryRecord) bool { return r.ID == id })
}
