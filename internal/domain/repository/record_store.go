package repository

import (
	"context"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// RecordStore puerto hacia el almacén remoto de documentos: una colección por usuario,
// indexada por un ID opaco. Cualquier llamada puede fallar; los timeouts y reintentos
// son responsabilidad del adaptador.
type RecordStore interface {
	List(ctx context.Context, user string) ([]entity.InventoryRecord, error)
	Create(ctx context.Context, user string, fields entity.RecordFields) (string, error)
	Update(ctx context.Context, user, id string, fields entity.RecordFields) error
	Delete(ctx context.Context, user, id string) error
}
