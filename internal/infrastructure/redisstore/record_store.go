package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
)

// Claves por usuario:
//
//	inventario:{email}:docs   HASH  id -> documento JSON
//	inventario:{email}:orden  ZSET  id con score creciente (orden de inserción)
//	inventario:seq            contador global de scores
const (
	keyDocs  = "inventario:%s:docs"
	keyOrden = "inventario:%s:orden"
	keySeq   = "inventario:seq"
)

// New crea el cliente Redis con el timeout de lectura/escritura indicado.
func New(addr, password string, db int, timeout time.Duration) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
}

// RecordStore almacén de documentos sobre Redis.
type RecordStore struct {
	rdb *redis.Client
}

// NewRecordStore construye el adaptador sobre un cliente ya configurado.
func NewRecordStore(rdb *redis.Client) *RecordStore {
	return &RecordStore{rdb: rdb}
}

var _ repository.RecordStore = (*RecordStore)(nil)

// doc forma persistida; el precio viaja como string decimal para no perder precisión.
type doc struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	SupplierEmail string          `json:"supplierEmail"`
	DateIn        string          `json:"dateIn"`
}

func encodeDoc(f entity.RecordFields) ([]byte, error) {
	return json.Marshal(doc(f))
}

func decodeDoc(id string, raw []byte) (entity.InventoryRecord, error) {
	var d doc
	if err := json.Unmarshal(raw, &d); err != nil {
		return entity.InventoryRecord{}, fmt.Errorf("documento %s corrupto: %w", id, err)
	}
	return entity.NewInventoryRecord(id, entity.RecordFields(d)), nil
}

// List devuelve los documentos del usuario en orden de inserción.
func (s *RecordStore) List(ctx context.Context, user string) ([]entity.InventoryRecord, error) {
	ids, err := s.rdb.ZRange(ctx, fmt.Sprintf(keyOrden, user), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	vals, err := s.rdb.HMGet(ctx, fmt.Sprintf(keyDocs, user), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget: %w", err)
	}
	list := make([]entity.InventoryRecord, 0, len(ids))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// índice huérfano (p. ej. borrado a medias); se ignora
			continue
		}
		rec, err := decodeDoc(ids[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, nil
}

// Create guarda el documento con un UUID nuevo y lo añade al final del orden.
func (s *RecordStore) Create(ctx context.Context, user string, fields entity.RecordFields) (string, error) {
	body, err := encodeDoc(fields)
	if err != nil {
		return "", fmt.Errorf("codificar documento: %w", err)
	}
	score, err := s.rdb.Incr(ctx, keySeq).Result()
	if err != nil {
		return "", fmt.Errorf("redis incr: %w", err)
	}
	id := uuid.NewString()
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, fmt.Sprintf(keyDocs, user), id, body)
		p.ZAdd(ctx, fmt.Sprintf(keyOrden, user), redis.Z{Score: float64(score), Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("redis create: %w", err)
	}
	return id, nil
}

// Update reemplaza el documento id; falla si no existe.
func (s *RecordStore) Update(ctx context.Context, user, id string, fields entity.RecordFields) error {
	body, err := encodeDoc(fields)
	if err != nil {
		return fmt.Errorf("codificar documento: %w", err)
	}
	key := fmt.Sprintf(keyDocs, user)
	exists, err := s.rdb.HExists(ctx, key, id).Result()
	if err != nil {
		return fmt.Errorf("redis hexists: %w", err)
	}
	if !exists {
		return fmt.Errorf("documento %s no existe", id)
	}
	if err := s.rdb.HSet(ctx, key, id, body).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Delete elimina el documento y su entrada de orden.
func (s *RecordStore) Delete(ctx context.Context, user, id string) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, fmt.Sprintf(keyDocs, user), id)
		p.ZRem(ctx, fmt.Sprintf(keyOrden, user), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}
