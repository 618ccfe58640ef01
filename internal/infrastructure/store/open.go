// Package store elige el adaptador del almacén remoto según la configuración.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
	"github.com/jhoicas/gestor-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/gestor-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/gestor-inventario/internal/infrastructure/redisstore"
	"github.com/jhoicas/gestor-inventario/pkg/config"
)

// Open construye el RecordStore de STORE_DRIVER. closeFn libera conexiones; nunca es nil.
func Open(ctx context.Context, cfg *config.Config) (repository.RecordStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewRecordRepository(pool), pool.Close, nil
	case config.StoreRedis:
		rdb := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return redisstore.NewRecordStore(rdb), func() { _ = rdb.Close() }, nil
	case config.StoreMemory:
		return memory.NewRecordStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
}
