package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/domain"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

func TestWorker_ComandosDeLaUI(t *testing.T) {
	store := newFakeStore()
	store.seed(testUser, fields("Uno", entity.CategoryOtros, 1, "1"))
	w := inventory.NewWorker(inventory.NewSession(testUser, store))
	defer w.Close()
	ctx := context.Background()

	_, err := w.Do(ctx, inventory.LoadCmd{})
	require.NoError(t, err)

	state, err := inventory.Dispatch[inventory.FormState](ctx, w, inventory.BeginEditCmd{ID: "doc-1"})
	require.NoError(t, err)
	assert.Equal(t, inventory.ModeEdit, state.Mode)

	in := state.Input
	in.Name = "Uno editado"
	_, err = w.Do(ctx, inventory.SetFormCmd{Input: in})
	require.NoError(t, err)

	rec, err := inventory.Dispatch[entity.InventoryRecord](ctx, w, inventory.SubmitCmd{})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", rec.ID)
	assert.Equal(t, "Uno editado", rec.Name)

	view, err := inventory.Dispatch[inventory.View](ctx, w, inventory.ViewCmd{SearchText: "editado"})
	require.NoError(t, err)
	require.Len(t, view.Records, 1)

	art, err := inventory.Dispatch[*inventory.ExportArtifact](ctx, w, inventory.ExportCmd{})
	require.NoError(t, err)
	require.NotNil(t, art)

	report, err := inventory.Dispatch[inventory.ImportReport](ctx, w, inventory.ImportCmd{Payload: art.Data})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)

	_, err = w.Do(ctx, inventory.DeleteCmd{ID: "doc-1"})
	require.NoError(t, err)
	_, err = w.Do(ctx, inventory.DeleteCmd{ID: "doc-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorker_SerializaComandosConcurrentes(t *testing.T) {
	store := newFakeStore()
	w := inventory.NewWorker(inventory.NewSession(testUser, store))
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Do(context.Background(), inventory.CreateRecordCmd{Fields: fields("X", entity.CategoryOtros, 1, "1")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := inventory.Dispatch[inventory.View](context.Background(), w, inventory.ViewCmd{})
	require.NoError(t, err)
	assert.Len(t, view.Records, 20)
	assert.Equal(t, 20, view.Summary.TotalQuantity)
}

func TestWorker_Cerrado(t *testing.T) {
	w := inventory.NewWorker(inventory.NewSession(testUser, newFakeStore()))
	w.Close()
	w.Close() // idempotente
	_, err := w.Do(context.Background(), inventory.LoadCmd{})
	assert.ErrorIs(t, err, inventory.ErrWorkerClosed)
}

func TestWorker_ContextoCancelado(t *testing.T) {
	w := inventory.NewWorker(inventory.NewSession(testUser, newFakeStore()))
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Do(ctx, inventory.LoadCmd{})
	// Según el select, el comando puede aceptarse antes de ver la cancelación.
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
