package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// Command acción discreta de la UI sobre la sesión. Worker las ejecuta de a una.
type Command interface {
	Execute(ctx context.Context, s *Session) (any, error)
}

// LoadCmd recarga el cache desde el almacén remoto.
type LoadCmd struct{}

func (LoadCmd) Execute(ctx context.Context, s *Session) (any, error) {
	return nil, s.Load(ctx)
}

// CreateRecordCmd crea un registro directamente. Resultado: entity.InventoryRecord.
type CreateRecordCmd struct {
	Fields entity.RecordFields
}

func (c CreateRecordCmd) Execute(ctx context.Context, s *Session) (any, error) {
	return s.CreateRecord(ctx, c.Fields)
}

// BeginEditCmd pasa el formulario a edición. Resultado: FormState.
type BeginEditCmd struct {
	ID string
}

func (c BeginEditCmd) Execute(_ context.Context, s *Session) (any, error) {
	if err := s.BeginEdit(c.ID); err != nil {
		return nil, err
	}
	return s.Form(), nil
}

// SetFormCmd reemplaza los valores del formulario. Resultado: FormState.
type SetFormCmd struct {
	Input FormInput
}

func (c SetFormCmd) Execute(_ context.Context, s *Session) (any, error) {
	s.SetForm(c.Input)
	return s.Form(), nil
}

// ResetCmd vuelve el formulario a modo creación. Resultado: FormState.
type ResetCmd struct{}

func (ResetCmd) Execute(_ context.Context, s *Session) (any, error) {
	s.ResetForm()
	return s.Form(), nil
}

// FormCmd consulta el formulario. Resultado: FormState.
type FormCmd struct{}

func (FormCmd) Execute(_ context.Context, s *Session) (any, error) {
	return s.Form(), nil
}

// SubmitCmd envía el formulario. Resultado: entity.InventoryRecord.
type SubmitCmd struct{}

func (SubmitCmd) Execute(ctx context.Context, s *Session) (any, error) {
	return s.Submit(ctx)
}

// DeleteCmd elimina un registro.
type DeleteCmd struct {
	ID string
}

func (c DeleteCmd) Execute(ctx context.Context, s *Session) (any, error) {
	return nil, s.DeleteRecord(ctx, c.ID)
}

// ViewCmd calcula la vista filtrada. Resultado: View.
type ViewCmd struct {
	SearchText string
	Category   string
}

func (c ViewCmd) Execute(_ context.Context, s *Session) (any, error) {
	return s.View(c.SearchText, c.Category), nil
}

// ImportCmd importa un respaldo. Resultado: ImportReport.
// Una importación iniciada no se cancela: corre con un contexto desligado del llamador.
type ImportCmd struct {
	Payload []byte
}

func (c ImportCmd) Execute(ctx context.Context, s *Session) (any, error) {
	return s.Import(context.WithoutCancel(ctx), c.Payload)
}

// ExportCmd serializa el cache. Resultado: *ExportArtifact (nil si está vacío).
type ExportCmd struct {
	Now time.Time
}

func (c ExportCmd) Execute(_ context.Context, s *Session) (any, error) {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}
	return s.Export(now)
}
