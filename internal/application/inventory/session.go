package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gestor-inventario/internal/domain"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
)

// Session controlador de la sesión de un usuario: dueño del cache, del formulario
// (cursor de edición) y del identificador de usuario. No es seguro para uso concurrente;
// Worker le entrega los comandos de a uno.
type Session struct {
	user  string
	cache *Cache
	form  *Form
	log   zerolog.Logger
	obs   Observer
}

// Option configura la sesión.
type Option func(*Session)

// WithLogger registra los fallos remotos y los resúmenes de importación.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithObserver conecta las métricas.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.obs = o
		}
	}
}

// NewSession construye la sesión de user sobre el almacén remoto. El cache empieza vacío;
// llamar Load una vez al iniciar.
func NewSession(user string, store repository.RecordStore, opts ...Option) *Session {
	s := &Session{
		user: user,
		form: NewForm(),
		log:  zerolog.Nop(),
		obs:  nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("user", user).Logger()
	s.cache = NewCache(store)
	s.cache.obs = s.obs
	s.cache.log = s.log
	return s
}

// User identificador del usuario dueño de la sesión.
func (s *Session) User() string { return s.user }

// Load repuebla el cache desde el almacén remoto.
func (s *Session) Load(ctx context.Context) error {
	if err := s.cache.Load(ctx, s.user); err != nil {
		s.log.Warn().Err(err).Msg("error al cargar inventario")
		return err
	}
	s.log.Debug().Int("records", s.cache.Len()).Msg("inventario cargado")
	if cursor := s.form.Cursor(); cursor != "" {
		if _, ok := s.cache.Get(cursor); !ok && s.form.forget(cursor) {
			s.log.Debug().Str("id", cursor).Msg("cursor de edición liberado tras recarga")
		}
	}
	return nil
}

// Records colección completa (copia).
func (s *Session) Records() []entity.InventoryRecord { return s.cache.All() }

// CreateRecord crea un registro sin pasar por el formulario.
func (s *Session) CreateRecord(ctx context.Context, fields entity.RecordFields) (entity.InventoryRecord, error) {
	r, err := s.cache.CreateRecord(ctx, s.user, fields)
	if err != nil {
		s.log.Warn().Err(err).Msg("error creando registro")
	}
	return r, err
}

// UpdateRecord actualiza el registro id.
func (s *Session) UpdateRecord(ctx context.Context, id string, fields entity.RecordFields) error {
	err := s.cache.UpdateRecord(ctx, s.user, id, fields)
	if err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("error actualizando registro")
	}
	return err
}

// DeleteRecord elimina el registro id; si era el que se estaba editando, el formulario
// vuelve a modo creación.
func (s *Session) DeleteRecord(ctx context.Context, id string) error {
	if err := s.cache.DeleteRecord(ctx, s.user, id); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("error eliminando registro")
		return err
	}
	if s.form.forget(id) {
		s.log.Debug().Str("id", id).Msg("cursor de edición liberado")
	}
	return nil
}

// BeginEdit pasa el formulario a modo edición sobre id.
func (s *Session) BeginEdit(id string) error {
	r, ok := s.cache.Get(id)
	if !ok {
		return domain.ErrNotFound
	}
	s.form.BeginEdit(r)
	return nil
}

// SetForm reemplaza los valores del formulario.
func (s *Session) SetForm(in FormInput) { s.form.SetInput(in) }

// ResetForm vuelve a modo creación.
func (s *Session) ResetForm() { s.form.Reset() }

// FormState foto del formulario para la capa de presentación.
type FormState struct {
	Mode   Mode      `json:"mode"`
	Cursor string    `json:"cursor,omitempty"`
	Title  string    `json:"title"`
	Input  FormInput `json:"input"`
}

// Form devuelve el estado actual del formulario.
func (s *Session) Form() FormState {
	return FormState{
		Mode:   s.form.Mode(),
		Cursor: s.form.Cursor(),
		Title:  s.form.Title(),
		Input:  s.form.Input(),
	}
}

// Submit valida el formulario y, según el modo, crea o actualiza. Un formulario inválido
// nunca llega al almacén remoto. Solo un envío exitoso vuelve el formulario a CREATE.
func (s *Session) Submit(ctx context.Context) (entity.InventoryRecord, error) {
	fields, err := s.form.Validate()
	if err != nil {
		return entity.InventoryRecord{}, err
	}

	var record entity.InventoryRecord
	switch s.form.Mode() {
	case ModeEdit:
		id := s.form.Cursor()
		if err := s.UpdateRecord(ctx, id, fields); err != nil {
			return entity.InventoryRecord{}, err
		}
		record = entity.NewInventoryRecord(id, fields)
	default:
		record, err = s.CreateRecord(ctx, fields)
		if err != nil {
			return entity.InventoryRecord{}, err
		}
	}

	s.form.Reset()
	return record, nil
}

// View vista derivada del cache para la presentación.
type View struct {
	Records       []entity.InventoryRecord
	Summary       Summary
	ByCategory    []CategoryTotal
	SearchText    string
	Category      string
	EmptyMessage  string // vacío si hay registros que mostrar
	QuantityLabel string
	ValueLabel    string
}

// View recalcula filtro y totales sobre el cache actual.
func (s *Session) View(searchText, category string) View {
	all := s.cache.All()
	filtered := Filter(all, searchText, category)
	summary := Summarize(filtered)
	v := View{
		Records:       filtered,
		Summary:       summary,
		ByCategory:    SummarizeByCategory(filtered),
		SearchText:    searchText,
		Category:      category,
		QuantityLabel: summary.QuantityLabel(),
		ValueLabel:    summary.ValueLabel(),
	}
	if len(filtered) == 0 {
		if len(all) == 0 {
			v.EmptyMessage = "Tu inventario está vacío."
		} else {
			v.EmptyMessage = "No hay coincidencias."
		}
	}
	return v
}

// Export serializa todo el cache (sin filtros). Con el cache vacío devuelve nil, nil:
// no hay nada que exportar y no es un error.
func (s *Session) Export(now time.Time) (*ExportArtifact, error) {
	records := s.cache.All()
	if len(records) == 0 {
		return nil, nil
	}
	data, err := EncodeRecords(records)
	if err != nil {
		return nil, err
	}
	return &ExportArtifact{
		Name:        ExportFileName(s.user, now),
		ContentType: ExportContentType,
		Data:        data,
		Count:       len(records),
		User:        s.user,
		ExportedAt:  now,
	}, nil
}

// Import reproduce el respaldo como creaciones secuenciales, una a la vez y en orden.
// Nunca borra ni sobrescribe: solo agrega. Un payload que no es un arreglo JSON devuelve
// *domain.ParseError sin tocar el cache. Los fallos por elemento quedan en el reporte.
func (s *Session) Import(ctx context.Context, payload []byte) (ImportReport, error) {
	elems, err := SplitImportPayload(payload)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{Attempted: len(elems)}
	for i, raw := range elems {
		fields, err := DecodeImportElement(raw)
		if err == nil {
			_, err = s.CreateRecord(ctx, fields)
		}
		if err != nil {
			report.Failures = append(report.Failures, ImportFailure{Index: i, Err: err})
			continue
		}
		report.Imported++
	}

	s.obs.ObserveImport(report)
	evt := s.log.Info()
	if report.Failed() > 0 {
		evt = s.log.Warn()
	}
	evt.Int("attempted", report.Attempted).Int("imported", report.Imported).Msg("importación finalizada")
	return report, nil
}
