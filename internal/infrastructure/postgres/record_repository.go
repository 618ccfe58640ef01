package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
	"github.com/jhoicas/gestor-inventario/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordRepo)(nil)

// RecordRepo implementación del almacén remoto sobre la tabla inventory_records.
// Cada fila pertenece a un usuario (user_email); el orden de la colección es created_at.
type RecordRepo struct {
	q Querier
}

// NewRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecordRepository(q Querier) *RecordRepo {
	return &RecordRepo{q: q}
}

// List devuelve los documentos del usuario en orden de creación.
func (r *RecordRepo) List(ctx context.Context, user string) ([]entity.InventoryRecord, error) {
	query := `
		SELECT id, name, category, quantity, price, supplier_email, date_in
		FROM inventory_records WHERE user_email = $1
		ORDER BY created_at, seq`
	rows, err := r.q.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("list inventory_records: %w", err)
	}
	defer rows.Close()

	var list []entity.InventoryRecord
	for rows.Next() {
		var (
			rec    entity.InventoryRecord
			price  decimal.Decimal
			dateIn *time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Category, &rec.Quantity, &price, &rec.SupplierEmail, &dateIn); err != nil {
			return nil, fmt.Errorf("scan inventory_record: %w", err)
		}
		rec.Price = price
		if dateIn != nil {
			rec.DateIn = dateIn.Format(entity.DateLayout)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory_records: %w", err)
	}
	return list, nil
}

// Create inserta un documento nuevo y devuelve su UUID.
func (r *RecordRepo) Create(ctx context.Context, user string, fields entity.RecordFields) (string, error) {
	dateIn, err := parseDateIn(fields.DateIn)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	query := `
		INSERT INTO inventory_records (id, user_email, name, category, quantity, price, supplier_email, date_in, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		id, user, fields.Name, fields.Category, fields.Quantity, fields.Price,
		fields.SupplierEmail, dateIn, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("insert inventory_record: %w", err)
	}
	return id, nil
}

// Update reemplaza todos los campos del documento.
func (r *RecordRepo) Update(ctx context.Context, user, id string, fields entity.RecordFields) error {
	dateIn, err := parseDateIn(fields.DateIn)
	if err != nil {
		return err
	}
	query := `
		UPDATE inventory_records
		SET name = $3, category = $4, quantity = $5, price = $6, supplier_email = $7, date_in = $8, updated_at = $9
		WHERE user_email = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		user, id, fields.Name, fields.Category, fields.Quantity, fields.Price,
		fields.SupplierEmail, dateIn, time.Now(),
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return fmt.Errorf("update inventory_record: id inválido %q", id)
		}
		return fmt.Errorf("update inventory_record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update inventory_record: %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// Delete elimina el documento. Borrar un documento inexistente no es error.
func (r *RecordRepo) Delete(ctx context.Context, user, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM inventory_records WHERE user_email = $1 AND id = $2`, user, id)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return fmt.Errorf("delete inventory_record: id inválido %q", id)
		}
		return fmt.Errorf("delete inventory_record: %w", err)
	}
	return nil
}

// parseDateIn convierte YYYY-MM-DD a DATE; vacío se guarda como NULL.
func parseDateIn(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("date_in inválida %q: %w", s, err)
	}
	return &t, nil
}
