// Package pdf genera la versión imprimible del inventario de un usuario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Inventario + usuario │ Fecha de generación          │
//	│  FILTRO: búsqueda / categoría                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Nombre | Categoría | Cant | Precio | Proveedor | Fecha│
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESGLOSE: categoría | unidades | valor                     │
//	│  TOTALES: N unidades / Valor: $X                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

var _ inventory.ReportGenerator = (*MarotoReportGenerator)(nil)

// GenerateInventoryPDF genera el PDF de la vista filtrada y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateInventoryPDF(
	_ context.Context,
	user string,
	view inventory.View,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventario", true).
		WithAuthor(user, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(user, generatedAt))
	m.AddRows(filterRow(view))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(view.Records) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(text.New(view.EmptyMessage, props.Text{
			Size: 10, Align: align.Center, Top: 4, Color: colorGray,
		}))))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableDetailRows(view.Records)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(categoryRows(view.ByCategory)...)
	m.AddRows(totalsRow(view))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(user string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(user, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// filterRow describe el filtro activo; sin filtro se imprime "Todos los ítems".
func filterRow(view inventory.View) core.Row {
	desc := "Todos los ítems"
	switch {
	case view.SearchText != "" && view.Category != "":
		desc = fmt.Sprintf("Búsqueda: %q   |   Categoría: %s", view.SearchText, view.Category)
	case view.SearchText != "":
		desc = fmt.Sprintf("Búsqueda: %q", view.SearchText)
	case view.Category != "":
		desc = "Categoría: " + view.Category
	}
	return row.New(7).Add(col.New(12).Add(text.New(desc, props.Text{Size: 8, Top: 1, Color: colorGray})))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Nombre", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio", 2, align.Right),
		h("Proveedor", 3, align.Left),
		h("Ingreso", 1, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por ítem de la vista.
func tableDetailRows(records []entity.InventoryRecord) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(r.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(r.Category, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", r.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(inventory.FormatMXN(r.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(nonEmpty(r.SupplierEmail, "—"), props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(nonEmpty(r.DateIn, "—"), props.Text{Size: 7, Align: align.Center, Top: 1})),
		))
	}
	return result
}

// categoryRows: desglose por categoría, una fila por categoría presente.
func categoryRows(totals []inventory.CategoryTotal) []core.Row {
	result := make([]core.Row, 0, len(totals))
	for _, ct := range totals {
		result = append(result, row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(ct.Category, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", ct.TotalQuantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(inventory.FormatMXN(ct.TotalValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 2})),
		))
	}
	return result
}

func totalsRow(view inventory.View) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(4).Add(
			text.New(view.QuantityLabel, props.Text{Size: 9, Align: align.Right, Top: 1, Right: 2}),
			text.New(view.ValueLabel, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 5, Right: 2, Color: colorPrimary}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
