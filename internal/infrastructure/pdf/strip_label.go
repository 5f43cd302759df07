// Package pdf genera la etiqueta imprimible de una tira.
//
// Layout A6 vertical:
//
//	┌───────────────────────────────┐
//	│  Empresa         N° de lote   │
//	│  Medicamento + fórmula        │
//	│  ───────────────────────────  │
//	│  Potencia | Precio | Estado   │
//	│  Fabricación | Vencimiento    │
//	│  ───────────────────────────  │
//	│  QR del código  + código      │
//	│  Transacción en el ledger     │
//	└───────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/medtrack/internal/application/ports"
	"github.com/jhoicas/medtrack/internal/domain/entity"
)

var _ ports.LabelGenerator = (*LabelGenerator)(nil)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 92, Blue: 75}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// LabelGenerator implementa ports.LabelGenerator usando Maroto v2.
type LabelGenerator struct{}

// NewLabelGenerator construye el generador.
func NewLabelGenerator() *LabelGenerator { return &LabelGenerator{} }

// GenerateStripLabel genera la etiqueta y devuelve los bytes del PDF.
func (g *LabelGenerator) GenerateStripLabel(_ context.Context, strip *entity.Strip, medicine *entity.Medicine) ([]byte, error) {
	if strip == nil {
		return nil, fmt.Errorf("pdf: tira nula")
	}
	if medicine == nil {
		medicine = &entity.Medicine{ID: strip.MedicineID}
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A6).
		WithLeftMargin(6).WithRightMargin(6).
		WithTopMargin(6).WithBottomMargin(6).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta "+strip.Code, true).
		WithAuthor(nonEmpty(medicine.CompanyName, "medtrack"), true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(strip, medicine))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(dataRows(strip)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(codeRows(strip)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(strip *entity.Strip, med *entity.Medicine) core.Row {
	return row.New(20).Add(
		col.New(8).Add(
			text.New(nonEmpty(med.CompanyName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(med.Name, "Medicamento "+med.ID), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 8,
			}),
			text.New(nonEmpty(med.Formula, "-"), props.Text{
				Size: 7, Top: 14, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("LOTE", props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Color: colorGray, Top: 1,
			}),
			text.New(strip.Data.BatchNumber, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 6,
			}),
		),
	)
}

func dataRows(strip *entity.Strip) []core.Row {
	cell := func(label, value string, size int, c *props.Color) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{Size: 6.5, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 8.5, Top: 5, Color: c}),
		)
	}
	statusColor := colorPrimary
	if strip.Data.Status != entity.StripActive {
		statusColor = colorAlert
	}
	rows := []core.Row{
		row.New(12).Add(
			cell("Potencia", formatPower(strip.Data.Power), 4, nil),
			cell("Precio", "$"+formatPrice(strip.Data.Price.StringFixed(2)), 4, nil),
			cell("Estado", strings.ToUpper(string(strip.Data.Status)), 4, statusColor),
		),
		row.New(12).Add(
			cell("Fabricación", strip.Data.ManufacturingDate.Format("02/01/2006"), 6, nil),
			cell("Vencimiento", strip.Data.ExpiryDate.Format("02/01/2006"), 6, nil),
		),
	}
	if strip.Data.Description != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New(strip.Data.Description, props.Text{Size: 7, Top: 1, Color: colorGray}),
		)))
	}
	return rows
}

// codeRows: QR con el código de la tira y el id de transacción partido.
func codeRows(strip *entity.Strip) []core.Row {
	rows := []core.Row{
		row.New(38).Add(
			col.New(5).Add(code.NewQr(strip.Code, props.Rect{Percent: 95, Center: true})),
			col.New(7).Add(
				text.New("CÓDIGO DE VERIFICACIÓN", props.Text{
					Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 6, Left: 2,
				}),
				text.New(strip.Code, props.Text{
					Style: fontstyle.Bold, Size: 12, Top: 13, Left: 2,
				}),
				text.New("Escanee el QR para verificar\nla autenticidad de la tira.", props.Text{
					Size: 7, Top: 22, Left: 2, Color: colorGray,
				}),
			),
		),
	}
	if strip.TransactionID != "" {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New("Transacción:", props.Text{Style: fontstyle.Bold, Size: 6.5, Top: 0.5}),
		)))
		for _, chunk := range splitEvery(strip.TransactionID, 34) {
			rows = append(rows, row.New(3.5).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 6, Color: colorGray, Left: 2}),
			)))
		}
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatPower(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + " mg"
}

// formatPrice toma "1234567.50" y devuelve "1.234.567,50".
func formatPrice(s string) string {
	intPart, decPart, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	out := formatThousands(intPart)
	if decPart != "" {
		out += "," + decPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
