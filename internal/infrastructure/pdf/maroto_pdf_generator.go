// Package pdf genera la versión imprimible del pasaporte de una unidad.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Modelo + internal_id  │  código de barras          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: UUID / estado / serie / fecha de creación           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Etapa | Operario | Inicio | Duración | Nota      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMPONENTES: modelo + internal_id, anidados con sangría     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: CID + hash de transacción + QR del enlace público   │
//	└─────────────────────────────────────────────────────────────┘
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

	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/infrastructure/passport"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// DocumentSource arma el pasaporte en memoria (passport.YAMLBuilder lo implementa).
type DocumentSource interface {
	Document(ctx context.Context, unit *entity.Unit) (*passport.Document, error)
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPassportGenerator genera el PDF del pasaporte con Maroto v2.
type MarotoPassportGenerator struct {
	docs DocumentSource
}

func NewMarotoPassportGenerator(docs DocumentSource) *MarotoPassportGenerator {
	return &MarotoPassportGenerator{docs: docs}
}

// GeneratePassportPDF devuelve los bytes del PDF del árbol completo de la unidad.
func (g *MarotoPassportGenerator) GeneratePassportPDF(ctx context.Context, unit *entity.Unit) ([]byte, error) {
	doc, err := g.docs.Document(ctx, unit)
	if err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pasaporte de unidad "+unit.InternalID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(unitRow(doc, unit))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(stageRows(doc.Stages)...)

	if len(doc.Components) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(sectionTitle("COMPONENTES"))
		m.AddRows(componentRows(doc.Components, 0)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(unit)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc *passport.Document) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(doc.Model, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("PASAPORTE DE PRODUCCIÓN", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
			text.New("Creada: "+doc.CreatedAt, props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(code.NewBar(doc.InternalID, props.Barcode{
			Percent: 90, Center: true,
		})),
	)
}

func unitRow(doc *passport.Document, unit *entity.Unit) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DATOS DE LA UNIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Código: %s   |   UUID: %s   |   Estado: %s",
				doc.InternalID, doc.UUID, unit.Status,
			), props.Text{Size: 8, Top: 6}),
			text.New(fmt.Sprintf("N° de serie: %s   |   Tiempo total: %s",
				nonEmpty(doc.SerialNumber, "-"),
				nonEmpty(doc.TotalTime, "-"),
			), props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

// tableHeaderRow: cabecera de la biografía.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Etapa", 4, align.Left),
		h("Operario", 2, align.Left),
		h("Inicio", 2, align.Left),
		h("Duración", 2, align.Right),
		h("Nota", 1, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func stageRows(stages []passport.Stage) []core.Row {
	result := make([]core.Row, 0, len(stages))
	for i, s := range stages {
		note := ""
		if s.Premature {
			note = "rehecha"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(s.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(s.Employee, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(s.Start, "-"), props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(s.Duration, "-"), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(note, props.Text{Size: 7, Align: align.Center, Top: 1, Color: colorGray})),
		))
	}
	return result
}

// componentRows lista los componentes en preorden con sangría por nivel.
func componentRows(components []passport.Document, depth int) []core.Row {
	var rows []core.Row
	for _, c := range components {
		label := fmt.Sprintf("%s%s (%s), %d etapas", strings.Repeat("   ", depth), c.Model, c.InternalID, len(c.Stages))
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(label, props.Text{Size: 8, Top: 0.5, Left: 2}),
		)))
		rows = append(rows, componentRows(c.Components, depth+1)...)
	}
	return rows
}

// footerRows: referencias de publicación y QR del enlace si existe.
func footerRows(unit *entity.Unit) []core.Row {
	rows := []core.Row{sectionTitle("PUBLICACIÓN")}
	if unit.CertificateIPFSCID == "" {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Pasaporte aún no publicado.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}

	info := "CID: " + unit.CertificateIPFSCID
	if unit.CertificateTxnHash != "" {
		info += "\nTransacción: " + unit.CertificateTxnHash
	}
	if unit.CertificateIPFSLink == "" {
		return append(rows, row.New(10).Add(col.New(12).Add(
			text.New(info, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}
	return append(rows, row.New(50).Add(
		col.New(4).Add(code.NewQr(unit.CertificateIPFSLink, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Escanea el código QR para consultar\nel pasaporte publicado.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(info, props.Text{Size: 7, Top: 20, Left: 3}),
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
