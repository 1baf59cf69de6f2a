package infra

// remito_pdf.go: delivery note for a salida masiva using go-pdf/fpdf.
// One A4 page (fpdf paginates on overflow) with:
//   - company header and batch data
//   - one row per dispatched afilado (codigo, estado, fecha de afilado)
//   - signature lines for the branch

import (
	"fmt"
	"io"

	"austech/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarRemitoPDF writes the remito of a salida masiva to w. Detalles must be
// loaded with their Afilado and Sierra.
func GenerarRemitoPDF(w io.Writer, empresa string, salida *model.SalidaMasiva) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(empresa), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Remito de salida de sierras afiladas", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Batch data ────────────────────────────────────────────────────────────
	sucursal := salida.SucursalID.String()
	if salida.Sucursal != nil {
		sucursal = salida.Sucursal.Nombre
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, tr("Salida N° "+salida.ID.String()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("Sucursal: "+sucursal), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Fecha de salida: "+salida.FechaSalida.Format("02/01/2006"), "", 1, "L", false, 0, "")
	if salida.Observaciones != nil && *salida.Observaciones != "" {
		pdf.MultiCell(contentW, 5, tr("Observaciones: "+*salida.Observaciones), "", "L", false)
	}
	pdf.Ln(3)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.10 // #
	col2 := contentW * 0.40 // codigo
	col3 := contentW * 0.25 // estado
	col4 := contentW * 0.25 // fecha afilado

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(col1, 6, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(col2, 6, "Codigo de sierra", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col3, 6, "Estado", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col4, 6, "Fecha afilado", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, d := range salida.Detalles {
		codigo, estado, fecha := d.AfiladoID.String(), "", ""
		if d.Afilado != nil {
			estado = d.Afilado.Estado
			fecha = d.Afilado.FechaAfilado.Format("02/01/2006")
			if d.Afilado.Sierra != nil {
				codigo = d.Afilado.Sierra.CodigoBarras
			}
		}
		pdf.CellFormat(col1, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(col2, 6, tr(codigo), "1", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, estado, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 6, fecha, "1", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2+col3, 6, "Total de sierras", "1", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, fmt.Sprintf("%d", len(salida.Detalles)), "1", 1, "C", false, 0, "")

	// ── Signatures ────────────────────────────────────────────────────────────
	pdf.Ln(20)
	half := contentW / 2
	y := pdf.GetY()
	pdf.Line(20, y, 15+half-10, y)
	pdf.Line(15+half+10, y, pageW-20, y)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(half, 5, "Entrega", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, "Recibe (sucursal)", "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("remito pdf: %w", err)
	}
	return nil
}
