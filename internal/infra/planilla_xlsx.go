package infra

import (
	"fmt"
	"io"

	"austech/internal/model"

	"github.com/xuri/excelize/v2"
)

const hojaPlanilla = "Salida"

// GenerarPlanillaXLSX writes one row per afilado of a salida masiva to w.
// Detalles must be loaded with their Afilado and Sierra.
func GenerarPlanillaXLSX(w io.Writer, salida *model.SalidaMasiva) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaPlanilla); err != nil {
		return fmt.Errorf("planilla xlsx: %w", err)
	}

	sucursal := salida.SucursalID.String()
	if salida.Sucursal != nil {
		sucursal = salida.Sucursal.Nombre
	}
	f.SetCellValue(hojaPlanilla, "A1", "Salida")
	f.SetCellValue(hojaPlanilla, "B1", salida.ID.String())
	f.SetCellValue(hojaPlanilla, "A2", "Sucursal")
	f.SetCellValue(hojaPlanilla, "B2", sucursal)
	f.SetCellValue(hojaPlanilla, "A3", "Fecha de salida")
	f.SetCellValue(hojaPlanilla, "B3", salida.FechaSalida.Format("2006-01-02"))

	header := []string{"Codigo de sierra", "Afilado", "Estado", "Fecha afilado", "Fecha salida"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(hojaPlanilla, cell, h)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetCellStyle(hojaPlanilla, "A5", "E5", bold)
		f.SetCellStyle(hojaPlanilla, "A1", "A3", bold)
	}

	for i, d := range salida.Detalles {
		row := i + 6
		codigo, estado, fechaAfilado := "", "", ""
		if d.Afilado != nil {
			estado = d.Afilado.Estado
			fechaAfilado = d.Afilado.FechaAfilado.Format("2006-01-02")
			if d.Afilado.Sierra != nil {
				codigo = d.Afilado.Sierra.CodigoBarras
			}
		}
		f.SetCellValue(hojaPlanilla, fmt.Sprintf("A%d", row), codigo)
		f.SetCellValue(hojaPlanilla, fmt.Sprintf("B%d", row), d.AfiladoID.String())
		f.SetCellValue(hojaPlanilla, fmt.Sprintf("C%d", row), estado)
		f.SetCellValue(hojaPlanilla, fmt.Sprintf("D%d", row), fechaAfilado)
		f.SetCellValue(hojaPlanilla, fmt.Sprintf("E%d", row), salida.FechaSalida.Format("2006-01-02"))
	}
	f.SetColWidth(hojaPlanilla, "A", "A", 22)
	f.SetColWidth(hojaPlanilla, "B", "B", 38)
	f.SetColWidth(hojaPlanilla, "C", "E", 16)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("planilla xlsx: %w", err)
	}
	return nil
}
