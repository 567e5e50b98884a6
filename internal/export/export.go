// Package export renders packing results as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/container-packing/internal/service"
)

const (
	summarySheet  = "Summary"
	maxSheetName  = 31
	placedHeader  = "Packed items"
	missingHeader = "Unpacked items"
)

var summaryColumns = []any{
	"Container", "Algorithm", "Complete", "Packed", "Unpacked",
	"Container volume %", "Item volume %", "Item weight %", "Pack time (ms)",
}

var itemColumns = []any{
	"Item", "X", "Y", "Z", "Dim X", "Dim Y", "Dim Z", "Weight",
}

// WriteWorkbook writes a summary sheet followed by one sheet per container and
// algorithm. runID is stored in the workbook properties.
func WriteWorkbook(w io.Writer, results []service.ContainerPackingResult, runID string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Container packing results",
		Identifier: runID,
	}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}

	if err := setRow(f, summarySheet, 1, summaryColumns...); err != nil {
		return err
	}

	row := 2
	used := make(map[string]struct{})
	for _, cr := range results {
		for _, ar := range cr.AlgorithmPackingResults {
			if err := setRow(f, summarySheet, row,
				cr.ContainerID, ar.AlgorithmName, ar.IsCompletePack,
				len(ar.PackedItems), len(ar.UnpackedItems),
				ar.PercentContainerVolumePacked, ar.PercentItemVolumePacked, ar.PercentItemWeightPacked,
				ar.PackTimeInMilliseconds,
			); err != nil {
				return err
			}
			row++

			name := sheetName(used, cr.ContainerID, ar.AlgorithmName)
			if err := writeResultSheet(f, name, ar); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeResultSheet(f *excelize.File, name string, ar service.AlgorithmPackingResult) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}

	row := 1
	if err := setRow(f, name, row, placedHeader); err != nil {
		return err
	}
	row++
	if err := setRow(f, name, row, itemColumns...); err != nil {
		return err
	}
	row++
	for _, item := range ar.PackedItems {
		if err := setRow(f, name, row,
			item.ID, item.CoordX, item.CoordY, item.CoordZ,
			item.PackDimX, item.PackDimY, item.PackDimZ, item.Weight,
		); err != nil {
			return err
		}
		row++
	}

	row++
	if err := setRow(f, name, row, missingHeader); err != nil {
		return err
	}
	row++
	if err := setRow(f, name, row, "Item", "Dim 1", "Dim 2", "Dim 3", "Weight"); err != nil {
		return err
	}
	row++
	for _, item := range ar.UnpackedItems {
		if err := setRow(f, name, row, item.ID, item.Dim1, item.Dim2, item.Dim3, item.Weight); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell reference: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// sheetName returns a unique sheet name for a container and algorithm pair.
// Names are cut to the sheet name limit before any " (n)" suffix is added.
func sheetName(used map[string]struct{}, containerID int, algorithm string) string {
	base := fmt.Sprintf("%d %s", containerID, algorithm)
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}

	name := base
	for n := 2; ; n++ {
		if _, taken := used[name]; !taken {
			break
		}
		suffix := fmt.Sprintf(" (%d)", n)
		name = base[:min(len(base), maxSheetName-len(suffix))] + suffix
	}
	used[name] = struct{}{}
	return name
}
