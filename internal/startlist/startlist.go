// Package startlist renders the heats of a round as an Excel workbook for
// the call room and announcers.
package startlist

import (
	"fmt"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Start List"
	fontFamily   = "Arial"
)

var laneHeaders = []string{"Lane", "Bib", "Name", "Club", "Seed", "Rank", "Present"}

// Generate builds a workbook with one summary sheet listing every heat and
// one sheet per heat.
func Generate(event *domain.Event, round domain.Round, heats []*domain.Heat) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont(fontFamily)

	styles, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("creating styles: %w", err)
	}

	if err := writeSummary(f, styles, event, round, heats); err != nil {
		return nil, fmt.Errorf("writing summary sheet: %w", err)
	}

	for _, heat := range heats {
		if err := writeHeatSheet(f, styles, heat); err != nil {
			return nil, fmt.Errorf("writing heat %d: %w", heat.HeatNumber, err)
		}
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// HeatSheetName is the sheet name used for a heat
func HeatSheetName(heatNumber int) string {
	return fmt.Sprintf("Heat %d", heatNumber)
}

type styles struct {
	title  int
	header int
	absent int
}

func newStyles(f *excelize.File) (*styles, error) {
	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Family: fontFamily},
	})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Family: fontFamily},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	absent, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Strike: true, Color: "#9C0006", Family: fontFamily},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
	})
	if err != nil {
		return nil, err
	}
	return &styles{title: title, header: header, absent: absent}, nil
}

func writeSummary(f *excelize.File, st *styles, event *domain.Event, round domain.Round, heats []*domain.Heat) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	if err := f.SetCellValue(summarySheet, "A1", fmt.Sprintf("%s - %s", event.Name, round)); err != nil {
		return err
	}
	f.SetCellStyle(summarySheet, "A1", "A1", st.title)

	headers := append([]string{"Heat"}, laneHeaders...)
	if err := writeRow(f, summarySheet, 3, headers); err != nil {
		return err
	}
	setRowStyle(f, summarySheet, 3, len(headers), st.header)

	row := 4
	for _, heat := range heats {
		for _, a := range heat.Assignments {
			values := append([]any{heat.HeatNumber}, laneValues(a)...)
			if err := writeRow(f, summarySheet, row, values); err != nil {
				return err
			}
			if !a.IsPresent {
				setRowStyle(f, summarySheet, row, len(values), st.absent)
			}
			row++
		}
	}

	setColumnWidths(f, summarySheet, []float64{6, 6, 6, 28, 24, 10, 6, 9})
	return nil
}

func writeHeatSheet(f *excelize.File, st *styles, heat *domain.Heat) error {
	sheet := HeatSheetName(heat.HeatNumber)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	title := fmt.Sprintf("%s, %d lanes", sheet, heat.MaxLanes)
	if heat.ScheduledTime != nil {
		title += ", " + heat.ScheduledTime.Format("15:04")
	}
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", "A1", st.title)

	if err := writeRow(f, sheet, 3, laneHeaders); err != nil {
		return err
	}
	setRowStyle(f, sheet, 3, len(laneHeaders), st.header)

	for i, a := range heat.Assignments {
		values := laneValues(a)
		if err := writeRow(f, sheet, i+4, values); err != nil {
			return err
		}
		if !a.IsPresent {
			setRowStyle(f, sheet, i+4, len(values), st.absent)
		}
	}

	if heat.Notes != nil && *heat.Notes != "" {
		notesRow := len(heat.Assignments) + 5
		cell, _ := excelize.CoordinatesToCellName(1, notesRow)
		if err := f.SetCellValue(sheet, cell, "Notes: "+*heat.Notes); err != nil {
			return err
		}
	}

	setColumnWidths(f, sheet, []float64{6, 6, 28, 24, 10, 6, 9})
	return nil
}

func laneValues(a domain.HeatAssignment) []any {
	var bib, name, club, seed string
	if a.SeedTime != nil {
		seed = *a.SeedTime
	}
	if reg := a.Registration; reg != nil {
		bib = reg.BibNumber
		if reg.Athlete != nil {
			name = reg.Athlete.FullName()
			club = reg.Athlete.Club
		}
	}
	present := "yes"
	if !a.IsPresent {
		present = "no"
	}
	return []any{a.Lane, bib, name, club, seed, a.SeedRank, present}
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func setRowStyle(f *excelize.File, sheet string, row, cols, style int) {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	f.SetCellStyle(sheet, first, last, style)
}

func setColumnWidths(f *excelize.File, sheet string, widths []float64) {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}
