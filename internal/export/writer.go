package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// sheetWriter appends rows to sheets of an excelize workbook.
type sheetWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
	headerStyle  int
	blockedStyle int
}

func newSheetWriter() (*sheetWriter, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	blocked, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "808080"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"EEEEEE"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("blocked style: %w", err)
	}

	return &sheetWriter{file: f, headerStyle: header, blockedStyle: blocked}, nil
}

// addSheet starts a new sheet; the workbook's default sheet is reused for the first one.
func (w *sheetWriter) addSheet(name string) error {
	// Excel limits sheet names to 31 characters.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *sheetWriter) writeHeader(columns []string) error {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	return w.writeStyledRow(row, w.headerStyle)
}

func (w *sheetWriter) writeRow(row []any, blocked bool) error {
	style := 0
	if blocked {
		style = w.blockedStyle
	}
	return w.writeStyledRow(row, style)
}

func (w *sheetWriter) writeStyledRow(row []any, style int) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	start, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.currentSheet, start, &row); err != nil {
		return err
	}
	if style != 0 {
		end, err := excelize.CoordinatesToCellName(len(row), w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellStyle(w.currentSheet, start, end, style); err != nil {
			return err
		}
	}

	w.currentRow++
	return nil
}

func (w *sheetWriter) save(out io.Writer) error {
	return w.file.Write(out)
}

func (w *sheetWriter) close() error {
	return w.file.Close()
}
