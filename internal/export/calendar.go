// Package export renders availability calendars as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"prokat/internal/calendar"
)

// ContentType of the workbook produced by WriteCalendar.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var columns = []string{"Дата", "День недели", "Статус", "Доступно", "Примечание"}

var weekdays = [...]string{
	time.Sunday:    "Воскресенье",
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
}

// WriteCalendar writes days as an xlsx workbook with one sheet per month ("2025-06").
func WriteCalendar(out io.Writer, days []calendar.DayInfo) error {
	w, err := newSheetWriter()
	if err != nil {
		return err
	}
	defer func() { _ = w.close() }()

	if len(days) == 0 {
		if err := w.addSheet("empty"); err != nil {
			return err
		}
		if err := w.writeHeader(columns); err != nil {
			return err
		}
		return w.save(out)
	}

	month := ""
	for _, d := range days {
		name := fmt.Sprintf("%04d-%02d", d.Date.Year, int(d.Date.Month))
		if name != month {
			if err := w.addSheet(name); err != nil {
				return err
			}
			if err := w.writeHeader(columns); err != nil {
				return fmt.Errorf("sheet %s header: %w", name, err)
			}
			month = name
		}

		row := []any{
			d.Date.String(),
			weekdays[d.Date.Weekday()],
			strings.Join(d.Class.Names(), ", "),
			yesNo(d.Selectable),
			hint(d),
		}
		if err := w.writeRow(row, !d.Selectable); err != nil {
			return fmt.Errorf("sheet %s row %s: %w", name, d.Date, err)
		}
	}

	return w.save(out)
}

func yesNo(v bool) string {
	if v {
		return "да"
	}
	return "нет"
}

func hint(d calendar.DayInfo) string {
	var parts []string
	if d.PickupFrom > 0 {
		parts = append(parts, fmt.Sprintf("выдача с %02d:00", d.PickupFrom))
	}
	if d.ReturnBy > 0 {
		parts = append(parts, fmt.Sprintf("возврат до %02d:00", d.ReturnBy))
	}
	return strings.Join(parts, "; ")
}
