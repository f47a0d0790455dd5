package report

import (
	"bytes"
	"fmt"
	"pms/internal/domains/booking/availability"
	"pms/internal/domains/booking/model"
	"pms/shared/constant"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetBookings = "Reservas"
	SheetSummary  = "Resumen"

	defaultSheet = "Sheet1"
)

var bookingHeaders = []string{
	"Código", "Estado", "Entrada", "Salida", "Noches", "Habitación", "Huéspedes", "Cliente", "Email", "Teléfono", "Total",
}

var columnWidths = []float64{12, 12, 12, 12, 8, 20, 10, 28, 30, 18, 12}

// Summary totals the bookings of a report. Cancelled bookings are counted but not invoiced.
type Summary struct {
	From      time.Time
	To        time.Time
	Bookings  int
	Active    int
	Cancelled int
	Nights    int
	Invoiced  decimal.Decimal
}

func Summarize(from, to time.Time, bookings []model.Booking) Summary {
	summary := Summary{From: from, To: to, Bookings: len(bookings), Invoiced: decimal.Zero}

	for _, booking := range bookings {
		if !booking.IsActive() {
			summary.Cancelled++

			continue
		}

		summary.Active++
		summary.Nights += nights(booking)
		summary.Invoiced = summary.Invoiced.Add(booking.Total)
	}

	return summary
}

// Build renders the bookings and their summary as an xlsx workbook.
func Build(summary Summary, bookings []model.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetBookings)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err = f.DeleteSheet(defaultSheet); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err = writeRow(f, SheetBookings, 1, toAny(bookingHeaders)); err != nil {
		return nil, err
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(bookingHeaders), 1)
	if err = f.SetCellStyle(SheetBookings, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err = f.SetColWidth(SheetBookings, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, booking := range bookings {
		if err = writeRow(f, SheetBookings, i+2, bookingRow(booking)); err != nil {
			return nil, err
		}
	}

	if err = f.SetPanes(SheetBookings, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	if err = writeSummary(f, summary, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err = f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, summary Summary, labelStyle int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	invoiced, _ := summary.Invoiced.Float64()

	rows := [][]any{
		{"Desde", summary.From.Format(constant.DayFormat)},
		{"Hasta", summary.To.Format(constant.DayFormat)},
		{"Reservas", summary.Bookings},
		{"Nuevas", summary.Active},
		{"Canceladas", summary.Cancelled},
		{"Noches", summary.Nights},
		{"Facturado", invoiced},
	}

	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), labelStyle); err != nil {
		return fmt.Errorf("failed to set summary style: %w", err)
	}

	if err := f.SetColWidth(SheetSummary, "A", "B", 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	return nil
}

func bookingRow(booking model.Booking) []any {
	total, _ := booking.Total.Float64()

	return []any{
		booking.Code,
		model.StateLabel(booking.State),
		booking.CheckIn.Format(constant.DayFormat),
		booking.CheckOut.Format(constant.DayFormat),
		nights(booking),
		deref(booking.RoomName),
		booking.Guests,
		deref(booking.CustomerName),
		deref(booking.CustomerEmail),
		deref(booking.CustomerPhone),
		total,
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}

	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	return nil
}

func nights(booking model.Booking) int {
	return availability.NewDateRange(booking.CheckIn, booking.CheckOut).Nights()
}

func deref(value *string) string {
	if value == nil {
		return constant.Empty
	}

	return *value
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}
