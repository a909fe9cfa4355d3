package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"customer-nav/internal/models"
)

// Customer sheet columns: A id, B name, C latitude, D longitude. Row 1 is a header.
const (
	colID = iota
	colName
	colLat
	colLon
	minCols
)

func parseCoord(val string) (float64, error) {
	// decimal comma locales
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseFloat(val, 64)
}

func OpenFile(filename string) (*excelize.File, error) {
	return excelize.OpenFile(filename)
}

func OpenReader(r io.Reader) (*excelize.File, error) {
	return excelize.OpenReader(r)
}

// ReadCustomers reads customer rows from sheetName. Rows with a missing or
// non-integer id or unparseable coordinates are skipped and reported through skip.
func ReadCustomers(f *excelize.File, sheetName string, skip func(row int, reason string)) ([]models.Customer, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if skip == nil {
		skip = func(int, string) {}
	}

	var customers []models.Customer
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < minCols {
			skip(i+1, "not enough columns")
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[colID]))
		if err != nil {
			skip(i+1, "invalid id")
			continue
		}
		lat, err1 := parseCoord(row[colLat])
		lon, err2 := parseCoord(row[colLon])
		if err1 != nil || err2 != nil {
			skip(i+1, "invalid coordinates")
			continue
		}

		customers = append(customers, models.Customer{
			ID:        id,
			Name:      strings.TrimSpace(row[colName]),
			Latitude:  lat,
			Longitude: lon,
		})
	}
	return customers, nil
}

// WriteRoute writes the route legs as a single sheet workbook to w.
func WriteRoute(w io.Writer, legs []models.RouteLeg, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	headers := []interface{}{
		"Leg", "From Lat", "From Lon",
		"Customer ID", "Customer Name", "To Lat", "To Lon",
		"Distance (m)",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	total := 0
	for i, l := range legs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			l.Index + 1, l.From.Lat, l.From.Lon,
			l.ToID, l.ToName, l.To.Lat, l.To.Lon,
			l.Distance,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
		total += l.Distance
	}

	cell, _ := excelize.CoordinatesToCellName(1, len(legs)+2)
	if err := sw.SetRow(cell, []interface{}{"Total", nil, nil, nil, nil, nil, nil, total}); err != nil {
		return err
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

// WriteCustomers builds a customer workbook in the layout ReadCustomers expects.
func WriteCustomers(w io.Writer, customers []models.Customer, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]interface{}{"ID", "Name", "Latitude", "Longitude"}); err != nil {
		return err
	}
	for i, c := range customers {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &[]interface{}{c.ID, c.Name, c.Latitude, c.Longitude}); err != nil {
			return err
		}
	}
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
