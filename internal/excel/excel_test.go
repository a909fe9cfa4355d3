package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"customer-nav/internal/models"
)

func TestReadCustomersSkipsBadRows(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	rows := [][]interface{}{
		{"ID", "Name", "Latitude", "Longitude"},
		{"1", "Customer A", "6.9271", "79.8612"},
		{"x", "bad id", "1", "1"},
		{"2", "Customer B", "6,9147", "79,9733"},
		{"3", "short"},
		{"4", "bad coords", "north", "1"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	var skipped []int
	customers, err := ReadCustomers(f, "Sheet1", func(row int, _ string) { skipped = append(skipped, row) })
	require.NoError(t, err)
	require.Equal(t, []models.Customer{
		{ID: 1, Name: "Customer A", Latitude: 6.9271, Longitude: 79.8612},
		{ID: 2, Name: "Customer B", Latitude: 6.9147, Longitude: 79.9733},
	}, customers)
	require.Equal(t, []int{3, 5, 6}, skipped)

	_, err = ReadCustomers(f, "Missing", nil)
	require.Error(t, err)
}

func TestWriteCustomersReadsBack(t *testing.T) {
	in := []models.Customer{
		{ID: 7, Name: "Seven", Latitude: 1.5, Longitude: -2.25},
		{ID: 3, Name: "Three", Latitude: 0, Longitude: 10},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCustomers(&buf, in, "Customers"))

	f, err := OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	out, err := ReadCustomers(f, "Customers", nil)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestWriteRoute(t *testing.T) {
	legs := []models.RouteLeg{
		{Index: 0, ToID: 1, ToName: "A", Distance: 100},
		{Index: 1, ToID: 2, ToName: "B", Distance: 250},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteRoute(&buf, legs, "Route"))

	f, err := OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows("Route")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "Leg", rows[0][0])
	require.Equal(t, "B", rows[2][4])
	require.Equal(t, "Total", rows[3][0])
	require.Equal(t, "350", rows[3][7])
	require.Equal(t, []string{"Route"}, f.GetSheetList())
}
