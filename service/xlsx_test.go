package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"expensetracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX([]models.Expense{
		{Title: "Coffee", Amount: 3.5, Category: "food", Date: time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC), Tags: []string{"a", "b"}, Note: "x"},
		{Title: "Rent", Amount: 1200, Category: "home", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsxSheet}, f.GetSheetList())
	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"Coffee", "3.5", "food", "2024-03-02T08:30:00.000Z", "a;b", "x"}, rows[1])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "1203.5", rows[3][1])
	assert.Equal(t, "2 expenses", rows[3][2])
}

func TestExportXLSX(t *testing.T) {
	f := newFixture()
	u := f.user(t, models.User{})
	f.expense(t, u.ID, "food", 10, day(time.March, 1))

	data, err := NewExpenseIO(f.pipeline, f.store).ExportXLSX(context.Background(), u.ID)
	require.NoError(t, err)

	x, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer x.Close()
	v, err := x.GetCellValue(xlsxSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "seed", v)
}
