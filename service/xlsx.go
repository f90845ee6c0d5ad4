package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"expensetracker/models"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Expenses"

// ExportXLSX 导出用户全部消费记录为 Excel，列与 CSV 一致，末行合计
func (s *ExpenseIO) ExportXLSX(ctx context.Context, userID string) ([]byte, error) {
	expenses, err := s.userExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildXLSX(expenses)
}

func BuildXLSX(expenses []models.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{Border: border})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: border,
	})

	widths := []float64{30, 12, 16, 26, 24, 40}
	for i, w := range widths {
		col := string(rune('A' + i))
		_ = f.SetColWidth(xlsxSheet, col, col, w)
	}

	for i, header := range CSVHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		_ = f.SetCellValue(xlsxSheet, cell, header)
		_ = f.SetCellStyle(xlsxSheet, cell, cell, headerStyle)
	}

	var total float64
	for i, e := range expenses {
		row := i + 2
		_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("A%d", row), e.Title)
		_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("B%d", row), e.Amount)
		_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("C%d", row), e.Category)
		_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("D%d", row), e.Date.UTC().Format(isoMillis))
		_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("E%d", row), strings.Join(e.Tags, ";"))
		_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("F%d", row), e.Note)
		_ = f.SetCellStyle(xlsxSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)
		total += e.Amount
	}

	summaryRow := len(expenses) + 2
	_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("A%d", summaryRow), "Total")
	_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("B%d", summaryRow), total)
	_ = f.SetCellValue(xlsxSheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("%d expenses", len(expenses)))
	_ = f.SetCellStyle(xlsxSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "write xlsx")
	}
	return buf.Bytes(), nil
}
