package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// SlicePositions returns the vertical offset of an image of height imgH on
// each page of height pageH: the first page shows the top, every following
// page shifts the image up by one page.
func SlicePositions(imgH, pageH float64) []float64 {
	positions := []float64{0}
	left := imgH - pageH
	for left >= 0 {
		positions = append(positions, left-imgH)
		left -= pageH
	}
	return positions
}

// WritePDF renders rep on A4 pages: summary tables first, then the monthly
// chart sliced over as many pages as it needs, then the record tables.
func WritePDF(w io.Writer, rep Report) error {
	var chart []byte
	if len(rep.Monthly) > 0 {
		png, err := RenderChart(rep.Monthly)
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		chart = png
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Financial Report", true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Financial Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, rep.Range.String(), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	table(pdf, tr, "Summary", []string{"Figure", "Amount"}, [][]string{
		{"Total income", rep.Display["total_income"]},
		{"Total expenses", rep.Display["total_expenses"]},
		{"Net profit", rep.Display["net_profit"]},
		{"Total sales revenue", rep.Display["total_sales_revenue"]},
	})

	var cats [][]string
	for _, c := range rep.Categories {
		cats = append(cats, []string{c.Category, c.Amount.StringFixed(2)})
	}
	table(pdf, tr, "Expenses by category", []string{"Category", "Amount"}, cats)

	var months [][]string
	for _, m := range rep.Monthly {
		months = append(months, []string{m.Label, m.Income.StringFixed(2), m.Expense.StringFixed(2), m.Net.StringFixed(2)})
	}
	table(pdf, tr, "Monthly", []string{"Month", "Income", "Expense", "Net"}, months)

	if chart != nil {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		info := pdf.RegisterImageOptionsReader("monthly-chart", opts, bytes.NewReader(chart))
		if pdf.Err() {
			return pdf.Error()
		}
		pageW, pageH := pdf.GetPageSize()
		scaledH := info.Height() * pageW / info.Width()
		for _, y := range SlicePositions(scaledH, pageH) {
			pdf.AddPage()
			pdf.ImageOptions("monthly-chart", 0, y, pageW, scaledH, false, opts, 0, "")
		}
	}

	pdf.AddPage()
	var income [][]string
	for _, i := range rep.Income {
		income = append(income, []string{i.Date, i.Source, i.Description, i.Amount.StringFixed(2)})
	}
	table(pdf, tr, "Income", []string{"Date", "Source", "Description", "Amount"}, income)

	var expenses [][]string
	for _, e := range rep.Expenses {
		expenses = append(expenses, []string{e.Date, e.Category, e.Description, e.Amount.StringFixed(2)})
	}
	table(pdf, tr, "Expenses", []string{"Date", "Category", "Description", "Amount"}, expenses)

	var sales [][]string
	for _, s := range rep.Sales {
		sales = append(sales, []string{s.Date, s.CustomerName, s.ItemSold, strconv.Itoa(s.Quantity), s.TotalAmount.StringFixed(2)})
	}
	table(pdf, tr, "Sales", []string{"Date", "Customer", "Item", "Qty", "Total"}, sales)

	return pdf.Output(w)
}

func table(pdf *fpdf.Fpdf, tr func(string) string, title string, header []string, rows [][]string) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(header))

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range header {
		pdf.CellFormat(colW, 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(rows) == 0 {
		pdf.CellFormat(colW*float64(len(header)), 7, "No data for this range.", "1", 1, "L", false, 0, "")
	}
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(colW, 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(5)
}

// WriteXLSX writes one sheet per dataset.
func WriteXLSX(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	rows := [][]any{
		{"Range", rep.Range.String()},
		{"Total income", rep.TotalIncome.InexactFloat64()},
		{"Total expenses", rep.TotalExpenses.InexactFloat64()},
		{"Net profit", rep.NetProfit.InexactFloat64()},
		{"Total sales revenue", rep.TotalSalesRevenue.InexactFloat64()},
	}
	if err := writeRows(f, summary, []any{"Figure", "Value"}, rows); err != nil {
		return err
	}

	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{"Categories", []any{"Category", "Amount"}, nil},
		{"Monthly", []any{"Month", "Income", "Expense", "Net"}, nil},
		{"Income", []any{"Date", "Source", "Description", "Amount"}, nil},
		{"Expenses", []any{"Date", "Category", "Description", "Amount"}, nil},
		{"Sales", []any{"Date", "Customer", "Item", "Quantity", "Unit price", "Total"}, nil},
	}
	for _, c := range rep.Categories {
		sheets[0].rows = append(sheets[0].rows, []any{c.Category, c.Amount.InexactFloat64()})
	}
	for _, m := range rep.Monthly {
		sheets[1].rows = append(sheets[1].rows, []any{m.Label, m.Income.InexactFloat64(), m.Expense.InexactFloat64(), m.Net.InexactFloat64()})
	}
	for _, i := range rep.Income {
		sheets[2].rows = append(sheets[2].rows, []any{i.Date, i.Source, i.Description, i.Amount.InexactFloat64()})
	}
	for _, e := range rep.Expenses {
		sheets[3].rows = append(sheets[3].rows, []any{e.Date, e.Category, e.Description, e.Amount.InexactFloat64()})
	}
	for _, s := range rep.Sales {
		sheets[4].rows = append(sheets[4].rows, []any{s.Date, s.CustomerName, s.ItemSold, s.Quantity, s.UnitPrice.InexactFloat64(), s.TotalAmount.InexactFloat64()})
	}

	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeRows(f, s.name, s.header, s.rows); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
