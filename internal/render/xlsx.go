package render

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/glassquote/internal/pricing"
)

const sheetName = "КП"

// XLSX renders the proposal table as a single-sheet workbook.
func XLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	widths := map[string]float64{"A": 6, "B": 40, "C": 16, "D": 10, "E": 48, "F": 16}
	for c, w := range widths {
		if err := f.SetColWidth(sheetName, c, c, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#17468C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	set := func(cell string, v any) {
		if err == nil {
			err = f.SetCellValue(sheetName, cell, v)
		}
	}

	set("A1", "Коммерческое предложение № "+doc.Number)
	set("A2", doc.Company.Name)
	set("A3", "от "+doc.Date.Format("02.01.2006"))
	if err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}

	const headerRow = 5
	for i, h := range []string{"№", "Изделие", "Размер, мм", "Кол-во", "Услуги", "Сумма"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, h)
	}
	if err := f.SetCellStyle(sheetName, "A5", "F5", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	r := headerRow + 1
	for i, item := range doc.Summary.Items {
		set(fmt.Sprintf("A%d", r), i+1)
		set(fmt.Sprintf("B%d", r), ItemTitle(item))
		set(fmt.Sprintf("C%d", r), pricing.FormatNumber(item.Width)+"×"+pricing.FormatNumber(item.Height))
		set(fmt.Sprintf("D%d", r), item.Quantity)
		set(fmt.Sprintf("E%d", r), ServicesText(item))
		set(fmt.Sprintf("F%d", r), item.ItemTotal)
		r++
	}
	for _, d := range doc.Summary.Deliveries {
		set(fmt.Sprintf("B%d", r), pricing.HumanizeDeliveryLabel(d.Label))
		set(fmt.Sprintf("F%d", r), d.Price)
		r++
	}
	if err != nil {
		return nil, fmt.Errorf("write rows: %w", err)
	}
	if r > headerRow+1 {
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("F%d", headerRow+1), fmt.Sprintf("F%d", r-1), moneyStyle); err != nil {
			return nil, fmt.Errorf("style amounts: %w", err)
		}
	}

	totalCell := fmt.Sprintf("F%d", r)
	set(fmt.Sprintf("E%d", r), "Итого")
	set(totalCell, doc.Summary.Total)
	if err != nil {
		return nil, fmt.Errorf("write total: %w", err)
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("E%d", r), totalCell, totalStyle); err != nil {
		return nil, fmt.Errorf("style total: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
