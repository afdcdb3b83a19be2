package render

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/Simplici0/glassquote/internal/pricing"
)

const customFontFamily = "quote-font"

var (
	brandBlue  = &props.Color{Red: 23, Green: 70, Blue: 140}
	mutedGray  = &props.Color{Red: 90, Green: 90, Blue: 90}
	stripeBlue = &props.Color{Red: 235, Green: 242, Blue: 252}
	white      = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// PDF renders doc as an A4 commercial proposal and returns the file bytes.
func PDF(doc Document) ([]byte, error) {
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(10).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "{current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   mutedGray,
		})

	if doc.FontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFontFamily, fontstyle.Normal, doc.FontPath).
			AddUTF8Font(customFontFamily, fontstyle.Bold, doc.FontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("load pdf font: %w", err)
		}
		builder = builder.WithCustomFonts(fonts).WithDefaultFont(&props.Font{Family: customFontFamily})
	}

	m := maroto.New(builder.Build())

	addHeader(m, doc)
	addItemsTable(m, doc.Summary)
	addDeliveries(m, doc.Summary.Deliveries)
	addTotal(m, doc.Summary.Total)
	addTerms(m, doc)
	addWorks(m, doc.WorkPaths)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return out.GetBytes(), nil
}

func addHeader(m core.Maroto, doc Document) {
	company := doc.Company
	requisites := []string{
		company.Address,
		fmt.Sprintf("ИНН %s, БИК %s", company.INN, company.BIK),
		fmt.Sprintf("Р/с %s, К/с %s", company.RS, company.KS),
		company.Bank,
	}

	left := col.New(4)
	if doc.LogoPath != "" {
		left = image.NewFromFileCol(4, doc.LogoPath, props.Rect{Center: true, Percent: 80})
	}

	right := col.New(8).Add(text.New(company.Name, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right, Color: brandBlue}))
	top := 5.0
	for _, line := range requisites {
		right.Add(text.New(line, props.Text{Top: top, Size: 7, Align: align.Right, Color: mutedGray}))
		top += 3.5
	}

	m.AddRows(
		row.New(24).Add(left, right),
		row.New(4),
		row.New(10).Add(
			text.NewCol(12, "Коммерческое предложение № "+doc.Number, props.Text{
				Size: 14, Style: fontstyle.Bold, Align: align.Center, Color: brandBlue,
			}),
		),
		row.New(6).Add(
			text.NewCol(12, "от "+doc.Date.Format("02.01.2006"), props.Text{Size: 9, Align: align.Center, Color: mutedGray}),
		),
		row.New(4),
	)
}

func addItemsTable(m core.Maroto, summary pricing.Summary) {
	header := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: white, Top: 1.5}
	headerCell := &props.Cell{BackgroundColor: brandBlue}

	m.AddRows(row.New(8).Add(
		text.NewCol(1, "№", header).WithStyle(headerCell),
		text.NewCol(4, "Изделие", header).WithStyle(headerCell),
		text.NewCol(2, "Размер", header).WithStyle(headerCell),
		text.NewCol(1, "Кол-во", header).WithStyle(headerCell),
		text.NewCol(2, "Услуги", header).WithStyle(headerCell),
		text.NewCol(2, "Сумма", header).WithStyle(headerCell),
	))

	for i, item := range summary.Items {
		cell := &props.Cell{}
		if i%2 == 1 {
			cell.BackgroundColor = stripeBlue
		}
		base := props.Text{Size: 8, Align: align.Center, Top: 1.5}
		left := base
		left.Align = align.Left
		left.Left = 1
		right := base
		right.Align = align.Right
		right.Right = 1

		m.AddRows(row.New(10).Add(
			text.NewCol(1, fmt.Sprintf("%d", i+1), base).WithStyle(cell),
			text.NewCol(4, ItemTitle(item), left).WithStyle(cell),
			text.NewCol(2, FormatSize(item.Width, item.Height), base).WithStyle(cell),
			text.NewCol(1, fmt.Sprintf("%d", item.Quantity), base).WithStyle(cell),
			text.NewCol(2, ServicesText(item), props.Text{Size: 6, Align: align.Left, Top: 1}).WithStyle(cell),
			text.NewCol(2, FormatMoney(item.ItemTotal), right).WithStyle(cell),
		))
	}
}

func addDeliveries(m core.Maroto, deliveries []pricing.DeliveryLine) {
	for _, d := range deliveries {
		m.AddRows(row.New(7).Add(
			text.NewCol(10, pricing.HumanizeDeliveryLabel(d.Label), props.Text{Size: 8, Align: align.Right, Top: 1.5}),
			text.NewCol(2, FormatMoney(d.Price), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1}),
		))
	}
}

func addTotal(m core.Maroto, total float64) {
	style := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: brandBlue, Top: 2}
	m.AddRows(
		row.New(10).Add(
			text.NewCol(8, "Итого:", style),
			text.NewCol(4, FormatMoney(total), style),
		),
		row.New(4),
	)
}

func addTerms(m core.Maroto, doc Document) {
	blocks := []struct {
		title string
		lines []string
	}{
		{"Условия доставки", doc.Terms.Delivery},
		{"Условия оплаты", doc.Terms.Payment},
		{"Дополнительно", doc.Terms.Additional},
	}
	for _, b := range blocks {
		if len(b.lines) == 0 {
			continue
		}
		m.AddRows(row.New(6).Add(text.NewCol(12, b.title, props.Text{Size: 9, Style: fontstyle.Bold, Color: brandBlue})))
		for _, line := range b.lines {
			m.AddRows(row.New(4.5).Add(text.NewCol(12, line, props.Text{Size: 8})))
		}
		m.AddRows(row.New(2))
	}

	for _, line := range doc.Terms.Final {
		m.AddRows(row.New(5).Add(text.NewCol(12, line, props.Text{Size: 8, Align: align.Center, Color: mutedGray})))
	}
}

func addWorks(m core.Maroto, paths []string) {
	if len(paths) == 0 {
		return
	}
	size := 12 / len(paths)
	cols := make([]core.Col, 0, len(paths))
	for _, p := range paths {
		cols = append(cols, image.NewFromFileCol(size, p, props.Rect{Center: true, Percent: 90}))
	}
	m.AddRows(
		row.New(4),
		row.New(6).Add(text.NewCol(12, "Наши работы", props.Text{Size: 9, Style: fontstyle.Bold, Color: brandBlue})),
		row.New(40).Add(cols...),
	)
}
