package pricing

import (
	"sort"
	"strings"
)

// SummaryItem is the per-item view of a quotation used by documents and the preview page.
// Services keep labels only.
type SummaryItem struct {
	ProductName string   `json:"product_name"`
	Thickness   string   `json:"thickness"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Quantity    int      `json:"quantity"`
	Services    []string `json:"services"`
	ItemTotal   float64  `json:"item_total"`
}

// DeliveryLine is a request-level charge.
type DeliveryLine struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Summary is the render-ready form of a Result.
type Summary struct {
	Items      []SummaryItem  `json:"items"`
	Deliveries []DeliveryLine `json:"deliveries"`
	Total      float64        `json:"total"`
}

// Summarize groups the position log by item index. Positions without an item index
// become deliveries.
func Summarize(result *Result) Summary {
	byIndex := map[int]*SummaryItem{}
	deliveries := make([]DeliveryLine, 0)

	for _, pos := range result.Positions {
		if pos.ItemIndex == nil {
			deliveries = append(deliveries, DeliveryLine{Label: pos.Name, Price: pos.Total})
			continue
		}

		item, ok := byIndex[*pos.ItemIndex]
		if !ok {
			item = &SummaryItem{Quantity: 1, Services: []string{}}
			byIndex[*pos.ItemIndex] = item
		}

		switch pos.Kind {
		case KindMaterial:
			if pos.Product != nil {
				item.ProductName = pos.Product.Label
				item.Thickness = FormatNumber(pos.Product.Thickness)
				item.Width = pos.Product.WidthMM
				item.Height = pos.Product.HeightMM
			}
			item.Quantity = pos.Quantity
		case KindItemTotal:
			item.ItemTotal = pos.Total
		default:
			item.Services = append(item.Services, pos.Name)
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	items := make([]SummaryItem, 0, len(indexes))
	for _, idx := range indexes {
		items = append(items, *byIndex[idx])
	}

	return Summary{Items: items, Deliveries: deliveries, Total: result.Total}
}

// HumanizeDeliveryLabel drops the latin key prefix of a city inside parentheses,
// so "Доставка (center_центр)" becomes "Доставка (центр)".
func HumanizeDeliveryLabel(label string) string {
	open := strings.Index(label, "(")
	if open < 0 {
		return label
	}
	closing := strings.Index(label[open:], ")")
	if closing < 0 {
		return label
	}
	inside := label[open+1 : open+closing]
	_, city, ok := strings.Cut(inside, "_")
	if !ok {
		return label
	}
	return label[:open+1] + city + label[open+closing:]
}
