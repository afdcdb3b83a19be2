package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_GroupsPositionsByItem(t *testing.T) {
	result := calc(t,
		LineItem{
			ProductKey: "mirror_silver_4mm", WidthMM: 1000, HeightMM: 1200, Quantity: 2,
			Options: Options{Edge: true, Film: true, DeliveryCity: "center_центр"},
		},
		LineItem{ProductKey: "glass_clear_6mm", WidthMM: 500, HeightMM: 500, Quantity: 1},
	)

	summary := Summarize(result)
	require.Len(t, summary.Items, 2)
	require.Len(t, summary.Deliveries, 1)

	first := summary.Items[0]
	assert.Equal(t, "Зеркало серебро", first.ProductName)
	assert.Equal(t, "4", first.Thickness)
	assert.Equal(t, 1000.0, first.Width)
	assert.Equal(t, 1200.0, first.Height)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, []string{"Обработка кромки", "Противоосколочная плёнка"}, first.Services)
	assert.Equal(t, positionsOfKind(result, KindItemTotal)[0].Total, first.ItemTotal)

	second := summary.Items[1]
	assert.Equal(t, "Стекло прозрачное", second.ProductName)
	assert.Empty(t, second.Services)
	assert.Equal(t, 800.0, second.ItemTotal)

	assert.Equal(t, DeliveryLine{Label: "Доставка (center_центр)", Price: 700}, summary.Deliveries[0])
	assert.Equal(t, result.Total, summary.Total)
}

func TestSummarize_NoDeliveries(t *testing.T) {
	summary := Summarize(calc(t, LineItem{ProductKey: "glass_clear_6mm", WidthMM: 500, HeightMM: 500, Quantity: 1}))
	assert.NotNil(t, summary.Deliveries)
	assert.Empty(t, summary.Deliveries)
}

func TestHumanizeDeliveryLabel(t *testing.T) {
	assert.Equal(t, "Доставка (центр)", HumanizeDeliveryLabel("Доставка (center_центр)"))
	assert.Equal(t, "Доставка (suburb)", HumanizeDeliveryLabel("Доставка (suburb)"))
	assert.Equal(t, "Доставка", HumanizeDeliveryLabel("Доставка"))
}
