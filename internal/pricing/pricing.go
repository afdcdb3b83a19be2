package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Simplici0/glassquote/internal/catalog"
)

// mirrorMarker in a product key marks products that accept anti-shatter film.
const mirrorMarker = "mirror"

// Options are the add-on services selected for a line item.
type Options struct {
	Edge     bool `json:"edge"`
	Film     bool `json:"film"`
	Drill    bool `json:"drill"`
	DrillQty int  `json:"drill_qty" validate:"gte=0"`
	Pack     bool `json:"pack"`
	Mount    bool `json:"mount"`
	// DeliveryCity is honored only on the first item of a request.
	DeliveryCity string `json:"delivery_city,omitempty"`
}

// LineItem is one requested product with its dimensions in millimeters.
type LineItem struct {
	ProductKey string  `json:"product_key" validate:"required"`
	WidthMM    float64 `json:"width_mm" validate:"gt=0"`
	HeightMM   float64 `json:"height_mm" validate:"gt=0"`
	Quantity   int     `json:"quantity" validate:"gte=1"`
	Options    Options `json:"options"`
}

// UnmarshalJSON defaults Quantity to 1 when the field is omitted.
func (it *LineItem) UnmarshalJSON(data []byte) error {
	type plain LineItem
	decoded := plain{Quantity: 1}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*it = LineItem(decoded)
	return nil
}

// Request is an ordered list of line items.
type Request struct {
	Items []LineItem `json:"items" validate:"required,min=1,dive"`
}

// Limits are the configured bounds applied to every calculation.
type Limits struct {
	MaxHeightMM    float64
	MaxWidthMM     float64
	MinOptionPrice float64
}

// DefaultLimits returns the stock 1605×2750 mm sheet bounds and a 100 minimum per option.
func DefaultLimits() Limits {
	return Limits{MaxHeightMM: 1605, MaxWidthMM: 2750, MinOptionPrice: 100}
}

// Kind identifies what a Position charges for.
type Kind string

const (
	KindMaterial  Kind = "material"
	KindEdge      Kind = "edge"
	KindFilm      Kind = "film"
	KindDrill     Kind = "drill"
	KindPack      Kind = "pack"
	KindMount     Kind = "mount"
	KindItemTotal Kind = "item_total"
	KindDelivery  Kind = "delivery"
)

// ProductRef carries the product and cut size of a material Position.
type ProductRef struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Thickness float64 `json:"thickness"`
	WidthMM   float64 `json:"width_mm"`
	HeightMM  float64 `json:"height_mm"`
}

// Position is one priced row of a quotation.
type Position struct {
	Kind      Kind        `json:"kind"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Unit      string      `json:"unit"`
	UnitPrice float64     `json:"unit_price"`
	Total     float64     `json:"total"`
	ItemIndex *int        `json:"item_index"`
	Product   *ProductRef `json:"product,omitempty"`
	City      string      `json:"city,omitempty"`
}

// Result is the ordered position log and the grand total.
type Result struct {
	Positions []Position `json:"positions"`
	Total     float64    `json:"total"`
}

// Engine prices quotation requests. It keeps no state between calls.
type Engine struct {
	limits Limits
	logger zerolog.Logger
}

// NewEngine returns an Engine bound to limits.
func NewEngine(limits Limits, logger zerolog.Logger) *Engine {
	return &Engine{limits: limits, logger: logger}
}

// RoundUp100 rounds x up to the next multiple of 100. Exact multiples are unchanged.
func RoundUp100(x float64) float64 {
	// Snap to 1e-6 first so float noise such as 6000.000000000001 stays at 6000.
	r := math.Ceil(math.Round(x*1e6)/1e6/100) * 100
	if r == 0 {
		return 0
	}
	return r
}

// Area returns the area in m² of a width×height mm sheet.
func Area(widthMM, heightMM float64) float64 {
	return (widthMM / 1000) * (heightMM / 1000)
}

// Perimeter returns the perimeter in meters of a width×height mm sheet.
func Perimeter(widthMM, heightMM float64) float64 {
	return 2 * (widthMM/1000 + heightMM/1000)
}

// Calculate prices every item of req in order and returns the flat position log.
// The first invalid item aborts the whole calculation.
func (e *Engine) Calculate(req Request, cat *catalog.Catalog, texts catalog.Texts) (*Result, error) {
	e.logger.Info().
		Int("items_count", len(req.Items)).
		Interface("items", summarizeItems(req.Items)).
		Msg("calculation_start")

	unit := texts.Unit()
	positions := make([]Position, 0, len(req.Items)*3)
	grandTotal := 0.0

	for idx, item := range req.Items {
		itemPositions, itemTotal, err := e.priceItem(idx, item, cat, texts, unit)
		if err != nil {
			e.logger.Warn().Err(err).Int("item_index", idx).Str("product_key", item.ProductKey).Msg("calculation_rejected")
			return nil, err
		}
		positions = append(positions, itemPositions...)
		grandTotal += itemTotal
	}

	if len(req.Items) > 0 {
		if city := strings.TrimSpace(req.Items[0].Options.DeliveryCity); city != "" {
			price := cat.Services.Delivery[city]
			grandTotal += price
			positions = append(positions, Position{
				Kind:      KindDelivery,
				Name:      catalog.Format(texts.Position(catalog.PosDelivery), map[string]string{"city": city}),
				Quantity:  1,
				Unit:      unit,
				UnitPrice: price,
				Total:     price,
				City:      city,
			})
		}
	}

	result := &Result{Positions: positions, Total: RoundUp100(grandTotal)}
	e.logger.Info().
		Float64("total", result.Total).
		Int("positions_count", len(result.Positions)).
		Msg("calculation_done")
	return result, nil
}

func (e *Engine) priceItem(idx int, item LineItem, cat *catalog.Catalog, texts catalog.Texts, unit string) ([]Position, float64, error) {
	if item.HeightMM > e.limits.MaxHeightMM {
		return nil, 0, newDimensionError(texts, idx, DimensionHeight, item.HeightMM, e.limits.MaxHeightMM)
	}
	if item.WidthMM > e.limits.MaxWidthMM {
		return nil, 0, newDimensionError(texts, idx, DimensionWidth, item.WidthMM, e.limits.MaxWidthMM)
	}
	product, ok := cat.Products[item.ProductKey]
	if !ok {
		return nil, 0, newUnknownProductError(texts, idx, item.ProductKey)
	}
	materialPrice, ok := cat.MaterialPrices[item.ProductKey]
	if !ok {
		return nil, 0, newMissingPriceError(texts, idx, item.ProductKey)
	}

	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	at := idx
	area := Area(item.WidthMM, item.HeightMM)
	perimeter := Perimeter(item.WidthMM, item.HeightMM)
	minPrice := e.limits.MinOptionPrice

	baseUnit := RoundUp100(area * materialPrice)
	total := baseUnit * float64(qty)
	positions := []Position{{
		Kind:      KindMaterial,
		Name:      MaterialName(product.Label, product.Thickness, item.WidthMM, item.HeightMM),
		Quantity:  qty,
		Unit:      unit,
		UnitPrice: baseUnit,
		Total:     total,
		ItemIndex: &at,
		Product: &ProductRef{
			Key:       item.ProductKey,
			Label:     product.Label,
			Thickness: product.Thickness,
			WidthMM:   item.WidthMM,
			HeightMM:  item.HeightMM,
		},
	}}

	service := func(kind Kind, label string, quantity int, unitPrice float64) {
		lineTotal := unitPrice * float64(quantity)
		total += lineTotal
		positions = append(positions, Position{
			Kind:      kind,
			Name:      texts.Position(label),
			Quantity:  quantity,
			Unit:      unit,
			UnitPrice: unitPrice,
			Total:     lineTotal,
			ItemIndex: &at,
		})
	}

	opts := item.Options
	if opts.Edge {
		service(KindEdge, catalog.PosEdge, qty, math.Max(perimeter*cat.Services.Edge, minPrice))
	}
	if opts.Film && strings.Contains(item.ProductKey, mirrorMarker) {
		service(KindFilm, catalog.PosFilm, qty, math.Max(area*cat.Services.Film, minPrice))
	}
	if opts.Drill {
		thickness := strconv.Itoa(int(product.Thickness))
		perHole, ok := cat.Services.Drill[thickness]
		if !ok {
			return nil, 0, newMissingDrillPriceError(texts, idx, thickness)
		}
		service(KindDrill, catalog.PosDrill, opts.DrillQty*qty, perHole)
	}
	if opts.Pack {
		service(KindPack, catalog.PosPack, qty, math.Max(area*cat.Services.Pack, minPrice))
	}
	if opts.Mount {
		service(KindMount, catalog.PosMount, qty, cat.Services.Mount*area)
	}

	total = RoundUp100(total)
	positions = append(positions, Position{
		Kind:      KindItemTotal,
		Name:      texts.Position(catalog.PosTotalPerItem),
		Quantity:  1,
		Unit:      unit,
		UnitPrice: total,
		Total:     total,
		ItemIndex: &at,
	})
	return positions, total, nil
}

// MaterialName renders the display name of a material line, e.g. "Зеркало (4 мм) [1000×1200 мм]".
func MaterialName(label string, thickness, widthMM, heightMM float64) string {
	return label + " (" + FormatNumber(thickness) + " мм) [" + FormatNumber(widthMM) + "×" + FormatNumber(heightMM) + " мм]"
}

// FormatNumber prints v without a trailing fractional zero.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type itemLog struct {
	ProductKey string  `json:"product_key"`
	WidthMM    float64 `json:"width_mm"`
	HeightMM   float64 `json:"height_mm"`
	Quantity   int     `json:"quantity"`
}

func summarizeItems(items []LineItem) []itemLog {
	out := make([]itemLog, 0, len(items))
	for _, it := range items {
		out = append(out, itemLog{ProductKey: it.ProductKey, WidthMM: it.WidthMM, HeightMM: it.HeightMM, Quantity: it.Quantity})
	}
	return out
}
