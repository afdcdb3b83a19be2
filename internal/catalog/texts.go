package catalog

import (
	"sort"
	"strings"
)

// Message keys in Texts.Errors.
const (
	ErrHeightMax       = "height_max"
	ErrWidthMax        = "width_max"
	ErrUnknownProduct  = "unknown_product"
	ErrNoMaterialPrice = "no_material_price"
	ErrNoDrillPrice    = "no_drill_price"
)

// Label keys in Texts.Positions.
const (
	PosEdge         = "edge"
	PosFilm         = "film"
	PosDrill        = "drill"
	PosPack         = "pack"
	PosMount        = "mount"
	PosTotalPerItem = "total_per_item"
	PosDelivery     = "delivery"
)

// Texts holds overridable message templates and position labels.
type Texts struct {
	Errors    map[string]string `json:"errors"`
	Positions map[string]string `json:"positions"`
	Units     map[string]string `json:"units"`
}

// DefaultTexts returns the built-in texts.
func DefaultTexts() Texts {
	return Texts{
		Errors: map[string]string{
			ErrHeightMax:       "Ошибка: Высота превышает {max_mm} мм",
			ErrWidthMax:        "Ошибка: Ширина превышает {max_mm} мм",
			ErrUnknownProduct:  "Ошибка: неизвестный товар {product_key}",
			ErrNoMaterialPrice: "Ошибка: нет цены для {product_key}",
			ErrNoDrillPrice:    "Ошибка: нет цены сверления для толщины {thickness} мм",
		},
		Positions: map[string]string{
			PosEdge:         "Обработка кромки",
			PosFilm:         "Противоосколочная плёнка",
			PosDrill:        "Сверление отверстий",
			PosPack:         "Упаковка в гофрокартон",
			PosMount:        "Монтаж (ориентировочно)",
			PosTotalPerItem: "Итого по изделию",
			PosDelivery:     "Доставка ({city})",
		},
		Units: map[string]string{"piece": "шт"},
	}
}

// LoadTexts reads texts.json. Any missing or unreadable entry falls back to the default.
func (l *Loader) LoadTexts() Texts {
	texts := DefaultTexts()

	var custom Texts
	if !l.readOptionalJSON(TextsFile, &custom) {
		return texts
	}
	for k, v := range custom.Errors {
		texts.Errors[k] = v
	}
	for k, v := range custom.Positions {
		texts.Positions[k] = v
	}
	for k, v := range custom.Units {
		texts.Units[k] = v
	}
	return texts
}

// Error returns the message template stored under key.
func (t Texts) Error(key string) string {
	if v, ok := t.Errors[key]; ok {
		return v
	}
	return DefaultTexts().Errors[key]
}

// Position returns the display label stored under key, or key itself.
func (t Texts) Position(key string) string {
	if v, ok := t.Positions[key]; ok {
		return v
	}
	if v, ok := DefaultTexts().Positions[key]; ok {
		return v
	}
	return key
}

// Unit returns the piece unit label.
func (t Texts) Unit() string {
	if v, ok := t.Units["piece"]; ok {
		return v
	}
	return "шт"
}

// Format substitutes {name} placeholders in tmpl.
func Format(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// SortedProducts returns products ordered by label, then key.
func SortedProducts(products map[string]Product) []Product {
	list := make([]Product, 0, len(products))
	for _, p := range products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Label != list[j].Label {
			return list[i].Label < list[j].Label
		}
		return list[i].Key < list[j].Key
	})
	return list
}
