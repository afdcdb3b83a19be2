package catalog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestParseProducts_SkipsCommentsAndBlankLines(t *testing.T) {
	src := `
# name;thickness;key
Зеркало серебро;4;mirror_silver_4mm

Стекло прозрачное;6.0;glass_clear_6mm
`
	products, err := ParseProducts(bufio.NewScanner(strings.NewReader(src)))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, Product{Key: "mirror_silver_4mm", Label: "Зеркало серебро", Thickness: 4}, products["mirror_silver_4mm"])
	assert.Equal(t, 6.0, products["glass_clear_6mm"].Thickness)
}

func TestParseProducts_RejectsMalformedLines(t *testing.T) {
	_, err := ParseProducts(bufio.NewScanner(strings.NewReader("only;two\n")))
	require.ErrorContains(t, err, "line 1")

	_, err = ParseProducts(bufio.NewScanner(strings.NewReader("# c\nName;thick;key\n")))
	require.ErrorContains(t, err, "line 2")
}

func TestLoaderLoad_ReadsAllTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, "Зеркало;4;mirror_4mm\n")
	writeFile(t, dir, MaterialPricesFile, `{"mirror_4mm": 5000}`)
	writeFile(t, dir, ServicePricesFile, `{"edge": 50, "film": 300, "pack": 200, "mount": 900, "drill": {"4": 150}, "delivery": {"center": 700}}`)

	cat, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 5000.0, cat.MaterialPrices["mirror_4mm"])
	assert.Equal(t, 50.0, cat.Services.Edge)
	assert.Equal(t, 150.0, cat.Services.Drill["4"])
	assert.Equal(t, 700.0, cat.Services.Delivery["center"])
}

func TestLoaderLoad_MissingOrCorruptFilesFail(t *testing.T) {
	dir := t.TempDir()
	_, err := NewLoader(dir).Load()
	require.Error(t, err)

	writeFile(t, dir, ProductsFile, "Зеркало;4;mirror_4mm\n")
	writeFile(t, dir, MaterialPricesFile, `{"mirror_4mm": `)
	_, err = NewLoader(dir).Load()
	require.ErrorContains(t, err, MaterialPricesFile)
}

const fullServices = `{"edge": 50, "film": 300, "pack": 200, "mount": 900, "drill": {"4": 150}, "delivery": {}}`

func TestLoaderLoad_RejectsIncompleteServicePrices(t *testing.T) {
	tests := []struct {
		name     string
		services string
		message  string
	}{
		{name: "only edge", services: `{"edge": 50}`, message: `missing "film" price`},
		{name: "no mount", services: `{"edge": 50, "film": 300, "pack": 200, "drill": {}, "delivery": {}}`, message: `missing "mount" price`},
		{name: "zero is a price", services: `{"edge": 0, "film": 0, "pack": 0, "mount": 0, "delivery": {}}`, message: `missing "drill" price table`},
		{name: "no delivery", services: `{"edge": 50, "film": 300, "pack": 200, "mount": 900, "drill": {}}`, message: `missing "delivery" price table`},
		{name: "negative mount", services: `{"edge": 50, "film": 300, "pack": 200, "mount": -1, "drill": {}, "delivery": {}}`, message: `negative "mount" price`},
		{name: "negative drill", services: `{"edge": 50, "film": 300, "pack": 200, "mount": 900, "drill": {"4": -150}, "delivery": {}}`, message: "negative drill price"},
		{name: "negative delivery", services: `{"edge": 50, "film": 300, "pack": 200, "mount": 900, "drill": {}, "delivery": {"center": -5}}`, message: "negative delivery price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, ProductsFile, "Зеркало;4;mirror_4mm\n")
			writeFile(t, dir, MaterialPricesFile, `{"mirror_4mm": 5000}`)
			writeFile(t, dir, ServicePricesFile, tt.services)

			_, err := NewLoader(dir).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), ServicePricesFile)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoaderLoad_AcceptsZeroPrices(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, "Зеркало;4;mirror_4mm\n")
	writeFile(t, dir, MaterialPricesFile, `{"mirror_4mm": 0}`)
	writeFile(t, dir, ServicePricesFile, `{"edge": 0, "film": 0, "pack": 0, "mount": 0, "drill": {}, "delivery": {}}`)

	cat, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Zero(t, cat.Services.Mount)
}

func TestLoaderLoad_RejectsNegativeMaterialPrice(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, "Зеркало;4;mirror_4mm\n")
	writeFile(t, dir, MaterialPricesFile, `{"mirror_4mm": -5000}`)
	writeFile(t, dir, ServicePricesFile, fullServices)

	_, err := NewLoader(dir).Load()
	require.ErrorContains(t, err, MaterialPricesFile)
	require.ErrorContains(t, err, "negative price")
}

func TestLoaderLoad_RereadsFilesOnEveryCall(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, "Зеркало;4;mirror_4mm\n")
	writeFile(t, dir, MaterialPricesFile, `{"mirror_4mm": 5000}`)
	writeFile(t, dir, ServicePricesFile, fullServices)

	loader := NewLoader(dir)
	first, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 5000.0, first.MaterialPrices["mirror_4mm"])

	writeFile(t, dir, MaterialPricesFile, `{"mirror_4mm": 6000}`)
	second, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 6000.0, second.MaterialPrices["mirror_4mm"])
}

func TestLoadTexts_MergesOverridesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	assert.Equal(t, DefaultTexts(), loader.LoadTexts())

	writeFile(t, dir, TextsFile, `{"positions": {"edge": "Edge polishing"}, "units": {"piece": "pcs"}}`)
	texts := loader.LoadTexts()
	assert.Equal(t, "Edge polishing", texts.Position(PosEdge))
	assert.Equal(t, "Итого по изделию", texts.Position(PosTotalPerItem))
	assert.Equal(t, "pcs", texts.Unit())
	assert.Equal(t, "unknown_key", texts.Position("unknown_key"))

	writeFile(t, dir, TextsFile, `not json`)
	assert.Equal(t, DefaultTexts(), loader.LoadTexts())
}

func TestFormat_SubstitutesPlaceholders(t *testing.T) {
	got := Format("Ошибка: Высота превышает {max_mm} мм", map[string]string{"max_mm": "1605"})
	assert.Equal(t, "Ошибка: Высота превышает 1605 мм", got)
}

func TestLoadCompany_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)
	assert.Equal(t, DefaultCompany(), loader.LoadCompany())

	writeFile(t, dir, CompanyFile, `{"name": "ООО Стекло", "inn": "123"}`)
	c := loader.LoadCompany()
	assert.Equal(t, "ООО Стекло", c.Name)
	assert.Equal(t, "123", c.INN)
}

func TestSortedProducts_OrdersByLabel(t *testing.T) {
	list := SortedProducts(map[string]Product{
		"b": {Key: "b", Label: "Стекло"},
		"a": {Key: "a", Label: "Зеркало"},
	})
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Key)
}
