package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File names inside the data directory.
const (
	ProductsFile       = "products.txt"
	MaterialPricesFile = "prices_materials.json"
	ServicePricesFile  = "prices_services.json"
	TextsFile          = "texts.json"
	CompanyFile        = "company_info.json"
)

// Product is one entry of the product list.
type Product struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Thickness float64 `json:"thickness"`
}

// ServicePrices holds per-service prices.
type ServicePrices struct {
	Edge     float64            `json:"edge"`  // per linear meter of perimeter
	Film     float64            `json:"film"`  // per m²
	Pack     float64            `json:"pack"`  // per m²
	Mount    float64            `json:"mount"` // per m²
	Drill    map[string]float64 `json:"drill"` // thickness mm -> price per hole
	Delivery map[string]float64 `json:"delivery"`
}

// rawServicePrices mirrors prices_services.json with every key optional,
// so that absent keys can be told apart from zero prices.
type rawServicePrices struct {
	Edge     *float64           `json:"edge"`
	Film     *float64           `json:"film"`
	Pack     *float64           `json:"pack"`
	Mount    *float64           `json:"mount"`
	Drill    map[string]float64 `json:"drill"`
	Delivery map[string]float64 `json:"delivery"`
}

// resolve requires every service price and rejects negative ones.
func (r rawServicePrices) resolve() (ServicePrices, error) {
	var out ServicePrices
	scalars := []struct {
		key string
		src *float64
		dst *float64
	}{
		{"edge", r.Edge, &out.Edge},
		{"film", r.Film, &out.Film},
		{"pack", r.Pack, &out.Pack},
		{"mount", r.Mount, &out.Mount},
	}
	for _, f := range scalars {
		if f.src == nil {
			return ServicePrices{}, fmt.Errorf("missing %q price", f.key)
		}
		if *f.src < 0 {
			return ServicePrices{}, fmt.Errorf("negative %q price %v", f.key, *f.src)
		}
		*f.dst = *f.src
	}

	tables := []struct {
		key   string
		table map[string]float64
	}{
		{"drill", r.Drill},
		{"delivery", r.Delivery},
	}
	for _, t := range tables {
		if t.table == nil {
			return ServicePrices{}, fmt.Errorf("missing %q price table", t.key)
		}
		for k, v := range t.table {
			if v < 0 {
				return ServicePrices{}, fmt.Errorf("negative %s price %v for %q", t.key, v, k)
			}
		}
	}
	out.Drill = r.Drill
	out.Delivery = r.Delivery
	return out, nil
}

// Catalog is the set of reference tables read for a single calculation.
type Catalog struct {
	Products       map[string]Product
	MaterialPrices map[string]float64
	Services       ServicePrices
}

// Loader reads catalog files from a data directory. It holds no state between calls,
// so edits to the files apply to the next Load.
type Loader struct {
	Dir string
}

// NewLoader returns a Loader reading from dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load reads products and both price tables.
func (l *Loader) Load() (*Catalog, error) {
	products, err := l.LoadProducts()
	if err != nil {
		return nil, err
	}

	materials := map[string]float64{}
	if err := l.readJSON(MaterialPricesFile, &materials); err != nil {
		return nil, err
	}
	for key, price := range materials {
		if price < 0 {
			return nil, fmt.Errorf("%s: negative price %v for %q", MaterialPricesFile, price, key)
		}
	}

	var raw rawServicePrices
	if err := l.readJSON(ServicePricesFile, &raw); err != nil {
		return nil, err
	}
	services, err := raw.resolve()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ServicePricesFile, err)
	}

	return &Catalog{
		Products:       products,
		MaterialPrices: materials,
		Services:       services,
	}, nil
}

// LoadProducts parses products.txt. Each record is "display name;thickness_mm;product_key".
func (l *Loader) LoadProducts() (map[string]Product, error) {
	path := filepath.Join(l.Dir, ProductsFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open product list: %w", err)
	}
	defer f.Close()

	products, err := ParseProducts(bufio.NewScanner(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ProductsFile, err)
	}
	return products, nil
}

// ParseProducts reads product records from sc. Blank lines and lines starting with # are ignored.
func ParseProducts(sc *bufio.Scanner) (map[string]Product, error) {
	products := map[string]Product{}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", lineNo, len(parts))
		}
		thickness, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid thickness %q", lineNo, parts[1])
		}
		key := strings.TrimSpace(parts[2])
		products[key] = Product{
			Key:       key,
			Label:     strings.TrimSpace(parts[0]),
			Thickness: thickness,
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (l *Loader) readJSON(name string, dst any) error {
	raw, err := os.ReadFile(filepath.Join(l.Dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// readOptionalJSON reports false when the file is absent or cannot be decoded.
func (l *Loader) readOptionalJSON(name string, dst any) bool {
	raw, err := os.ReadFile(filepath.Join(l.Dir, name))
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
