package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/glassquote/internal/catalog"
	"github.com/Simplici0/glassquote/internal/pricing"
)

// Document is everything printed on a commercial proposal.
type Document struct {
	Number    string
	Date      time.Time
	Company   catalog.Company
	Summary   pricing.Summary
	Terms     catalog.Terms
	LogoPath  string
	WorkPaths []string
	// FontPath is a TTF with Cyrillic glyphs; the built-in font is used when empty.
	FontPath string
}

// FormatMoney prints an amount as "12 400,00 руб.".
func FormatMoney(v float64) string {
	return humanize.FormatFloat("# ###,##", v) + " руб."
}

// FormatSize prints a cut size as "1000×1200 мм".
func FormatSize(width, height float64) string {
	return pricing.FormatNumber(width) + "×" + pricing.FormatNumber(height) + " мм"
}

// ItemTitle is the first column of an item row.
func ItemTitle(item pricing.SummaryItem) string {
	if item.Thickness == "" {
		return item.ProductName
	}
	return fmt.Sprintf("%s, %s мм", item.ProductName, item.Thickness)
}

// ServicesText joins the service labels of an item.
func ServicesText(item pricing.SummaryItem) string {
	if len(item.Services) == 0 {
		return "—"
	}
	return strings.Join(item.Services, ", ")
}

var (
	logoExts  = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	photoExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
)

// FindLogo returns the first image in assetsDir/logo, or "" when there is none.
func FindLogo(assetsDir string) string {
	files := imagesIn(filepath.Join(assetsDir, "logo"), logoExts)
	if len(files) == 0 {
		return ""
	}
	return files[0]
}

// FindWorks returns up to limit photos from assetsDir/works in name order.
func FindWorks(assetsDir string, limit int) []string {
	files := imagesIn(filepath.Join(assetsDir, "works"), photoExts)
	if len(files) > limit {
		files = files[:limit]
	}
	return files
}

func imagesIn(dir string, exts map[string]bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !exts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files
}
