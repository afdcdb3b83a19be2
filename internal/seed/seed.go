package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/glassquote/internal/catalog"
)

// Config contains the values required by startup seed.
type Config struct {
	DataDir         string
	ManagerLogin    string
	ManagerPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts      int
	FilesWritten int
}

// defaultFiles is the starter catalog written into an empty data directory.
var defaultFiles = []struct {
	name    string
	content string
}{
	{catalog.ProductsFile, `# Наименование;толщина, мм;ключ
Зеркало серебро;4;mirror_silver_4mm
Зеркало бронза;4;mirror_bronze_4mm
Зеркало графит;4;mirror_graphite_4mm
Стекло прозрачное;4;glass_clear_4mm
Стекло прозрачное;6;glass_clear_6mm
Стекло осветлённое;8;glass_optiwhite_8mm
Стекло закалённое;10;glass_tempered_10mm
`},
	{catalog.MaterialPricesFile, `{
  "mirror_silver_4mm": 4200,
  "mirror_bronze_4mm": 5600,
  "mirror_graphite_4mm": 5600,
  "glass_clear_4mm": 2100,
  "glass_clear_6mm": 2900,
  "glass_optiwhite_8mm": 6400,
  "glass_tempered_10mm": 9800
}
`},
	{catalog.ServicePricesFile, `{
  "edge": 350,
  "film": 450,
  "pack": 300,
  "mount": 1500,
  "drill": {"4": 250, "6": 300, "8": 350},
  "delivery": {"center_центр": 800, "suburb_пригород": 1500, "region_край": 3500}
}
`},
}

// Run executes the startup seed in an idempotent way. Existing files and
// accounts are never overwritten.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	stats := Stats{}

	if err := ensureCatalogFiles(cfg.DataDir, &stats); err != nil {
		return Stats{}, err
	}

	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}
	if err := seedManager(tx, cfg.ManagerLogin, cfg.ManagerPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureCatalogFiles(dir string, stats *Stats) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	for _, f := range defaultFiles {
		path := filepath.Join(dir, f.name)
		_, err := os.Stat(path)
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("check %s: %w", f.name, err)
		}
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("write default %s: %w", f.name, err)
		}
		stats.FilesWritten++
	}
	return nil
}

func seedManager(tx *sql.Tx, login, password string, stats *Stats) error {
	if login == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM managers WHERE login = ? LIMIT 1)`, login).Scan(&exists); err != nil {
		return fmt.Errorf("check manager existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash manager password: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO managers (login, password_hash) VALUES (?, ?)`, login, string(hash)); err != nil {
		return fmt.Errorf("insert manager: %w", err)
	}
	stats.Inserts++
	return nil
}
