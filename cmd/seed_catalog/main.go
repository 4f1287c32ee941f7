// seed_catalog genera un script SQL para poblar el catálogo de productos
// a partir de un CSV exportado del sistema anterior (separador ';', codificación ISO-8859-1 o UTF-8).
//
// Columnas: sku;nombre;categoria;marca;stock_minimo;precio_compra;precio_venta
// La primera fila es encabezado.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [latin1|utf8]
// Escribe: internal/infrastructure/postgres/seeds/products.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type productRow struct {
	SKU           string
	Name          string
	Category      string
	Brand         string
	StockMinimo   int64
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	encoding := "latin1"
	if len(os.Args) > 2 {
		encoding = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(decode(f, encoding))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outDir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	outPath := filepath.Join(outDir, "products.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows, uuid.NewString); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// decode envuelve r con el decodificador ISO-8859-1 salvo que se pida utf8.
func decode(r io.Reader, encoding string) io.Reader {
	if strings.EqualFold(encoding, "utf8") || strings.EqualFold(encoding, "utf-8") {
		return r
	}
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}

// parseCatalog lee el CSV; las filas sin SKU o nombre se ignoran.
func parseCatalog(r io.Reader) ([]productRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []productRow
	for i, rec := range records {
		if i == 0 {
			continue // encabezado
		}
		rec = pad(rec, 7)
		sku, name := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if sku == "" || name == "" || seen[sku] {
			continue
		}
		seen[sku] = true
		row := productRow{
			SKU:      sku,
			Name:     name,
			Category: strings.TrimSpace(rec[2]),
			Brand:    strings.TrimSpace(rec[3]),
		}
		if s := strings.TrimSpace(rec[4]); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("fila %d: stock_minimo inválido %q", i+1, s)
			}
			row.StockMinimo = n
		}
		if row.PurchasePrice, err = parsePrice(rec[5]); err != nil {
			return nil, fmt.Errorf("fila %d: precio_compra: %w", i+1, err)
		}
		if row.SalePrice, err = parsePrice(rec[6]); err != nil {
			return nil, fmt.Errorf("fila %d: precio_venta: %w", i+1, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// parsePrice acepta "25000", "25.000" y "25.000,50" (formato local).
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negativo: %s", s)
	}
	return d, nil
}

func writeSQL(w io.Writer, rows []productRow, newID func() string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de productos (generado por cmd/seed_catalog)\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "INSERT INTO products (id, sku, name, category_id, brand_id, stock_minimo, default_purchase_price, default_sale_price)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', %d, %s, %s)\n",
			newID(), escapeSQL(r.SKU), escapeSQL(r.Name), escapeSQL(r.Category), escapeSQL(r.Brand),
			r.StockMinimo, r.PurchasePrice.StringFixed(2), r.SalePrice.StringFixed(2))
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, category_id = EXCLUDED.category_id,\n")
		b.WriteString("  brand_id = EXCLUDED.brand_id, stock_minimo = EXCLUDED.stock_minimo,\n")
		b.WriteString("  default_purchase_price = EXCLUDED.default_purchase_price, default_sale_price = EXCLUDED.default_sale_price;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func pad(rec []string, n int) []string {
	for len(rec) < n {
		rec = append(rec, "")
	}
	return rec
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
