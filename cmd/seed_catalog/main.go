// seed_catalog genera un script SQL para poblar el catálogo de ingredientes a partir
// de un CSV exportado desde Excel (columnas: nombre;precio;unidad).
//
// Uso: go run ./cmd/seed_catalog [ruta/ingredientes.csv] [salida.sql]
// Por defecto lee ingredientes.csv del directorio actual y escribe seed_ingredientes.sql
// en la raíz del módulo. Acepta UTF-8 o Latin-1 (Windows-1252).
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogNamespace espacio de nombres para IDs deterministas: el mismo nombre
// produce el mismo ing_id y el script se puede reejecutar.
var catalogNamespace = uuid.MustParse("6f1d8c7e-2b9a-4c1e-9d3f-5a7b8c9d0e1f")

type row struct {
	id    uuid.UUID
	name  string
	price decimal.Decimal
	unit  string
}

func main() {
	csvPath := "ingredientes.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "seed_ingredientes.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	rows, skipped, err := parseCatalog(decodeInput(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d ingredientes (%d filas omitidas)\n", outPath, len(rows), skipped)
}

// decodeInput Excel en Windows exporta en Windows-1252; si no es UTF-8 válido se convierte.
func decodeInput(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.Windows1252.NewDecoder())
}

// parseCatalog lee filas nombre;precio;unidad. La primera fila es encabezado si el
// precio no es numérico. Filas incompletas o con precio inválido se omiten.
func parseCatalog(r io.Reader) ([]row, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	byID := make(map[uuid.UUID]row)
	skipped := 0
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		header := first
		first = false
		if len(rec) < 3 {
			skipped++
			continue
		}
		name := strings.TrimSpace(rec[0])
		unit := strings.ToLower(strings.TrimSpace(rec[2]))
		price, err := parsePrice(rec[1])
		if err != nil {
			if !header {
				skipped++
			}
			continue
		}
		if name == "" || unit == "" || price.IsNegative() {
			skipped++
			continue
		}
		id := uuid.NewSHA1(catalogNamespace, []byte(strings.ToLower(name)))
		byID[id] = row{id: id, name: name, price: price, unit: unit}
	}

	rows := make([]row, 0, len(byID))
	for _, r := range byID {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	return rows, skipped, nil
}

// parsePrice acepta "1250", "1250.5", "1.250,50" y "$ 1.250".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(strings.ReplaceAll(s, " ", ""))
}

func writeSQL(w io.Writer, rows []row) error {
	units := make(map[string]struct{})
	for _, r := range rows {
		units[r.unit] = struct{}{}
	}
	unitNames := make([]string, 0, len(units))
	for u := range units {
		unitNames = append(unitNames, u)
	}
	sort.Strings(unitNames)

	var b strings.Builder
	b.WriteString("-- Catálogo de ingredientes\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	if len(unitNames) > 0 {
		b.WriteString("-- 1. Unidades de medida\n")
		b.WriteString("INSERT INTO unidad_medida (unmed_nombre) VALUES\n")
		for i, u := range unitNames {
			sep := ","
			if i == len(unitNames)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  ('%s')%s\n", escapeSQL(u), sep)
		}
		b.WriteString("ON CONFLICT (unmed_nombre) DO NOTHING;\n\n")
	}

	b.WriteString("-- 2. Ingredientes (ID determinista por nombre)\n")
	for _, r := range rows {
		b.WriteString("INSERT INTO ingredientes (ing_id, ing_nombre, ing_precio, unmed_id)\n")
		fmt.Fprintf(&b, "SELECT '%s', '%s', %s, unmed_id FROM unidad_medida WHERE unmed_nombre = '%s'\n",
			r.id, escapeSQL(r.name), r.price.String(), escapeSQL(r.unit))
		b.WriteString("ON CONFLICT (ing_id) DO UPDATE SET ing_precio = EXCLUDED.ing_precio, unmed_id = EXCLUDED.unmed_id, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
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
