// Package catalog lee el catálogo de productos desde CSV (exportes de caja en UTF-8 o Latin-1).
//
// Columnas por nombre de encabezado: name (obligatoria), id, price, stock, low_stock_threshold.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/bakery-api/internal/domain"
	"github.com/jhoicas/bakery-api/internal/domain/entity"
	"github.com/jhoicas/bakery-api/internal/domain/repository"
)

// Read decodifica el CSV. Con latin1=true el contenido se transcodifica desde ISO-8859-1.
func Read(r io.Reader, latin1 bool) ([]*entity.Product, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("el catálogo no tiene columna name")
	}

	field := func(rec []string, name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	now := time.Now()
	var out []*entity.Product
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		p := &entity.Product{
			ID:        field(rec, "id"),
			Name:      field(rec, "name"),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if p.Name == "" {
			return nil, fmt.Errorf("línea %d: name vacío", line)
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		} else if _, err := uuid.Parse(p.ID); err != nil {
			return nil, fmt.Errorf("línea %d: id %q no es un UUID", line, p.ID)
		}
		if s := field(rec, "price"); s != "" {
			if p.Price, err = decimal.NewFromString(s); err != nil || p.Price.IsNegative() {
				return nil, fmt.Errorf("línea %d: price inválido %q", line, s)
			}
		}
		if p.Stock, err = intField(field(rec, "stock")); err != nil || p.Stock < 0 || p.Stock > entity.MaxStock {
			return nil, fmt.Errorf("línea %d: stock inválido", line)
		}
		if p.LowStockThreshold, err = intField(field(rec, "low_stock_threshold")); err != nil {
			return nil, fmt.Errorf("línea %d: low_stock_threshold inválido", line)
		}
		out = append(out, p)
	}
	return out, nil
}

func intField(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// Load inserta los productos; los ya existentes (mismo id) se omiten.
// Devuelve cuántos se insertaron.
func Load(ctx context.Context, products repository.ProductRepository, items []*entity.Product) (int, error) {
	inserted := 0
	for _, p := range items {
		err := products.Create(ctx, p)
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("producto %q: %w", p.Name, err)
		}
		inserted++
	}
	return inserted, nil
}
