// Package report turns StoreHub records into summaries and plain-text reports.
// Everything here is pure: no I/O, no clocks except those passed in.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"storehub_mcp/internal/storehub"
)

const topProductsLimit = 5

// Catalog indexes products by id for name lookups.
type Catalog struct {
	products map[string]storehub.Product
}

func NewCatalog(products []storehub.Product) Catalog {
	index := make(map[string]storehub.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return Catalog{products: index}
}

func (c Catalog) Name(productID string) string {
	if p, ok := c.products[productID]; ok && strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return "Product " + productID
}

func (c Catalog) SKU(productID string) string {
	if p, ok := c.products[productID]; ok && strings.TrimSpace(p.SKU) != "" {
		return p.SKU
	}
	return "N/A"
}

// Count is a labelled tally used for groupings and histograms.
type Count struct {
	Key    string
	Count  int
	Amount float64
}

func sortedCounts(m map[string]*Count) []Count {
	out := make([]Count, 0, len(m))
	for _, c := range m {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func tally(m map[string]*Count, key string, amount float64) {
	c, ok := m[key]
	if !ok {
		c = &Count{Key: key}
		m[key] = c
	}
	c.Count++
	c.Amount += amount
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func quantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func noRecords(kind string) string {
	return fmt.Sprintf("No %s records found.", kind)
}
