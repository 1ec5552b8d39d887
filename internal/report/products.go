package report

import (
	"fmt"
	"sort"
	"strings"

	"storehub_mcp/internal/storehub"
)

const uncategorized = "Uncategorized"

type CatalogSummary struct {
	Total           int
	StockTracked    int
	Parents         int
	Variants        int
	WithBarcode     int
	WithCost        int
	VariablePricing int
	Categories      []Count

	// Margins is keyed by product id and holds only products with a defined margin.
	Margins       map[string]float64
	AverageMargin float64
	HasMargin     bool
}

func SummarizeCatalog(products []storehub.Product) CatalogSummary {
	s := CatalogSummary{Total: len(products), Margins: map[string]float64{}}
	categories := map[string]*Count{}
	var marginSum float64

	for _, p := range products {
		if p.TrackStockLevel {
			s.StockTracked++
		}
		if p.HasVariants() {
			s.Parents++
		}
		if p.IsVariant() {
			s.Variants++
		}
		if strings.TrimSpace(p.Barcode) != "" {
			s.WithBarcode++
		}
		if p.HasCost() {
			s.WithCost++
		}
		if p.VariablePricing() {
			s.VariablePricing++
		}
		tally(categories, categoryOf(p), p.UnitPrice)
		if margin, ok := p.Margin(); ok {
			s.Margins[p.ID] = margin
			marginSum += margin
		}
	}

	s.Categories = sortedCounts(categories)
	if len(s.Margins) > 0 {
		s.HasMargin = true
		s.AverageMargin = marginSum / float64(len(s.Margins))
	}
	return s
}

func categoryOf(p storehub.Product) string {
	if c := strings.TrimSpace(p.Category); c != "" {
		return c
	}
	return uncategorized
}

func Products(result storehub.ProductsResult) string {
	var b strings.Builder
	b.WriteString("PRODUCT CATALOG\n")
	if !result.Filter.IsZero() {
		fmt.Fprintf(&b, "Showing %d of %d products matching the filters.\n", len(result.Products), result.Total)
	}
	b.WriteString("\n")

	if len(result.Products) == 0 {
		b.WriteString(noRecords("product"))
		b.WriteString("\n")
		return b.String()
	}

	s := SummarizeCatalog(result.Products)

	groups := map[string][]storehub.Product{}
	for _, p := range result.Products {
		groups[categoryOf(p)] = append(groups[categoryOf(p)], p)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&b, "%s\n", strings.ToUpper(name))
		items := groups[name]
		sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		for _, p := range items {
			fmt.Fprintf(&b, "   - %s (%s) price %s", p.Name, orDash(p.SKU), money(p.UnitPrice))
			if margin, ok := s.Margins[p.ID]; ok {
				fmt.Fprintf(&b, ", margin %s", percent(margin))
			}
			if p.HasVariants() {
				b.WriteString(", has variants")
			}
			fmt.Fprintf(&b, " [id %s]\n", p.ID)
		}
		b.WriteString("\n")
	}

	b.WriteString("CATALOG STATISTICS\n")
	fmt.Fprintf(&b, "   Total products: %d\n", s.Total)
	fmt.Fprintf(&b, "   Stock tracked: %d\n", s.StockTracked)
	fmt.Fprintf(&b, "   Parent products: %d\n", s.Parents)
	fmt.Fprintf(&b, "   Variants: %d\n", s.Variants)
	fmt.Fprintf(&b, "   With barcode: %d\n", s.WithBarcode)
	fmt.Fprintf(&b, "   With cost data: %d\n", s.WithCost)
	fmt.Fprintf(&b, "   Variable pricing: %d\n", s.VariablePricing)
	if s.HasMargin {
		fmt.Fprintf(&b, "   Average margin: %s\n", percent(s.AverageMargin))
	}
	b.WriteString("\nCATEGORIES\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&b, "   %s: %d\n", c.Key, c.Count)
	}
	return b.String()
}

func ProductDetail(p storehub.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PRODUCT %s\n\n", p.Name)
	fmt.Fprintf(&b, "   ID: %s\n", p.ID)
	fmt.Fprintf(&b, "   SKU: %s\n", orDash(p.SKU))
	fmt.Fprintf(&b, "   Barcode: %s\n", orDash(p.Barcode))
	fmt.Fprintf(&b, "   Category: %s\n", categoryOf(p))
	if p.SubCategory != "" {
		fmt.Fprintf(&b, "   Subcategory: %s\n", p.SubCategory)
	}
	fmt.Fprintf(&b, "   Price: %s (%s)\n", money(p.UnitPrice), orDash(p.PriceType))
	if p.Cost != nil {
		fmt.Fprintf(&b, "   Cost: %s\n", money(*p.Cost))
	}
	if margin, ok := p.Margin(); ok {
		fmt.Fprintf(&b, "   Margin: %s\n", percent(margin))
	}
	fmt.Fprintf(&b, "   Stock tracked: %t\n", p.TrackStockLevel)
	if p.ParentProductID != "" {
		fmt.Fprintf(&b, "   Parent product: %s\n", p.ParentProductID)
	}
	for _, g := range p.VariantGroups {
		options := make([]string, 0, len(g.Options))
		for _, o := range g.Options {
			options = append(options, o.OptionValue)
		}
		fmt.Fprintf(&b, "   Variant %s: %s\n", g.Name, strings.Join(options, ", "))
	}
	if len(p.VariantValues) > 0 {
		values := make([]string, 0, len(p.VariantValues))
		for _, v := range p.VariantValues {
			values = append(values, v.Value)
		}
		fmt.Fprintf(&b, "   Variant values: %s\n", strings.Join(values, ", "))
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "   Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	return b.String()
}
