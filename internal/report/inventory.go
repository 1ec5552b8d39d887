package report

import (
	"fmt"
	"sort"
	"strings"

	"storehub_mcp/internal/storehub"
)

type InventoryLine struct {
	ProductID string
	Name      string
	SKU       string
	Quantity  float64
	Warning   *float64
	Ideal     *float64
	Health    storehub.StockHealth
	Reorder   float64
}

type InventorySummary struct {
	StoreID    string
	Total      int
	OutOfStock int
	Low        int
	Healthy    int
	Lines      []InventoryLine

	// ReorderList holds low and out-of-stock lines, lowest quantity first.
	ReorderList []InventoryLine
}

func SummarizeInventory(storeID string, records []storehub.InventoryRecord, catalog Catalog) InventorySummary {
	summary := InventorySummary{StoreID: storeID, Total: len(records)}
	for _, r := range records {
		line := InventoryLine{
			ProductID: r.ProductID,
			Name:      catalog.Name(r.ProductID),
			SKU:       catalog.SKU(r.ProductID),
			Quantity:  r.Quantity,
			Warning:   r.WarningStock,
			Ideal:     r.IdealStock,
			Health:    r.Health(),
			Reorder:   r.ReorderQuantity(),
		}
		switch line.Health {
		case storehub.StockOutOfStock:
			summary.OutOfStock++
		case storehub.StockLow:
			summary.Low++
		default:
			summary.Healthy++
		}
		summary.Lines = append(summary.Lines, line)
		if line.Health != storehub.StockHealthy {
			summary.ReorderList = append(summary.ReorderList, line)
		}
	}
	sort.SliceStable(summary.ReorderList, func(i, j int) bool {
		return summary.ReorderList[i].Quantity < summary.ReorderList[j].Quantity
	})
	return summary
}

func Inventory(result storehub.InventoryResult) string {
	summary := SummarizeInventory(result.StoreID, result.Records, NewCatalog(result.Products))

	var b strings.Builder
	fmt.Fprintf(&b, "INVENTORY STATUS (store %s)\n\n", orDash(summary.StoreID))
	if summary.Total == 0 {
		b.WriteString(noRecords("inventory"))
		b.WriteString("\n")
		return b.String()
	}

	for _, line := range summary.Lines {
		fmt.Fprintf(&b, "[%s] %s (%s)\n", healthLabel(line.Health), line.Name, line.SKU)
		fmt.Fprintf(&b, "   On hand: %s units\n", quantity(line.Quantity))
		if line.Warning != nil {
			fmt.Fprintf(&b, "   Warning level: %s units\n", quantity(*line.Warning))
		}
		if line.Ideal != nil {
			fmt.Fprintf(&b, "   Ideal level: %s units\n", quantity(*line.Ideal))
		}
	}

	b.WriteString("\nSUMMARY\n")
	fmt.Fprintf(&b, "   Products tracked: %d\n", summary.Total)
	fmt.Fprintf(&b, "   Out of stock: %d\n", summary.OutOfStock)
	fmt.Fprintf(&b, "   Low stock: %d\n", summary.Low)
	fmt.Fprintf(&b, "   Healthy: %d\n", summary.Healthy)

	if len(summary.ReorderList) > 0 {
		b.WriteString("\nREORDER LIST\n")
		for i, line := range summary.ReorderList {
			fmt.Fprintf(&b, "   %d. %s: %s on hand, reorder %s units\n",
				i+1, line.Name, quantity(line.Quantity), quantity(line.Reorder))
		}
	}
	if result.ProductsErr != nil {
		b.WriteString("\nNote: product names could not be loaded; ids are shown instead.\n")
	}
	return b.String()
}

func healthLabel(h storehub.StockHealth) string {
	switch h {
	case storehub.StockOutOfStock:
		return "OUT OF STOCK"
	case storehub.StockLow:
		return "LOW"
	default:
		return "OK"
	}
}
