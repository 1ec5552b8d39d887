package report

import (
	"fmt"
	"sort"
	"strings"

	"storehub_mcp/internal/storehub"
)

const (
	strongOrderValue     = 100.0
	onlineShareTarget    = 0.3
	cancellationWarnRate = 0.1
)

var channelNames = map[string]string{
	"OFFLINE_PAYMENTS": "In-Store",
	"ONLINE_PAYMENTS":  "Online Store",
	"GRABFOOD":         "GrabFood",
	"SHOPEEFOOD":       "Shopee Food",
	"FOODPANDA":        "FoodPanda",
	"LAZADA":           "Lazada",
	"SHOPEE":           "Shopee",
	"ZALORA":           "Zalora",
	"WOOCOMMERCE":      "WooCommerce",
	"SHOPIFY":          "Shopify",
	"MAGENTO":          "Magento",
	"TIK_TOK_SHOP":     "TikTok Shop",
	"CUSTOM":           "Custom",
}

func ChannelName(channel string) string {
	if channel == "" {
		return "In-Store"
	}
	if name, ok := channelNames[strings.ToUpper(channel)]; ok {
		return name
	}
	return channel
}

type DayBucket struct {
	Date   string
	Count  int
	Amount float64
}

type ProductSales struct {
	ProductID string
	Name      string
	Quantity  float64
}

type SalesSummary struct {
	Count        int
	Total        float64
	SubTotal     float64
	AverageOrder float64
	Completed    int
	Cancelled    int
	Online       int

	Trend         []DayBucket
	ByChannel     []Count
	ByPayment     []Count
	ByDelivery    []Count
	Returns       int
	ReturnAmount  float64
	ReturnReasons []Count
	TopProducts   []ProductSales
	Insights      []string
}

// SummarizeSales aggregates the transaction list. Average order value is
// total over count and zero for an empty list.
func SummarizeSales(transactions []storehub.Transaction, catalog Catalog) SalesSummary {
	s := SalesSummary{Count: len(transactions)}
	if s.Count == 0 {
		return s
	}

	days := map[string]*DayBucket{}
	channels := map[string]*Count{}
	payments := map[string]*Count{}
	deliveries := map[string]*Count{}
	reasons := map[string]*Count{}
	sold := map[string]float64{}

	for _, t := range transactions {
		s.Total += t.Total
		s.SubTotal += t.SubTotal
		if t.Cancelled() {
			s.Cancelled++
		} else {
			s.Completed++
		}
		if t.Online() {
			s.Online++
		}

		day := "unknown"
		if created, ok := t.Created(); ok {
			day = created.Format("2006-01-02")
		}
		bucket, ok := days[day]
		if !ok {
			bucket = &DayBucket{Date: day}
			days[day] = bucket
		}
		bucket.Count++
		bucket.Amount += t.Total

		tally(channels, ChannelName(t.Channel), t.Total)
		if t.PaymentMethod != "" {
			tally(payments, t.PaymentMethod, t.Total)
		}
		if t.ShippingType != "" {
			tally(deliveries, t.ShippingType, t.Total)
		}

		if t.IsReturn() {
			s.Returns++
			s.ReturnAmount += t.Total
			reason := strings.TrimSpace(t.ReturnReason)
			if reason == "" {
				reason = "Not specified"
			}
			tally(reasons, reason, t.Total)
			continue
		}
		if t.IsSale() && !t.Cancelled() {
			for _, item := range t.Items {
				sold[item.ProductID] += item.Quantity
			}
		}
	}

	s.AverageOrder = s.Total / float64(s.Count)

	for _, bucket := range days {
		s.Trend = append(s.Trend, *bucket)
	}
	sort.Slice(s.Trend, func(i, j int) bool { return s.Trend[i].Date < s.Trend[j].Date })

	s.ByChannel = sortedCounts(channels)
	s.ByPayment = sortedCounts(payments)
	s.ByDelivery = sortedCounts(deliveries)
	s.ReturnReasons = sortedCounts(reasons)
	s.TopProducts = topProducts(sold, catalog)
	s.Insights = salesInsights(s)
	return s
}

func topProducts(sold map[string]float64, catalog Catalog) []ProductSales {
	out := make([]ProductSales, 0, len(sold))
	for id, qty := range sold {
		out = append(out, ProductSales{ProductID: id, Name: catalog.Name(id), Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > topProductsLimit {
		out = out[:topProductsLimit]
	}
	return out
}

func salesInsights(s SalesSummary) []string {
	var insights []string
	if s.AverageOrder > strongOrderValue {
		insights = append(insights, "Strong average order value.")
	} else {
		insights = append(insights, "Consider strategies to increase the average order value.")
	}
	if ratio(s.Online, s.Count) > onlineShareTarget {
		insights = append(insights, "Good online sales performance.")
	} else {
		insights = append(insights, "Opportunity to grow online sales.")
	}
	if rate := ratio(s.Cancelled, s.Count); rate > cancellationWarnRate {
		insights = append(insights, fmt.Sprintf("High cancellation rate (%s); investigate causes.", percent(rate)))
	} else {
		insights = append(insights, "Low cancellation rate.")
	}
	return insights
}

func Sales(result storehub.SalesResult) string {
	s := SummarizeSales(result.Transactions, NewCatalog(result.Products))

	var b strings.Builder
	fmt.Fprintf(&b, "SALES ANALYTICS\nPeriod: %s to %s (%d days)\n",
		result.Range.FromString(), result.Range.ToString(), result.Range.Days()+1)
	if !result.Range.IncludeOnline {
		b.WriteString("Online transactions excluded.\n")
	}
	if result.Windows > 1 {
		fmt.Fprintf(&b, "Retrieved in %d requests.\n", result.Windows)
	}
	writeFailedWindows(&b, result.FailedWindows)
	b.WriteString("\n")

	if s.Count == 0 {
		b.WriteString(noRecords("transaction"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Total revenue: %s\n   Average order value: %s\n", money(0), money(0))
		return b.String()
	}

	b.WriteString("KEY METRICS\n")
	fmt.Fprintf(&b, "   Transactions: %d\n", s.Count)
	fmt.Fprintf(&b, "   Total revenue: %s\n", money(s.Total))
	fmt.Fprintf(&b, "   Subtotal: %s\n", money(s.SubTotal))
	fmt.Fprintf(&b, "   Average order value: %s\n", money(s.AverageOrder))
	fmt.Fprintf(&b, "   Completed: %d\n", s.Completed)
	fmt.Fprintf(&b, "   Cancelled: %d\n", s.Cancelled)
	fmt.Fprintf(&b, "   Online: %d\n", s.Online)

	b.WriteString("\nDAILY TREND\n")
	for _, d := range s.Trend {
		fmt.Fprintf(&b, "   %s: %d orders, %s\n", d.Date, d.Count, money(d.Amount))
	}

	writeCounts(&b, "SALES BY CHANNEL", s.ByChannel)
	writeCounts(&b, "SALES BY PAYMENT METHOD", s.ByPayment)
	writeCounts(&b, "SALES BY DELIVERY METHOD", s.ByDelivery)

	if s.Returns > 0 {
		fmt.Fprintf(&b, "\nRETURNS\n   %d returns, %s\n", s.Returns, money(s.ReturnAmount))
		for _, r := range s.ReturnReasons {
			fmt.Fprintf(&b, "   - %s: %d\n", r.Key, r.Count)
		}
	}

	if len(s.TopProducts) > 0 {
		b.WriteString("\nTOP SELLING PRODUCTS\n")
		for i, p := range s.TopProducts {
			fmt.Fprintf(&b, "   %d. %s: %s units\n", i+1, p.Name, quantity(p.Quantity))
		}
	}

	b.WriteString("\nINSIGHTS\n")
	for _, insight := range s.Insights {
		fmt.Fprintf(&b, "   - %s\n", insight)
	}
	return b.String()
}

func writeCounts(b *strings.Builder, title string, counts []Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, c := range counts {
		fmt.Fprintf(b, "   %s: %d orders, %s\n", c.Key, c.Count, money(c.Amount))
	}
}

func writeFailedWindows(b *strings.Builder, failed []storehub.FailedWindow) {
	if len(failed) == 0 {
		return
	}
	fmt.Fprintf(b, "Warning: %d date window(s) could not be loaded:\n", len(failed))
	for _, w := range failed {
		fmt.Fprintf(b, "   - %s to %s (%s)\n", w.Range.FromString(), w.Range.ToString(), storehub.Category(w.Err))
	}
}
