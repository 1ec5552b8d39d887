package report

import (
	"fmt"
	"strings"
	"time"

	"storehub_mcp/internal/storehub"
)

const newCustomerDays = 30

type CustomerSummary struct {
	Count     int
	Members   int
	WithEmail int
	WithPhone int
	NewRecent int

	// Purchase history figures are only meaningful when HasHistory is set.
	HasHistory        bool
	Purchasers        int
	RepeatPurchasers  int
	RepeatRate        float64
	AverageLifetime   float64
	SpendByCustomerID map[string]float64
}

// SummarizeCustomers counts the listed customers. When history is not nil the
// completed sales are attributed to customers by refId; repeat rate is repeat
// purchasers over purchasers and average lifetime value is spend over listed customers.
func SummarizeCustomers(customers []storehub.Customer, history []storehub.Transaction, now time.Time) CustomerSummary {
	s := CustomerSummary{Count: len(customers)}
	cutoff := now.AddDate(0, 0, -newCustomerDays)

	listed := make(map[string]bool, len(customers))
	for _, c := range customers {
		listed[c.RefID] = true
		if strings.TrimSpace(c.MemberID) != "" {
			s.Members++
		}
		if strings.TrimSpace(c.Email) != "" {
			s.WithEmail++
		}
		if strings.TrimSpace(c.Phone) != "" {
			s.WithPhone++
		}
		if created, ok := storehub.ParseTimestamp(c.CreatedTime); ok && created.After(cutoff) {
			s.NewRecent++
		}
	}

	if history == nil {
		return s
	}
	s.HasHistory = true
	s.SpendByCustomerID = map[string]float64{}
	orders := map[string]int{}
	var spend float64
	for _, t := range history {
		if !listed[t.CustomerRefID] || !t.IsSale() || t.Cancelled() {
			continue
		}
		orders[t.CustomerRefID]++
		s.SpendByCustomerID[t.CustomerRefID] += t.Total
		spend += t.Total
	}
	s.Purchasers = len(orders)
	for _, n := range orders {
		if n >= 2 {
			s.RepeatPurchasers++
		}
	}
	s.RepeatRate = ratio(s.RepeatPurchasers, s.Purchasers)
	if s.Count > 0 {
		s.AverageLifetime = spend / float64(s.Count)
	}
	return s
}

func Customers(result storehub.CustomersResult, now time.Time) string {
	history := result.Transactions
	if result.Query.IncludePurchaseHistory && history == nil && result.TransactionsErr == nil {
		history = []storehub.Transaction{}
	}
	s := SummarizeCustomers(result.Customers, history, now)

	var b strings.Builder
	b.WriteString("CUSTOMERS\n")
	fmt.Fprintf(&b, "Showing %d customers (limit %d)\n\n", s.Count, result.Limit)
	if s.Count == 0 {
		b.WriteString(noRecords("customer"))
		b.WriteString("\n")
		return b.String()
	}

	for _, c := range result.Customers {
		fmt.Fprintf(&b, "- %s [ref %s]\n", c.FullName(), c.RefID)
		if c.Email != "" {
			fmt.Fprintf(&b, "   Email: %s\n", c.Email)
		}
		if c.Phone != "" {
			fmt.Fprintf(&b, "   Phone: %s\n", c.Phone)
		}
		if c.MemberID != "" {
			fmt.Fprintf(&b, "   Member: %s\n", c.MemberID)
		}
		if c.StoreCreditsBalance != 0 || c.CashbackBalance != 0 {
			fmt.Fprintf(&b, "   Store credits: %s, cashback: %s\n", money(c.StoreCreditsBalance), money(c.CashbackBalance))
		}
		if s.HasHistory {
			fmt.Fprintf(&b, "   Spend (last %d days): %s\n", storehub.PurchaseHistoryDays, money(s.SpendByCustomerID[c.RefID]))
		}
	}

	b.WriteString("\nCUSTOMER INSIGHTS\n")
	fmt.Fprintf(&b, "   Customers shown: %d\n", s.Count)
	fmt.Fprintf(&b, "   Members: %d\n", s.Members)
	fmt.Fprintf(&b, "   With email: %d\n", s.WithEmail)
	fmt.Fprintf(&b, "   With phone: %d\n", s.WithPhone)
	fmt.Fprintf(&b, "   New in the last %d days: %d\n", newCustomerDays, s.NewRecent)
	switch {
	case s.HasHistory:
		fmt.Fprintf(&b, "   Purchasers (last %d days): %d\n", storehub.PurchaseHistoryDays, s.Purchasers)
		fmt.Fprintf(&b, "   Repeat purchase rate: %s\n", percent(s.RepeatRate))
		fmt.Fprintf(&b, "   Average lifetime value: %s\n", money(s.AverageLifetime))
	case result.TransactionsErr != nil:
		fmt.Fprintf(&b, "   Purchase history unavailable (%s)\n", storehub.Category(result.TransactionsErr))
	}
	return b.String()
}
