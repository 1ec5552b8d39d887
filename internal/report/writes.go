package report

import (
	"fmt"
	"strings"

	"storehub_mcp/internal/storehub"
)

func TransactionCreated(t storehub.Transaction, online bool) string {
	var b strings.Builder
	if online {
		b.WriteString("ONLINE TRANSACTION CREATED\n\n")
	} else {
		b.WriteString("TRANSACTION CREATED\n\n")
	}
	fmt.Fprintf(&b, "   Ref ID: %s\n", t.RefID)
	fmt.Fprintf(&b, "   Store: %s\n", orDash(t.StoreID))
	if t.TransactionType != "" {
		fmt.Fprintf(&b, "   Type: %s\n", t.TransactionType)
	}
	if t.Channel != "" {
		fmt.Fprintf(&b, "   Channel: %s\n", ChannelName(t.Channel))
	}
	if t.ShippingType != "" {
		fmt.Fprintf(&b, "   Shipping: %s\n", t.ShippingType)
	}
	if t.PaymentMethod != "" {
		fmt.Fprintf(&b, "   Payment: %s\n", t.PaymentMethod)
	}
	fmt.Fprintf(&b, "   Subtotal: %s\n", money(t.SubTotal))
	fmt.Fprintf(&b, "   Total: %s\n", money(t.Total))
	fmt.Fprintf(&b, "   Items: %d\n", len(t.Items))
	if t.CustomerRefID != "" {
		fmt.Fprintf(&b, "   Customer: %s\n", t.CustomerRefID)
	}
	if t.ReturnReason != "" {
		fmt.Fprintf(&b, "   Return reason: %s\n", t.ReturnReason)
	}
	if t.CreatedTime != "" {
		fmt.Fprintf(&b, "   Created: %s\n", t.CreatedTime)
	}
	return b.String()
}

func TransactionCancelled(t storehub.Transaction, online bool) string {
	var b strings.Builder
	if online {
		b.WriteString("ONLINE TRANSACTION CANCELLED\n\n")
	} else {
		b.WriteString("TRANSACTION CANCELLED\n\n")
	}
	fmt.Fprintf(&b, "   Ref ID: %s\n", t.RefID)
	fmt.Fprintf(&b, "   Cancelled at: %s\n", orDash(t.CancelledTime))
	if t.CancelledBy != "" {
		fmt.Fprintf(&b, "   Cancelled by: %s\n", t.CancelledBy)
	}
	return b.String()
}

func CustomerSaved(c storehub.Customer, created bool) string {
	var b strings.Builder
	if created {
		b.WriteString("CUSTOMER CREATED\n\n")
	} else {
		b.WriteString("CUSTOMER UPDATED\n\n")
	}
	fmt.Fprintf(&b, "   Ref ID: %s\n", c.RefID)
	fmt.Fprintf(&b, "   Name: %s\n", c.FullName())
	if c.Email != "" {
		fmt.Fprintf(&b, "   Email: %s\n", c.Email)
	}
	if c.Phone != "" {
		fmt.Fprintf(&b, "   Phone: %s\n", c.Phone)
	}
	if c.MemberID != "" {
		fmt.Fprintf(&b, "   Member: %s\n", c.MemberID)
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(&b, "   Tags: %s\n", strings.Join(c.Tags, ", "))
	}
	return b.String()
}
