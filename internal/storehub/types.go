package storehub

import (
	"fmt"
	"strings"
	"time"
)

type StockHealth string

const (
	StockOutOfStock StockHealth = "out_of_stock"
	StockLow        StockHealth = "low"
	StockHealthy    StockHealth = "healthy"
)

const (
	TransactionSale         = "Sale"
	TransactionReturn       = "Return"
	TransactionCancellation = "Cancellation"
)

// Channels accepted for online transactions.
var Channels = []string{
	"LAZADA", "SHOPEE", "ZALORA", "WOOCOMMERCE", "SHOPIFY", "MAGENTO", "TIK_TOK_SHOP", "CUSTOM",
}

// TransactionTypes accepted when creating a transaction.
var TransactionTypes = []string{TransactionSale, TransactionReturn}

var PaymentMethods = []string{
	"Cash", "CreditCard", "DebitCard", "EWallet", "BankTransfer", "Voucher", "Other",
}

type Store struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Website    string `json:"website,omitempty"`
}

func (s Store) Address() string {
	parts := make([]string, 0, 6)
	for _, part := range []string{s.Address1, s.Address2, s.City, s.State, s.Country, s.PostalCode} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, ", ")
}

type VariantOption struct {
	ID          string `json:"id,omitempty"`
	OptionValue string `json:"optionValue"`
}

type VariantGroup struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name"`
	Options []VariantOption `json:"options,omitempty"`
}

type VariantValue struct {
	VariantGroupID string `json:"variantGroupId,omitempty"`
	Value          string `json:"value"`
}

type Product struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	SKU             string         `json:"sku,omitempty"`
	Barcode         string         `json:"barcode,omitempty"`
	Category        string         `json:"category,omitempty"`
	SubCategory     string         `json:"subCategory,omitempty"`
	PriceType       string         `json:"priceType,omitempty"`
	UnitPrice       float64        `json:"unitPrice"`
	Cost            *float64       `json:"cost,omitempty"`
	TrackStockLevel bool           `json:"trackStockLevel"`
	IsParentProduct bool           `json:"isParentProduct"`
	ParentProductID string         `json:"parentProductId,omitempty"`
	VariantGroups   []VariantGroup `json:"variantGroups,omitempty"`
	VariantValues   []VariantValue `json:"variantValues,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
}

// Margin is (unitPrice - cost) / unitPrice. It is undefined without cost data
// or a positive price.
func (p Product) Margin() (float64, bool) {
	if p.Cost == nil || p.UnitPrice <= 0 {
		return 0, false
	}
	return (p.UnitPrice - *p.Cost) / p.UnitPrice, true
}

func (p Product) HasVariants() bool {
	return p.IsParentProduct || len(p.VariantGroups) > 0
}

func (p Product) IsVariant() bool {
	return len(p.VariantValues) > 0 || p.ParentProductID != ""
}

func (p Product) HasCost() bool {
	return p.Cost != nil
}

func (p Product) VariablePricing() bool {
	return p.PriceType != "" && !strings.EqualFold(p.PriceType, "Fixed")
}

type InventoryRecord struct {
	ProductID    string   `json:"productId"`
	StoreID      string   `json:"storeId,omitempty"`
	Quantity     float64  `json:"quantityOnHand"`
	WarningStock *float64 `json:"warningStock,omitempty"`
	IdealStock   *float64 `json:"idealStock,omitempty"`
}

// Health classifies the record. Negative on-hand counts are treated as empty shelves.
func (r InventoryRecord) Health() StockHealth {
	switch {
	case r.Quantity <= 0:
		return StockOutOfStock
	case r.WarningStock != nil && r.Quantity <= *r.WarningStock:
		return StockLow
	default:
		return StockHealthy
	}
}

// ReorderQuantity suggests how many units bring the record back to a healthy level.
func (r InventoryRecord) ReorderQuantity() float64 {
	if r.Health() == StockHealthy {
		return 0
	}
	if r.IdealStock != nil && *r.IdealStock > r.Quantity {
		return *r.IdealStock - r.Quantity
	}
	suggested := 10.0
	if r.WarningStock != nil && *r.WarningStock*2 > suggested {
		suggested = *r.WarningStock * 2
	}
	return suggested
}

type TransactionItem struct {
	ProductID string  `json:"productId" validate:"notblank"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	SubTotal  float64 `json:"subTotal,omitempty"`
	Total     float64 `json:"total,omitempty"`
	Discount  float64 `json:"discount,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

type DeliveryAddress struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Transaction struct {
	RefID           string            `json:"refId"`
	StoreID         string            `json:"storeId,omitempty"`
	TransactionType string            `json:"transactionType,omitempty"`
	Total           float64           `json:"total"`
	SubTotal        float64           `json:"subTotal"`
	Items           []TransactionItem `json:"items,omitempty"`
	PaymentMethod   string            `json:"paymentMethod,omitempty"`
	Channel         string            `json:"channel,omitempty"`
	ShippingType    string            `json:"shippingType,omitempty"`
	CustomerRefID   string            `json:"customerRefId,omitempty"`
	EmployeeID      string            `json:"employeeId,omitempty"`
	ReturnReason    string            `json:"returnReason,omitempty"`
	IsCancelled     bool              `json:"isCancelled,omitempty"`
	CreatedTime     string            `json:"createdTime,omitempty"`
	CancelledTime   string            `json:"cancelledTime,omitempty"`
	CancelledBy     string            `json:"cancelledBy,omitempty"`
	DeliveryAddress *DeliveryAddress  `json:"deliveryAddress,omitempty"`
}

func (t Transaction) Cancelled() bool {
	return t.IsCancelled || strings.TrimSpace(t.CancelledTime) != "" ||
		strings.EqualFold(t.TransactionType, TransactionCancellation)
}

func (t Transaction) IsReturn() bool {
	return strings.EqualFold(t.TransactionType, TransactionReturn)
}

// IsSale treats an empty type as a sale, which is what the API omits for plain receipts.
func (t Transaction) IsSale() bool {
	return t.TransactionType == "" || strings.EqualFold(t.TransactionType, TransactionSale)
}

// Online reports a transaction that came through a marketplace or webstore channel.
func (t Transaction) Online() bool {
	channel := strings.TrimSpace(t.Channel)
	return channel != "" && !strings.EqualFold(channel, "OFFLINE_PAYMENTS")
}

func (t Transaction) Created() (time.Time, bool) {
	return ParseTimestamp(t.CreatedTime)
}

type Customer struct {
	RefID               string   `json:"refId"`
	FirstName           string   `json:"firstName"`
	LastName            string   `json:"lastName,omitempty"`
	Email               string   `json:"email,omitempty"`
	Phone               string   `json:"phone,omitempty"`
	Address1            string   `json:"address1,omitempty"`
	Address2            string   `json:"address2,omitempty"`
	City                string   `json:"city,omitempty"`
	State               string   `json:"state,omitempty"`
	PostalCode          string   `json:"postalCode,omitempty"`
	Country             string   `json:"country,omitempty"`
	MemberID            string   `json:"memberId,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	StoreCreditsBalance float64  `json:"storeCreditsBalance,omitempty"`
	CashbackBalance     float64  `json:"cashbackBalance,omitempty"`
	CreatedTime         string   `json:"createdTime,omitempty"`
	ModifiedTime        string   `json:"modifiedTime,omitempty"`
}

func (c Customer) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return fmt.Sprintf("Customer %s", c.RefID)
	}
	return name
}

type Employee struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CreatedTime  string `json:"createdTime,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
}

func (e Employee) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
	if name == "" {
		return fmt.Sprintf("Employee %s", e.ID)
	}
	return name
}

type Timesheet struct {
	EmployeeID   string `json:"employeeId"`
	StoreID      string `json:"storeId,omitempty"`
	ClockInTime  string `json:"clockInTime"`
	ClockOutTime string `json:"clockOutTime,omitempty"`
}

func (t Timesheet) Active() bool {
	return strings.TrimSpace(t.ClockOutTime) == ""
}

// Hours is defined only for closed entries whose timestamps both parse.
func (t Timesheet) Hours() (float64, bool) {
	if t.Active() {
		return 0, false
	}
	in, ok := ParseTimestamp(t.ClockInTime)
	if !ok {
		return 0, false
	}
	out, ok := ParseTimestamp(t.ClockOutTime)
	if !ok {
		return 0, false
	}
	return out.Sub(in).Hours(), true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
