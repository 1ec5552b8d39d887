package storehub

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MockClient answers every accessor call from a fixed dataset anchored to now.
// Writes are validated and echoed back but never stored.
type MockClient struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewMockClient(logger *zap.Logger) *MockClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockClient{logger: logger.Named("storehub.mock"), now: time.Now}
}

const mockStoreID = "store-001"

func (m *MockClient) Mode() string {
	return ModeMock
}

func (m *MockClient) GetStores(context.Context) ([]Store, error) {
	return []Store{
		{
			ID:         mockStoreID,
			Name:       "Demo Store KL",
			Address1:   "12 Jalan Bukit Bintang",
			City:       "Kuala Lumpur",
			State:      "WP Kuala Lumpur",
			Country:    "Malaysia",
			PostalCode: "55100",
			Phone:      "+60312345678",
			Email:      "kl@demo.example",
		},
	}, nil
}

func (m *MockClient) GetInventory(context.Context) (InventoryResult, error) {
	return InventoryResult{
		StoreID:  mockStoreID,
		Records:  mockInventory(),
		Products: mockProducts(),
	}, nil
}

func (m *MockClient) GetProducts(_ context.Context, filter ProductFilter) (ProductsResult, error) {
	if err := filter.Validate(); err != nil {
		return ProductsResult{}, err
	}
	products := mockProducts()
	return ProductsResult{
		Total:    len(products),
		Products: FilterProducts(products, filter),
		Filter:   filter,
	}, nil
}

func (m *MockClient) GetProduct(_ context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, missingField("productId")
	}
	for _, p := range mockProducts() {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, &APIError{Kind: ErrNotFound, Method: "GET", Path: "/products/" + id, StatusCode: 404}
}

func (m *MockClient) GetSales(_ context.Context, query SalesQuery) (SalesResult, error) {
	salesRange, err := query.Resolve(m.now())
	if err != nil {
		return SalesResult{}, err
	}
	var transactions []Transaction
	for _, t := range m.transactions() {
		created, ok := t.Created()
		if !ok || !salesRange.Contains(created) {
			continue
		}
		if !salesRange.IncludeOnline && t.Online() {
			continue
		}
		transactions = append(transactions, t)
	}
	return SalesResult{
		Range:        salesRange,
		StoreID:      mockStoreID,
		Transactions: transactions,
		Products:     mockProducts(),
		Windows:      len(salesRange.Windows()),
	}, nil
}

func (m *MockClient) GetCustomers(ctx context.Context, query CustomerQuery) (CustomersResult, error) {
	var customers []Customer
	for _, c := range m.customers() {
		if query.Match(c) {
			customers = append(customers, c)
		}
	}
	limit := query.EffectiveLimit()
	if len(customers) > limit {
		customers = customers[:limit]
	}
	result := CustomersResult{Customers: customers, Query: query, Limit: limit}
	if query.IncludePurchaseHistory && len(customers) > 0 {
		sales, err := m.GetSales(ctx, purchaseHistoryQuery(m.now()))
		if err != nil {
			return CustomersResult{}, err
		}
		result.Transactions = sales.Transactions
	}
	return result, nil
}

func (m *MockClient) GetEmployees(_ context.Context, query EmployeeQuery) ([]Employee, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return mockEmployees(), nil
}

func (m *MockClient) SearchTimesheets(_ context.Context, query TimesheetQuery) (TimesheetsResult, error) {
	if err := query.Validate(); err != nil {
		return TimesheetsResult{}, err
	}
	var timesheets []Timesheet
	for _, t := range m.timesheets() {
		if query.Match(t) {
			timesheets = append(timesheets, t)
		}
	}
	return TimesheetsResult{Timesheets: timesheets, Employees: mockEmployees(), Query: query}, nil
}

func (m *MockClient) CreateOnlineTransaction(_ context.Context, in OnlineTransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	if strings.TrimSpace(in.StoreID) == "" {
		in.StoreID = mockStoreID
	}
	if in.CreatedTime == "" {
		in.CreatedTime = m.timestamp()
	}
	m.logger.Info("mock online transaction accepted", zap.String("ref_id", in.RefID))
	return onlineTransactionRecord(in), nil
}

func (m *MockClient) CancelOnlineTransaction(_ context.Context, in CancelOnlineTransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	if in.CancelledTime == "" {
		in.CancelledTime = m.timestamp()
	}
	return Transaction{RefID: in.RefID, IsCancelled: true, CancelledTime: in.CancelledTime}, nil
}

func (m *MockClient) CreateCustomer(_ context.Context, in CustomerInput) (Customer, error) {
	if err := in.Validate(); err != nil {
		return Customer{}, err
	}
	if strings.TrimSpace(in.RefID) == "" {
		in.RefID = uuid.NewString()
	}
	created := customerRecord(in)
	created.CreatedTime = m.timestamp()
	created.ModifiedTime = created.CreatedTime
	return created, nil
}

func (m *MockClient) UpdateCustomer(_ context.Context, in CustomerUpdate) (Customer, error) {
	if err := in.Validate(); err != nil {
		return Customer{}, err
	}
	for _, c := range m.customers() {
		if c.RefID == in.RefID {
			updated := in.Apply(c)
			updated.ModifiedTime = m.timestamp()
			return updated, nil
		}
	}
	return Customer{}, &APIError{Kind: ErrNotFound, Method: "PATCH", Path: "/customers/" + in.RefID, StatusCode: 404}
}

func (m *MockClient) CreateTransaction(_ context.Context, in TransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	if strings.TrimSpace(in.StoreID) == "" {
		in.StoreID = mockStoreID
	}
	if strings.TrimSpace(in.RefID) == "" {
		in.RefID = uuid.NewString()
	}
	if in.CreatedTime == "" {
		in.CreatedTime = m.timestamp()
	}
	return transactionRecord(in), nil
}

func (m *MockClient) CancelTransaction(_ context.Context, in CancelTransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	if in.CancelledTime == "" {
		in.CancelledTime = m.timestamp()
	}
	return Transaction{
		RefID:         in.RefID,
		IsCancelled:   true,
		CancelledTime: in.CancelledTime,
		CancelledBy:   in.CancelledBy,
	}, nil
}

func (m *MockClient) timestamp() string {
	return m.now().UTC().Format(time.RFC3339)
}

// daysAgo renders a timestamp at the given hour, n days before now.
func (m *MockClient) daysAgo(n, hour int) string {
	day := startOfDay(m.now()).AddDate(0, 0, -n)
	return day.Add(time.Duration(hour) * time.Hour).Format(time.RFC3339)
}

func (m *MockClient) transactions() []Transaction {
	item := func(productID string, qty, price float64) TransactionItem {
		return TransactionItem{ProductID: productID, Quantity: qty, UnitPrice: price, SubTotal: qty * price, Total: qty * price}
	}
	return []Transaction{
		{
			RefID: "txn-1001", StoreID: mockStoreID, TransactionType: TransactionSale,
			Total: 25.80, SubTotal: 24.00, PaymentMethod: "Cash", CustomerRefID: "cust-001",
			Items:       []TransactionItem{item("prod-001", 2, 8.50), item("prod-003", 1, 7.00)},
			CreatedTime: m.daysAgo(0, 9),
		},
		{
			RefID: "txn-1002", StoreID: mockStoreID, TransactionType: TransactionSale,
			Total: 142.00, SubTotal: 135.00, PaymentMethod: "CreditCard", CustomerRefID: "cust-002",
			Items:       []TransactionItem{item("prod-004", 1, 135.00)},
			CreatedTime: m.daysAgo(1, 14),
		},
		{
			RefID: "txn-1003", StoreID: mockStoreID, TransactionType: TransactionSale,
			Total: 54.00, SubTotal: 51.00, PaymentMethod: "EWallet", Channel: "SHOPEE", ShippingType: "Delivery",
			CustomerRefID: "cust-001",
			Items:         []TransactionItem{item("prod-002", 3, 17.00)},
			CreatedTime:   m.daysAgo(2, 11),
		},
		{
			RefID: "txn-1004", StoreID: mockStoreID, TransactionType: TransactionReturn,
			Total: 8.50, SubTotal: 8.50, PaymentMethod: "Cash", ReturnReason: "Damaged packaging",
			Items:       []TransactionItem{item("prod-001", 1, 8.50)},
			CreatedTime: m.daysAgo(3, 16),
		},
		{
			RefID: "txn-1005", StoreID: mockStoreID, TransactionType: TransactionSale,
			Total: 17.00, SubTotal: 17.00, PaymentMethod: "DebitCard", IsCancelled: true,
			Items:         []TransactionItem{item("prod-002", 1, 17.00)},
			CreatedTime:   m.daysAgo(4, 10),
			CancelledTime: m.daysAgo(4, 11),
		},
		{
			RefID: "txn-1006", StoreID: mockStoreID, TransactionType: TransactionSale,
			Total: 36.00, SubTotal: 34.00, PaymentMethod: "EWallet", Channel: "LAZADA", ShippingType: "Pickup",
			CustomerRefID: "cust-003",
			Items:         []TransactionItem{item("prod-005", 2, 17.00)},
			CreatedTime:   m.daysAgo(6, 19),
		},
		{
			RefID: "txn-1007", StoreID: mockStoreID, TransactionType: TransactionSale,
			Total: 30.00, SubTotal: 28.00, PaymentMethod: "Cash", CustomerRefID: "cust-002",
			Items:       []TransactionItem{item("prod-003", 4, 7.00)},
			CreatedTime: m.daysAgo(12, 13),
		},
	}
}

func (m *MockClient) customers() []Customer {
	return []Customer{
		{
			RefID: "cust-001", FirstName: "Aisyah", LastName: "Rahman", Email: "aisyah@example.com",
			Phone: "+60123456701", City: "Kuala Lumpur", Country: "Malaysia", MemberID: "M-1001",
			Tags: []string{"vip"}, StoreCreditsBalance: 12.50,
			CreatedTime: m.daysAgo(200, 10), ModifiedTime: m.daysAgo(5, 10),
		},
		{
			RefID: "cust-002", FirstName: "Daniel", LastName: "Tan", Email: "daniel.tan@example.com",
			Phone: "+60123456702", City: "Petaling Jaya", Country: "Malaysia",
			CreatedTime: m.daysAgo(10, 12), ModifiedTime: m.daysAgo(10, 12),
		},
		{
			RefID: "cust-003", FirstName: "Priya", LastName: "Nair", Phone: "+60123456703",
			City: "Penang", Country: "Malaysia", MemberID: "M-1003", CashbackBalance: 4.20,
			CreatedTime: m.daysAgo(45, 9), ModifiedTime: m.daysAgo(20, 9),
		},
	}
}

func (m *MockClient) timesheets() []Timesheet {
	return []Timesheet{
		{EmployeeID: "emp-001", StoreID: mockStoreID, ClockInTime: m.daysAgo(1, 9), ClockOutTime: m.daysAgo(1, 17)},
		{EmployeeID: "emp-002", StoreID: mockStoreID, ClockInTime: m.daysAgo(1, 12), ClockOutTime: m.daysAgo(1, 18)},
		{EmployeeID: "emp-001", StoreID: mockStoreID, ClockInTime: m.daysAgo(0, 9)},
	}
}

func mockEmployees() []Employee {
	return []Employee{
		{ID: "emp-001", FirstName: "Farid", LastName: "Hassan", Email: "farid@demo.example"},
		{ID: "emp-002", FirstName: "Mei Ling", LastName: "Chong", Phone: "+60129876543"},
	}
}

func mockProducts() []Product {
	cost := func(v float64) *float64 { return &v }
	return []Product{
		{ID: "prod-001", Name: "Kopi O Beans 250g", SKU: "KOP-250", Barcode: "9555000000011", Category: "Beverages",
			PriceType: "Fixed", UnitPrice: 8.50, Cost: cost(5.10), TrackStockLevel: true},
		{ID: "prod-002", Name: "Teh Tarik Mix", SKU: "TEH-010", Category: "Beverages",
			PriceType: "Fixed", UnitPrice: 17.00, Cost: cost(9.00), TrackStockLevel: true},
		{ID: "prod-003", Name: "Kaya Toast Set", SKU: "KAY-001", Category: "Food",
			PriceType: "Fixed", UnitPrice: 7.00, TrackStockLevel: false},
		{ID: "prod-004", Name: "Rattan Basket", SKU: "RAT-100", Barcode: "9555000000042", Category: "Homeware",
			PriceType: "Variable", UnitPrice: 135.00, Cost: cost(80.00), TrackStockLevel: true, IsParentProduct: true,
			VariantGroups: []VariantGroup{{Name: "Size", Options: []VariantOption{{OptionValue: "M"}, {OptionValue: "L"}}}}},
		{ID: "prod-005", Name: "Rattan Basket - M", SKU: "RAT-100-M", Category: "Homeware",
			PriceType: "Fixed", UnitPrice: 17.00, Cost: cost(11.00), TrackStockLevel: true, ParentProductID: "prod-004",
			VariantValues: []VariantValue{{Value: "M"}}},
	}
}

func mockInventory() []InventoryRecord {
	level := func(v float64) *float64 { return &v }
	return []InventoryRecord{
		{ProductID: "prod-001", StoreID: mockStoreID, Quantity: 42, WarningStock: level(10), IdealStock: level(60)},
		{ProductID: "prod-002", StoreID: mockStoreID, Quantity: 4, WarningStock: level(8), IdealStock: level(30)},
		{ProductID: "prod-004", StoreID: mockStoreID, Quantity: 0, WarningStock: level(2)},
		{ProductID: "prod-005", StoreID: mockStoreID, Quantity: 6, WarningStock: level(5)},
	}
}
