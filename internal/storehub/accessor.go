package storehub

import (
	"context"
	"errors"
)

const (
	ModeLive = "live"
	ModeMock = "mock"
)

// ErrNoStores is returned when the store id has to be resolved and /stores is empty.
var ErrNoStores = errors.New("storehub account has no stores")

// Accessor is the typed view over the StoreHub resources.
type Accessor interface {
	Mode() string

	GetStores(ctx context.Context) ([]Store, error)
	GetInventory(ctx context.Context) (InventoryResult, error)
	GetProducts(ctx context.Context, filter ProductFilter) (ProductsResult, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	GetSales(ctx context.Context, query SalesQuery) (SalesResult, error)
	GetCustomers(ctx context.Context, query CustomerQuery) (CustomersResult, error)
	GetEmployees(ctx context.Context, query EmployeeQuery) ([]Employee, error)
	SearchTimesheets(ctx context.Context, query TimesheetQuery) (TimesheetsResult, error)

	CreateOnlineTransaction(ctx context.Context, in OnlineTransactionInput) (Transaction, error)
	CancelOnlineTransaction(ctx context.Context, in CancelOnlineTransactionInput) (Transaction, error)
	CreateCustomer(ctx context.Context, in CustomerInput) (Customer, error)
	UpdateCustomer(ctx context.Context, in CustomerUpdate) (Customer, error)
	CreateTransaction(ctx context.Context, in TransactionInput) (Transaction, error)
	CancelTransaction(ctx context.Context, in CancelTransactionInput) (Transaction, error)
}

type InventoryResult struct {
	StoreID  string
	Records  []InventoryRecord
	Products []Product

	// ProductsErr is set when the name lookup failed; records are still usable.
	ProductsErr error
}

type ProductsResult struct {
	Total    int
	Products []Product
	Filter   ProductFilter
}

type SalesResult struct {
	Range         SalesRange
	StoreID       string
	Transactions  []Transaction
	Products      []Product
	Windows       int
	FailedWindows []FailedWindow
}

type FailedWindow struct {
	Range SalesRange
	Err   error
}

type CustomersResult struct {
	Customers []Customer
	Query     CustomerQuery
	Limit     int

	// Transactions holds the last 30 days of sales when purchase history was requested.
	Transactions    []Transaction
	TransactionsErr error
}

type TimesheetsResult struct {
	Timesheets []Timesheet
	Employees  []Employee
	Query      TimesheetQuery

	// EmployeesErr is set when the name lookup failed.
	EmployeesErr error
}
