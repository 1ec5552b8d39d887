package tools

import (
	"context"
	"encoding/json"

	"storehub_mcp/internal/report"
	"storehub_mcp/internal/storehub"
)

const (
	GetInventory            = "get_inventory"
	GetProducts             = "get_products"
	GetProduct              = "get_product"
	GetSalesAnalytics       = "get_sales_analytics"
	GetCustomers            = "get_customers"
	GetStores               = "get_stores"
	GetEmployees            = "get_employees"
	SearchTimesheets        = "search_timesheets"
	CreateOnlineTransaction = "create_online_transaction"
	CancelOnlineTransaction = "cancel_online_transaction"
	CreateCustomer          = "create_customer"
	UpdateCustomer          = "update_customer"
	CreateTransaction       = "create_transaction"
	CancelTransaction       = "cancel_transaction"
	TestAPIConnection       = "test_api_connection"
)

// Definition is one callable tool. Schema is a JSON schema object for the arguments.
type Definition struct {
	Name        string
	Description string
	Schema      map[string]any

	run func(ctx context.Context, d *Dispatcher, raw json.RawMessage) (string, error)
}

func define[P any](name, description string, schema map[string]any, handle func(context.Context, *Dispatcher, P) (string, error)) Definition {
	return Definition{
		Name:        name,
		Description: description,
		Schema:      schema,
		run: func(ctx context.Context, d *Dispatcher, raw json.RawMessage) (string, error) {
			params, err := bind[P](raw)
			if err != nil {
				return "", err
			}
			return handle(ctx, d, params)
		},
	}
}

func registry() []Definition {
	return []Definition{
		define(GetInventory,
			"Current stock levels for the store with low-stock and out-of-stock alerts and reorder suggestions.",
			object(nil, map[string]any{}),
			func(ctx context.Context, d *Dispatcher, _ noParams) (string, error) {
				result, err := d.accessor.GetInventory(ctx)
				if err != nil {
					return "", err
				}
				return report.Inventory(result), nil
			}),

		define(GetProducts,
			"Product catalog grouped by category with pricing, margins and catalog statistics. All filters are optional.",
			object(nil, map[string]any{
				"search_term":        str("Case-insensitive match on name, SKU or barcode."),
				"category":           str("Exact category name, case-insensitive."),
				"min_price":          number("Minimum unit price, inclusive."),
				"max_price":          number("Maximum unit price, inclusive."),
				"stock_tracked_only": boolean("Only products with stock tracking enabled."),
				"has_variants":       boolean("Only parent products (true) or only products without variants (false)."),
				"has_cost_data":      boolean("Only products with (true) or without (false) a cost price."),
			}),
			func(ctx context.Context, d *Dispatcher, p getProductsParams) (string, error) {
				result, err := d.accessor.GetProducts(ctx, p.filter())
				if err != nil {
					return "", err
				}
				return report.Products(result), nil
			}),

		define(GetProduct,
			"Full details for a single product.",
			object([]string{"product_id"}, map[string]any{
				"product_id": str("Product ID."),
			}),
			func(ctx context.Context, d *Dispatcher, p getProductParams) (string, error) {
				product, err := d.accessor.GetProduct(ctx, p.ProductID)
				if err != nil {
					return "", err
				}
				return report.ProductDetail(product), nil
			}),

		define(GetSalesAnalytics,
			"Sales analytics for a date range: totals, average order value, daily trend, channel and payment breakdown, returns, top products and insights. Defaults to the last 7 days; ranges are limited to 90 days.",
			object(nil, map[string]any{
				"from_date":      date("Start date, YYYY-MM-DD."),
				"to_date":        date("End date, YYYY-MM-DD."),
				"include_online": boolean("Include online channel transactions (default true)."),
			}),
			func(ctx context.Context, d *Dispatcher, p salesParams) (string, error) {
				result, err := d.accessor.GetSales(ctx, p.query())
				if err != nil {
					return "", err
				}
				return report.Sales(result), nil
			}),

		define(GetCustomers,
			"Search customers. A search term containing @ is matched as email, a number as phone, anything else as first name.",
			object(nil, map[string]any{
				"search_term":              str("Free-text search routed to email, phone or first name."),
				"first_name":               str("First name filter."),
				"last_name":                str("Last name filter."),
				"email":                    str("Email filter."),
				"phone":                    str("Phone filter."),
				"limit":                    integer("Maximum customers to return (default 10).", 1, storehub.MaxCustomerLimit),
				"include_purchase_history": boolean("Add repeat-purchase and lifetime value analysis from the last 30 days of sales."),
			}),
			func(ctx context.Context, d *Dispatcher, p customersParams) (string, error) {
				result, err := d.accessor.GetCustomers(ctx, p.query())
				if err != nil {
					return "", err
				}
				return report.Customers(result, d.now()), nil
			}),

		define(GetStores,
			"List the stores on the account with contact details.",
			object(nil, map[string]any{}),
			func(ctx context.Context, d *Dispatcher, _ noParams) (string, error) {
				stores, err := d.accessor.GetStores(ctx)
				if err != nil {
					return "", err
				}
				return report.Stores(stores), nil
			}),

		define(GetEmployees,
			"List employees, optionally only those modified since a date.",
			object(nil, map[string]any{
				"modified_since": date("Only employees modified on or after this date, YYYY-MM-DD."),
			}),
			func(ctx context.Context, d *Dispatcher, p employeesParams) (string, error) {
				employees, err := d.accessor.GetEmployees(ctx, storehub.EmployeeQuery{ModifiedSince: p.ModifiedSince})
				if err != nil {
					return "", err
				}
				return report.Employees(employees), nil
			}),

		define(SearchTimesheets,
			"Timesheet entries grouped by employee with hours worked. Entries still clocked in are flagged and not counted.",
			object(nil, map[string]any{
				"store_id":    str("Store ID filter."),
				"employee_id": str("Employee ID filter."),
				"from_date":   date("Start date, YYYY-MM-DD."),
				"to_date":     date("End date, YYYY-MM-DD."),
			}),
			func(ctx context.Context, d *Dispatcher, p timesheetsParams) (string, error) {
				result, err := d.accessor.SearchTimesheets(ctx, p.query())
				if err != nil {
					return "", err
				}
				return report.Timesheets(result), nil
			}),

		define(CreateOnlineTransaction,
			"Record an order from an online marketplace or web store.",
			object([]string{"ref_id", "channel", "shipping_type", "total", "sub_total", "items"}, map[string]any{
				"ref_id":           str("Unique reference ID for the order."),
				"store_id":         str("Store ID; defaults to the configured store, else the account's store."),
				"channel":          enum("Sales channel.", storehub.Channels),
				"shipping_type":    str("Shipping or fulfilment type, for example delivery or pickup."),
				"total":            number("Order total."),
				"sub_total":        number("Order subtotal."),
				"items":            itemsSchema(),
				"customer_ref_id":  str("Customer reference ID."),
				"delivery_address": addressSchema(),
				"created_time":     dateTime("Order time, RFC3339."),
			}),
			func(ctx context.Context, d *Dispatcher, p onlineTransactionParams) (string, error) {
				txn, err := d.accessor.CreateOnlineTransaction(ctx, p.input(d.opts.StoreID))
				if err != nil {
					return "", err
				}
				return report.TransactionCreated(txn, true), nil
			}),

		define(CancelOnlineTransaction,
			"Cancel an online transaction.",
			object([]string{"ref_id"}, map[string]any{
				"ref_id":         str("Reference ID of the online transaction."),
				"cancelled_time": dateTime("Cancellation time, RFC3339; defaults to now."),
			}),
			func(ctx context.Context, d *Dispatcher, p cancelOnlineTransactionParams) (string, error) {
				txn, err := d.accessor.CancelOnlineTransaction(ctx, storehub.CancelOnlineTransactionInput{
					RefID:         p.RefID,
					CancelledTime: p.CancelledTime,
				})
				if err != nil {
					return "", err
				}
				return report.TransactionCancelled(txn, true), nil
			}),

		define(CreateCustomer,
			"Create a customer record. A reference ID is generated when none is given.",
			object([]string{"first_name"}, withRefID("Customer reference ID; generated when omitted.")),
			func(ctx context.Context, d *Dispatcher, p customerParams) (string, error) {
				customer, err := d.accessor.CreateCustomer(ctx, p.input())
				if err != nil {
					return "", err
				}
				return report.CustomerSaved(customer, true), nil
			}),

		define(UpdateCustomer,
			"Update fields of an existing customer. Only the given fields change.",
			object([]string{"ref_id"}, withRefID("Reference ID of the customer to update.")),
			func(ctx context.Context, d *Dispatcher, p customerParams) (string, error) {
				customer, err := d.accessor.UpdateCustomer(ctx, p.update())
				if err != nil {
					return "", err
				}
				return report.CustomerSaved(customer, false), nil
			}),

		define(CreateTransaction,
			"Record an in-store sale or return. A reference ID is generated when none is given.",
			object([]string{"transaction_type", "payment_method", "total", "sub_total", "items"}, map[string]any{
				"ref_id":           str("Transaction reference ID; generated when omitted."),
				"store_id":         str("Store ID; defaults to the configured store, else the account's store."),
				"transaction_type": enum("Transaction type.", storehub.TransactionTypes),
				"payment_method":   enum("Payment method.", storehub.PaymentMethods),
				"channel":          str("Sales channel, if not in store."),
				"total":            number("Transaction total."),
				"sub_total":        number("Transaction subtotal."),
				"items":            itemsSchema(),
				"customer_ref_id":  str("Customer reference ID."),
				"employee_id":      str("Employee who handled the transaction."),
				"return_reason":    str("Reason for a return."),
				"created_time":     dateTime("Transaction time, RFC3339."),
			}),
			func(ctx context.Context, d *Dispatcher, p transactionParams) (string, error) {
				txn, err := d.accessor.CreateTransaction(ctx, p.input(d.opts.StoreID))
				if err != nil {
					return "", err
				}
				return report.TransactionCreated(txn, false), nil
			}),

		define(CancelTransaction,
			"Cancel a transaction.",
			object([]string{"ref_id"}, map[string]any{
				"ref_id":         str("Reference ID of the transaction."),
				"cancelled_time": dateTime("Cancellation time, RFC3339; defaults to now."),
				"cancelled_by":   str("Employee ID of the person cancelling."),
			}),
			func(ctx context.Context, d *Dispatcher, p cancelTransactionParams) (string, error) {
				txn, err := d.accessor.CancelTransaction(ctx, storehub.CancelTransactionInput{
					RefID:         p.RefID,
					CancelledTime: p.CancelledTime,
					CancelledBy:   p.CancelledBy,
				})
				if err != nil {
					return "", err
				}
				return report.TransactionCancelled(txn, false), nil
			}),

		define(TestAPIConnection,
			"Check the StoreHub connection: mode, credentials, store access and today's transaction count.",
			object(nil, map[string]any{}),
			func(ctx context.Context, d *Dispatcher, _ noParams) (string, error) {
				return d.testConnection(ctx), nil
			}),
	}
}

func withRefID(description string) map[string]any {
	fields := customerFields()
	fields["ref_id"] = str(description)
	return fields
}
