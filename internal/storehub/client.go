package storehub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClientConfig struct {
	StoreID   string
	AccountID string
}

// Client is the live Accessor. Every call goes through the Requester.
type Client struct {
	api       Requester
	accountID string
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	storeID string
}

func NewClient(api Requester, cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api:       api,
		accountID: strings.TrimSpace(cfg.AccountID),
		storeID:   strings.TrimSpace(cfg.StoreID),
		logger:    logger.Named("storehub"),
		now:       time.Now,
	}
}

func (c *Client) Mode() string {
	return ModeLive
}

func (c *Client) GetStores(ctx context.Context) ([]Store, error) {
	var stores []Store
	if err := c.get(ctx, "/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *Client) GetInventory(ctx context.Context) (InventoryResult, error) {
	storeID, err := c.resolveStoreID(ctx)
	if err != nil {
		return InventoryResult{}, err
	}

	var records []InventoryRecord
	if err := c.get(ctx, "/inventory/"+url.PathEscape(storeID), nil, &records); err != nil {
		return InventoryResult{}, err
	}

	result := InventoryResult{StoreID: storeID, Records: records}
	if len(records) == 0 {
		return result, nil
	}
	products, err := c.listProducts(ctx)
	if err != nil {
		c.logger.Warn("product lookup for inventory failed", zap.Error(err))
		result.ProductsErr = err
		return result, nil
	}
	result.Products = products
	return result, nil
}

func (c *Client) GetProducts(ctx context.Context, filter ProductFilter) (ProductsResult, error) {
	if err := filter.Validate(); err != nil {
		return ProductsResult{}, err
	}
	products, err := c.listProducts(ctx)
	if err != nil {
		return ProductsResult{}, err
	}
	return ProductsResult{
		Total:    len(products),
		Products: FilterProducts(products, filter),
		Filter:   filter,
	}, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, missingField("productId")
	}
	var product Product
	if err := c.get(ctx, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// GetSales fetches transactions window by window. A failed window is recorded
// and skipped; only when every window fails is the first error returned.
func (c *Client) GetSales(ctx context.Context, query SalesQuery) (SalesResult, error) {
	salesRange, err := query.Resolve(c.now())
	if err != nil {
		return SalesResult{}, err
	}
	storeID, err := c.resolveStoreID(ctx)
	if err != nil {
		return SalesResult{}, err
	}

	windows := salesRange.Windows()
	result := SalesResult{Range: salesRange, StoreID: storeID, Windows: len(windows)}
	for _, window := range windows {
		var chunk []Transaction
		if err := c.get(ctx, "/transactions", window.Params(storeID), &chunk); err != nil {
			if ctx.Err() != nil {
				return SalesResult{}, err
			}
			c.logger.Warn("sales window failed",
				zap.String("from", window.FromString()),
				zap.String("to", window.ToString()),
				zap.String("category", Category(err)),
			)
			result.FailedWindows = append(result.FailedWindows, FailedWindow{Range: window, Err: err})
			continue
		}
		result.Transactions = append(result.Transactions, chunk...)
	}
	if len(result.FailedWindows) == len(windows) {
		return SalesResult{}, result.FailedWindows[0].Err
	}

	if len(result.Transactions) > 0 {
		products, err := c.listProducts(ctx)
		if err != nil {
			c.logger.Warn("product lookup for sales failed", zap.Error(err))
		} else {
			result.Products = products
		}
	}
	return result, nil
}

func (c *Client) GetCustomers(ctx context.Context, query CustomerQuery) (CustomersResult, error) {
	var customers []Customer
	if err := c.get(ctx, "/customers", query.Params(), &customers); err != nil {
		return CustomersResult{}, err
	}

	limit := query.EffectiveLimit()
	if len(customers) > limit {
		customers = customers[:limit]
	}
	result := CustomersResult{Customers: customers, Query: query, Limit: limit}
	if !query.IncludePurchaseHistory || len(customers) == 0 {
		return result, nil
	}

	sales, err := c.GetSales(ctx, purchaseHistoryQuery(c.now()))
	if err != nil {
		c.logger.Warn("purchase history lookup failed", zap.Error(err))
		result.TransactionsErr = err
		return result, nil
	}
	result.Transactions = sales.Transactions
	return result, nil
}

func (c *Client) GetEmployees(ctx context.Context, query EmployeeQuery) ([]Employee, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	var employees []Employee
	if err := c.get(ctx, "/employees", query.Params(), &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *Client) SearchTimesheets(ctx context.Context, query TimesheetQuery) (TimesheetsResult, error) {
	if err := query.Validate(); err != nil {
		return TimesheetsResult{}, err
	}
	var timesheets []Timesheet
	if err := c.get(ctx, "/timesheets", query.Params(), &timesheets); err != nil {
		return TimesheetsResult{}, err
	}

	result := TimesheetsResult{Timesheets: timesheets, Query: query}
	if len(timesheets) == 0 {
		return result, nil
	}
	var employees []Employee
	if err := c.get(ctx, "/employees", nil, &employees); err != nil {
		c.logger.Warn("employee lookup for timesheets failed", zap.Error(err))
		result.EmployeesErr = err
		return result, nil
	}
	result.Employees = employees
	return result, nil
}

func (c *Client) CreateOnlineTransaction(ctx context.Context, in OnlineTransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	storeID, err := c.writeStoreID(ctx, in.StoreID)
	if err != nil {
		return Transaction{}, err
	}
	in.StoreID = storeID
	if in.CreatedTime == "" {
		in.CreatedTime = c.timestamp()
	}
	created := onlineTransactionRecord(in)
	if err := c.send(ctx, http.MethodPost, "/onlineTransactions", in, &created); err != nil {
		return Transaction{}, err
	}
	return created, nil
}

func (c *Client) CancelOnlineTransaction(ctx context.Context, in CancelOnlineTransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	if in.CancelledTime == "" {
		in.CancelledTime = c.timestamp()
	}
	cancelled := Transaction{RefID: in.RefID, IsCancelled: true, CancelledTime: in.CancelledTime}
	path := fmt.Sprintf("/onlineTransactions/%s/cancel", url.PathEscape(in.RefID))
	if err := c.send(ctx, http.MethodPost, path, in, &cancelled); err != nil {
		return Transaction{}, err
	}
	return cancelled, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (Customer, error) {
	if err := in.Validate(); err != nil {
		return Customer{}, err
	}
	if strings.TrimSpace(in.RefID) == "" {
		in.RefID = uuid.NewString()
	}
	created := customerRecord(in)
	if err := c.send(ctx, http.MethodPost, "/customers", in, &created); err != nil {
		return Customer{}, err
	}
	return created, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, in CustomerUpdate) (Customer, error) {
	if err := in.Validate(); err != nil {
		return Customer{}, err
	}
	updated := in.Apply(Customer{RefID: in.RefID})
	path := "/customers/" + url.PathEscape(in.RefID)
	if err := c.send(ctx, http.MethodPatch, path, in, &updated); err != nil {
		return Customer{}, err
	}
	return updated, nil
}

func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	storeID, err := c.writeStoreID(ctx, in.StoreID)
	if err != nil {
		return Transaction{}, err
	}
	in.StoreID = storeID
	if strings.TrimSpace(in.RefID) == "" {
		in.RefID = uuid.NewString()
	}
	if in.CreatedTime == "" {
		in.CreatedTime = c.timestamp()
	}
	created := transactionRecord(in)
	if err := c.send(ctx, http.MethodPost, "/transactions", in, &created); err != nil {
		return Transaction{}, err
	}
	return created, nil
}

func (c *Client) CancelTransaction(ctx context.Context, in CancelTransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	if in.CancelledTime == "" {
		in.CancelledTime = c.timestamp()
	}
	cancelled := Transaction{
		RefID:         in.RefID,
		IsCancelled:   true,
		CancelledTime: in.CancelledTime,
		CancelledBy:   in.CancelledBy,
	}
	path := fmt.Sprintf("/transactions/%s/cancel", url.PathEscape(in.RefID))
	if err := c.send(ctx, http.MethodPost, path, in, &cancelled); err != nil {
		return Transaction{}, err
	}
	return cancelled, nil
}

// resolveStoreID returns the configured store or picks one from /stores.
// The answer is kept for the lifetime of the client.
// writeStoreID keeps an explicit store id and otherwise falls back to the resolved one.
func (c *Client) writeStoreID(ctx context.Context, storeID string) (string, error) {
	if storeID = strings.TrimSpace(storeID); storeID != "" {
		return storeID, nil
	}
	return c.resolveStoreID(ctx)
}

func (c *Client) resolveStoreID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storeID != "" {
		return c.storeID, nil
	}

	stores, err := c.GetStores(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve store id: %w", err)
	}
	store, ok := pickStore(stores, c.accountID)
	if !ok {
		return "", ErrNoStores
	}
	if len(stores) > 1 && store.ID != c.accountID && !strings.EqualFold(store.Name, c.accountID) {
		c.logger.Warn("several stores found, using the first one",
			zap.Int("stores", len(stores)),
			zap.String("store_id", store.ID),
		)
	}
	c.storeID = store.ID
	return c.storeID, nil
}

func pickStore(stores []Store, accountID string) (Store, bool) {
	switch len(stores) {
	case 0:
		return Store{}, false
	case 1:
		return stores[0], true
	}
	for _, store := range stores {
		if store.ID == accountID || strings.EqualFold(store.Name, accountID) {
			return store, true
		}
	}
	return stores[0], true
}

func (c *Client) listProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, result any) error {
	return c.api.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, result)
}

func (c *Client) send(ctx context.Context, method, path string, body, result any) error {
	return c.api.Do(ctx, Request{Method: method, Path: path, Body: body}, result)
}

func (c *Client) timestamp() string {
	return c.now().UTC().Format(time.RFC3339)
}

func purchaseHistoryQuery(now time.Time) SalesQuery {
	to := startOfDay(now)
	return SalesQuery{
		FromDate: to.AddDate(0, 0, -PurchaseHistoryDays).Format(dateLayout),
		ToDate:   to.Format(dateLayout),
	}
}

func onlineTransactionRecord(in OnlineTransactionInput) Transaction {
	return Transaction{
		RefID:           in.RefID,
		StoreID:         in.StoreID,
		TransactionType: TransactionSale,
		Total:           deref(in.Total),
		SubTotal:        deref(in.SubTotal),
		Items:           in.Items,
		Channel:         in.Channel,
		ShippingType:    in.ShippingType,
		CustomerRefID:   in.CustomerRefID,
		CreatedTime:     in.CreatedTime,
		DeliveryAddress: in.DeliveryAddress,
	}
}

func transactionRecord(in TransactionInput) Transaction {
	return Transaction{
		RefID:           in.RefID,
		StoreID:         in.StoreID,
		TransactionType: in.TransactionType,
		Total:           deref(in.Total),
		SubTotal:        deref(in.SubTotal),
		Items:           in.Items,
		PaymentMethod:   in.PaymentMethod,
		Channel:         in.Channel,
		CustomerRefID:   in.CustomerRefID,
		EmployeeID:      in.EmployeeID,
		ReturnReason:    in.ReturnReason,
		CreatedTime:     in.CreatedTime,
	}
}

func customerRecord(in CustomerInput) Customer {
	return Customer{
		RefID:      in.RefID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Address1:   in.Address1,
		Address2:   in.Address2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		MemberID:   in.MemberID,
		Tags:       in.Tags,
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
