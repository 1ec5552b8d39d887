package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"storehub_mcp/internal/storehub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccessor records what the dispatcher passes down; anything not overridden
// falls through to the embedded mock dataset.
type fakeAccessor struct {
	storehub.Accessor

	mode      string
	storesErr error
	salesErr  error

	salesQueries []storehub.SalesQuery
	transactions []storehub.TransactionInput
	calls        int
}

func newFakeAccessor() *fakeAccessor {
	return &fakeAccessor{Accessor: storehub.NewMockClient(nil), mode: storehub.ModeMock}
}

func (f *fakeAccessor) Mode() string { return f.mode }

func (f *fakeAccessor) GetStores(ctx context.Context) ([]storehub.Store, error) {
	f.calls++
	if f.storesErr != nil {
		return nil, f.storesErr
	}
	return f.Accessor.GetStores(ctx)
}

func (f *fakeAccessor) GetSales(ctx context.Context, query storehub.SalesQuery) (storehub.SalesResult, error) {
	f.calls++
	f.salesQueries = append(f.salesQueries, query)
	if f.salesErr != nil {
		return storehub.SalesResult{}, f.salesErr
	}
	return f.Accessor.GetSales(ctx, query)
}

func (f *fakeAccessor) CreateTransaction(ctx context.Context, in storehub.TransactionInput) (storehub.Transaction, error) {
	f.calls++
	f.transactions = append(f.transactions, in)
	return f.Accessor.CreateTransaction(ctx, in)
}

func newTestDispatcher(accessor storehub.Accessor, opts Options) *Dispatcher {
	d := NewDispatcher(accessor, opts, nil)
	d.now = func() time.Time { return time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC) }
	return d
}

func TestDefinitionsCoverEveryTool(t *testing.T) {
	d := newTestDispatcher(newFakeAccessor(), Options{})

	names := map[string]bool{}
	for _, def := range d.Definitions() {
		assert.False(t, names[def.Name], "duplicate %s", def.Name)
		names[def.Name] = true
		assert.NotEmpty(t, def.Description, def.Name)
		assert.Equal(t, "object", def.Schema["type"], def.Name)
		assert.Equal(t, false, def.Schema["additionalProperties"], def.Name)

		_, err := json.Marshal(def.Schema)
		assert.NoError(t, err, def.Name)
	}

	for _, name := range []string{
		GetInventory, GetProducts, GetProduct, GetSalesAnalytics, GetCustomers, GetStores,
		GetEmployees, SearchTimesheets, CreateOnlineTransaction, CancelOnlineTransaction,
		CreateCustomer, UpdateCustomer, CreateTransaction, CancelTransaction, TestAPIConnection,
	} {
		assert.True(t, names[name], name)
	}
	assert.Len(t, names, 15)
}

func TestRequiredFieldsAreDeclared(t *testing.T) {
	d := newTestDispatcher(newFakeAccessor(), Options{})
	for _, def := range d.Definitions() {
		required, _ := def.Schema["required"].([]string)
		properties := def.Schema["properties"].(map[string]any)
		for _, field := range required {
			assert.Contains(t, properties, field, "%s requires undeclared %s", def.Name, field)
		}
	}
}

func TestCallUnknownTool(t *testing.T) {
	accessor := newFakeAccessor()
	_, err := newTestDispatcher(accessor, Options{}).Call(context.Background(), "drop_tables", nil)

	require.ErrorIs(t, err, ErrUnknownTool)
	assert.Contains(t, FormatError(err), "drop_tables")
	assert.Zero(t, accessor.calls)
}

func TestCallRejectsUnknownArgument(t *testing.T) {
	accessor := newFakeAccessor()
	_, err := newTestDispatcher(accessor, Options{}).Call(context.Background(), GetSalesAnalytics,
		json.RawMessage(`{"from":"2024-03-01"}`))

	var validation *storehub.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "from", validation.Field)
	assert.Zero(t, accessor.calls)
}

func TestCallRejectsWrongType(t *testing.T) {
	_, err := newTestDispatcher(newFakeAccessor(), Options{}).Call(context.Background(), GetCustomers,
		json.RawMessage(`{"limit":"ten"}`))

	var validation *storehub.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "limit", validation.Field)
	assert.Equal(t, "must be an integer", validation.Reason)
	assert.ErrorIs(t, err, storehub.ErrValidation)
}

func TestCallRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `{"from_date":`, `{} {}`} {
		_, err := newTestDispatcher(newFakeAccessor(), Options{}).Call(context.Background(), GetSalesAnalytics, json.RawMessage(raw))
		assert.ErrorIs(t, err, storehub.ErrValidation, raw)
	}
}

func TestCallMapsSalesArguments(t *testing.T) {
	accessor := newFakeAccessor()
	text, err := newTestDispatcher(accessor, Options{}).Call(context.Background(), GetSalesAnalytics,
		json.RawMessage(`{"from_date":"2024-03-01","to_date":"2024-03-05","include_online":false}`))

	require.NoError(t, err)
	assert.Contains(t, text, "SALES")
	require.Len(t, accessor.salesQueries, 1)
	q := accessor.salesQueries[0]
	assert.Equal(t, "2024-03-01", q.FromDate)
	assert.Equal(t, "2024-03-05", q.ToDate)
	require.NotNil(t, q.IncludeOnline)
	assert.False(t, *q.IncludeOnline)
}

func TestCallEmptyArguments(t *testing.T) {
	d := newTestDispatcher(newFakeAccessor(), Options{})
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(` {} `)} {
		text, err := d.Call(context.Background(), GetStores, raw)
		require.NoError(t, err)
		assert.Contains(t, text, "STORES")
	}
}

func TestWriteDefaultsToConfiguredStore(t *testing.T) {
	accessor := newFakeAccessor()
	d := newTestDispatcher(accessor, Options{StoreID: "store-001"})

	text, err := d.Call(context.Background(), CreateTransaction, json.RawMessage(`{
		"transaction_type": "Sale",
		"payment_method": "Cash",
		"total": 12.5,
		"sub_total": 12.5,
		"items": [{"product_id": "prod-001", "quantity": 1, "unit_price": 12.5}]
	}`))

	require.NoError(t, err)
	assert.Contains(t, text, "TRANSACTION CREATED")
	require.Len(t, accessor.transactions, 1)
	in := accessor.transactions[0]
	assert.Equal(t, "store-001", in.StoreID)
	require.Len(t, in.Items, 1)
	assert.Equal(t, "prod-001", in.Items[0].ProductID)
	assert.Equal(t, 12.5, in.Items[0].UnitPrice)
}

func TestWriteMissingFieldNeverReachesAccessorNetwork(t *testing.T) {
	_, err := newTestDispatcher(newFakeAccessor(), Options{}).Call(context.Background(), CreateCustomer,
		json.RawMessage(`{"last_name":"Tan"}`))

	var validation *storehub.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "firstName", validation.Field)
}

func TestMockModeAnswersEveryTool(t *testing.T) {
	args := map[string]string{
		GetProduct: `{"product_id":"prod-001"}`,
		CreateOnlineTransaction: `{"ref_id":"web-1","store_id":"store-001","channel":"SHOPEE","shipping_type":"delivery",
			"total":20,"sub_total":20,"items":[{"product_id":"prod-001","quantity":2,"unit_price":10}],
			"delivery_address":{"name":"Aisyah","city":"Kuala Lumpur"}}`,
		CancelOnlineTransaction: `{"ref_id":"web-1"}`,
		CreateCustomer:          `{"first_name":"Aisyah","email":"aisyah@example.com"}`,
		UpdateCustomer:          `{"ref_id":"cust-001","phone":"+60123456789"}`,
		CreateTransaction: `{"store_id":"store-001","transaction_type":"Return","payment_method":"Cash","total":5,"sub_total":5,
			"items":[{"product_id":"prod-002","quantity":1,"unit_price":5}],"return_reason":"damaged"}`,
		CancelTransaction: `{"ref_id":"txn-1001","cancelled_by":"emp-001"}`,
		GetCustomers:      `{"include_purchase_history":true}`,
	}

	d := newTestDispatcher(storehub.NewMockClient(nil), Options{})
	for _, def := range d.Definitions() {
		t.Run(def.Name, func(t *testing.T) {
			text, err := d.Call(context.Background(), def.Name, json.RawMessage(args[def.Name]))
			require.NoError(t, err)
			assert.NotEmpty(t, text)
		})
	}
}

func TestConnectionTestMasksKey(t *testing.T) {
	accessor := newFakeAccessor()
	accessor.mode = storehub.ModeLive
	d := newTestDispatcher(accessor, Options{AccountID: "acme", APIKey: "sk-secret-5678", BaseURL: "https://acme.example", RateLimit: 3})

	text, err := d.Call(context.Background(), TestAPIConnection, nil)

	require.NoError(t, err)
	assert.Contains(t, text, "Mode: live")
	assert.Contains(t, text, "5678")
	assert.NotContains(t, text, "sk-secret")
	assert.Contains(t, text, "Rate limit: 3.0 requests/second")
	assert.Contains(t, text, "Connection OK.")
	require.Len(t, accessor.salesQueries, 1)
	assert.Equal(t, "2024-03-20", accessor.salesQueries[0].FromDate)
	assert.Equal(t, "2024-03-20", accessor.salesQueries[0].ToDate)
}

func TestConnectionTestReportsStoreFailure(t *testing.T) {
	accessor := newFakeAccessor()
	accessor.storesErr = &storehub.APIError{Kind: storehub.ErrAuth, Method: "GET", Path: "/stores", StatusCode: 401}

	text, err := newTestDispatcher(accessor, Options{}).Call(context.Background(), TestAPIConnection, nil)

	require.NoError(t, err)
	assert.Contains(t, text, "Stores: FAILED")
	assert.Contains(t, text, "credentials")
	assert.Empty(t, accessor.salesQueries)
}

func TestCallPropagatesAccessorError(t *testing.T) {
	accessor := newFakeAccessor()
	accessor.salesErr = &storehub.APIError{Kind: storehub.ErrServer, Method: "GET", Path: "/transactions", StatusCode: 503}

	_, err := newTestDispatcher(accessor, Options{}).Call(context.Background(), GetSalesAnalytics, nil)

	require.ErrorIs(t, err, storehub.ErrServer)
	assert.Equal(t, "StoreHub server error (status 503). Try again later.", FormatError(err))
}

func TestFormatError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&storehub.ValidationError{Field: "toDate", Reason: "range exceeds 90 days"}, "Invalid arguments: toDate range exceeds 90 days"},
		{&storehub.ValidationError{Reason: "at least one customer field must be provided"}, "Invalid arguments: at least one customer field must be provided"},
		{&storehub.APIError{Kind: storehub.ErrNotFound, Method: "GET", Path: "/products/p9", StatusCode: 404}, "Not found: /products/p9"},
		{&storehub.APIError{Kind: storehub.ErrRateLimited, StatusCode: 409}, "StoreHub rate limit reached. Wait a moment and try again."},
		{&storehub.APIError{Kind: storehub.ErrValidation, StatusCode: 422, Message: "bad channel"}, "StoreHub rejected the request (status 422): bad channel"},
		{&storehub.APIError{Kind: storehub.ErrNetwork, Message: "connection refused"}, "Could not reach StoreHub: connection refused"},
		{fmt.Errorf("resolve store: %w", storehub.ErrNoStores), "No stores were found for this account. Set STOREHUB_STORE_ID."},
		{errors.New("boom"), "Error: boom"},
		{nil, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatError(tc.err))
	}
}
