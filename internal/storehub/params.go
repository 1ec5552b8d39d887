package storehub

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	dateLayout = "2006-01-02"

	DefaultSalesDays  = 7
	MaxSalesRangeDays = 90
	SalesWindowDays   = 14

	DefaultCustomerLimit = 10
	MaxCustomerLimit     = 100
)

// ProductFilter is applied client-side because /products ignores query filters.
type ProductFilter struct {
	SearchTerm       string
	Category         string
	MinPrice         *float64
	MaxPrice         *float64
	StockTrackedOnly bool
	HasVariants      *bool
	HasCostData      *bool
}

func (f ProductFilter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return invalidField("minPrice", "must not be negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return invalidField("maxPrice", "must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return invalidField("minPrice", "must not exceed maxPrice")
	}
	return nil
}

func (f ProductFilter) IsZero() bool {
	return strings.TrimSpace(f.SearchTerm) == "" && strings.TrimSpace(f.Category) == "" &&
		f.MinPrice == nil && f.MaxPrice == nil && !f.StockTrackedOnly &&
		f.HasVariants == nil && f.HasCostData == nil
}

func (f ProductFilter) Match(p Product) bool {
	if needle := strings.ToLower(strings.TrimSpace(f.SearchTerm)); needle != "" {
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) &&
			!strings.Contains(strings.ToLower(p.Barcode), needle) {
			return false
		}
	}
	if category := strings.TrimSpace(f.Category); category != "" && !strings.EqualFold(strings.TrimSpace(p.Category), category) {
		return false
	}
	if f.MinPrice != nil && p.UnitPrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.UnitPrice > *f.MaxPrice {
		return false
	}
	if f.StockTrackedOnly && !p.TrackStockLevel {
		return false
	}
	if f.HasVariants != nil && p.HasVariants() != *f.HasVariants {
		return false
	}
	if f.HasCostData != nil && p.HasCost() != *f.HasCostData {
		return false
	}
	return true
}

func FilterProducts(products []Product, f ProductFilter) []Product {
	if f.IsZero() {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

type SalesQuery struct {
	FromDate      string
	ToDate        string
	IncludeOnline *bool
}

// SalesRange is a resolved, inclusive calendar-day range.
type SalesRange struct {
	From          time.Time
	To            time.Time
	IncludeOnline bool
}

// Resolve applies defaults and validates the range against now.
func (q SalesQuery) Resolve(now time.Time) (SalesRange, error) {
	today := startOfDay(now)
	from := today.AddDate(0, 0, -DefaultSalesDays)
	to := today

	if strings.TrimSpace(q.FromDate) != "" {
		parsed, err := parseDate("fromDate", q.FromDate)
		if err != nil {
			return SalesRange{}, err
		}
		from = parsed
	}
	if strings.TrimSpace(q.ToDate) != "" {
		parsed, err := parseDate("toDate", q.ToDate)
		if err != nil {
			return SalesRange{}, err
		}
		to = parsed
	}
	if from.After(to) {
		return SalesRange{}, invalidField("fromDate", "must not be after toDate")
	}

	r := SalesRange{From: from, To: to, IncludeOnline: true}
	if q.IncludeOnline != nil {
		r.IncludeOnline = *q.IncludeOnline
	}
	if r.Days() > MaxSalesRangeDays {
		return SalesRange{}, invalidField("toDate", "range exceeds %d days", MaxSalesRangeDays)
	}
	return r, nil
}

func (r SalesRange) Days() int {
	return int(r.To.Sub(r.From).Hours() / 24)
}

func (r SalesRange) FromString() string {
	return r.From.Format(dateLayout)
}

func (r SalesRange) ToString() string {
	return r.To.Format(dateLayout)
}

// Contains reports whether t falls on a calendar day inside the range.
func (r SalesRange) Contains(t time.Time) bool {
	day := startOfDay(t)
	return !day.Before(r.From) && !day.After(r.To)
}

// Windows splits the range into consecutive chunks of at most SalesWindowDays.
// The upstream caps each /transactions response, so wide ranges are fetched piecewise.
func (r SalesRange) Windows() []SalesRange {
	if r.Days() < SalesWindowDays {
		return []SalesRange{r}
	}
	var windows []SalesRange
	for start := r.From; !start.After(r.To); {
		end := start.AddDate(0, 0, SalesWindowDays-1)
		if end.After(r.To) {
			end = r.To
		}
		windows = append(windows, SalesRange{From: start, To: end, IncludeOnline: r.IncludeOnline})
		start = end.AddDate(0, 0, 1)
	}
	return windows
}

func (r SalesRange) Params(storeID string) map[string]string {
	params := map[string]string{
		"from":          r.FromString(),
		"to":            r.ToString(),
		"includeOnline": strconv.FormatBool(r.IncludeOnline),
	}
	if storeID != "" {
		params["storeId"] = storeID
	}
	return params
}

type CustomerQuery struct {
	SearchTerm             string
	FirstName              string
	LastName               string
	Email                  string
	Phone                  string
	Limit                  *int
	IncludePurchaseHistory bool
}

const PurchaseHistoryDays = 30

func (q CustomerQuery) EffectiveLimit() int {
	if q.Limit == nil {
		return DefaultCustomerLimit
	}
	switch limit := *q.Limit; {
	case limit < 1:
		return 1
	case limit > MaxCustomerLimit:
		return MaxCustomerLimit
	default:
		return limit
	}
}

// Params routes a free-text search term to the matching API filter.
// Explicit fields win over the routed term.
func (q CustomerQuery) Params() map[string]string {
	params := map[string]string{}
	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		switch {
		case strings.Contains(term, "@"):
			params["email"] = term
		case isPhoneLike(term):
			params["phone"] = term
		default:
			params["firstName"] = term
		}
	}
	setIfPresent(params, "firstName", q.FirstName)
	setIfPresent(params, "lastName", q.LastName)
	setIfPresent(params, "email", q.Email)
	setIfPresent(params, "phone", q.Phone)
	return params
}

// Match mirrors Params for data sets filtered locally.
func (q CustomerQuery) Match(c Customer) bool {
	for key, value := range q.Params() {
		var field string
		switch key {
		case "firstName":
			field = c.FirstName
		case "lastName":
			field = c.LastName
		case "email":
			field = c.Email
		case "phone":
			field = c.Phone
		}
		if !strings.Contains(strings.ToLower(field), strings.ToLower(value)) {
			return false
		}
	}
	return true
}

type EmployeeQuery struct {
	ModifiedSince string
}

func (q EmployeeQuery) Validate() error {
	if strings.TrimSpace(q.ModifiedSince) == "" {
		return nil
	}
	_, err := parseDate("modifiedSince", q.ModifiedSince)
	return err
}

func (q EmployeeQuery) Params() map[string]string {
	params := map[string]string{}
	setIfPresent(params, "modifiedSince", q.ModifiedSince)
	return params
}

type TimesheetQuery struct {
	StoreID    string
	EmployeeID string
	FromDate   string
	ToDate     string
}

func (q TimesheetQuery) Validate() error {
	var from, to time.Time
	var err error
	if strings.TrimSpace(q.FromDate) != "" {
		if from, err = parseDate("fromDate", q.FromDate); err != nil {
			return err
		}
	}
	if strings.TrimSpace(q.ToDate) != "" {
		if to, err = parseDate("toDate", q.ToDate); err != nil {
			return err
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return invalidField("fromDate", "must not be after toDate")
	}
	return nil
}

func (q TimesheetQuery) Params() map[string]string {
	params := map[string]string{}
	setIfPresent(params, "storeId", q.StoreID)
	setIfPresent(params, "employeeId", q.EmployeeID)
	setIfPresent(params, "from", q.FromDate)
	setIfPresent(params, "to", q.ToDate)
	return params
}

// Match mirrors Params for data sets filtered locally.
func (q TimesheetQuery) Match(t Timesheet) bool {
	if q.StoreID != "" && t.StoreID != q.StoreID {
		return false
	}
	if q.EmployeeID != "" && t.EmployeeID != q.EmployeeID {
		return false
	}
	clockIn, ok := ParseTimestamp(t.ClockInTime)
	if !ok {
		return q.FromDate == "" && q.ToDate == ""
	}
	if from, err := time.Parse(dateLayout, strings.TrimSpace(q.FromDate)); err == nil && startOfDay(clockIn).Before(from) {
		return false
	}
	if to, err := time.Parse(dateLayout, strings.TrimSpace(q.ToDate)); err == nil && startOfDay(clockIn).After(to) {
		return false
	}
	return true
}

// OnlineTransactionInput is sent to /onlineTransactions. An empty StoreID is
// resolved by the accessor.
type OnlineTransactionInput struct {
	RefID           string            `json:"refId" validate:"notblank"`
	StoreID         string            `json:"storeId"`
	Channel         string            `json:"channel" validate:"required,oneof=LAZADA SHOPEE ZALORA WOOCOMMERCE SHOPIFY MAGENTO TIK_TOK_SHOP CUSTOM"`
	ShippingType    string            `json:"shippingType" validate:"notblank"`
	Total           *float64          `json:"total" validate:"required,gte=0"`
	SubTotal        *float64          `json:"subTotal" validate:"required,gte=0"`
	Items           []TransactionItem `json:"items" validate:"required,min=1,dive"`
	CustomerRefID   string            `json:"customerRefId,omitempty"`
	DeliveryAddress *DeliveryAddress  `json:"deliveryAddress,omitempty"`
	CreatedTime     string            `json:"createdTime,omitempty"`
}

func (in OnlineTransactionInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	return validateOptionalTimestamp("createdTime", in.CreatedTime)
}

type CancelOnlineTransactionInput struct {
	RefID         string `json:"-" validate:"notblank"`
	CancelledTime string `json:"cancelledTime,omitempty"`
}

func (in CancelOnlineTransactionInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	return validateOptionalTimestamp("cancelledTime", in.CancelledTime)
}

type CustomerInput struct {
	RefID      string   `json:"refId"`
	FirstName  string   `json:"firstName" validate:"notblank"`
	LastName   string   `json:"lastName,omitempty"`
	Email      string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string   `json:"phone,omitempty"`
	Address1   string   `json:"address1,omitempty"`
	Address2   string   `json:"address2,omitempty"`
	City       string   `json:"city,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
	MemberID   string   `json:"memberId,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (in CustomerInput) Validate() error {
	return validateStruct(in)
}

// CustomerUpdate carries only the fields to change.
type CustomerUpdate struct {
	RefID      string   `json:"-" validate:"notblank"`
	FirstName  string   `json:"firstName,omitempty"`
	LastName   string   `json:"lastName,omitempty"`
	Email      string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string   `json:"phone,omitempty"`
	Address1   string   `json:"address1,omitempty"`
	Address2   string   `json:"address2,omitempty"`
	City       string   `json:"city,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
	MemberID   string   `json:"memberId,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (in CustomerUpdate) Validate() error {
	if strings.TrimSpace(in.RefID) != "" && in.empty() {
		return &ValidationError{Reason: "at least one customer field must be provided"}
	}
	return validateStruct(in)
}

func (in CustomerUpdate) empty() bool {
	for _, value := range []string{
		in.FirstName, in.LastName, in.Email, in.Phone, in.Address1, in.Address2,
		in.City, in.State, in.PostalCode, in.Country, in.MemberID,
	} {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return len(in.Tags) == 0
}

// Apply merges the update into an existing record.
func (in CustomerUpdate) Apply(c Customer) Customer {
	mergeString(&c.FirstName, in.FirstName)
	mergeString(&c.LastName, in.LastName)
	mergeString(&c.Email, in.Email)
	mergeString(&c.Phone, in.Phone)
	mergeString(&c.Address1, in.Address1)
	mergeString(&c.Address2, in.Address2)
	mergeString(&c.City, in.City)
	mergeString(&c.State, in.State)
	mergeString(&c.PostalCode, in.PostalCode)
	mergeString(&c.Country, in.Country)
	mergeString(&c.MemberID, in.MemberID)
	if len(in.Tags) > 0 {
		c.Tags = in.Tags
	}
	return c
}

// TransactionInput is sent to /transactions. An empty StoreID is resolved by
// the accessor and an empty RefID is generated.
type TransactionInput struct {
	RefID           string            `json:"refId"`
	StoreID         string            `json:"storeId"`
	TransactionType string            `json:"transactionType" validate:"required,oneof=Sale Return"`
	PaymentMethod   string            `json:"paymentMethod" validate:"required,oneof=Cash CreditCard DebitCard EWallet BankTransfer Voucher Other"`
	Channel         string            `json:"channel,omitempty"`
	Total           *float64          `json:"total" validate:"required,gte=0"`
	SubTotal        *float64          `json:"subTotal" validate:"required,gte=0"`
	Items           []TransactionItem `json:"items" validate:"required,min=1,dive"`
	CustomerRefID   string            `json:"customerRefId,omitempty"`
	EmployeeID      string            `json:"employeeId,omitempty"`
	ReturnReason    string            `json:"returnReason,omitempty"`
	CreatedTime     string            `json:"createdTime,omitempty"`
}

func (in TransactionInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	return validateOptionalTimestamp("createdTime", in.CreatedTime)
}

type CancelTransactionInput struct {
	RefID         string `json:"-" validate:"notblank"`
	CancelledTime string `json:"cancelledTime,omitempty"`
	CancelledBy   string `json:"cancelledBy,omitempty"`
}

func (in CancelTransactionInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	return validateOptionalTimestamp("cancelledTime", in.CancelledTime)
}

func validateOptionalTimestamp(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, strings.TrimSpace(value)); err != nil {
		return invalidField(field, "must be an RFC3339 timestamp")
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, invalidField(field, "must be a YYYY-MM-DD date")
	}
	return parsed, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isPhoneLike(value string) bool {
	digits := strings.TrimPrefix(value, "+")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func setIfPresent(params map[string]string, key, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		params[key] = trimmed
	}
}

func mergeString(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}
