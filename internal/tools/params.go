package tools

import (
	"strings"

	"storehub_mcp/internal/storehub"
)

// Tool arguments use snake_case names; each struct maps onto the storehub input it feeds.

type getProductsParams struct {
	SearchTerm       string   `json:"search_term"`
	Category         string   `json:"category"`
	MinPrice         *float64 `json:"min_price"`
	MaxPrice         *float64 `json:"max_price"`
	StockTrackedOnly bool     `json:"stock_tracked_only"`
	HasVariants      *bool    `json:"has_variants"`
	HasCostData      *bool    `json:"has_cost_data"`
}

func (p getProductsParams) filter() storehub.ProductFilter {
	return storehub.ProductFilter{
		SearchTerm:       p.SearchTerm,
		Category:         p.Category,
		MinPrice:         p.MinPrice,
		MaxPrice:         p.MaxPrice,
		StockTrackedOnly: p.StockTrackedOnly,
		HasVariants:      p.HasVariants,
		HasCostData:      p.HasCostData,
	}
}

type getProductParams struct {
	ProductID string `json:"product_id"`
}

type salesParams struct {
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
	IncludeOnline *bool  `json:"include_online"`
}

func (p salesParams) query() storehub.SalesQuery {
	return storehub.SalesQuery{FromDate: p.FromDate, ToDate: p.ToDate, IncludeOnline: p.IncludeOnline}
}

type customersParams struct {
	SearchTerm             string `json:"search_term"`
	FirstName              string `json:"first_name"`
	LastName               string `json:"last_name"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	Limit                  *int   `json:"limit"`
	IncludePurchaseHistory bool   `json:"include_purchase_history"`
}

func (p customersParams) query() storehub.CustomerQuery {
	return storehub.CustomerQuery{
		SearchTerm:             p.SearchTerm,
		FirstName:              p.FirstName,
		LastName:               p.LastName,
		Email:                  p.Email,
		Phone:                  p.Phone,
		Limit:                  p.Limit,
		IncludePurchaseHistory: p.IncludePurchaseHistory,
	}
}

type employeesParams struct {
	ModifiedSince string `json:"modified_since"`
}

type timesheetsParams struct {
	StoreID    string `json:"store_id"`
	EmployeeID string `json:"employee_id"`
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
}

func (p timesheetsParams) query() storehub.TimesheetQuery {
	return storehub.TimesheetQuery{StoreID: p.StoreID, EmployeeID: p.EmployeeID, FromDate: p.FromDate, ToDate: p.ToDate}
}

type itemParams struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	SubTotal  float64 `json:"sub_total"`
	Total     float64 `json:"total"`
	Discount  float64 `json:"discount"`
	Notes     string  `json:"notes"`
}

func items(params []itemParams) []storehub.TransactionItem {
	out := make([]storehub.TransactionItem, 0, len(params))
	for _, p := range params {
		out = append(out, storehub.TransactionItem{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			SubTotal:  p.SubTotal,
			Total:     p.Total,
			Discount:  p.Discount,
			Notes:     p.Notes,
		})
	}
	return out
}

type addressParams struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type onlineTransactionParams struct {
	RefID           string         `json:"ref_id"`
	StoreID         string         `json:"store_id"`
	Channel         string         `json:"channel"`
	ShippingType    string         `json:"shipping_type"`
	Total           *float64       `json:"total"`
	SubTotal        *float64       `json:"sub_total"`
	Items           []itemParams   `json:"items"`
	CustomerRefID   string         `json:"customer_ref_id"`
	DeliveryAddress *addressParams `json:"delivery_address"`
	CreatedTime     string         `json:"created_time"`
}

func (p onlineTransactionParams) input(defaultStoreID string) storehub.OnlineTransactionInput {
	in := storehub.OnlineTransactionInput{
		RefID:         p.RefID,
		StoreID:       orDefault(p.StoreID, defaultStoreID),
		Channel:       p.Channel,
		ShippingType:  p.ShippingType,
		Total:         p.Total,
		SubTotal:      p.SubTotal,
		Items:         items(p.Items),
		CustomerRefID: p.CustomerRefID,
		CreatedTime:   p.CreatedTime,
	}
	if a := p.DeliveryAddress; a != nil {
		in.DeliveryAddress = &storehub.DeliveryAddress{
			Name:       a.Name,
			Phone:      a.Phone,
			Address1:   a.Address1,
			Address2:   a.Address2,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}
	return in
}

type cancelOnlineTransactionParams struct {
	RefID         string `json:"ref_id"`
	CancelledTime string `json:"cancelled_time"`
}

type customerParams struct {
	RefID      string   `json:"ref_id"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Address1   string   `json:"address1"`
	Address2   string   `json:"address2"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postal_code"`
	Country    string   `json:"country"`
	MemberID   string   `json:"member_id"`
	Tags       []string `json:"tags"`
}

func (p customerParams) input() storehub.CustomerInput {
	return storehub.CustomerInput{
		RefID:      p.RefID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Address1:   p.Address1,
		Address2:   p.Address2,
		City:       p.City,
		State:      p.State,
		PostalCode: p.PostalCode,
		Country:    p.Country,
		MemberID:   p.MemberID,
		Tags:       p.Tags,
	}
}

func (p customerParams) update() storehub.CustomerUpdate {
	return storehub.CustomerUpdate{
		RefID:      p.RefID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Address1:   p.Address1,
		Address2:   p.Address2,
		City:       p.City,
		State:      p.State,
		PostalCode: p.PostalCode,
		Country:    p.Country,
		MemberID:   p.MemberID,
		Tags:       p.Tags,
	}
}

type transactionParams struct {
	RefID           string       `json:"ref_id"`
	StoreID         string       `json:"store_id"`
	TransactionType string       `json:"transaction_type"`
	PaymentMethod   string       `json:"payment_method"`
	Channel         string       `json:"channel"`
	Total           *float64     `json:"total"`
	SubTotal        *float64     `json:"sub_total"`
	Items           []itemParams `json:"items"`
	CustomerRefID   string       `json:"customer_ref_id"`
	EmployeeID      string       `json:"employee_id"`
	ReturnReason    string       `json:"return_reason"`
	CreatedTime     string       `json:"created_time"`
}

func (p transactionParams) input(defaultStoreID string) storehub.TransactionInput {
	return storehub.TransactionInput{
		RefID:           p.RefID,
		StoreID:         orDefault(p.StoreID, defaultStoreID),
		TransactionType: p.TransactionType,
		PaymentMethod:   p.PaymentMethod,
		Channel:         p.Channel,
		Total:           p.Total,
		SubTotal:        p.SubTotal,
		Items:           items(p.Items),
		CustomerRefID:   p.CustomerRefID,
		EmployeeID:      p.EmployeeID,
		ReturnReason:    p.ReturnReason,
		CreatedTime:     p.CreatedTime,
	}
}

type cancelTransactionParams struct {
	RefID         string `json:"ref_id"`
	CancelledTime string `json:"cancelled_time"`
	CancelledBy   string `json:"cancelled_by"`
}

type noParams struct{}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
