package inventory

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/models"
	"enku-backoffice/internal/remote"

	"github.com/shopspring/decimal"
)

// ErrReadOnly is returned for writes the transaction log does not accept;
// stock changes go through RecordMovement instead.
var ErrReadOnly = errors.New("inventory: transactions are read-only, record a stock movement instead")

// Service talks to the stock management API (".../api/stockmanagement").
type Service struct {
	client       *remote.Client
	Products     *remote.Resource[models.Product, models.ProductDraft]
	Warehouses   *remote.Resource[models.Warehouse, models.WarehouseDraft]
	Transactions *remote.Resource[models.InventoryTransaction, struct{}]
}

func NewService(stockAPI *remote.Client) *Service {
	c := stockAPI.Sub("stockmanagement")
	live := url.Values{"includeDeleted": {"false"}}

	history := remote.SoftDeleteRoutes()
	history.List = "history"

	return &Service{
		client: c,
		Products: remote.NewResource[models.Product, models.ProductDraft](c, "product", "products", remote.SoftDeleteRoutes()).
			WithListQuery(live).
			WithUpdateBody(remote.IDField[models.ProductDraft]("ProductID")),
		Warehouses: remote.NewResource[models.Warehouse, models.WarehouseDraft](c, "warehouse", "warehouses", remote.SoftDeleteRoutes()).
			WithListQuery(live).
			WithUpdateBody(remote.IDField[models.WarehouseDraft]("WarehouseID")),
		Transactions: remote.NewResource[models.InventoryTransaction, struct{}](c, "transaction", "transactions", history).
			WithListQuery(live),
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func ProductDefinition(acc listing.Accessor[models.Product, models.ProductDraft]) listing.Definition[models.Product, models.ProductDraft] {
	return listing.Definition[models.Product, models.ProductDraft]{
		Name:     "product",
		PerPage:  5,
		Accessor: acc,
		ID:       func(p models.Product) int { return p.ProductID },
		Draft: func(p models.Product) models.ProductDraft {
			return models.ProductDraft{
				ProductName: p.ProductName,
				SKU:         p.SKU,
				Description: p.Description,
				UnitPrice:   p.UnitPrice,
				QTY:         p.QTY,
				WarehouseID: p.WarehouseID,
				Photo:       p.Photo,
			}
		},
		Validate: func(d models.ProductDraft) error {
			switch {
			case blank(d.ProductName):
				return listing.Invalid("ProductName", "Product name is required")
			case blank(d.SKU):
				return listing.Invalid("SKU", "SKU is required")
			case !d.UnitPrice.IsPositive():
				return listing.Invalid("UnitPrice", "Unit price must be greater than zero")
			case d.QTY < 0:
				return listing.Invalid("QTY", "Quantity cannot be negative")
			}
			return nil
		},
		Search:    func(p models.Product) []string { return []string{p.ProductName, p.SKU, p.Description} },
		Summarize: func(items []models.Product) any { return SummarizeProducts(items) },
	}
}

type ProductSummary struct {
	Count      int             `json:"count"`
	Units      int             `json:"units"`
	StockValue decimal.Decimal `json:"stock_value"`
}

// SummarizeProducts values the stock at unit price.
func SummarizeProducts(items []models.Product) ProductSummary {
	s := ProductSummary{Count: len(items), StockValue: decimal.Zero}
	for _, p := range items {
		s.Units += p.QTY
		s.StockValue = s.StockValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.QTY))))
	}
	return s
}

func WarehouseDefinition(acc listing.Accessor[models.Warehouse, models.WarehouseDraft]) listing.Definition[models.Warehouse, models.WarehouseDraft] {
	return listing.Definition[models.Warehouse, models.WarehouseDraft]{
		Name:     "warehouse",
		PerPage:  5,
		Accessor: acc,
		ID:       func(w models.Warehouse) int { return w.WarehouseID },
		Draft: func(w models.Warehouse) models.WarehouseDraft {
			return models.WarehouseDraft{WarehouseName: w.WarehouseName, Location: w.Location}
		},
		Validate: func(d models.WarehouseDraft) error {
			if blank(d.WarehouseName) {
				return listing.Invalid("WarehouseName", "Warehouse name is required")
			}
			return nil
		},
		Search: func(w models.Warehouse) []string { return []string{w.WarehouseName, w.Location} },
		Summarize: func(items []models.Warehouse) any {
			return struct {
				Count int `json:"count"`
			}{len(items)}
		},
	}
}

// TransactionFilter narrows the transaction history.
type TransactionFilter struct {
	ProductID      int    `json:"productId"`
	WarehouseID    int    `json:"warehouseId"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	IncludeDeleted bool   `json:"includeDeleted"`
}

func (f TransactionFilter) Validate() error {
	var start, end string
	if f.StartDate != "" {
		if _, err := parseDay(f.StartDate); err != nil {
			return listing.Invalid("startDate", "Start date must be YYYY-MM-DD")
		}
		start = f.StartDate
	}
	if f.EndDate != "" {
		if _, err := parseDay(f.EndDate); err != nil {
			return listing.Invalid("endDate", "End date must be YYYY-MM-DD")
		}
		end = f.EndDate
	}
	if start != "" && end != "" && start > end {
		return listing.Invalid("endDate", "End date must not be before start date")
	}
	if f.ProductID < 0 || f.WarehouseID < 0 {
		return listing.Invalid("productId", "Identifiers cannot be negative")
	}
	return nil
}

// Query renders the filter the way the history endpoint expects it.
func (f TransactionFilter) Query() url.Values {
	q := url.Values{}
	if f.ProductID > 0 {
		q.Set("productId", strconv.Itoa(f.ProductID))
	}
	if f.WarehouseID > 0 {
		q.Set("warehouseId", strconv.Itoa(f.WarehouseID))
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	q.Set("includeDeleted", strconv.FormatBool(f.IncludeDeleted))
	return q
}

// FilterState is the per-session filter of the transaction history.
type FilterState struct {
	mu sync.Mutex
	f  TransactionFilter
}

func (s *FilterState) Get() TransactionFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f
}

func (s *FilterState) Set(f TransactionFilter) {
	s.mu.Lock()
	s.f = f
	s.mu.Unlock()
}

// HistoryAccessor lists transactions through the current filter. Creates
// and updates are refused; deletes are soft.
type HistoryAccessor struct {
	res    *remote.Resource[models.InventoryTransaction, struct{}]
	filter *FilterState
}

func NewHistoryAccessor(res *remote.Resource[models.InventoryTransaction, struct{}], filter *FilterState) *HistoryAccessor {
	return &HistoryAccessor{res: res, filter: filter}
}

func (h *HistoryAccessor) List(ctx context.Context) ([]models.InventoryTransaction, error) {
	return h.res.ListWhere(ctx, h.filter.Get().Query())
}

func (h *HistoryAccessor) Create(context.Context, struct{}) (models.InventoryTransaction, error) {
	return models.InventoryTransaction{}, ErrReadOnly
}

func (h *HistoryAccessor) Update(context.Context, int, struct{}) (models.InventoryTransaction, error) {
	return models.InventoryTransaction{}, ErrReadOnly
}

func (h *HistoryAccessor) Remove(ctx context.Context, id int) error {
	return h.res.Remove(ctx, id)
}

func TransactionDefinition(acc listing.Accessor[models.InventoryTransaction, struct{}]) listing.Definition[models.InventoryTransaction, struct{}] {
	return listing.Definition[models.InventoryTransaction, struct{}]{
		Name:     "transaction",
		PerPage:  10,
		Accessor: acc,
		ID:       func(t models.InventoryTransaction) int { return t.TransactionID },
		Draft:    func(models.InventoryTransaction) struct{} { return struct{}{} },
		Validate: func(struct{}) error {
			return listing.Invalid("transaction", "Transactions are read-only, record a stock movement instead")
		},
		Search: func(t models.InventoryTransaction) []string {
			return []string{t.Remarks, string(t.TransactionType), t.TransactionDate}
		},
		Summarize: func(items []models.InventoryTransaction) any { return SummarizeTransactions(items) },
	}
}

type TransactionSummary struct {
	Count int `json:"count"`
	In    int `json:"in"`
	Out   int `json:"out"`
	Net   int `json:"net"`
}

func SummarizeTransactions(items []models.InventoryTransaction) TransactionSummary {
	s := TransactionSummary{Count: len(items)}
	for _, t := range items {
		switch t.TransactionType {
		case models.TransactionIn:
			s.In += t.Quantity
		case models.TransactionOut:
			s.Out += t.Quantity
		}
	}
	s.Net = s.In - s.Out
	return s
}

// ValidateMovement checks a stock movement before it is sent.
func ValidateMovement(m models.StockMovement) error {
	switch {
	case m.ProductID <= 0:
		return listing.Invalid("ProductID", "Select a product")
	case m.WarehouseID <= 0:
		return listing.Invalid("WarehouseID", "Select a warehouse")
	case m.Quantity <= 0:
		return listing.Invalid("Quantity", "Quantity must be greater than zero")
	case m.TransactionType != models.TransactionIn && m.TransactionType != models.TransactionOut:
		return listing.Invalid("TransactionType", "Transaction type must be IN or OUT")
	}
	return nil
}

// RecordMovement posts an IN/OUT stock movement.
func (s *Service) RecordMovement(ctx context.Context, m models.StockMovement) (map[string]any, error) {
	m.TransactionType = models.TransactionType(strings.ToUpper(string(m.TransactionType)))
	if err := ValidateMovement(m); err != nil {
		return nil, err
	}
	var out map[string]any
	err := s.client.Do(ctx, "record stock movement", http.MethodPost, s.client.URL(nil, "inventory", "transaction"), m, &out)
	return out, err
}

// Status lists stock per product and warehouse; warehouseID 0 means all.
func (s *Service) Status(ctx context.Context, warehouseID int, includeDeleted bool) ([]models.InventoryStatus, error) {
	q := url.Values{"includeDeleted": {strconv.FormatBool(includeDeleted)}}
	if warehouseID > 0 {
		q.Set("warehouseId", strconv.Itoa(warehouseID))
	}
	var out []models.InventoryStatus
	if err := s.client.Do(ctx, "inventory status", http.MethodGet, s.client.URL(q, "inventory", "status"), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.InventoryStatus{}
	}
	return out, nil
}

const DefaultLowStockThreshold = 10

// LowStock lists entries at or under threshold as decided by the stock service.
func (s *Service) LowStock(ctx context.Context, threshold, warehouseID int) ([]models.InventoryStatus, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	q := url.Values{"threshold": {strconv.Itoa(threshold)}}
	if warehouseID > 0 {
		q.Set("warehouseId", strconv.Itoa(warehouseID))
	}
	var out []models.InventoryStatus
	if err := s.client.Do(ctx, "low stock", http.MethodGet, s.client.URL(q, "inventory", "lowstock"), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.InventoryStatus{}
	}
	return out, nil
}
