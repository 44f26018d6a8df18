package finance

import (
	"sort"
	"strings"
	"time"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/models"
	"enku-backoffice/internal/remote"

	"github.com/shopspring/decimal"
)

// Service holds the accessors of the finance resources.
type Service struct {
	Income    *remote.Resource[models.Income, models.IncomeDraft]
	Expenses  *remote.Resource[models.Expense, models.ExpenseDraft]
	CashFlow  *remote.Resource[models.CashFlow, models.CashFlowDraft]
	Sales     *remote.Resource[models.Sale, models.SaleDraft]
	Suppliers *remote.Resource[models.Supplier, models.SupplierDraft]
}

// NewService wires the accessors. Income, Expenses, CashFlow and Sales live
// on the finance API; suppliers are served by the stock API.
func NewService(financeAPI, stockAPI *remote.Client) *Service {
	return &Service{
		Income: remote.NewResource[models.Income, models.IncomeDraft](financeAPI, "income", "Income", remote.RESTRoutes()).
			WithUpdateBody(remote.IDField[models.IncomeDraft]("id")),
		Expenses: remote.NewResource[models.Expense, models.ExpenseDraft](financeAPI, "expense", "Expenses", remote.RESTRoutes()).
			WithUpdateBody(remote.IDField[models.ExpenseDraft]("id")),
		CashFlow: remote.NewResource[models.CashFlow, models.CashFlowDraft](financeAPI, "cash flow", "CashFlow", remote.RESTRoutes()).
			WithUpdateBody(remote.IDField[models.CashFlowDraft]("id")),
		Sales: remote.NewResource[models.Sale, models.SaleDraft](financeAPI, "sales record", "Sales", remote.RESTRoutes()).
			WithUpdateBody(remote.IDField[models.SaleDraft]("id")),
		Suppliers: remote.NewResource[models.Supplier, models.SupplierDraft](stockAPI, "supplier", "Suppliers", remote.RESTRoutes()).
			WithUpdateBody(remote.IDField[models.SupplierDraft]("supplierID")),
	}
}

const (
	msgFillAll     = "Please fill in all fields with valid values!"
	msgAllRequired = "All fields are required with valid values!"
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func IncomeDefinition(acc listing.Accessor[models.Income, models.IncomeDraft]) listing.Definition[models.Income, models.IncomeDraft] {
	return listing.Definition[models.Income, models.IncomeDraft]{
		Name:     "income",
		PerPage:  5,
		Accessor: acc,
		ID:       func(i models.Income) int { return i.ID },
		Draft: func(i models.Income) models.IncomeDraft {
			return models.IncomeDraft{Date: i.Date, Source: i.Source, Description: i.Description, Amount: i.Amount}
		},
		Validate: func(d models.IncomeDraft) error {
			if blank(d.Date) || blank(d.Source) || blank(d.Description) || !d.Amount.IsPositive() {
				return listing.Invalid("amount", msgFillAll)
			}
			return nil
		},
		Search: func(i models.Income) []string { return []string{i.Source, i.Description, i.Date} },
		Summarize: func(items []models.Income) any {
			return totals(items, func(i models.Income) decimal.Decimal { return i.Amount })
		},
		// the edit form is filled from a fresh GET /Income/{id}
		EditViaGet: true,
	}
}

func ExpenseDefinition(acc listing.Accessor[models.Expense, models.ExpenseDraft]) listing.Definition[models.Expense, models.ExpenseDraft] {
	return listing.Definition[models.Expense, models.ExpenseDraft]{
		Name:     "expense",
		PerPage:  5,
		Accessor: acc,
		ID:       func(e models.Expense) int { return e.ID },
		Draft: func(e models.Expense) models.ExpenseDraft {
			return models.ExpenseDraft{Date: e.Date, Category: e.Category, Description: e.Description, Amount: e.Amount}
		},
		Validate: func(d models.ExpenseDraft) error {
			if blank(d.Date) || blank(d.Category) || blank(d.Description) || !d.Amount.IsPositive() {
				return listing.Invalid("amount", msgFillAll)
			}
			return nil
		},
		Search: func(e models.Expense) []string { return []string{e.Category, e.Description, e.Date} },
		Summarize: func(items []models.Expense) any {
			return totals(items, func(e models.Expense) decimal.Decimal { return e.Amount })
		},
	}
}

func CashFlowDefinition(acc listing.Accessor[models.CashFlow, models.CashFlowDraft]) listing.Definition[models.CashFlow, models.CashFlowDraft] {
	return listing.Definition[models.CashFlow, models.CashFlowDraft]{
		Name:     "cash flow",
		PerPage:  3,
		Accessor: acc,
		ID:       func(c models.CashFlow) int { return c.ID },
		Draft: func(c models.CashFlow) models.CashFlowDraft {
			return models.CashFlowDraft{Date: c.Date, Description: c.Description, Amount: c.Amount}
		},
		Validate: func(d models.CashFlowDraft) error {
			// negative amounts are outflows; only zero is meaningless
			if blank(d.Date) || blank(d.Description) || d.Amount.IsZero() {
				return listing.Invalid("amount", msgAllRequired)
			}
			return nil
		},
		Search:    func(c models.CashFlow) []string { return []string{c.Description, c.Date} },
		Summarize: func(items []models.CashFlow) any { return SummarizeCashFlow(items) },
	}
}

// SummarizeCashFlow totals signed amounts, e.g. [100, -40] gives "+Birr 60.00".
func SummarizeCashFlow(items []models.CashFlow) CashFlowTotals {
	var in, out decimal.Decimal
	for _, c := range items {
		if c.Amount.IsNegative() {
			out = out.Add(c.Amount.Abs())
		} else {
			in = in.Add(c.Amount)
		}
	}
	net := in.Sub(out)
	return CashFlowTotals{
		Totals:  Totals{Count: len(items), Total: net, Display: FormatSignedBirr(net)},
		Inflow:  in,
		Outflow: out,
	}
}

func SaleDefinition(acc listing.Accessor[models.Sale, models.SaleDraft]) listing.Definition[models.Sale, models.SaleDraft] {
	return listing.Definition[models.Sale, models.SaleDraft]{
		Name:     "sales record",
		PerPage:  5,
		Accessor: acc,
		ID:       func(s models.Sale) int { return s.ID },
		Draft: func(s models.Sale) models.SaleDraft {
			return models.SaleDraft{Date: s.Date, CustomerName: s.CustomerName, ItemSold: s.ItemSold, Quantity: s.Quantity, UnitPrice: s.UnitPrice}
		},
		Validate: func(d models.SaleDraft) error {
			switch {
			case blank(d.Date) || blank(d.CustomerName) || blank(d.ItemSold):
				return listing.Invalid("customerName", msgFillAll)
			case d.Quantity <= 0:
				return listing.Invalid("quantity", msgFillAll)
			case !d.UnitPrice.IsPositive():
				return listing.Invalid("unitPrice", msgFillAll)
			}
			return nil
		},
		Search: func(s models.Sale) []string { return []string{s.CustomerName, s.ItemSold, s.Date} },
		Sort:   SortSalesNewestFirst,
		Summarize: func(items []models.Sale) any {
			// totalAmount comes from the sales service, never from quantity*unitPrice here
			return totals(items, func(s models.Sale) decimal.Decimal { return s.TotalAmount })
		},
	}
}

// SortSalesNewestFirst orders by date descending; unparseable dates sink.
func SortSalesNewestFirst(items []models.Sale) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, oki := ParseDate(items[i].Date)
		tj, okj := ParseDate(items[j].Date)
		if oki != okj {
			return oki
		}
		return ti.After(tj)
	})
}

func SupplierDefinition(acc listing.Accessor[models.Supplier, models.SupplierDraft]) listing.Definition[models.Supplier, models.SupplierDraft] {
	return listing.Definition[models.Supplier, models.SupplierDraft]{
		Name:     "supplier",
		PerPage:  5,
		Accessor: acc,
		ID:       func(s models.Supplier) int { return s.SupplierID },
		Draft: func(s models.Supplier) models.SupplierDraft {
			return models.SupplierDraft{Name: s.Name, Address: s.Address, Phone: s.Phone}
		},
		Validate: func(d models.SupplierDraft) error {
			if blank(d.Name) {
				return listing.Invalid("name", "Supplier name is required")
			}
			return nil
		},
		Search:    func(s models.Supplier) []string { return []string{s.Name} },
		Summarize: func(items []models.Supplier) any { return countOf(len(items)) },
	}
}

type countSummary struct {
	Count int `json:"count"`
}

func countOf(n int) countSummary { return countSummary{Count: n} }

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// ParseDate accepts the date shapes the finance services emit.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
