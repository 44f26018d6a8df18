package models

import "github.com/shopspring/decimal"

func init() {
	// upstream services speak JSON numbers, not quoted decimals
	decimal.MarshalJSONWithoutQuotes = true
}

type Income struct {
	ID          int             `json:"id"`
	Date        string          `json:"date"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type IncomeDraft struct {
	Date        string          `json:"date"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type Expense struct {
	ID          int             `json:"id"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type ExpenseDraft struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CashFlow amounts are signed: negative entries are outflows.
type CashFlow struct {
	ID          int             `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type CashFlowDraft struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Sale.TotalAmount is computed by the sales service.
type Sale struct {
	ID           int             `json:"id"`
	Date         string          `json:"date"`
	CustomerName string          `json:"customerName"`
	ItemSold     string          `json:"itemSold"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

type SaleDraft struct {
	Date         string          `json:"date"`
	CustomerName string          `json:"customerName"`
	ItemSold     string          `json:"itemSold"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

type Supplier struct {
	SupplierID  int    `json:"supplierID"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	CreatedDate string `json:"createdDate"` // assigned by the server
}

type SupplierDraft struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
