package models

import "github.com/shopspring/decimal"

// Stock management payloads keep the PascalCase field names of the stock service.

type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

type Product struct {
	ProductID   int             `json:"ProductID"`
	ProductName string          `json:"ProductName"`
	SKU         string          `json:"SKU"`
	Description string          `json:"Description,omitempty"`
	UnitPrice   decimal.Decimal `json:"UnitPrice"`
	QTY         int             `json:"QTY"`
	WarehouseID *int            `json:"WarehouseID,omitempty"`
	Photo       string          `json:"Photo,omitempty"` // base64, opaque
	IsDeleted   bool            `json:"IsDeleted,omitempty"`
}

type ProductDraft struct {
	ProductName string          `json:"ProductName"`
	SKU         string          `json:"SKU"`
	Description string          `json:"Description,omitempty"`
	UnitPrice   decimal.Decimal `json:"UnitPrice"`
	QTY         int             `json:"QTY"`
	WarehouseID *int            `json:"WarehouseID,omitempty"`
	Photo       string          `json:"Photo,omitempty"`
}

type Warehouse struct {
	WarehouseID   int    `json:"WarehouseID"`
	WarehouseName string `json:"WarehouseName"`
	Location      string `json:"Location,omitempty"`
	IsDeleted     bool   `json:"IsDeleted,omitempty"`
}

type WarehouseDraft struct {
	WarehouseName string `json:"WarehouseName"`
	Location      string `json:"Location,omitempty"`
}

// InventoryTransaction is an append-only stock log entry.
type InventoryTransaction struct {
	TransactionID   int             `json:"TransactionID"`
	ProductID       int             `json:"ProductID"`
	WarehouseID     int             `json:"WarehouseID"`
	Quantity        int             `json:"Quantity"`
	TransactionType TransactionType `json:"TransactionType"`
	Remarks         string          `json:"Remarks,omitempty"`
	TransactionDate string          `json:"TransactionDate"`
	IsDeleted       bool            `json:"IsDeleted,omitempty"`
}

// StockMovement is the body of POST /inventory/transaction.
type StockMovement struct {
	ProductID       int             `json:"ProductID"`
	WarehouseID     int             `json:"WarehouseID"`
	Quantity        int             `json:"Quantity"`
	TransactionType TransactionType `json:"TransactionType"`
	Remarks         string          `json:"Remarks,omitempty"`
}

type InventoryStatus struct {
	ProductID     int    `json:"ProductID"`
	ProductName   string `json:"ProductName"`
	WarehouseID   int    `json:"WarehouseID"`
	WarehouseName string `json:"WarehouseName"`
	Quantity      int    `json:"Quantity"`
}
