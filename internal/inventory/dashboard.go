package inventory

import (
	"context"
	"time"

	"enku-backoffice/internal/models"

	"golang.org/x/sync/errgroup"
)

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Dashboard is the inventory landing page.
type Dashboard struct {
	TotalQuantity    int                      `json:"total_quantity"`
	LowStockCount    int                      `json:"low_stock_count"`
	UniqueProducts   int                      `json:"unique_products"`
	UniqueWarehouses int                      `json:"unique_warehouses"`
	Status           []models.InventoryStatus `json:"status"`
	LowStock         []models.InventoryStatus `json:"low_stock"`
}

// BuildDashboard derives the dashboard figures. Products and warehouses are
// counted by name, as they are displayed.
func BuildDashboard(status, low []models.InventoryStatus) Dashboard {
	d := Dashboard{Status: status, LowStock: low, LowStockCount: len(low)}
	products := map[string]struct{}{}
	warehouses := map[string]struct{}{}
	for _, s := range status {
		d.TotalQuantity += s.Quantity
		products[s.ProductName] = struct{}{}
		warehouses[s.WarehouseName] = struct{}{}
	}
	d.UniqueProducts = len(products)
	d.UniqueWarehouses = len(warehouses)
	return d
}

// Dashboard fetches status and low stock concurrently.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var status, low []models.InventoryStatus
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status, err = s.Status(gctx, 0, false)
		return err
	})
	g.Go(func() error {
		var err error
		low, err = s.LowStock(gctx, DefaultLowStockThreshold, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(status, low), nil
}
