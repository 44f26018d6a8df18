package inventory

import (
	"errors"
	"log"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/models"
	"enku-backoffice/internal/remote"
	"enku-backoffice/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

const (
	keyProducts     = "inventory.products"
	keyWarehouses   = "inventory.warehouses"
	keyTransactions = "inventory.transactions"
	keyFilter       = "inventory.transactions.filter"
)

// Register mounts the inventory screens under r.
func Register(r fiber.Router, svc *Service) {
	listing.Mount(r.Group("/products"), workspace.Provide(keyProducts,
		func() listing.Definition[models.Product, models.ProductDraft] { return ProductDefinition(svc.Products) }))

	listing.Mount(r.Group("/warehouses"), workspace.Provide(keyWarehouses,
		func() listing.Definition[models.Warehouse, models.WarehouseDraft] { return WarehouseDefinition(svc.Warehouses) }))

	// filter routes first so "filter" is not taken by the list routes
	r.Get("/transactions/filter", GetFilterHandler())
	r.Put("/transactions/filter", SetFilterHandler(svc))
	listing.Mount(r.Group("/transactions"), transactionsProvider(svc))

	r.Post("/movements", RecordMovementHandler(svc))
	r.Get("/status", StatusHandler(svc))
	r.Get("/lowstock", LowStockHandler(svc))
	r.Get("/dashboard", DashboardHandler(svc))
}

func filterState(w *workspace.Workspace) *FilterState {
	return workspace.Value(w, keyFilter, func() *FilterState { return &FilterState{} })
}

func transactionsProvider(svc *Service) listing.Provider[models.InventoryTransaction, struct{}] {
	return func(c *fiber.Ctx) (*listing.Controller[models.InventoryTransaction, struct{}], error) {
		w, err := workspace.FromCtx(c)
		if err != nil {
			return nil, err
		}
		filter := filterState(w)
		return workspace.Mount(w, keyTransactions, func() listing.Definition[models.InventoryTransaction, struct{}] {
			return TransactionDefinition(NewHistoryAccessor(svc.Transactions, filter))
		}), nil
	}
}

// GET /transactions/filter
func GetFilterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := workspace.FromCtx(c)
		if err != nil {
			return err
		}
		return c.JSON(filterState(w).Get())
	}
}

// PUT /transactions/filter reloads the history through the new filter.
func SetFilterHandler(svc *Service) fiber.Handler {
	provide := transactionsProvider(svc)
	return func(c *fiber.Ctx) error {
		var f TransactionFilter
		if err := c.BodyParser(&f); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid filter")
		}
		if err := f.Validate(); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		ctl, err := provide(c)
		if err != nil {
			return err
		}
		w, _ := workspace.FromCtx(c)
		filterState(w).Set(f)
		ctl.SetSearch("")

		if err := ctl.Load(c.UserContext()); err != nil {
			return c.Status(listing.StatusFor(err)).JSON(ctl.View())
		}
		return c.JSON(ctl.View())
	}
}

// POST /movements records an IN/OUT stock movement and refreshes the
// mounted product and transaction lists.
func RecordMovementHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.StockMovement
		if err := c.BodyParser(&m); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		w, err := workspace.FromCtx(c)
		if err != nil {
			return err
		}

		out, err := svc.RecordMovement(c.UserContext(), m)
		if err != nil {
			if listing.IsValidation(err) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return upstreamError("Failed to update inventory", err)
		}

		w.Record(c.UserContext(), listing.Mutation{
			Resource: "inventory transaction",
			Action:   listing.ActionCreate,
			ID:       m.ProductID,
			Draft:    m,
		})

		if ctl, ok := workspace.Lookup[models.InventoryTransaction, struct{}](w, keyTransactions); ok {
			_ = ctl.Load(c.UserContext())
		}
		if ctl, ok := workspace.Lookup[models.Product, models.ProductDraft](w, keyProducts); ok {
			_ = ctl.Load(c.UserContext())
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Inventory updated successfully!",
			"result":  out,
		})
	}
}

// GET /status?warehouseId=&includeDeleted=
func StatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Status(c.UserContext(), c.QueryInt("warehouseId"), c.QueryBool("includeDeleted"))
		if err != nil {
			return upstreamError("Failed to fetch inventory status", err)
		}
		return c.JSON(items)
	}
}

// GET /lowstock?threshold=10&warehouseId=
func LowStockHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.LowStock(c.UserContext(), c.QueryInt("threshold", DefaultLowStockThreshold), c.QueryInt("warehouseId"))
		if err != nil {
			return upstreamError("Failed to fetch low stock", err)
		}
		return c.JSON(items)
	}
}

// GET /dashboard
func DashboardHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Dashboard(c.UserContext())
		if err != nil {
			return upstreamError("Failed to fetch dashboard data", err)
		}
		return c.JSON(d)
	}
}

func upstreamError(prefix string, err error) error {
	var re *remote.Error
	if errors.As(err, &re) {
		if re.StatusCode == fiber.StatusNotFound {
			return fiber.NewError(fiber.StatusNotFound, prefix+": "+re.Message)
		}
		return fiber.NewError(fiber.StatusBadGateway, prefix+": "+re.Message)
	}
	log.Printf("[WARN] %s: %v", prefix, err)
	return fiber.NewError(fiber.StatusBadGateway, prefix)
}
